package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Escrow auto release sweep, every hour
	CronScheduleEscrowAutoRelease string `env:"CRON_SCHEDULE_ESCROW_AUTO_RELEASE" envDefault:"0 0 * * * *"`
	// Trust score recompute, daily at 2am
	CronScheduleTrustScoreRecompute string `env:"CRON_SCHEDULE_TRUST_SCORE_RECOMPUTE" envDefault:"0 0 2 * * *"`
}
