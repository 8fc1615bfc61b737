package dto

import "github.com/internbridge/trustguard/internal/enum"

// Event is the envelope published to RabbitMQ for every trust & safety event.
type Event struct {
	Event    EventDetails  `json:"event"`
	Metadata EventMetadata `json:"metadata"`
}

type EventDetails struct {
	Id        string         `json:"id"`
	EntityId  string         `json:"entityId"`
	EventType enum.EventType `json:"eventType"`
	Data      interface{}    `json:"data"`
}

type EventMetadata struct {
	UberTraceId string `json:"uberTraceId"`
	Timestamp   string `json:"timestamp"`
}

// EmployerSuspended is published when the abuse aggregator suspends a company.
type EmployerSuspended struct {
	CompanyID   string `json:"companyId"`
	Reason      string `json:"reason"`
	ReportCount int    `json:"reportCount"`
}

// EscrowReleased is published after a held escrow transaction is paid out.
type EscrowReleased struct {
	TransactionID string `json:"transactionId"`
	CompanyID     string `json:"companyId"`
	StudentID     string `json:"studentId"`
	Amount        int64  `json:"amount"`
}

// ListingFlagged is published when a listing evaluation recommends review or reject.
type ListingFlagged struct {
	CompanyID      string   `json:"companyId"`
	Title          string   `json:"title"`
	RiskScore      int      `json:"riskScore"`
	Flags          []string `json:"flags"`
	Recommendation string   `json:"recommendation"`
}
