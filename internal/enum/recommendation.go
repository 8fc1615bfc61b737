package enum

type Recommendation string

const (
	RecommendationApprove Recommendation = "approve"
	RecommendationReview  Recommendation = "review"
	RecommendationReject  Recommendation = "reject"
)

func (t Recommendation) String() string {
	return string(t)
}

type PaymentStatus string

const (
	PaymentOnTime  PaymentStatus = "on_time"
	PaymentLate    PaymentStatus = "late"
	PaymentMissed  PaymentStatus = "missed"
	PaymentPending PaymentStatus = "pending"
)

func (t PaymentStatus) String() string {
	return string(t)
}

type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "submitted"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationRejected    ApplicationStatus = "rejected"
)

func (t ApplicationStatus) String() string {
	return string(t)
}

type EventType string

const (
	EventEmployerSuspended EventType = "EMPLOYER_SUSPENDED"
	EventEscrowReleased    EventType = "ESCROW_RELEASED"
	EventListingFlagged    EventType = "LISTING_FLAGGED"
)

func (t EventType) String() string {
	return string(t)
}
