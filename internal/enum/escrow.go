package enum

type EscrowStatus string

const (
	EscrowStatusPending  EscrowStatus = "pending"
	EscrowStatusHeld     EscrowStatus = "held"
	EscrowStatusReleased EscrowStatus = "released"
	EscrowStatusFailed   EscrowStatus = "failed"
)

func (t EscrowStatus) String() string {
	return string(t)
}

// CanTransitionTo enforces the forward-only escrow state machine:
// pending -> held -> released, with failed terminal from pending.
func (t EscrowStatus) CanTransitionTo(next EscrowStatus) bool {
	switch t {
	case EscrowStatusPending:
		return next == EscrowStatusHeld || next == EscrowStatusFailed
	case EscrowStatusHeld:
		return next == EscrowStatusReleased
	default:
		return false
	}
}
