package repository

import "context"

// CreditLedger is the User/Billing collaborator's credit interface. The
// conversation core never touches it; the application layer charges one
// deduction per successfully completed conversation turn.
//
// Implementations must serialize the read-modify-write of a user's balance.
type CreditLedger interface {
	// Balance returns the user's current credit balance.
	Balance(ctx context.Context, userID string) (int64, error)

	// Grant adds credits and records a ledger entry (welcome grants, top-ups).
	Grant(ctx context.Context, userID string, amount int64, reason string) error

	// Deduct subtracts amount and returns the remaining balance. Returns
	// domain.ErrInsufficientCredits without mutating the balance when the
	// user cannot afford the charge.
	Deduct(ctx context.Context, userID string, amount int64) (remaining int64, err error)
}
