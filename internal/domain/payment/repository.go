package payment

import "context"

type Repository interface {
	Create(ctx context.Context, intent *Intent) (*Intent, error)
	GetByMerchantTxnID(ctx context.Context, merchantTxnID string) (*Intent, error)

	// MarkSuccess transitions PENDING -> SUCCESS and records the
	// gateway's transaction id. The update is conditional on the
	// current status; a lost race returns ErrAlreadyFinalized.
	MarkSuccess(ctx context.Context, merchantTxnID, gatewayTxnID string) error

	// MarkFailed transitions PENDING -> FAILED with a structured
	// reason, under the same compare-and-set rule.
	MarkFailed(ctx context.Context, merchantTxnID string, reason FailureReason) error
}
