package credential

import "context"

// Repository persists records. Every method is scoped by owner; there is no
// way to reach a record without naming its owner.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	// UpdateOwned rewrites the record matching both rec.ID and rec.OwnerID
	// and reports how many rows matched (0 or 1).
	UpdateOwned(ctx context.Context, rec Record) (int64, error)
}

// Sealer protects site secrets at rest. Sealed values are bound to their
// owner and do not open under another owner id.
type Sealer interface {
	Seal(ownerID int64, plaintext string) (string, error)
	Open(ownerID int64, sealed string) (string, error)
}
