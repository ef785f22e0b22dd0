// Package tx defines the unit-of-work capability use cases rely on.
package tx

import "context"

// Manager runs fn inside a single transaction. Repositories called with the
// context passed to fn take part in that transaction. A non-nil error from fn
// rolls back every write made through it.
type Manager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
