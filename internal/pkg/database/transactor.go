package database

import "context"

// Transactor runs fn as one unit of work. Repositories called with the ctx handed
// to fn take part in the same transaction; fn's error rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
