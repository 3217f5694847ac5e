// Package tx carries an open database transaction through context so that
// stores called inside RunInTx share it without widening their signatures.
package tx

import (
	"context"

	"github.com/uptrace/bun"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a bun transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx bun.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a bun transaction from context if present.
func From(ctx context.Context) (bun.Tx, bool) {
	tx, ok := ctx.Value(txKey).(bun.Tx)
	return tx, ok
}

// DB returns the transaction in ctx when there is one, otherwise db.
func DB(ctx context.Context, db bun.IDB) bun.IDB {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}
