package aggregates

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/platform/dbctx"
)

// TxRunner opens the transaction a multi-row write shares across repos.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type TxOption func(*sql.TxOptions)

// WithIsolation raises the isolation level. Postgres reports conflicting XP updates
// under repeatable read as 40001, which ExecuteWrite retries.
func WithIsolation(level sql.IsolationLevel) TxOption {
	return func(o *sql.TxOptions) { o.Isolation = level }
}

type gormTxRunner struct {
	db   *gorm.DB
	opts *sql.TxOptions
}

func NewGormTxRunner(db *gorm.DB, opts ...TxOption) TxRunner {
	r := &gormTxRunner{db: db}
	if len(opts) > 0 {
		r.opts = &sql.TxOptions{}
		for _, opt := range opts {
			opt(r.opts)
		}
	}
	return r
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	switch {
	case fn == nil:
		return nil
	case r == nil || r.db == nil:
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database for transaction", nil)
	}
	var txOpts []*sql.TxOptions
	if r.opts != nil {
		txOpts = append(txOpts, r.opts)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	}, txOpts...)
}
