package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/diarycard/internal/db"
)

// WriteFaultUoW runs work in a real transaction but fails the FailAt-th write
// (1-based) with Err. Reads are not counted. Writes reports how many writes
// were attempted in the last transaction, including the failed one.
type WriteFaultUoW struct {
	DB     *sql.DB
	FailAt int32
	Err    error

	writes atomic.Int32
}

func (u *WriteFaultUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	u.writes.Store(0)
	if err := fn(ctx, &faultyTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (u *WriteFaultUoW) Writes() int {
	return int(u.writes.Load())
}

type faultyTx struct {
	db.DBTX
	uow *WriteFaultUoW
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.writes.Add(1) == f.uow.FailAt {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
