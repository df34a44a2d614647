package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpsert = errors.New("upsert progress failed")

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	errDriver := errors.New("driver gone")

	tests := []struct {
		name    string
		expect  func(mock sqlmock.Sqlmock)
		fn      TxFn
		wantErr error
		check   func(t *testing.T, err error)
	}{
		{
			name: "commits after fn succeeds",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE sessions").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "UPDATE sessions SET xp = xp + 10")
				return err
			},
		},
		{
			name: "rolls back and returns fn error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:      func(context.Context, *sql.Tx) error { return errUpsert },
			wantErr: errUpsert,
			check: func(t *testing.T, err error) {
				assert.Equal(t, errUpsert, err, "fn error is returned unwrapped")
			},
		},
		{
			name: "begin failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errDriver)
			},
			fn:      func(context.Context, *sql.Tx) error { return nil },
			wantErr: errDriver,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to begin transaction")
			},
		},
		{
			name: "commit failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errDriver)
			},
			fn:      func(context.Context, *sql.Tx) error { return nil },
			wantErr: errDriver,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to commit transaction")
			},
		},
		{
			name: "rollback failure keeps the fn error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errDriver)
			},
			fn:      func(context.Context, *sql.Tx) error { return errUpsert },
			wantErr: errUpsert,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "error rolling back transaction")
				assert.Contains(t, err.Error(), errDriver.Error())
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tc.expect(mock)
			err = RunInTransaction(context.Background(), db, tc.fn)

			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.check != nil {
				tc.check(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_PanicRollsBack(t *testing.T) {
	t.Parallel()

	for _, rollbackErr := range []error{nil, errors.New("rollback refused")} {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(rollbackErr)

		assert.PanicsWithValue(t, "deck insert exploded", func() {
			_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
				panic("deck insert exploded")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	}
}

// fakeTx records how a transaction ended.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit() error   { f.committed = true; return nil }
func (f *fakeTx) Rollback() error { f.rolledBack = true; return nil }

func TestRunInTx_Generic(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	begin := func(context.Context) (*fakeTx, error) { return tx, nil }

	var seen *fakeTx
	err := RunInTx(context.Background(), begin, func(_ context.Context, got *fakeTx) error {
		seen = got
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, tx, seen)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)

	tx = &fakeTx{}
	err = RunInTx(context.Background(), begin, func(context.Context, *fakeTx) error { return errUpsert })
	assert.ErrorIs(t, err, errUpsert)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}
