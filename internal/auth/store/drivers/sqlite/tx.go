package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/lectern/internal/auth/store"
)

// errNestedTx is returned when a caller tries to open a transaction from
// inside one. Invite consumption and provisioning each fit in one tx.
var errNestedTx = errors.New("sqlite: nested transactions are not supported")

// txStore exposes the repositories bound to a single *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

var _ store.Tx = (*txStore)(nil)

func newTx(tx *sql.Tx) *txStore { return &txStore{tx: tx} }

func (s *txStore) Users() store.Users     { return &usersRepo{db: s.tx} }
func (s *txStore) Courses() store.Courses { return &coursesRepo{db: s.tx} }
func (s *txStore) Invites() store.Invites { return &invitesRepo{db: s.tx} }

func (s *txStore) Commit() error   { return s.tx.Commit() }
func (s *txStore) Rollback() error { return s.tx.Rollback() }

func (s *txStore) Tx(context.Context) (store.Tx, error) { return nil, errNestedTx }

func (s *txStore) WithTx(context.Context, func(store.Tx) error) error { return errNestedTx }

// The remaining methods satisfy store.Store; the owning Store handles them.

func (s *txStore) Ping(context.Context) error { return nil }
func (s *txStore) Close() error               { return nil }
func (s *txStore) ApplyMigrations() error     { return nil }
