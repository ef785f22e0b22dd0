// Package memory provides mutex-guarded in-memory repositories. It backs
// STORAGE_TYPE=memory for local runs and the service and handler tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/tx"
)

// Store holds the rows of every repository in this package. Writes are
// serialized through writeMu, which a transaction holds until it finishes.
type Store struct {
	writeMu sync.Mutex

	mu       sync.RWMutex
	seq      int64
	intents  map[string]intentRow
	invites  map[string]invite.Invite
	byIntent map[string]string // intent id -> invite id
	byToken  map[string]string // token -> invite id
	members  map[string]member.Member
	byEmail  map[string]string // exact email -> member id
	now      func() time.Time
}

type intentRow struct {
	intent.Intent
	seq int64
}

type snapshot struct {
	seq      int64
	intents  map[string]intentRow
	invites  map[string]invite.Invite
	byIntent map[string]string
	byToken  map[string]string
	members  map[string]member.Member
	byEmail  map[string]string
}

func NewStore() *Store {
	return &Store{
		intents:  make(map[string]intentRow),
		invites:  make(map[string]invite.Invite),
		byIntent: make(map[string]string),
		byToken:  make(map[string]string),
		members:  make(map[string]member.Member),
		byEmail:  make(map[string]string),
		now:      time.Now,
	}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// write runs fn with exclusive access. Outside a transaction it also takes
// writeMu so the write cannot interleave with a running transaction.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if !s.inTx(ctx) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		seq:      s.seq,
		intents:  maps.Clone(s.intents),
		invites:  maps.Clone(s.invites),
		byIntent: maps.Clone(s.byIntent),
		byToken:  maps.Clone(s.byToken),
		members:  maps.Clone(s.members),
		byEmail:  maps.Clone(s.byEmail),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.intents = snap.intents
	s.invites = snap.invites
	s.byIntent = snap.byIntent
	s.byToken = snap.byToken
	s.members = snap.members
	s.byEmail = snap.byEmail
}

type transactor struct {
	store *Store
}

// NewTransactor returns a tx.Manager that rolls the store back to its state
// at the start of the transaction when fn fails or panics.
func NewTransactor(store *Store) tx.Manager {
	return &transactor{store: store}
}

// WithinTransaction implements tx.Manager. A nested call joins the outer transaction.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s := t.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.restore(snap)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}
