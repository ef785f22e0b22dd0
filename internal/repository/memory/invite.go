package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/google/uuid"
)

type inviteRepository struct {
	store *Store
}

func NewInviteRepository(store *Store) invite.InviteRepository {
	return &inviteRepository{store: store}
}

func (r *inviteRepository) Create(ctx context.Context, params invite.CreateParams) (invite.Invite, error) {
	var created invite.Invite
	err := r.store.write(ctx, func() error {
		s := r.store
		if _, ok := s.intents[params.IntentID]; !ok {
			return intent.ErrIntentNotFound
		}
		if _, ok := s.byIntent[params.IntentID]; ok {
			return invite.ErrInviteAlreadyExists
		}
		if _, ok := s.byToken[params.Token]; ok {
			return invite.ErrTokenConflict
		}

		created = invite.Invite{
			ID:        uuid.NewString(),
			IntentID:  params.IntentID,
			Token:     params.Token,
			ExpiresAt: params.ExpiresAt,
			Status:    invite.StatusPending,
			CreatedAt: s.now(),
		}
		s.invites[created.ID] = created
		s.byIntent[created.IntentID] = created.ID
		s.byToken[created.Token] = created.ID
		return nil
	})
	return created, err
}

func (r *inviteRepository) GetByToken(ctx context.Context, token string) (invite.Invite, error) {
	return r.lookup(func() (string, bool) {
		id, ok := r.store.byToken[token]
		return id, ok
	})
}

func (r *inviteRepository) GetByIntentID(ctx context.Context, intentID string) (invite.Invite, error) {
	return r.lookup(func() (string, bool) {
		id, ok := r.store.byIntent[intentID]
		return id, ok
	})
}

func (r *inviteRepository) lookup(index func() (string, bool)) (invite.Invite, error) {
	var (
		found invite.Invite
		ok    bool
	)
	r.store.read(func() {
		var id string
		if id, ok = index(); ok {
			found = r.store.invites[id]
		}
	})
	if !ok {
		return invite.Invite{}, invite.ErrInviteNotFound
	}
	return found, nil
}

func (r *inviteRepository) UpdateStatus(ctx context.Context, id string, status invite.Status) (invite.Invite, error) {
	var updated invite.Invite
	err := r.store.write(ctx, func() error {
		inv, ok := r.store.invites[id]
		if !ok {
			return invite.ErrInviteNotFound
		}
		inv.Status = status
		r.store.invites[id] = inv
		updated = inv
		return nil
	})
	return updated, err
}

func (r *inviteRepository) Expire(ctx context.Context, id string, now time.Time) (invite.Invite, error) {
	var updated invite.Invite
	err := r.store.write(ctx, func() error {
		inv, ok := r.store.invites[id]
		if !ok {
			return invite.ErrInviteNotFound
		}
		if inv.Status != invite.StatusPending || !now.After(inv.ExpiresAt) {
			return invite.ErrInviteNotRedeemable
		}
		inv.Status = invite.StatusExpired
		r.store.invites[id] = inv
		updated = inv
		return nil
	})
	return updated, err
}

func (r *inviteRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]invite.Invite, error) {
	var expired []invite.Invite
	err := r.store.write(ctx, func() error {
		for id, inv := range r.store.invites {
			if inv.Status != invite.StatusPending || !now.After(inv.ExpiresAt) {
				continue
			}
			inv.Status = invite.StatusExpired
			r.store.invites[id] = inv
			expired = append(expired, inv)
		}
		return nil
	})
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})
	return expired, err
}

func (r *inviteRepository) MarkUsed(ctx context.Context, id string, now time.Time) (invite.Invite, error) {
	var updated invite.Invite
	err := r.store.write(ctx, func() error {
		inv, ok := r.store.invites[id]
		if !ok {
			return invite.ErrInviteNotFound
		}
		if inv.Status != invite.StatusPending || now.After(inv.ExpiresAt) {
			return invite.ErrInviteNotRedeemable
		}
		inv.Status = invite.StatusUsed
		r.store.invites[id] = inv
		updated = inv
		return nil
	})
	return updated, err
}
