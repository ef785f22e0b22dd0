package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const (
	inviteColumns = `id, intent_id, token, expires_at, status, created_at`

	constraintInviteIntentID = "uq_invites_intent_id"
	constraintInviteToken    = "uq_invites_token"
)

type inviteRepositoryImpl struct {
	db *database.DB
}

// NewInviteRepository creates a new invite repository instance
func NewInviteRepository(db *database.DB) invite.InviteRepository {
	return &inviteRepositoryImpl{db: db}
}

// Create implements invite.InviteRepository.
func (r *inviteRepositoryImpl) Create(ctx context.Context, params invite.CreateParams) (invite.Invite, error) {
	if !isUUID(params.IntentID) {
		return invite.Invite{}, intent.ErrIntentNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invites (intent_id, token, expires_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + inviteColumns

	created, err := scanInvite(q.QueryRow(ctx, query,
		params.IntentID, params.Token, params.ExpiresAt, invite.StatusPending,
	))
	if err != nil {
		if name, ok := violatedConstraint(err, codeUniqueViolation); ok {
			switch name {
			case constraintInviteIntentID:
				return invite.Invite{}, invite.ErrInviteAlreadyExists
			case constraintInviteToken:
				return invite.Invite{}, invite.ErrTokenConflict
			}
		}
		if _, ok := violatedConstraint(err, codeForeignKeyViolation); ok {
			return invite.Invite{}, intent.ErrIntentNotFound
		}
		return invite.Invite{}, fmt.Errorf("failed to create invite: %w", err)
	}

	return created, nil
}

// GetByToken implements invite.InviteRepository.
func (r *inviteRepositoryImpl) GetByToken(ctx context.Context, token string) (invite.Invite, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + inviteColumns + ` FROM invites WHERE token = $1`

	found, err := scanInvite(q.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invite.Invite{}, invite.ErrInviteNotFound
		}
		return invite.Invite{}, fmt.Errorf("failed to get invite by token: %w", err)
	}

	return found, nil
}

// GetByIntentID implements invite.InviteRepository.
func (r *inviteRepositoryImpl) GetByIntentID(ctx context.Context, intentID string) (invite.Invite, error) {
	if !isUUID(intentID) {
		return invite.Invite{}, invite.ErrInviteNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + inviteColumns + ` FROM invites WHERE intent_id = $1`

	found, err := scanInvite(q.QueryRow(ctx, query, intentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invite.Invite{}, invite.ErrInviteNotFound
		}
		return invite.Invite{}, fmt.Errorf("failed to get invite by intent id: %w", err)
	}

	return found, nil
}

// UpdateStatus implements invite.InviteRepository.
func (r *inviteRepositoryImpl) UpdateStatus(ctx context.Context, id string, status invite.Status) (invite.Invite, error) {
	if !isUUID(id) {
		return invite.Invite{}, invite.ErrInviteNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invites SET status = $2
		WHERE id = $1
		RETURNING ` + inviteColumns

	updated, err := scanInvite(q.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invite.Invite{}, invite.ErrInviteNotFound
		}
		return invite.Invite{}, fmt.Errorf("failed to update invite status: %w", err)
	}

	return updated, nil
}

// MarkUsed implements invite.InviteRepository.
func (r *inviteRepositoryImpl) MarkUsed(ctx context.Context, id string, now time.Time) (invite.Invite, error) {
	if !isUUID(id) {
		return invite.Invite{}, invite.ErrInviteNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invites SET status = 'USED'
		WHERE id = $1 AND status = 'PENDING' AND expires_at >= $2
		RETURNING ` + inviteColumns

	updated, err := scanInvite(q.QueryRow(ctx, query, id, now))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return invite.Invite{}, fmt.Errorf("failed to mark invite used: %w", err)
	}
	return invite.Invite{}, notRedeemable(ctx, q, id)
}

// Expire implements invite.InviteRepository.
func (r *inviteRepositoryImpl) Expire(ctx context.Context, id string, now time.Time) (invite.Invite, error) {
	if !isUUID(id) {
		return invite.Invite{}, invite.ErrInviteNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invites SET status = 'EXPIRED'
		WHERE id = $1 AND status = 'PENDING' AND expires_at < $2
		RETURNING ` + inviteColumns

	updated, err := scanInvite(q.QueryRow(ctx, query, id, now))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return invite.Invite{}, fmt.Errorf("failed to expire invite: %w", err)
	}
	return invite.Invite{}, notRedeemable(ctx, q, id)
}

// notRedeemable explains a conditional update that matched no row
func notRedeemable(ctx context.Context, q database.Querier, id string) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invites WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check invite: %w", err)
	}
	if exists {
		return invite.ErrInviteNotRedeemable
	}
	return invite.ErrInviteNotFound
}

// ExpireOverdue implements invite.InviteRepository.
func (r *inviteRepositoryImpl) ExpireOverdue(ctx context.Context, now time.Time) ([]invite.Invite, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH expired AS (
			UPDATE invites SET status = 'EXPIRED'
			WHERE status = 'PENDING' AND expires_at < $1
			RETURNING ` + inviteColumns + `
		)
		SELECT ` + inviteColumns + ` FROM expired
		ORDER BY expires_at ASC`

	rows, err := q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire overdue invites: %w", err)
	}
	defer rows.Close()

	var expired []invite.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		expired = append(expired, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invites: %w", err)
	}

	return expired, nil
}

func scanInvite(row pgx.Row) (invite.Invite, error) {
	var inv invite.Invite
	err := row.Scan(&inv.ID, &inv.IntentID, &inv.Token, &inv.ExpiresAt, &inv.Status, &inv.CreatedAt)
	return inv, err
}
