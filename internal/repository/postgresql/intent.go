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
	intentColumns = `i.id, i.full_name, i.email, i.phone, i.notes, i.status, i.created_at, i.reviewed_at, i.reviewed_by`

	intentWithInviteColumns = intentColumns + `, v.id, v.token, v.expires_at, v.status, v.created_at`

	constraintIntentOpenEmail = "uq_intents_open_email"
)

type intentRepositoryImpl struct {
	db *database.DB
}

// NewIntentRepository creates a new intent repository instance
func NewIntentRepository(db *database.DB) intent.IntentRepository {
	return &intentRepositoryImpl{db: db}
}

// Create implements intent.IntentRepository.
func (r *intentRepositoryImpl) Create(ctx context.Context, params intent.CreateParams) (intent.Intent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO intents AS i (full_name, email, phone, notes, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + intentColumns

	created, err := scanIntent(q.QueryRow(ctx, query,
		params.FullName, params.Email, params.Phone, params.Notes, intent.StatusPending,
	))
	if err != nil {
		if name, ok := violatedConstraint(err, codeUniqueViolation); ok && name == constraintIntentOpenEmail {
			return intent.Intent{}, intent.ErrIntentEmailExists
		}
		return intent.Intent{}, fmt.Errorf("failed to create intent: %w", err)
	}

	return created, nil
}

// GetByID implements intent.IntentRepository.
func (r *intentRepositoryImpl) GetByID(ctx context.Context, id string) (intent.Intent, error) {
	if !isUUID(id) {
		return intent.Intent{}, intent.ErrIntentNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + intentWithInviteColumns + `
		FROM intents i
		LEFT JOIN invites v ON v.intent_id = i.id
		WHERE i.id = $1
	`

	found, err := scanIntentWithInvite(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return intent.Intent{}, intent.ErrIntentNotFound
		}
		return intent.Intent{}, fmt.Errorf("failed to get intent by id: %w", err)
	}

	return found, nil
}

// GetLatestByEmail implements intent.IntentRepository.
func (r *intentRepositoryImpl) GetLatestByEmail(ctx context.Context, email string) (intent.Intent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + intentColumns + `
		FROM intents i
		WHERE i.email = $1
		ORDER BY i.created_at DESC
		LIMIT 1
	`

	found, err := scanIntent(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return intent.Intent{}, intent.ErrIntentNotFound
		}
		return intent.Intent{}, fmt.Errorf("failed to get intent by email: %w", err)
	}

	return found, nil
}

// List implements intent.IntentRepository.
func (r *intentRepositoryImpl) List(ctx context.Context, filter intent.ListFilter) ([]intent.Intent, int64, error) {
	q := GetQuerier(ctx, r.db)

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM intents WHERE ($1::text IS NULL OR status = $1)`
	if err := q.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count intents: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `
		SELECT ` + intentWithInviteColumns + `
		FROM intents i
		LEFT JOIN invites v ON v.intent_id = i.id
		WHERE ($1::text IS NULL OR i.status = $1)
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, status, filter.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list intents: %w", err)
	}
	defer rows.Close()

	items := make([]intent.Intent, 0, filter.PageSize)
	for rows.Next() {
		item, err := scanIntentWithInvite(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan intent: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate intents: %w", err)
	}

	return items, total, nil
}

// UpdateStatus implements intent.IntentRepository.
func (r *intentRepositoryImpl) UpdateStatus(ctx context.Context, params intent.UpdateStatusParams) (intent.Intent, error) {
	if !isUUID(params.ID) {
		return intent.Intent{}, intent.ErrIntentNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE intents AS i
		SET status = $2, reviewed_by = $3, reviewed_at = $4
		WHERE i.id = $1 AND i.status = 'PENDING'
		RETURNING ` + intentColumns

	updated, err := scanIntent(q.QueryRow(ctx, query,
		params.ID, params.Status, params.ReviewedBy, params.ReviewedAt,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return intent.Intent{}, fmt.Errorf("failed to update intent status: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM intents WHERE id = $1)`, params.ID).Scan(&exists); err != nil {
		return intent.Intent{}, fmt.Errorf("failed to check intent: %w", err)
	}
	if exists {
		return intent.Intent{}, intent.ErrIntentAlreadyReviewed
	}
	return intent.Intent{}, intent.ErrIntentNotFound
}

func scanIntent(row pgx.Row) (intent.Intent, error) {
	var i intent.Intent
	err := row.Scan(
		&i.ID, &i.FullName, &i.Email, &i.Phone, &i.Notes,
		&i.Status, &i.CreatedAt, &i.ReviewedAt, &i.ReviewedBy,
	)
	return i, err
}

func scanIntentWithInvite(row pgx.Row) (intent.Intent, error) {
	var (
		i               intent.Intent
		inviteID        *string
		inviteToken     *string
		inviteExpiresAt *time.Time
		inviteStatus    *string
		inviteCreatedAt *time.Time
	)
	err := row.Scan(
		&i.ID, &i.FullName, &i.Email, &i.Phone, &i.Notes,
		&i.Status, &i.CreatedAt, &i.ReviewedAt, &i.ReviewedBy,
		&inviteID, &inviteToken, &inviteExpiresAt, &inviteStatus, &inviteCreatedAt,
	)
	if err != nil {
		return intent.Intent{}, err
	}

	if inviteID != nil {
		i.Invite = &invite.Invite{
			ID:        *inviteID,
			IntentID:  i.ID,
			Token:     *inviteToken,
			ExpiresAt: *inviteExpiresAt,
			Status:    invite.Status(*inviteStatus),
			CreatedAt: *inviteCreatedAt,
		}
	}
	return i, nil
}
