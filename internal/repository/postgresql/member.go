package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const (
	memberColumns = `id, name, email, phone, password_hash, role, status, created_at, updated_at`

	constraintMemberEmail = "uq_members_email"
)

type memberRepositoryImpl struct {
	db *database.DB
}

// NewMemberRepository creates a new member repository instance
func NewMemberRepository(db *database.DB) member.MemberRepository {
	return &memberRepositoryImpl{db: db}
}

// Create implements member.MemberRepository.
func (r *memberRepositoryImpl) Create(ctx context.Context, params member.CreateParams) (member.Member, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO members (name, email, phone, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + memberColumns

	created, err := scanMember(q.QueryRow(ctx, query,
		params.Name, params.Email, params.Phone, params.PasswordHash, params.Role, params.Status,
	))
	if err != nil {
		if name, ok := violatedConstraint(err, codeUniqueViolation); ok && name == constraintMemberEmail {
			return member.Member{}, member.ErrMemberEmailExists
		}
		return member.Member{}, fmt.Errorf("failed to create member: %w", err)
	}

	return created, nil
}

// GetByID implements member.MemberRepository.
func (r *memberRepositoryImpl) GetByID(ctx context.Context, id string) (member.Member, error) {
	if !isUUID(id) {
		return member.Member{}, member.ErrMemberNotFound
	}

	q := GetQuerier(ctx, r.db)

	found, err := scanMember(q.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return member.Member{}, member.ErrMemberNotFound
		}
		return member.Member{}, fmt.Errorf("failed to get member by id: %w", err)
	}

	return found, nil
}

// GetByEmail implements member.MemberRepository.
func (r *memberRepositoryImpl) GetByEmail(ctx context.Context, email string) (member.Member, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanMember(q.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return member.Member{}, member.ErrMemberNotFound
		}
		return member.Member{}, fmt.Errorf("failed to get member by email: %w", err)
	}

	return found, nil
}

func scanMember(row pgx.Row) (member.Member, error) {
	var m member.Member
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.PasswordHash,
		&m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}
