package memory

import (
	"context"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/member"
	"github.com/google/uuid"
)

type memberRepository struct {
	store *Store
}

func NewMemberRepository(store *Store) member.MemberRepository {
	return &memberRepository{store: store}
}

func (r *memberRepository) Create(ctx context.Context, params member.CreateParams) (member.Member, error) {
	var created member.Member
	err := r.store.write(ctx, func() error {
		s := r.store
		if _, ok := s.byEmail[params.Email]; ok {
			return member.ErrMemberEmailExists
		}

		now := s.now()
		created = member.Member{
			ID:           uuid.NewString(),
			Name:         params.Name,
			Email:        params.Email,
			Phone:        params.Phone,
			PasswordHash: params.PasswordHash,
			Role:         params.Role,
			Status:       params.Status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		s.members[created.ID] = created
		s.byEmail[created.Email] = created.ID
		return nil
	})
	return created, err
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (member.Member, error) {
	var (
		found member.Member
		ok    bool
	)
	r.store.read(func() {
		found, ok = r.store.members[id]
	})
	if !ok {
		return member.Member{}, member.ErrMemberNotFound
	}
	return found, nil
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (member.Member, error) {
	var (
		found member.Member
		ok    bool
	)
	r.store.read(func() {
		var id string
		if id, ok = r.store.byEmail[email]; ok {
			found = r.store.members[id]
		}
	})
	if !ok {
		return member.Member{}, member.ErrMemberNotFound
	}
	return found, nil
}
