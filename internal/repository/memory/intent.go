package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/google/uuid"
)

type intentRepository struct {
	store *Store
}

func NewIntentRepository(store *Store) intent.IntentRepository {
	return &intentRepository{store: store}
}

func (r *intentRepository) Create(ctx context.Context, params intent.CreateParams) (intent.Intent, error) {
	var created intent.Intent
	err := r.store.write(ctx, func() error {
		s := r.store
		for _, row := range s.intents {
			if row.Email == params.Email && !row.IsRejected() {
				return intent.ErrIntentEmailExists
			}
		}

		s.seq++
		created = intent.Intent{
			ID:        uuid.NewString(),
			FullName:  params.FullName,
			Email:     params.Email,
			Phone:     params.Phone,
			Notes:     params.Notes,
			Status:    intent.StatusPending,
			CreatedAt: s.now(),
		}
		s.intents[created.ID] = intentRow{Intent: created, seq: s.seq}
		return nil
	})
	return created, err
}

func (r *intentRepository) GetByID(ctx context.Context, id string) (intent.Intent, error) {
	var (
		found intent.Intent
		ok    bool
	)
	r.store.read(func() {
		var row intentRow
		row, ok = r.store.intents[id]
		if ok {
			found = r.withInvite(row.Intent)
		}
	})
	if !ok {
		return intent.Intent{}, intent.ErrIntentNotFound
	}
	return found, nil
}

func (r *intentRepository) GetLatestByEmail(ctx context.Context, email string) (intent.Intent, error) {
	var (
		latest intentRow
		ok     bool
	)
	r.store.read(func() {
		for _, row := range r.store.intents {
			if row.Email != email {
				continue
			}
			if !ok || newer(row, latest) {
				latest, ok = row, true
			}
		}
	})
	if !ok {
		return intent.Intent{}, intent.ErrIntentNotFound
	}
	return latest.Intent, nil
}

func (r *intentRepository) List(ctx context.Context, filter intent.ListFilter) ([]intent.Intent, int64, error) {
	var items []intent.Intent
	var total int64

	r.store.read(func() {
		rows := make([]intentRow, 0, len(r.store.intents))
		for _, row := range r.store.intents {
			if filter.Status != nil && row.Status != *filter.Status {
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool { return newer(rows[i], rows[j]) })

		total = int64(len(rows))
		start := (filter.Page - 1) * filter.PageSize
		if start < 0 || start >= len(rows) {
			items = []intent.Intent{}
			return
		}
		end := min(start+filter.PageSize, len(rows))

		items = make([]intent.Intent, 0, end-start)
		for _, row := range rows[start:end] {
			items = append(items, r.withInvite(row.Intent))
		}
	})

	return items, total, nil
}

func (r *intentRepository) UpdateStatus(ctx context.Context, params intent.UpdateStatusParams) (intent.Intent, error) {
	var updated intent.Intent
	err := r.store.write(ctx, func() error {
		row, ok := r.store.intents[params.ID]
		if !ok {
			return intent.ErrIntentNotFound
		}
		if !row.IsPending() {
			return intent.ErrIntentAlreadyReviewed
		}

		reviewedAt := params.ReviewedAt
		reviewedBy := params.ReviewedBy
		row.Status = params.Status
		row.ReviewedAt = &reviewedAt
		row.ReviewedBy = &reviewedBy
		r.store.intents[params.ID] = row

		updated = row.Intent
		return nil
	})
	return updated, err
}

// withInvite must be called with the store lock held
func (r *intentRepository) withInvite(i intent.Intent) intent.Intent {
	if inviteID, ok := r.store.byIntent[i.ID]; ok {
		inv := r.store.invites[inviteID]
		i.Invite = &invite.Invite{
			ID:        inv.ID,
			IntentID:  inv.IntentID,
			Token:     inv.Token,
			ExpiresAt: inv.ExpiresAt,
			Status:    inv.Status,
			CreatedAt: inv.CreatedAt,
		}
	}
	return i
}

func newer(a, b intentRow) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.seq > b.seq
}
