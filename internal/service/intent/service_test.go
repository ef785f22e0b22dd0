package intent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/membership-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

type spyIntentRepo struct {
	intent.IntentRepository
	updateCalls int
	lastFilter  *intent.ListFilter
}

func (s *spyIntentRepo) UpdateStatus(ctx context.Context, params intent.UpdateStatusParams) (intent.Intent, error) {
	s.updateCalls++
	return s.IntentRepository.UpdateStatus(ctx, params)
}

func (s *spyIntentRepo) List(ctx context.Context, filter intent.ListFilter) ([]intent.Intent, int64, error) {
	s.lastFilter = &filter
	return s.IntentRepository.List(ctx, filter)
}

type failingInviteRepo struct {
	invite.InviteRepository
	err error
}

func (f *failingInviteRepo) Create(ctx context.Context, params invite.CreateParams) (invite.Invite, error) {
	return invite.Invite{}, f.err
}

type sequenceTokens struct {
	n int
}

func (g *sequenceTokens) Generate() (string, error) {
	g.n++
	return fmt.Sprintf("token-%02d", g.n), nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.InviteMessage
	err  error
}

func (m *recordingMailer) SendInvite(ctx context.Context, msg email.InviteMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type recordingPublisher struct {
	subjects []string
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc       intent.IntentService
	intents   *spyIntentRepo
	invites   invite.InviteRepository
	mailer    *recordingMailer
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	intents := &spyIntentRepo{IntentRepository: memory.NewIntentRepository(store)}
	invites := memory.NewInviteRepository(store)
	return buildFixture(store, intents, invites)
}

func buildFixture(store *memory.Store, intents *spyIntentRepo, invites invite.InviteRepository) *fixture {
	mailer := &recordingMailer{}
	publisher := &recordingPublisher{}
	svc := NewIntentService(
		intents,
		invites,
		memory.NewTransactor(store),
		&sequenceTokens{},
		mailer,
		publisher,
		InviteSettings{TTL: 7 * 24 * time.Hour, FrontendURL: "https://members.example.com/"},
		WithClock(func() time.Time { return fixedNow }),
	)
	return &fixture{svc: svc, intents: intents, invites: invites, mailer: mailer, publisher: publisher}
}

func createIntent(t *testing.T, f *fixture, addr string) intent.IntentResponse {
	t.Helper()
	created, err := f.svc.Create(context.Background(), intent.CreateRequest{FullName: "John Doe", Email: addr})
	require.NoError(t, err)
	return created
}

func review(id string) intent.ReviewRequest {
	return intent.ReviewRequest{IntentID: id, ReviewerID: "admin-1"}
}

func TestIntentService_Create_Success(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), intent.CreateRequest{
		FullName: "John Doe",
		Email:    "john@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "John Doe", created.FullName)
	assert.Equal(t, "john@example.com", created.Email)
	assert.Equal(t, string(intent.StatusPending), created.Status)
	assert.Nil(t, created.Phone)
	assert.Nil(t, created.Notes)
	assert.Nil(t, created.ReviewedAt)
	assert.Nil(t, created.ReviewedBy)
	assert.Equal(t, []string{"membership.intent.submitted"}, f.publisher.subjects)
}

func TestIntentService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   intent.CreateRequest
		field string
	}{
		{"short name", intent.CreateRequest{FullName: "Jo", Email: "jo@example.com"}, "full_name"},
		{"missing name", intent.CreateRequest{Email: "jo@example.com"}, "full_name"},
		{"invalid email", intent.CreateRequest{FullName: "John Doe", Email: "not-an-email"}, "email"},
		{"missing email", intent.CreateRequest{FullName: "John Doe"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Create(context.Background(), tt.req)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
			assert.Contains(t, verrs.ToMap(), tt.field)
			assert.Empty(t, f.publisher.subjects)
		})
	}
}

func TestIntentService_Create_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	createIntent(t, f, "john@example.com")

	_, err := f.svc.Create(context.Background(), intent.CreateRequest{FullName: "John Doe", Email: "john@example.com"})
	assert.ErrorIs(t, err, intent.ErrIntentEmailExists)

	_, err = f.svc.Create(context.Background(), intent.CreateRequest{FullName: "John Doe", Email: " JOHN@example.com "})
	assert.ErrorIs(t, err, intent.ErrIntentEmailExists)
}

func TestIntentService_Create_AfterRejection(t *testing.T) {
	f := newFixture(t)
	first := createIntent(t, f, "john@example.com")

	_, err := f.svc.Reject(context.Background(), review(first.ID))
	require.NoError(t, err)

	second, err := f.svc.Create(context.Background(), intent.CreateRequest{FullName: "John Doe", Email: "john@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestIntentService_Create_AfterApproval(t *testing.T) {
	f := newFixture(t)
	first := createIntent(t, f, "john@example.com")

	_, err := f.svc.Approve(context.Background(), review(first.ID))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), intent.CreateRequest{FullName: "John Doe", Email: "john@example.com"})
	assert.ErrorIs(t, err, intent.ErrIntentEmailExists)
}

func TestIntentService_List_Defaults(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		createIntent(t, f, fmt.Sprintf("user%d@example.com", i))
	}

	result, err := f.svc.List(context.Background(), intent.ListRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, 1, result.TotalPages)
	assert.Len(t, result.Items, 3)

	require.NotNil(t, f.intents.lastFilter)
	assert.Nil(t, f.intents.lastFilter.Status)
	assert.Equal(t, 1, f.intents.lastFilter.Page)
	assert.Equal(t, 20, f.intents.lastFilter.PageSize)
}

func TestIntentService_List_TotalPages(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		createIntent(t, f, fmt.Sprintf("user%d@example.com", i))
	}

	result, err := f.svc.List(context.Background(), intent.ListRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Items, 2)

	result, err = f.svc.List(context.Background(), intent.ListRequest{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Empty(t, result.Items)
}

func TestIntentService_List_NonPositivePagingFallsBack(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.List(context.Background(), intent.ListRequest{Page: -3, PageSize: 0})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
	assert.Equal(t, 0, result.TotalPages)
	assert.NotNil(t, result.Items)
}

func TestIntentService_List_StatusFilter(t *testing.T) {
	f := newFixture(t)
	a := createIntent(t, f, "a@example.com")
	createIntent(t, f, "b@example.com")

	_, err := f.svc.Approve(context.Background(), review(a.ID))
	require.NoError(t, err)

	status := "APPROVED"
	result, err := f.svc.List(context.Background(), intent.ListRequest{Status: &status})
	require.NoError(t, err)

	require.NotNil(t, f.intents.lastFilter.Status)
	assert.Equal(t, intent.StatusApproved, *f.intents.lastFilter.Status)
	require.Len(t, result.Items, 1)
	assert.Equal(t, a.ID, result.Items[0].ID)
	require.NotNil(t, result.Items[0].Invite)
}

func TestIntentService_List_InvalidStatus(t *testing.T) {
	f := newFixture(t)

	status := "ARCHIVED"
	_, err := f.svc.List(context.Background(), intent.ListRequest{Status: &status})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "status")
	assert.Nil(t, f.intents.lastFilter)
}

func TestIntentService_Approve_Success(t *testing.T) {
	f := newFixture(t)
	created := createIntent(t, f, "john@example.com")

	result, err := f.svc.Approve(context.Background(), review(created.ID))
	require.NoError(t, err)

	assert.Equal(t, string(intent.StatusApproved), result.Intent.Status)
	require.NotNil(t, result.Intent.ReviewedBy)
	assert.Equal(t, "admin-1", *result.Intent.ReviewedBy)
	require.NotNil(t, result.Intent.ReviewedAt)
	assert.Equal(t, fixedNow.Format(time.RFC3339), *result.Intent.ReviewedAt)

	assert.Equal(t, created.ID, result.Invite.IntentID)
	assert.Equal(t, "token-01", result.Invite.Token)
	assert.Equal(t, string(invite.StatusPending), result.Invite.Status)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour).Format(time.RFC3339), result.Invite.ExpiresAt)

	stored, err := f.invites.GetByIntentID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-01", stored.Token)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "john@example.com", f.mailer.sent[0].To)
	assert.Equal(t, "https://members.example.com/invite/token-01", f.mailer.sent[0].InviteLink)

	assert.Equal(t, []string{"membership.intent.submitted", "membership.intent.approved"}, f.publisher.subjects)
}

func TestIntentService_Approve_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Approve(context.Background(), review("00000000-0000-0000-0000-000000000000"))
	assert.ErrorIs(t, err, intent.ErrIntentNotFound)
	assert.Zero(t, f.intents.updateCalls)
}

func TestIntentService_Approve_AlreadyReviewed(t *testing.T) {
	f := newFixture(t)
	approved := createIntent(t, f, "a@example.com")
	rejected := createIntent(t, f, "b@example.com")

	_, err := f.svc.Approve(context.Background(), review(approved.ID))
	require.NoError(t, err)
	_, err = f.svc.Reject(context.Background(), review(rejected.ID))
	require.NoError(t, err)
	calls := f.intents.updateCalls

	_, err = f.svc.Approve(context.Background(), review(approved.ID))
	assert.ErrorIs(t, err, intent.ErrIntentCannotBeApproved)

	_, err = f.svc.Approve(context.Background(), review(rejected.ID))
	assert.ErrorIs(t, err, intent.ErrIntentCannotBeApproved)

	assert.Equal(t, calls, f.intents.updateCalls)
}

func TestIntentService_Approve_RollsBackWhenInviteFails(t *testing.T) {
	store := memory.NewStore()
	intents := &spyIntentRepo{IntentRepository: memory.NewIntentRepository(store)}
	invites := &failingInviteRepo{InviteRepository: memory.NewInviteRepository(store), err: errors.New("disk full")}
	f := buildFixture(store, intents, invites)

	created := createIntent(t, f, "john@example.com")

	_, err := f.svc.Approve(context.Background(), review(created.ID))
	require.Error(t, err)
	assert.Equal(t, 1, intents.updateCalls)

	current, err := f.svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(intent.StatusPending), current.Status)
	assert.Nil(t, current.ReviewedBy)
	assert.Nil(t, current.Invite)
	assert.Empty(t, f.mailer.sent)
}

func TestIntentService_Approve_EmailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")
	created := createIntent(t, f, "john@example.com")

	result, err := f.svc.Approve(context.Background(), review(created.ID))
	require.NoError(t, err)
	assert.Equal(t, string(intent.StatusApproved), result.Intent.Status)
	assert.Len(t, f.mailer.sent, 1)
}

func TestIntentService_Approve_MissingReviewer(t *testing.T) {
	f := newFixture(t)
	created := createIntent(t, f, "john@example.com")

	_, err := f.svc.Approve(context.Background(), intent.ReviewRequest{IntentID: created.ID})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Zero(t, f.intents.updateCalls)
}

func TestIntentService_Reject_Success(t *testing.T) {
	f := newFixture(t)
	created := createIntent(t, f, "john@example.com")

	rejected, err := f.svc.Reject(context.Background(), review(created.ID))
	require.NoError(t, err)

	assert.Equal(t, string(intent.StatusRejected), rejected.Status)
	require.NotNil(t, rejected.ReviewedBy)
	assert.Equal(t, "admin-1", *rejected.ReviewedBy)
	assert.Nil(t, rejected.Invite)

	_, err = f.invites.GetByIntentID(context.Background(), created.ID)
	assert.ErrorIs(t, err, invite.ErrInviteNotFound)
	assert.Contains(t, f.publisher.subjects, "membership.intent.rejected")
}

func TestIntentService_Reject_GuardSkipsUpdate(t *testing.T) {
	f := newFixture(t)
	created := createIntent(t, f, "john@example.com")

	_, err := f.svc.Reject(context.Background(), review(created.ID))
	require.NoError(t, err)
	require.Equal(t, 1, f.intents.updateCalls)

	_, err = f.svc.Reject(context.Background(), review(created.ID))
	assert.ErrorIs(t, err, intent.ErrIntentCannotBeRejected)
	assert.Equal(t, 1, f.intents.updateCalls)
}

func TestIntentService_Reject_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Reject(context.Background(), review("missing"))
	assert.ErrorIs(t, err, intent.ErrIntentNotFound)
	assert.Zero(t, f.intents.updateCalls)
}

func TestIntentService_GetByID(t *testing.T) {
	f := newFixture(t)
	created := createIntent(t, f, "john@example.com")

	_, err := f.svc.Approve(context.Background(), review(created.ID))
	require.NoError(t, err)

	found, err := f.svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Invite)
	assert.Equal(t, "token-01", found.Invite.Token)

	_, err = f.svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, intent.ErrIntentNotFound)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 10, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPages(tt.total, tt.pageSize), "total=%d pageSize=%d", tt.total, tt.pageSize)
	}
}

func TestInviteLink(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/invite/abc", InviteLink("http://localhost:3000", "abc"))
	assert.Equal(t, "http://localhost:3000/invite/abc", InviteLink("http://localhost:3000/", "abc"))
}
