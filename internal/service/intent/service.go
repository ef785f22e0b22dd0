package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/tx"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/token"
)

// InviteSettings controls the invites minted on approval
type InviteSettings struct {
	TTL         time.Duration
	FrontendURL string
}

type IntentServiceImpl struct {
	intentRepo   intent.IntentRepository
	inviteRepo   invite.InviteRepository
	txManager    tx.Manager
	tokens       token.Generator
	emailService email.EmailService
	publisher    events.Publisher
	settings     InviteSettings
	now          func() time.Time
}

type Option func(*IntentServiceImpl)

// WithClock replaces time.Now, used for review timestamps and invite expiry
func WithClock(now func() time.Time) Option {
	return func(s *IntentServiceImpl) {
		s.now = now
	}
}

func NewIntentService(
	intentRepo intent.IntentRepository,
	inviteRepo invite.InviteRepository,
	txManager tx.Manager,
	tokens token.Generator,
	emailService email.EmailService,
	publisher events.Publisher,
	settings InviteSettings,
	opts ...Option,
) intent.IntentService {
	s := &IntentServiceImpl{
		intentRepo:   intentRepo,
		inviteRepo:   inviteRepo,
		txManager:    txManager,
		tokens:       tokens,
		emailService: emailService,
		publisher:    publisher,
		settings:     settings,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements intent.IntentService.
func (s *IntentServiceImpl) Create(ctx context.Context, req intent.CreateRequest) (intent.IntentResponse, error) {
	if err := req.Validate(); err != nil {
		return intent.IntentResponse{}, err
	}

	emailAddr := normalizeEmail(req.Email)

	latest, err := s.intentRepo.GetLatestByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		if !latest.IsRejected() {
			return intent.IntentResponse{}, intent.ErrIntentEmailExists
		}
	case errors.Is(err, intent.ErrIntentNotFound):
	default:
		return intent.IntentResponse{}, fmt.Errorf("failed to check existing intent: %w", err)
	}

	created, err := s.intentRepo.Create(ctx, intent.CreateParams{
		FullName: strings.TrimSpace(req.FullName),
		Email:    emailAddr,
		Phone:    trimOptional(req.Phone),
		Notes:    trimOptional(req.Notes),
	})
	if err != nil {
		if errors.Is(err, intent.ErrIntentEmailExists) {
			return intent.IntentResponse{}, err
		}
		return intent.IntentResponse{}, fmt.Errorf("failed to create intent: %w", err)
	}

	s.publish(ctx, events.IntentSubmitted, intentEvent(created, s.now()))

	return created.ToResponse(), nil
}

// List implements intent.IntentService.
func (s *IntentServiceImpl) List(ctx context.Context, req intent.ListRequest) (intent.ListResponse, error) {
	if err := req.Validate(); err != nil {
		return intent.ListResponse{}, err
	}
	req.ApplyDefaults()

	filter := intent.ListFilter{Page: req.Page, PageSize: req.PageSize}
	if req.Status != nil {
		status := intent.Status(*req.Status)
		filter.Status = &status
	}

	items, total, err := s.intentRepo.List(ctx, filter)
	if err != nil {
		return intent.ListResponse{}, fmt.Errorf("failed to list intents: %w", err)
	}

	responses := make([]intent.IntentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, item.ToResponse())
	}

	return intent.ListResponse{
		Items:      responses,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages(total, req.PageSize),
	}, nil
}

// GetByID implements intent.IntentService.
func (s *IntentServiceImpl) GetByID(ctx context.Context, id string) (intent.IntentResponse, error) {
	found, err := s.intentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, intent.ErrIntentNotFound) {
			return intent.IntentResponse{}, err
		}
		return intent.IntentResponse{}, fmt.Errorf("failed to get intent: %w", err)
	}
	return found.ToResponse(), nil
}

// Approve implements intent.IntentService.
func (s *IntentServiceImpl) Approve(ctx context.Context, req intent.ReviewRequest) (intent.ApproveResponse, error) {
	if err := req.Validate(); err != nil {
		return intent.ApproveResponse{}, err
	}

	current, err := s.intentRepo.GetByID(ctx, req.IntentID)
	if err != nil {
		if errors.Is(err, intent.ErrIntentNotFound) {
			return intent.ApproveResponse{}, err
		}
		return intent.ApproveResponse{}, fmt.Errorf("failed to get intent: %w", err)
	}
	if !current.CanBeApproved() {
		return intent.ApproveResponse{}, intent.ErrIntentCannotBeApproved
	}

	inviteToken, err := s.tokens.Generate()
	if err != nil {
		return intent.ApproveResponse{}, fmt.Errorf("failed to generate invite token: %w", err)
	}

	now := s.now()
	var (
		approved intent.Intent
		created  invite.Invite
	)

	// Status change and invite must commit together
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		approved, err = s.intentRepo.UpdateStatus(txCtx, intent.UpdateStatusParams{
			ID:         current.ID,
			Status:     intent.StatusApproved,
			ReviewedBy: req.ReviewerID,
			ReviewedAt: now,
		})
		if err != nil {
			if errors.Is(err, intent.ErrIntentAlreadyReviewed) {
				return intent.ErrIntentCannotBeApproved
			}
			return err
		}

		created, err = s.inviteRepo.Create(txCtx, invite.CreateParams{
			IntentID:  approved.ID,
			Token:     inviteToken,
			ExpiresAt: now.Add(s.settings.TTL),
		})
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, intent.ErrIntentNotFound),
			errors.Is(err, intent.ErrIntentCannotBeApproved),
			errors.Is(err, invite.ErrInviteAlreadyExists),
			errors.Is(err, invite.ErrTokenConflict):
			return intent.ApproveResponse{}, err
		}
		return intent.ApproveResponse{}, fmt.Errorf("failed to approve intent: %w", err)
	}

	approved.Invite = &created

	s.sendInvite(ctx, approved, created)
	s.publish(ctx, events.IntentApproved, intentEvent(approved, now))

	return intent.ApproveResponse{
		Intent: approved.ToResponse(),
		Invite: created.ToResponse(),
	}, nil
}

// Reject implements intent.IntentService.
func (s *IntentServiceImpl) Reject(ctx context.Context, req intent.ReviewRequest) (intent.IntentResponse, error) {
	if err := req.Validate(); err != nil {
		return intent.IntentResponse{}, err
	}

	current, err := s.intentRepo.GetByID(ctx, req.IntentID)
	if err != nil {
		if errors.Is(err, intent.ErrIntentNotFound) {
			return intent.IntentResponse{}, err
		}
		return intent.IntentResponse{}, fmt.Errorf("failed to get intent: %w", err)
	}
	if !current.CanBeRejected() {
		return intent.IntentResponse{}, intent.ErrIntentCannotBeRejected
	}

	now := s.now()
	rejected, err := s.intentRepo.UpdateStatus(ctx, intent.UpdateStatusParams{
		ID:         current.ID,
		Status:     intent.StatusRejected,
		ReviewedBy: req.ReviewerID,
		ReviewedAt: now,
	})
	if err != nil {
		switch {
		case errors.Is(err, intent.ErrIntentAlreadyReviewed):
			return intent.IntentResponse{}, intent.ErrIntentCannotBeRejected
		case errors.Is(err, intent.ErrIntentNotFound):
			return intent.IntentResponse{}, err
		}
		return intent.IntentResponse{}, fmt.Errorf("failed to reject intent: %w", err)
	}

	s.publish(ctx, events.IntentRejected, intentEvent(rejected, now))

	return rejected.ToResponse(), nil
}

// sendInvite delivers the invite link. Failures are logged, the approval stands.
func (s *IntentServiceImpl) sendInvite(ctx context.Context, approved intent.Intent, inv invite.Invite) {
	if s.emailService == nil {
		return
	}
	msg := email.InviteMessage{
		To:         approved.Email,
		Name:       approved.FullName,
		InviteLink: InviteLink(s.settings.FrontendURL, inv.Token),
		ExpiresAt:  inv.ExpiresAt,
	}
	if err := s.emailService.SendInvite(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to send invite email",
			"intent_id", approved.ID,
			"invite_id", inv.ID,
			"error", err,
		)
	}
}

func (s *IntentServiceImpl) publish(ctx context.Context, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, data); err != nil {
		slog.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}

// InviteLink builds the frontend URL where token is redeemed
func InviteLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/invite/" + token
}

func intentEvent(i intent.Intent, at time.Time) events.IntentEvent {
	return events.IntentEvent{
		IntentID:   i.ID,
		Email:      i.Email,
		Status:     string(i.Status),
		ReviewedBy: i.ReviewedBy,
		OccurredAt: at,
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// trimOptional maps blank optional fields to nil
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
