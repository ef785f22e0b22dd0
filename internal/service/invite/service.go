package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/tx"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/hash"
)

type InviteServiceImpl struct {
	inviteRepo invite.InviteRepository
	intentRepo intent.IntentRepository
	memberRepo member.MemberRepository
	txManager  tx.Manager
	hasher     hash.Hasher
	publisher  events.Publisher
	now        func() time.Time
}

type Option func(*InviteServiceImpl)

// WithClock replaces time.Now for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *InviteServiceImpl) {
		s.now = now
	}
}

func NewInviteService(
	inviteRepo invite.InviteRepository,
	intentRepo intent.IntentRepository,
	memberRepo member.MemberRepository,
	txManager tx.Manager,
	hasher hash.Hasher,
	publisher events.Publisher,
	opts ...Option,
) invite.InviteService {
	s := &InviteServiceImpl{
		inviteRepo: inviteRepo,
		intentRepo: intentRepo,
		memberRepo: memberRepo,
		txManager:  txManager,
		hasher:     hasher,
		publisher:  publisher,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate implements invite.InviteService.
func (s *InviteServiceImpl) Validate(ctx context.Context, token string) (invite.ValidateResponse, error) {
	inv, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, invite.ErrInviteNotFound) {
			return invite.ValidateResponse{Valid: false, Reason: invite.ReasonInvalid}, nil
		}
		return invite.ValidateResponse{}, fmt.Errorf("failed to get invite: %w", err)
	}

	now := s.now()
	switch {
	case inv.IsUsed():
		return invite.ValidateResponse{Valid: false, Reason: invite.ReasonUsed}, nil
	case inv.IsExpiredAt(now):
		current, err := s.expire(ctx, inv, now)
		if err != nil {
			return invite.ValidateResponse{}, err
		}
		if current.IsUsed() {
			return invite.ValidateResponse{Valid: false, Reason: invite.ReasonUsed}, nil
		}
		return invite.ValidateResponse{Valid: false, Reason: invite.ReasonExpired}, nil
	}

	expiresAt := inv.ExpiresAt.UTC().Format(time.RFC3339)
	intentID := inv.IntentID
	return invite.ValidateResponse{
		Valid:     true,
		IntentID:  &intentID,
		ExpiresAt: &expiresAt,
	}, nil
}

// Register implements invite.InviteService.
func (s *InviteServiceImpl) Register(ctx context.Context, req invite.RegisterRequest) (invite.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return invite.RegisterResponse{}, err
	}

	inv, err := s.inviteRepo.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, invite.ErrInviteNotFound) {
			return invite.RegisterResponse{}, err
		}
		return invite.RegisterResponse{}, fmt.Errorf("failed to get invite: %w", err)
	}

	now := s.now()
	switch {
	case inv.IsUsed():
		return invite.RegisterResponse{}, invite.ErrInviteAlreadyUsed
	case inv.IsExpiredAt(now):
		current, err := s.expire(ctx, inv, now)
		if err != nil {
			return invite.RegisterResponse{}, err
		}
		if current.IsUsed() {
			return invite.RegisterResponse{}, invite.ErrInviteAlreadyUsed
		}
		return invite.RegisterResponse{}, invite.ErrInviteExpired
	}

	approved, err := s.intentRepo.GetByID(ctx, inv.IntentID)
	if err != nil {
		return invite.RegisterResponse{}, fmt.Errorf("failed to get intent for invite: %w", err)
	}
	emailAddr := strings.TrimSpace(req.Email)
	if !strings.EqualFold(emailAddr, approved.Email) {
		return invite.RegisterResponse{}, invite.ErrEmailMismatch
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return invite.RegisterResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	// Hashing is slow; redeem against the time the write happens
	redeemedAt := s.now()

	var created member.Member
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.memberRepo.Create(txCtx, member.CreateParams{
			Name:         strings.TrimSpace(req.Name),
			Email:        approved.Email,
			Phone:        trimOptional(req.Phone),
			PasswordHash: passwordHash,
			Role:         member.RoleMember,
			Status:       member.StatusActive,
		})
		if err != nil {
			return err
		}

		if _, err := s.inviteRepo.MarkUsed(txCtx, inv.ID, redeemedAt); err != nil {
			if errors.Is(err, invite.ErrInviteNotRedeemable) {
				return s.notRedeemableReason(txCtx, inv.Token)
			}
			return err
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, member.ErrMemberEmailExists),
			errors.Is(err, invite.ErrInviteAlreadyUsed),
			errors.Is(err, invite.ErrInviteExpired),
			errors.Is(err, invite.ErrInviteNotFound):
			return invite.RegisterResponse{}, err
		}
		return invite.RegisterResponse{}, fmt.Errorf("failed to register member: %w", err)
	}

	s.publish(ctx, events.MemberRegistered, events.MemberEvent{
		MemberID:   created.ID,
		InviteID:   inv.ID,
		Email:      created.Email,
		OccurredAt: redeemedAt,
	})

	return invite.RegisterResponse{Member: created.ToResponse()}, nil
}

// ExpireOverdue implements invite.InviteService.
func (s *InviteServiceImpl) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()

	expired, err := s.inviteRepo.ExpireOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue invites: %w", err)
	}

	for _, inv := range expired {
		s.publish(ctx, events.InviteExpired, events.InviteEvent{
			InviteID:   inv.ID,
			IntentID:   inv.IntentID,
			ExpiresAt:  inv.ExpiresAt,
			OccurredAt: now,
		})
	}
	return len(expired), nil
}

// expire persists EXPIRED for an overdue invite and returns the stored
// invite. The write only applies while the invite is PENDING, so a
// redemption that committed after inv was read is kept and returned.
func (s *InviteServiceImpl) expire(ctx context.Context, inv invite.Invite, now time.Time) (invite.Invite, error) {
	if inv.Status == invite.StatusExpired {
		return inv, nil
	}

	expired, err := s.inviteRepo.Expire(ctx, inv.ID, now)
	if err != nil {
		if !errors.Is(err, invite.ErrInviteNotRedeemable) {
			return invite.Invite{}, fmt.Errorf("failed to expire invite: %w", err)
		}
		current, err := s.inviteRepo.GetByToken(ctx, inv.Token)
		if err != nil {
			return invite.Invite{}, fmt.Errorf("failed to reload invite: %w", err)
		}
		return current, nil
	}

	s.publish(ctx, events.InviteExpired, events.InviteEvent{
		InviteID:   expired.ID,
		IntentID:   expired.IntentID,
		ExpiresAt:  expired.ExpiresAt,
		OccurredAt: now,
	})
	return expired, nil
}

// notRedeemableReason maps a failed MarkUsed to the state the invite is in now
func (s *InviteServiceImpl) notRedeemableReason(ctx context.Context, token string) error {
	current, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to reload invite: %w", err)
	}
	if current.IsUsed() {
		return invite.ErrInviteAlreadyUsed
	}
	return invite.ErrInviteExpired
}

func (s *InviteServiceImpl) publish(ctx context.Context, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, data); err != nil {
		slog.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}

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
