package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
)

const JobExpireInvites = "expire_overdue_invites"

// InviteJobs holds the invite maintenance jobs
type InviteJobs struct {
	inviteService invite.InviteService
}

func NewInviteJobs(inviteService invite.InviteService) *InviteJobs {
	return &InviteJobs{inviteService: inviteService}
}

// RegisterJobs adds the expiry sweep. A zero interval leaves expiry to the
// lazy check on validate and register.
func (j *InviteJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(JobExpireInvites, interval, j.ExpireOverdueInvites)
}

func (j *InviteJobs) ExpireOverdueInvites(ctx context.Context) error {
	count, err := j.inviteService.ExpireOverdue(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.InfoContext(ctx, "Expired overdue invites", "count", count)
	}
	return nil
}
