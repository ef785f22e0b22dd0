package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published by the intake workflow.
const (
	IntentSubmitted  = "membership.intent.submitted"
	IntentApproved   = "membership.intent.approved"
	IntentRejected   = "membership.intent.rejected"
	InviteExpired    = "membership.invite.expired"
	MemberRegistered = "membership.member.registered"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type IntentEvent struct {
	IntentID   string    `json:"intent_id"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	ReviewedBy *string   `json:"reviewed_by,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type InviteEvent struct {
	InviteID   string    `json:"invite_id"`
	IntentID   string    `json:"intent_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

type MemberEvent struct {
	MemberID   string    `json:"member_id"`
	InviteID   string    `json:"invite_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("membership-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	slog.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}

// NoopPublisher discards events. Used when NATS_URL is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	slog.DebugContext(ctx, "Event publishing disabled, dropping event", "subject", subject)
	return nil
}

func (NoopPublisher) Close() error { return nil }
