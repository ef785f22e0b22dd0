package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	maxRetries = 3

	ProviderLog        = "log"
	ProviderSMTP       = "smtp"
	ProviderMailerSend = "mailersend"
)

// InviteMessage describes an invitation email for an approved intent.
type InviteMessage struct {
	To         string
	Name       string
	InviteLink string
	ExpiresAt  time.Time
}

// EmailService defines the interface for sending emails
type EmailService interface {
	SendInvite(ctx context.Context, msg InviteMessage) error
}

type inviteEmailData struct {
	Name       string
	Community  string
	InviteLink string
	ExpiresAt  string
}

type renderer struct {
	templates *template.Template
	community string
}

func newRenderer(community string) (*renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &renderer{templates: tmpl, community: community}, nil
}

func (r *renderer) subject() string {
	return fmt.Sprintf("Your invitation to %s", r.community)
}

func (r *renderer) renderInvite(msg InviteMessage) (string, error) {
	data := inviteEmailData{
		Name:       msg.Name,
		Community:  r.community,
		InviteLink: msg.InviteLink,
		ExpiresAt:  msg.ExpiresAt.UTC().Format("January 2, 2006 15:04 MST"),
	}

	var body bytes.Buffer
	if err := r.templates.ExecuteTemplate(&body, "invite.html", data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return body.String(), nil
}

// NewEmailService creates the email service for the configured provider
func NewEmailService(cfg config.EmailConfig) (EmailService, error) {
	r, err := newRenderer(cfg.Community)
	if err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderLog, "":
		return &logEmailService{renderer: r}, nil
	case ProviderSMTP:
		return &smtpEmailService{cfg: cfg.SMTP, renderer: r}, nil
	case ProviderMailerSend:
		return newMailerSendService(cfg.MailerSend, r)
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
}

type smtpEmailService struct {
	cfg config.SMTPConfig
	*renderer
}

// SendInvite sends the invitation email over SMTP
func (s *smtpEmailService) SendInvite(ctx context.Context, msg InviteMessage) error {
	body, err := s.renderInvite(msg)
	if err != nil {
		return err
	}
	return s.sendHTML(ctx, msg.To, s.subject(), body)
}

func (s *smtpEmailService) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.WarnContext(ctx, "SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.InfoContext(ctx, "Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.ErrorContext(ctx, "Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}

// logEmailService writes the rendered invitation to the log instead of sending it.
type logEmailService struct {
	*renderer
}

func (l *logEmailService) SendInvite(ctx context.Context, msg InviteMessage) error {
	if _, err := l.renderInvite(msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "[DEV MAIL] Invitation email",
		"to", msg.To,
		"subject", l.subject(),
		"invite_link", msg.InviteLink,
		"expires_at", msg.ExpiresAt,
	)
	return nil
}
