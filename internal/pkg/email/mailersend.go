package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/config"
	"github.com/mailersend/mailersend-go"
)

type mailerSendService struct {
	client *mailersend.Mailersend
	from   mailersend.From
	*renderer
}

func newMailerSendService(cfg config.MailerSendConfig, r *renderer) (EmailService, error) {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return nil, errors.New("MAILERSEND_API_KEY and MAILERSEND_FROM_EMAIL are required")
	}

	return &mailerSendService{
		client: mailersend.NewMailersend(cfg.APIKey),
		from: mailersend.From{
			Name:  cfg.FromName,
			Email: cfg.FromEmail,
		},
		renderer: r,
	}, nil
}

// SendInvite sends the invitation email through the MailerSend API
func (m *mailerSendService) SendInvite(ctx context.Context, msg InviteMessage) error {
	html, err := m.renderInvite(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(m.from)
	message.SetRecipients([]mailersend.Recipient{{Name: msg.Name, Email: msg.To}})
	message.SetSubject(m.subject())
	message.SetHTML(html)
	message.SetText(fmt.Sprintf("Your request was approved. Create your account here: %s", msg.InviteLink))

	if _, err := m.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send email via mailersend: %w", err)
	}
	return nil
}
