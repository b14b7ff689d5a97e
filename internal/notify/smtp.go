package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/config"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// SMTPNotifier sends summaries through an SMTP relay.
type SMTPNotifier struct {
	client *mail.Client
	from   string
	log    *zap.Logger
}

// NewSMTPNotifier builds a client for cfg. STARTTLS is used when the server
// offers it.
func NewSMTPNotifier(cfg config.SMTPConfig, log *zap.Logger) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPNotifier{client: client, from: cfg.From, log: log}, nil
}

func (n *SMTPNotifier) SendSummary(ctx context.Context, s model.Summary) error {
	rendered, err := Render(s, time.Now())
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(rendered.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(rendered.Subject)
	msg.SetBodyString(mail.TypeTextHTML, rendered.HTML)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send summary to %s: %w", rendered.To, err)
	}
	n.log.Debug("summary sent", zap.String("to", rendered.To), zap.String("subject", rendered.Subject))
	return nil
}
