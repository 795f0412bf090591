package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/internal/config"
	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

// Mailer delivers lifecycle notifications over SMTP.
// Implements port.NotificationDispatcher.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewMailer creates an SMTP-backed notification dispatcher
func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}

	return &Mailer{
		dialer: dialer,
		from:   from,
		cfg:    cfg,
		logger: logger,
	}
}

// Send composes and delivers the email for the given notification kind.
// Delivery runs in its own goroutine so the context deadline is honored
// even though gomail's DialAndSend has no context support.
func (m *Mailer) Send(ctx context.Context, kind lifecycle.NotificationKind, invoice *entity.Invoice, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("recipient cannot be empty")
	}

	subject, body := compose(kind, invoice)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if m.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.SendTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send %s email: %w", kind, err)
		}
	case <-ctx.Done():
		return fmt.Errorf("smtp send timed out: %w", ctx.Err())
	}

	m.logger.Info("Notification email sent",
		zap.String("kind", string(kind)),
		zap.String("invoice_number", invoice.Number),
		zap.String("recipient", recipient))
	return nil
}

func compose(kind lifecycle.NotificationKind, invoice *entity.Invoice) (subject, body string) {
	due := invoice.DueDate.Format("02 Jan 2006")
	amount := fmt.Sprintf("%.2f", invoice.AmountDue())

	switch kind {
	case lifecycle.NotificationPaymentReceived:
		subject = fmt.Sprintf("Payment received for invoice %s", invoice.Number)
		body = fmt.Sprintf(
			"Payment for invoice %s (%s) has been recorded.\n\nBilled to: %s\n",
			invoice.Number, amount, invoice.BilledTo.Name)
	case lifecycle.NotificationOverdueAlert:
		subject = fmt.Sprintf("Invoice %s is overdue", invoice.Number)
		body = fmt.Sprintf(
			"Invoice %s for %s was due on %s and is now overdue.\n\nBilled to: %s\n",
			invoice.Number, amount, due, invoice.BilledTo.Name)
	case lifecycle.NotificationDueDateReminder:
		subject = fmt.Sprintf("Reminder: invoice %s is due on %s", invoice.Number, due)
		body = fmt.Sprintf(
			"This is a reminder that invoice %s for %s is due on %s.\n\nBilled by: %s\n",
			invoice.Number, amount, due, invoice.BilledBy.Name)
	default:
		subject = fmt.Sprintf("Update on invoice %s", invoice.Number)
		body = fmt.Sprintf("Invoice %s has been updated.\n", invoice.Number)
	}

	return subject, body
}

// Verify interface compliance
var _ port.NotificationDispatcher = (*Mailer)(nil)
