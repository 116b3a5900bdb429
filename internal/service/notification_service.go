package service

import (
	"fmt"

	"hexaboard_backend/internal/config"
	"hexaboard_backend/internal/model"
	"hexaboard_backend/pkg/logger"
	"hexaboard_backend/pkg/monitoring"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer delivers one email; satisfied by SendGridMailer.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// OutboxStore is the durable email queue; satisfied by
// repository.OutboxRepository.
type OutboxStore interface {
	Enqueue(email *model.OutboxEmail) error
	PendingBatch(limit int) ([]model.OutboxEmail, error)
	MarkSent(id uint) error
	MarkAttemptFailed(id uint, lastError string, final bool) error
}

type SendGridMailer struct {
	apiKey      string
	fromAddress string
	fromName    string
}

func NewSendGridMailer(cfg config.MailConfig) *SendGridMailer {
	return &SendGridMailer{
		apiKey:      cfg.SendGridAPIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

func (m *SendGridMailer) Send(to, subject, htmlBody string) error {
	from := sgmail.NewEmail(m.fromName, m.fromAddress)
	msg := sgmail.NewV3Mail()
	msg.SetFrom(from)
	msg.Subject = subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail("", to))
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/html", htmlBody))

	req := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", "https://api.sendgrid.com")
	req.Method = "POST"
	req.Body = sgmail.GetRequestBody(msg)

	resp, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error (status %d): %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// NotificationService implements the durable outbox pattern: callers enqueue,
// a background dispatcher delivers with retries. Enqueue never sends.
type NotificationService struct {
	Outbox      OutboxStore
	Mailer      Mailer
	MaxAttempts int
}

func NewNotificationService(outbox OutboxStore, mailer Mailer, cfg config.MailConfig) *NotificationService {
	return &NotificationService{
		Outbox:      outbox,
		Mailer:      mailer,
		MaxAttempts: cfg.MaxAttempts,
	}
}

// EnqueueWelcomeEmail queues the credentials mail for a freshly provisioned
// account. Only the enqueue can fail; delivery happens asynchronously.
func (s *NotificationService) EnqueueWelcomeEmail(to, name, userID, password string) error {
	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #4F46E5;">Welcome to HexaBoard!</h2>
			<p>Hi %s,</p>
			<p>Your onboarding account has been created. Use the credentials below to sign in:</p>
			<div style="background: #F3F4F6; padding: 16px; border-radius: 8px; margin: 16px 0;">
				<p><strong>User ID:</strong> %s</p>
				<p><strong>Email:</strong> %s</p>
				<p><strong>Temporary Password:</strong> %s</p>
			</div>
			<p>Please change your password after your first login.</p>
			<p>Happy learning!<br/>The HexaBoard Team</p>
		</div>`, name, userID, to, password)

	return s.Outbox.Enqueue(&model.OutboxEmail{
		To:      to,
		Subject: "Welcome to HexaBoard - Your Account Details",
		HTML:    html,
		Status:  model.OutboxPending,
	})
}

// DispatchPending drains one batch of queued mail. Each row is attempted
// once per call; a row that exhausts its attempts is marked failed and left
// for manual inspection.
func (s *NotificationService) DispatchPending(batchSize int) {
	emails, err := s.Outbox.PendingBatch(batchSize)
	if err != nil {
		logger.Log.Error("failed to load pending emails", zap.Error(err))
		return
	}

	for _, email := range emails {
		if err := s.Mailer.Send(email.To, email.Subject, email.HTML); err != nil {
			final := email.Attempts+1 >= s.MaxAttempts
			logger.Log.Warn("email delivery attempt failed",
				zap.Uint("id", email.ID),
				zap.String("to", email.To),
				zap.Int("attempt", email.Attempts+1),
				zap.Bool("final", final),
				zap.Error(err))
			if markErr := s.Outbox.MarkAttemptFailed(email.ID, err.Error(), final); markErr != nil {
				logger.Log.Error("failed to record delivery failure",
					zap.Uint("id", email.ID), zap.Error(markErr))
			}
			monitoring.EmailsSent.WithLabelValues("failed").Inc()
			continue
		}

		monitoring.EmailsSent.WithLabelValues("sent").Inc()
		if err := s.Outbox.MarkSent(email.ID); err != nil {
			logger.Log.Error("failed to mark email sent",
				zap.Uint("id", email.ID), zap.Error(err))
		}
	}
}
