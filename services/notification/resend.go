package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"plinio/models"
	"plinio/services/tasks"
	"plinio/utils"
)

// DefaultNotificationService delivers email through the Resend API and
// defers non-blocking sends to the asynq worker.
type DefaultNotificationService struct {
	client  *resend.Client
	from    string
	adminTo string
	queue   *asynq.Client
}

// NewDefaultNotificationService wires the Resend client and the task queue.
// An empty API key leaves the service unconfigured; sends then fail and
// enqueues are dropped with a log line.
func NewDefaultNotificationService(apiKey, from, adminTo string, queue *asynq.Client) *DefaultNotificationService {
	svc := &DefaultNotificationService{from: from, adminTo: adminTo, queue: queue}
	if apiKey != "" {
		svc.client = resend.NewClient(apiKey)
	}
	return svc
}

func (s *DefaultNotificationService) Configured() bool {
	return s.client != nil && s.from != ""
}

func (s *DefaultNotificationService) Send(ctx context.Context, payload models.EmailPayload) error {
	if !s.Configured() {
		return fmt.Errorf("notification service not configured")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{payload.To},
		Subject: payload.Subject,
		Html:    payload.HTML,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) enqueue(payload models.EmailPayload) error {
	if s.queue == nil {
		utils.GetLogger().Warn("notification: queue not configured, dropping email",
			zap.String("subject", payload.Subject))
		return nil
	}
	task, err := tasks.NewEmailTask(payload)
	if err != nil {
		return err
	}
	if _, err := s.queue.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) EnqueueBookingConfirmation(rec models.BookingRecord) error {
	html := fmt.Sprintf(
		`<p>Gentile %s,</p>
<p>la tua prenotazione per <strong>%s</strong> è confermata.</p>
<p>Quando: %s – %s</p>
<p>A presto,<br>AG SERVIZI</p>`,
		rec.Name, rec.Service,
		rec.StartAt.Format("02/01/2006 15:04"), rec.EndAt.Format("15:04"),
	)
	return s.enqueue(models.EmailPayload{
		To:      rec.Email,
		Subject: fmt.Sprintf("Prenotazione confermata - %s", rec.Service),
		HTML:    html,
	})
}

func (s *DefaultNotificationService) EnqueueDeliveryEmail(to, productName, deliveryURL string, expiresAt time.Time) error {
	html := fmt.Sprintf(
		`<p>Grazie per il tuo acquisto!</p>
<p>Puoi scaricare <strong>%s</strong> dal link qui sotto:</p>
<p><a href="%s">%s</a></p>
<p>Il link scade il %s e consente un numero limitato di download.</p>
<p>AG SERVIZI</p>`,
		productName, deliveryURL, deliveryURL,
		expiresAt.Format("02/01/2006"),
	)
	return s.enqueue(models.EmailPayload{
		To:      to,
		Subject: fmt.Sprintf("Il tuo download: %s", productName),
		HTML:    html,
	})
}

// SendContactNotification relays a contact-form message to the agency inbox.
// This one is synchronous: the handler reports relay failures to the caller.
func (s *DefaultNotificationService) SendContactNotification(ctx context.Context, req models.ContactRequest) error {
	if s.adminTo == "" {
		return fmt.Errorf("notification service has no destination address")
	}
	service := req.Service
	if service == "" {
		service = "Non specificato"
	}
	html := fmt.Sprintf(
		`<h2>Nuova richiesta di contatto</h2>
<p><strong>Nome:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Servizio:</strong> %s</p>
<p><strong>Messaggio:</strong></p>
<p>%s</p>`,
		req.Name, req.Email, service, req.Message,
	)
	return s.Send(ctx, models.EmailPayload{
		To:      s.adminTo,
		Subject: fmt.Sprintf("Contatto dal sito: %s", req.Name),
		HTML:    html,
	})
}
