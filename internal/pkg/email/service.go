package email

import (
	"bytes"
	"context"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
)

// Service handles email sending with templates
type Service struct {
	client       *SendGridClient
	templates    map[string]*template.Template
	baseTemplate *template.Template
	queue        chan *QueuedEmail
	wg           sync.WaitGroup
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// NewService creates email service
func NewService(config SendGridConfig) *Service {
	s := &Service{
		client:    NewSendGridClient(config),
		templates: make(map[string]*template.Template),
		queue:     make(chan *QueuedEmail, 100),
	}

	s.baseTemplate, _ = template.New("base").Parse(BaseTemplate)
	s.loadTemplates()

	// Start async worker
	s.wg.Add(1)
	go s.worker()

	return s
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	templates := map[string]string{
		"booking_confirmed":     BookingConfirmedTemplate,
		"cancellation_approved": CancellationApprovedTemplate,
		"cancellation_rejected": CancellationRejectedTemplate,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

// worker processes queued emails asynchronously
func (s *Service) worker() {
	defer s.wg.Done()

	for email := range s.queue {
		ctx := context.Background()
		if err := s.send(ctx, email); err != nil {
			log.Error().Err(err).
				Str("to", email.To).
				Str("template", email.TemplateName).
				Msg("Failed to send email")
		}
	}
}

// send actually sends the email
func (s *Service) send(ctx context.Context, email *QueuedEmail) error {
	tmpl, ok := s.templates[email.TemplateName]
	if !ok {
		log.Warn().Str("template", email.TemplateName).Msg("Template not found")
		return nil
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, email.Data); err != nil {
		return err
	}

	// Wrap in base template
	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return err
	}

	return s.client.Send(ctx, &EmailMessage{
		To:          email.To,
		ToName:      email.ToName,
		Subject:     email.Subject,
		HTMLContent: htmlBuf.String(),
	})
}

// Queue adds an email to the async send queue
func (s *Service) Queue(to, toName, templateName, subject string, data interface{}) {
	select {
	case s.queue <- &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	}:
	default:
		log.Warn().Str("to", to).Msg("Email queue full, dropping email")
	}
}

// Close stops the email worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

// --- Convenience methods for specific emails ---

// BookingConfirmedData carries template fields for the confirmation email
type BookingConfirmedData struct {
	CustomerName string
	ProductTitle string
	OrderNumber  string
	BookingDate  string
	Adults       int
	Dogs         int
	Amount       string
	Currency     string
	CancelURL    string
}

// SendBookingConfirmed sends the booking confirmation email
func (s *Service) SendBookingConfirmed(to, toName string, data BookingConfirmedData) {
	s.Queue(to, toName, "booking_confirmed", "Your PawTrails booking is confirmed 🐾", data)
}

// SendCancellationApproved notifies the customer of an approved cancellation
func (s *Service) SendCancellationApproved(to, toName, customerName, productTitle, orderNumber string) {
	s.Queue(to, toName, "cancellation_approved", "Your booking has been cancelled", map[string]string{
		"CustomerName": customerName,
		"ProductTitle": productTitle,
		"OrderNumber":  orderNumber,
	})
}

// SendCancellationRejected notifies the customer of a declined cancellation
func (s *Service) SendCancellationRejected(to, toName, customerName, orderNumber, adminNote string) {
	s.Queue(to, toName, "cancellation_rejected", "About your cancellation request", map[string]string{
		"CustomerName": customerName,
		"OrderNumber":  orderNumber,
		"AdminNote":    adminNote,
	})
}
