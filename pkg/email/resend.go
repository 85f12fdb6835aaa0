package email

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"github.com/sefazor/imaginet-backend/internal/config"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender is the part of the Resend client the service uses.
type Sender interface {
	Send(params *resend.SendEmailRequest) (resend.SendEmailResponse, error)
}

type EmailService struct {
	sender   Sender
	from     string
	fromName string
	appURL   string
	log      *zap.Logger
}

func NewEmailService(cfg *config.Config, log *zap.Logger) *EmailService {
	client := resend.NewClient(cfg.Email.ResendAPIKey)
	return NewEmailServiceWithSender(client.Emails, cfg.Email.FromAddress, cfg.Email.FromName, cfg.PublicAppURL, log)
}

func NewEmailServiceWithSender(sender Sender, from, fromName, appURL string, log *zap.Logger) *EmailService {
	return &EmailService{
		sender:   sender,
		from:     from,
		fromName: fromName,
		appURL:   appURL,
		log:      log.Named("email"),
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string, credits int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	html, err := render("welcome.html", map[string]interface{}{
		"Name":    name,
		"Email":   email,
		"Credits": credits,
		"AppURL":  s.appURL,
		"Year":    time.Now().Year(),
	})
	if err != nil {
		s.log.Error("welcome template failed", zap.String("email", email), zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{email},
		Subject: "Welcome to Imaginet!",
		Html:    html,
	}

	resp, err := s.sender.Send(params)
	if err != nil {
		s.log.Error("failed to send welcome email", zap.String("email", email), zap.Error(err))
		return err
	}

	s.log.Info("welcome email sent", zap.String("email", email), zap.String("id", resp.Id))
	return nil
}

func render(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
