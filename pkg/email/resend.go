package email

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

type EmailService struct {
	client     *resend.Client
	from       string
	fromName   string
	appBaseURL string
	templates  *template.Template
	logger     *zap.Logger
}

func NewEmailService(apiKey, from, fromName, appBaseURL string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:     resend.NewClient(apiKey),
		from:       from,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		templates:  template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		logger:     logger,
	}
}

func (s *EmailService) SendVerificationEmail(to, token string) error {
	verificationLink := s.appBaseURL + "/api/auth/verify/" + token

	html, err := s.render("verify-email.html", map[string]interface{}{
		"VerificationLink": verificationLink,
		"Email":            to,
		"Year":             time.Now().Year(),
	})
	if err != nil {
		s.logger.Error("failed to render verification email", zap.String("email", to), zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Verify your email address",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("failed to send verification email", zap.String("email", to), zap.Error(err))
		return err
	}

	s.logger.Info("verification email sent", zap.String("email", to), zap.String("id", resp.Id))
	return nil
}

func (s *EmailService) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
