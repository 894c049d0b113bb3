package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/eyadahmed25/customer-management/internal/config"
)

// EmailResult is the outcome of a send attempt. A transport failure is
// reported as IsSuccess=false, never as an error.
type EmailResult struct {
	IsSuccess    bool
	StatusCode   int
	MessageID    string
	ErrorMessage string
}

// EmailRequest describes a single outbound email.
type EmailRequest struct {
	ToEmail     string
	ToName      string
	Subject     string
	TextContent string
	HTMLContent string
}

// EmailSender delivers transactional email through an external provider.
type EmailSender interface {
	SendWelcome(ctx context.Context, toEmail, firstName string) EmailResult
	Send(ctx context.Context, request EmailRequest) EmailResult
}

type sendGridSender struct {
	cfg    config.SendGridConfig
	client *http.Client
	logger *zap.Logger
}

// NewSendGridSender returns an EmailSender backed by the SendGrid v3 mail API.
func NewSendGridSender(cfg config.SendGridConfig, logger *zap.Logger) EmailSender {
	return &sendGridSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

func (s *sendGridSender) SendWelcome(ctx context.Context, toEmail, firstName string) EmailResult {
	return s.Send(ctx, EmailRequest{
		ToEmail: toEmail,
		ToName:  firstName,
		Subject: "Welcome to Customer Management!",
		TextContent: fmt.Sprintf("Hello %s,\n\n"+
			"Welcome to our Customer Management system! We're excited to have you on board.\n\n"+
			"Thank you for creating an account with us. If you have any questions, please don't hesitate to reach out.\n\n"+
			"Best regards,\nThe Customer Management Team", firstName),
		HTMLContent: fmt.Sprintf("<html><body>"+
			"<h2>Hello %s,</h2>"+
			"<p>Welcome to our Customer Management system! We're excited to have you on board.</p>"+
			"<p>Thank you for creating an account with us. If you have any questions, please don't hesitate to reach out.</p>"+
			"<p>Best regards,<br>The Customer Management Team</p>"+
			"</body></html>", firstName),
	})
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

func (s *sendGridSender) Send(ctx context.Context, request EmailRequest) EmailResult {
	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: request.ToEmail, Name: request.ToName}}},
		},
		From:    sendGridAddress{Email: s.cfg.FromEmail, Name: s.cfg.FromName},
		Subject: request.Subject,
		Content: []sendGridContent{{Type: "text/plain", Value: request.TextContent}},
	}
	if request.HTMLContent != "" {
		payload.Content = append(payload.Content, sendGridContent{Type: "text/html", Value: request.HTMLContent})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return EmailResult{IsSuccess: false, ErrorMessage: fmt.Sprintf("encode mail payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return EmailResult{IsSuccess: false, ErrorMessage: fmt.Sprintf("build mail request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return EmailResult{IsSuccess: false, ErrorMessage: fmt.Sprintf("mail request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return EmailResult{
			IsSuccess:  true,
			StatusCode: resp.StatusCode,
			MessageID:  resp.Header.Get("X-Message-Id"),
		}
	}

	errBody, _ := io.ReadAll(resp.Body)
	s.logger.Warn("sendgrid rejected mail",
		zap.Int("status", resp.StatusCode),
		zap.String("to", request.ToEmail))
	return EmailResult{
		IsSuccess:    false,
		StatusCode:   resp.StatusCode,
		ErrorMessage: fmt.Sprintf("sendgrid error: %s. %s", resp.Status, string(errBody)),
	}
}
