// Package email delivers one-time login codes.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ResendEndpoint is the Resend send-email API.
const ResendEndpoint = "https://api.resend.com/emails"

// OTPSubject is the subject line of code emails.
const OTPSubject = "Your OTP Code"

// Sender delivers a one-time code to an address.
type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

var otpTemplate = template.Must(template.New("otp").Parse(
	`<p>Your OTP is <b>{{.Code}}</b></p><p>This OTP expires in {{.Minutes}} minutes.</p>`))

// RenderOTP renders the HTML body of a code email.
func RenderOTP(code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(ttl.Minutes())})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

// ResendSender sends mail through the Resend HTTP API.
type ResendSender struct {
	apiKey   string
	from     string
	ttl      time.Duration
	endpoint string
	client   *http.Client
}

// NewResendSender creates a sender. ttl is quoted in the message body.
func NewResendSender(apiKey, from string, ttl, timeout time.Duration) *ResendSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendSender{
		apiKey:   apiKey,
		from:     from,
		ttl:      ttl,
		endpoint: ResendEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendOTP posts the code email.
func (s *ResendSender) SendOTP(ctx context.Context, to, code string) error {
	html, err := RenderOTP(code, s.ttl)
	if err != nil {
		return err
	}
	body, err := json.Marshal(resendPayload{
		From:    s.from,
		To:      []string{to},
		Subject: OTPSubject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}

// LogSender writes codes to the log instead of sending them. For local development.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a logging sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// SendOTP logs the code.
func (s *LogSender) SendOTP(ctx context.Context, to, code string) error {
	s.logger.InfoContext(ctx, "otp email not sent, no provider configured", "to", to, "otp", code)
	return nil
}

var (
	_ Sender = (*ResendSender)(nil)
	_ Sender = (*LogSender)(nil)
)
