package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"sync"
	"time"

	"exhibae/internal/shared/config"
	"exhibae/pkg/logger"
)

// EmailMessage is one outbound email
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// EmailDispatcher sends emails. Implementations: the external email
// microservice over HTTP, direct SMTP, and a mock for tests.
type EmailDispatcher interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// NewDispatcher picks the HTTP dispatcher when a service URL is
// configured, otherwise falls back to direct SMTP.
func NewDispatcher(cfg *config.Config) EmailDispatcher {
	if cfg.Email.ServiceURL != "" {
		return NewHTTPEmailService(cfg)
	}
	return NewSMTPEmailService(cfg)
}

// HTTPEmailService forwards emails to the external email microservice
type HTTPEmailService struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

func NewHTTPEmailService(cfg *config.Config) *HTTPEmailService {
	return &HTTPEmailService{
		baseURL: cfg.Email.ServiceURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger.GetDefault(),
	}
}

type emailServiceResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Error     string `json:"error,omitempty"`
}

func (s *HTTPEmailService) Send(ctx context.Context, msg *EmailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/email/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email service request failed: %w", err)
	}
	defer resp.Body.Close()

	var result emailServiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode email service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		return fmt.Errorf("email service rejected message: status=%d error=%s", resp.StatusCode, result.Error)
	}

	s.log.Debug("email sent via service", "to", msg.To, "message_id", result.MessageID)
	return nil
}

// SMTPEmailService sends email directly over SMTP with STARTTLS
type SMTPEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	log      *logger.Logger
}

func NewSMTPEmailService(cfg *config.Config) *SMTPEmailService {
	return &SMTPEmailService{
		host:     cfg.Email.SMTPHost,
		port:     cfg.Email.SMTPPort,
		username: cfg.Email.SMTPUsername,
		password: cfg.Email.SMTPPassword,
		from:     cfg.Email.FromEmail,
		fromName: cfg.Email.FromName,
		log:      logger.GetDefault(),
	}
}

func (s *SMTPEmailService) Send(ctx context.Context, msg *EmailMessage) error {
	if s.host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	return s.sendWithSTARTTLS(msg)
}

func (s *SMTPEmailService) sendWithSTARTTLS(msg *EmailMessage) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.host}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start tls: %w", err)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail from failed: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to failed: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data failed: %w", err)
	}
	if _, err := writer.Write(s.buildMessage(msg)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish email body: %w", err)
	}

	return client.Quit()
}

func (s *SMTPEmailService) buildMessage(msg *EmailMessage) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.fromName, s.from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML != "" {
		buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		buf.WriteString(msg.HTML)
	} else {
		buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		buf.WriteString(msg.Text)
	}
	buf.WriteString("\r\n")

	return buf.Bytes()
}

// MockEmailDispatcher records sent emails for tests
type MockEmailDispatcher struct {
	mu     sync.Mutex
	Sent   []EmailMessage
	Fail   bool
	FailN  int // fail the first N sends, then succeed
	failed int
}

func (m *MockEmailDispatcher) Send(ctx context.Context, msg *EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return fmt.Errorf("mock email failure")
	}
	if m.failed < m.FailN {
		m.failed++
		return fmt.Errorf("mock email failure %d", m.failed)
	}

	m.Sent = append(m.Sent, *msg)
	return nil
}

func (m *MockEmailDispatcher) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
