package email

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const mailerooSendURL = "https://smtp.maileroo.com/send"

// MailerooClient sends verification emails through the Maileroo HTTP API.
// The API takes form fields (from, to, subject, html, plain) and an
// X-API-Key header.
type MailerooClient struct {
	apiKey    string
	fromEmail string
	client    *http.Client
	logger    *slog.Logger
}

var _ Sender = (*MailerooClient)(nil)

// NewMailerooClient creates a Maileroo-backed Sender.
func NewMailerooClient(apiKey, fromEmail string, logger *slog.Logger) *MailerooClient {
	return &MailerooClient{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

// SendVerification posts the verification email to the Maileroo API.
func (c *MailerooClient) SendVerification(ctx context.Context, to, verificationLink string) error {
	form := url.Values{}
	form.Set("from", fmt.Sprintf("Email Verification <%s>", c.fromEmail))
	form.Set("to", to)
	form.Set("subject", "Verify Your Email Address")
	form.Set("html", verificationHTML(verificationLink))
	form.Set("plain", verificationText(verificationLink))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mailerooSendURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("email: building maileroo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email: sending to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a bounded slice of the body for the log line — the API's error
		// payloads are small, but don't trust that.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("maileroo rejected email",
			slog.String("to", to),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("email: maileroo returned status %d", resp.StatusCode)
	}

	c.logger.Info("verification email sent", slog.String("to", to))
	return nil
}

func verificationHTML(link string) string {
	return fmt.Sprintf(`<html>
<body>
	<h2>Email Verification</h2>
	<p>Please click the link below to verify your email address:</p>
	<p><a href="%s">Verify Email</a></p>
	<p>Or copy and paste this link in your browser:</p>
	<p>%s</p>
	<p>This link will expire in 10 minutes.</p>
</body>
</html>`, link, link)
}

func verificationText(link string) string {
	return fmt.Sprintf(`Email Verification

Please copy and paste the following link in your browser to verify your email address:

%s

This link will expire in 10 minutes.
`, link)
}
