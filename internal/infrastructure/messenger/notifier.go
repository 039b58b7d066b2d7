package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

const (
	discordAttempts = 3
	slackAttempts   = 1
	defaultTimeout  = 5 * time.Second
)

// Config はメッセンジャーゲートウェイへの接続設定。
type Config struct {
	Endpoint           string
	DiscordDestination string
	SlackDestination   string
	AdminBaseURL       string
	Timeout            time.Duration
	Logger             *log.Logger
}

// LeadNotifier は新しい提出をメッセンジャーゲートウェイ経由で Discord / Slack に知らせる。
// Discord を優先し、失敗した場合だけ Slack に送る。
type LeadNotifier struct {
	endpoint     string
	discordDest  string
	slackDest    string
	adminBaseURL string
	httpClient   *http.Client
	logger       *log.Logger
	retryDelay   time.Duration
}

var _ application.LeadNotifier = (*LeadNotifier)(nil)

func NewLeadNotifier(cfg Config) *LeadNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LeadNotifier{
		endpoint:     strings.TrimSpace(cfg.Endpoint),
		discordDest:  strings.TrimSpace(cfg.DiscordDestination),
		slackDest:    strings.TrimSpace(cfg.SlackDestination),
		adminBaseURL: strings.TrimSpace(cfg.AdminBaseURL),
		httpClient:   &http.Client{Timeout: timeout},
		logger:       cfg.Logger,
		retryDelay:   200 * time.Millisecond,
	}
}

// Enabled は送信先が設定されているかどうか。
func (n *LeadNotifier) Enabled() bool {
	return n.endpoint != "" && (n.discordDest != "" || n.slackDest != "")
}

// NotifyLead は通知を送る。送信先が未設定なら何もしない。すべての送信先で失敗した場合だけエラーを返す。
func (n *LeadNotifier) NotifyLead(ctx context.Context, submission domain.Submission) error {
	if !n.Enabled() {
		return nil
	}

	identifier := submission.ID
	if identifier == "" {
		identifier = "growth-iq"
	}

	var discordErr, slackErr error
	if n.discordDest != "" {
		discordErr = n.sendWithRetry(ctx, n.discordDest, identifier, buildDiscordLeadMessage(n.adminBaseURL, submission), discordAttempts)
		if discordErr == nil {
			return nil
		}
		n.logf("Discord通知の送信に失敗: %v", discordErr)
	}
	if n.slackDest != "" {
		slackErr = n.sendWithRetry(ctx, n.slackDest, identifier, buildSlackLeadMessage(n.adminBaseURL, submission), slackAttempts)
		if slackErr == nil {
			return nil
		}
		n.logf("Slack通知の送信に失敗: %v", slackErr)
	}
	return combineErrors(discordErr, slackErr)
}

func buildDiscordLeadMessage(adminBaseURL string, s domain.Submission) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**%s** completed the Legacy Growth IQ assessment.\n", respondentDisplayName(s)))
	builder.WriteString(fmt.Sprintf("- Score: %d%% (%d/%d)\n", s.Percentage, s.TotalScore, s.MaxScore))
	builder.WriteString(fmt.Sprintf("- Level: %s\n", s.ScoreLevel))
	if company := strings.TrimSpace(s.Contact.Company); company != "" {
		builder.WriteString(fmt.Sprintf("- Company: %s\n", company))
	}
	if email := s.Contact.Email.String(); email != "" {
		builder.WriteString(fmt.Sprintf("- Email: %s\n", email))
	}
	if phone := strings.TrimSpace(s.Contact.Phone); phone != "" {
		builder.WriteString(fmt.Sprintf("- Phone: %s\n", phone))
	}
	if link := adminLink(adminBaseURL, s.ID); link != "" {
		builder.WriteString(fmt.Sprintf("[Open in admin](%s)\n", link))
	}
	return builder.String()
}

func buildSlackLeadMessage(adminBaseURL string, s domain.Submission) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(":bell: New assessment from %s\n", respondentDisplayName(s)))
	builder.WriteString(fmt.Sprintf("Score: %d%% / Level: %s\n", s.Percentage, s.ScoreLevel))
	if email := s.Contact.Email.String(); email != "" {
		builder.WriteString(fmt.Sprintf("Email: %s\n", email))
	}
	if link := adminLink(adminBaseURL, s.ID); link != "" {
		builder.WriteString(fmt.Sprintf("Admin: %s\n", link))
	}
	return builder.String()
}

func respondentDisplayName(s domain.Submission) string {
	if name := strings.TrimSpace(s.Contact.Name); name != "" {
		return name
	}
	if email := s.Contact.Email.String(); email != "" {
		return email
	}
	return "An anonymous respondent"
}

func adminLink(baseURL, id string) string {
	if id == "" || baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + id
}

func (n *LeadNotifier) sendWithRetry(ctx context.Context, destination, userID, text string, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := n.send(ctx, destination, userID, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == attempts-1 || n.retryDelay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.retryDelay):
		}
	}
	return lastErr
}

func (n *LeadNotifier) send(ctx context.Context, destination, userID, text string) error {
	payload := map[string]any{
		"userId":      userID,
		"text":        text,
		"destination": destination,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信用ペイロードの作成に失敗: %w", err)
	}

	endpoint := strings.TrimRight(n.endpoint, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("メッセンジャー送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}

func combineErrors(errs ...error) error {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			parts = append(parts, err.Error())
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return errors.New(strings.Join(parts, "; "))
}

func (n *LeadNotifier) logf(format string, args ...any) {
	if n.logger != nil {
		n.logger.Printf(format, args...)
	}
}
