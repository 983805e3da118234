package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"warscout/internal/config"
)

const userAgent = "warscout/0.1.0"

// Service defines the notification surface exposed to the monitor.
type Service interface {
	NotifyRecorded(ctx context.Context, player string, generals []string) error
	NotifyReconcile(ctx context.Context, candidate, known string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		recorded:  cfg.Notifications.Recorded,
		reconcile: cfg.Notifications.Reconcile,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	recorded  bool
	reconcile bool
}

func (n *ntfyService) NotifyRecorded(ctx context.Context, player string, generals []string) error {
	if !n.recorded {
		return nil
	}
	player = strings.TrimSpace(player)
	message := fmt.Sprintf("New team for %s", player)
	if len(generals) > 0 {
		message = fmt.Sprintf("%s\n%s", message, strings.Join(generals, "\n"))
	}
	return n.send(ctx, payload{
		title:   "warscout - Recorded",
		message: message,
		tags:    []string{"warscout", "record", "new"},
	})
}

func (n *ntfyService) NotifyReconcile(ctx context.Context, candidate, known string) error {
	if !n.reconcile {
		return nil
	}
	return n.send(ctx, payload{
		title:    "warscout - Name Conflict",
		message:  fmt.Sprintf("Read %q, which resembles %q\nAnswer the prompt to continue monitoring", candidate, known),
		tags:     []string{"warscout", "identity", "review"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "warscout - Error",
		message:  builder.String(),
		tags:     []string{"warscout", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "warscout - Test",
		message:  "Notification system test",
		tags:     []string{"warscout", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRecorded(context.Context, string, []string) error { return nil }
func (noopService) NotifyReconcile(context.Context, string, string) error  { return nil }
func (noopService) NotifyError(context.Context, error, string) error       { return nil }
func (noopService) TestNotification(context.Context) error                 { return nil }
