package forward

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reportrelay/internal/model"
)

type sender interface {
	Send(ctx context.Context, url string, msg model.Message) error
}

// Forwarder turns reports into webhook messages and delivers them.
type Forwarder struct {
	logger     *slog.Logger
	webhookURL string
	sender     sender
	now        func() time.Time
}

// New returns a Forwarder that posts to webhookURL. An empty URL is allowed;
// every Forward call then fails with KindConfiguration.
func New(logger *slog.Logger, webhookURL string, s sender) *Forwarder {
	return &Forwarder{
		logger:     logger,
		webhookURL: strings.TrimSpace(webhookURL),
		sender:     s,
		now:        time.Now,
	}
}

// Configured reports whether a destination webhook is set.
func (f *Forwarder) Configured() bool {
	return f.webhookURL != ""
}

// Forward validates r, builds the outbound message and sends it. It returns
// the forward ID on success. Failures are always *Error.
func (f *Forwarder) Forward(ctx context.Context, r *model.Report) (string, error) {
	if r == nil || r.Type == "" {
		return "", newError(KindClient, ErrMissingType)
	}

	if !f.Configured() {
		return "", newError(KindConfiguration, ErrNotConfigured)
	}

	attachments, err := DecodeAttachments(r.Files)
	if err != nil {
		return "", newError(KindInternal, err)
	}

	msg := model.Message{
		Content:     FormatContent(r, f.now()),
		Attachments: attachments,
	}

	id := uuid.NewString()
	if err := f.sender.Send(ctx, f.webhookURL, msg); err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			f.logger.Warn("webhook rejected report", "forward_id", id, "status", upstream.StatusCode)
			return "", newError(KindUpstream, err)
		}
		return "", newError(KindInternal, err)
	}

	f.logger.Info("report forwarded",
		"forward_id", id,
		"type", r.Type,
		"priority", valueOr(r.Priority, defaultPriority),
		"attachments", len(attachments),
	)
	return id, nil
}
