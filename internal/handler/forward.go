package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/reportrelay/internal/forward"
	"github.com/reportrelay/internal/model"
)

type reportForwarder interface {
	Forward(ctx context.Context, r *model.Report) (string, error)
}

// ForwardHandler relays posted reports to the configured webhook.
type ForwardHandler struct {
	BaseHandler
	forwarder    reportForwarder
	maxBodyBytes int64
}

func NewForwardHandler(logger *slog.Logger, f reportForwarder, maxBodyBytes int64) *ForwardHandler {
	return &ForwardHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		forwarder:    f,
		maxBodyBytes: maxBodyBytes,
	}
}

// Handle accepts a JSON report and forwards it. Checks run in a fixed order:
// method, body, configuration, attachments, webhook.
func (h *ForwardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.textResponse(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var report *model.Report
	if err := h.readJSON(w, r, &report, h.maxBodyBytes); err != nil {
		h.Logger.Debug("forward: rejected body", "err", err)
		h.textResponse(w, http.StatusBadRequest, "Bad request")
		return
	}
	if report == nil || report.Type == "" {
		h.textResponse(w, http.StatusBadRequest, "Bad request")
		return
	}

	id, err := h.forwarder.Forward(r.Context(), report)
	if err != nil {
		h.forwardErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"ok": true}, http.Header{"X-Forward-Id": {id}}); err != nil {
		h.logError(r, err)
	}
}

// forwardErrorResponse maps a forward failure to its status and message.
func (h *ForwardHandler) forwardErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch forward.KindOf(err) {
	case forward.KindClient:
		h.textResponse(w, http.StatusBadRequest, "Bad request")
	case forward.KindConfiguration:
		h.Logger.Error("forward: server not configured", "err", err)
		h.textResponse(w, http.StatusInternalServerError, "Server not configured: "+err.Error())
	case forward.KindUpstream:
		var upstream *forward.UpstreamError
		if !errors.As(err, &upstream) {
			h.serverErrorResponse(w, r, err)
			return
		}
		h.textResponse(w, http.StatusBadGateway, fmt.Sprintf("Webhook failed: %d %s", upstream.StatusCode, upstream.Body))
	default:
		h.serverErrorResponse(w, r, err)
	}
}
