package forward

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/reportrelay/internal/model"
)

type receivedPart struct {
	name     string
	filename string
	data     string
}

type partRecorder struct {
	mu    sync.Mutex
	parts []receivedPart
}

func (pr *partRecorder) all() []receivedPart {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return append([]receivedPart(nil), pr.parts...)
}

// newWebhookServer starts a fake webhook that records the parts of every
// multipart request and answers with status and body.
func newWebhookServer(t *testing.T, status int, body string, rec *partRecorder) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		defer rec.mu.Unlock()

		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		mr, err := r.MultipartReader()
		if err != nil {
			t.Errorf("expected multipart body: %v", err)
			return
		}
		for {
			p, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Errorf("reading part: %v", err)
				return
			}
			data, _ := io.ReadAll(p)
			rec.parts = append(rec.parts, receivedPart{name: p.FormName(), filename: p.FileName(), data: string(data)})
		}

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebhookSend(t *testing.T) {
	rec := &partRecorder{}
	srv := newWebhookServer(t, http.StatusNoContent, "", rec)

	msg := model.Message{
		Content: "**COMPLAINT** • Priority: normal",
		Attachments: []model.Attachment{
			{FieldName: "file0", Filename: "a.txt", ContentType: "application/octet-stream", Data: []byte("hi")},
			{FieldName: "file1", Filename: `we"ird.png`, ContentType: "application/octet-stream", Data: []byte{0x89, 0x50}},
		},
	}

	if err := NewWebhook(srv.Client()).Send(context.Background(), srv.URL, msg); err != nil {
		t.Fatalf("Send returned an error: %v", err)
	}

	parts := rec.all()
	want := []receivedPart{
		{name: "content", data: msg.Content},
		{name: "file0", filename: "a.txt", data: "hi"},
		{name: "file1", filename: "we%22ird.png", data: string([]byte{0x89, 0x50})},
	}
	if len(parts) != len(want) {
		t.Fatalf("expected %d parts, got %d: %+v", len(want), len(parts), parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("part %d = %+v, want %+v", i, parts[i], want[i])
		}
	}
}

func TestWebhookSendEscapesFilenameLineBreaks(t *testing.T) {
	rec := &partRecorder{}
	srv := newWebhookServer(t, http.StatusOK, "", rec)

	name := "a.txt\"\r\nContent-Disposition: form-data; name=\"content\"\r\nX: \""
	msg := model.Message{
		Content: "x",
		Attachments: []model.Attachment{
			{FieldName: "file0", Filename: name, ContentType: "application/octet-stream", Data: []byte("hi")},
		},
	}

	if err := NewWebhook(srv.Client()).Send(context.Background(), srv.URL, msg); err != nil {
		t.Fatalf("Send returned an error: %v", err)
	}

	parts := rec.all()
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d: %+v", len(parts), parts)
	}

	want := receivedPart{
		name:     "file0",
		filename: "a.txt%22%0D%0AContent-Disposition: form-data; name=%22content%22%0D%0AX: %22",
		data:     "hi",
	}
	if parts[1] != want {
		t.Errorf("file part = %+v, want %+v", parts[1], want)
	}
}

func TestWebhookSendUpstreamError(t *testing.T) {
	srv := newWebhookServer(t, http.StatusServiceUnavailable, "rate limited", &partRecorder{})

	err := NewWebhook(srv.Client()).Send(context.Background(), srv.URL, model.Message{Content: "x"})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", upstream.StatusCode)
	}
	if upstream.Body != "rate limited" {
		t.Errorf("body = %q, want %q", upstream.Body, "rate limited")
	}
}

func TestWebhookSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewWebhook(nil).Send(context.Background(), url, model.Message{Content: "x"})
	if err == nil {
		t.Fatal("expected an error for a closed server")
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		t.Errorf("transport failure must not be an upstream error: %v", err)
	}
	if !strings.Contains(err.Error(), "posting to webhook") {
		t.Errorf("unexpected error: %v", err)
	}
}
