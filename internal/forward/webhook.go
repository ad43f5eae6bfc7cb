package forward

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/reportrelay/internal/model"
)

// maxErrorBody caps how much of a failed webhook response is kept.
const maxErrorBody = 64 << 10

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Webhook posts messages to a chat-platform incoming webhook.
type Webhook struct {
	client doer
}

// NewWebhook returns a Webhook using client. A nil client means http.DefaultClient.
func NewWebhook(client *http.Client) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{client: client}
}

// Send delivers msg to url as multipart/form-data. A non-2xx response is
// returned as *UpstreamError.
func (wh *Webhook) Send(ctx context.Context, url string, msg model.Message) error {
	body, contentType, err := buildMultipart(msg)
	if err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := wh.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("reading webhook response: %w", err)
	}
	return &UpstreamError{StatusCode: resp.StatusCode, Body: string(text)}
}

// buildMultipart writes the content field followed by one file part per
// attachment, in order.
func buildMultipart(msg model.Message) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("content", msg.Content); err != nil {
		return nil, "", err
	}

	for _, att := range msg.Attachments {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(att.FieldName), escapeQuotes(att.Filename)))
		header.Set("Content-Type", att.ContentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(att.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

// quoteEscaper percent-encodes CR, LF and the double quote the way browsers
// encode form-data names, so a name can never end the header line.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "%22", "\r", "%0D", "\n", "%0A")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
