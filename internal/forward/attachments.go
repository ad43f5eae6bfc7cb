package forward

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/reportrelay/internal/model"
)

const attachmentContentType = "application/octet-stream"

// DecodeAttachments decodes every file in order. Field names are positional
// (file0, file1, ...). The first bad file fails the whole set.
func DecodeAttachments(files []model.File) ([]model.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}

	attachments := make([]model.Attachment, 0, len(files))
	for i, f := range files {
		if !f.HasData() {
			return nil, fmt.Errorf("file %d (%q) has no data", i, f.Name)
		}

		data, err := decodeBase64(f.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding file %d (%q): %w", i, f.Name, err)
		}

		attachments = append(attachments, model.Attachment{
			FieldName:   fmt.Sprintf("file%d", i),
			Filename:    f.Name,
			ContentType: attachmentContentType,
			Data:        data,
		})
	}
	return attachments, nil
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// decodeBase64 accepts standard base64 with or without padding. Line breaks
// are ignored.
func decodeBase64(s string) ([]byte, error) {
	s = lineBreaks.Replace(strings.TrimSpace(s))
	if strings.HasSuffix(s, "=") || len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
