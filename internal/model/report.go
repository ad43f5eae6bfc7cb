package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// Report is an inbound complaint/report as posted by a client.
type Report struct {
	Type        string  `json:"type"`
	Priority    Text    `json:"priority,omitempty"`
	User        *User   `json:"user,omitempty"`
	CreatedAt   Text    `json:"created_at,omitempty"`
	Description Text    `json:"description,omitempty"`
	Files       FileSet `json:"files,omitempty"`
}

// User identifies the reporter. Every field is optional.
type User struct {
	Username Text `json:"username,omitempty"`
	ID       Text `json:"id,omitempty"`
	Email    Text `json:"email,omitempty"`
}

// Text is a display field that accepts any JSON scalar. Numbers keep their
// literal digits, so large IDs are not rounded. false, 0 and null decode to
// the empty string and get the field's default.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*t = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 'n', 'f':
		*t = ""
	case 't':
		*t = "true"
	case '{', '[':
		return &json.UnmarshalTypeError{Value: "non-scalar", Type: textType}
	default:
		if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil && f == 0 {
			*t = ""
			return nil
		}
		*t = Text(trimmed)
	}
	return nil
}

// File is a single base64 encoded attachment.
type File struct {
	Name string `json:"name"`
	Data string `json:"data"`

	missingData bool
}

// HasData reports whether the file carried a "data" value. Files built in
// code always do; decoded files without one, or null entries, do not.
func (f File) HasData() bool {
	return !f.missingData
}

func (f *File) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string  `json:"name"`
		Data *string `json:"data"`
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = File{missingData: true}
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = File{Name: raw.Name, missingData: raw.Data == nil}
	if raw.Data != nil {
		f.Data = *raw.Data
	}
	return nil
}

// FileSet holds the report's attachments in submission order.
// A "files" value that is not a JSON array is treated as no files.
type FileSet []File

func (fs *FileSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*fs = nil
		return nil
	}

	var files []File
	if err := json.Unmarshal(trimmed, &files); err != nil {
		return err
	}
	*fs = files
	return nil
}

var textType = reflect.TypeOf(Text(""))

// Attachment is a decoded file ready to be sent.
type Attachment struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// Message is the outbound payload delivered to the webhook.
type Message struct {
	Content     string
	Attachments []Attachment
}
