package forward

import (
	"fmt"
	"strings"
	"time"

	"github.com/reportrelay/internal/model"
)

const (
	defaultPriority = "normal"
	unknownUser     = "Unknown"
	placeholder     = "—"
	noDescription   = "*No description provided*"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// FormatContent renders the chat message text for a report. now supplies the
// timestamp used when the report has no created_at.
func FormatContent(r *model.Report, now time.Time) string {
	var user model.User
	if r.User != nil {
		user = *r.User
	}

	createdAt := string(r.CreatedAt)
	if createdAt == "" {
		createdAt = now.UTC().Format(timestampLayout)
	}

	lines := []string{
		fmt.Sprintf("**%s** • Priority: %s", strings.ToUpper(r.Type), valueOr(r.Priority, defaultPriority)),
		fmt.Sprintf("**From:** %s (%s)", valueOr(user.Username, unknownUser), valueOr(user.ID, placeholder)),
		fmt.Sprintf("**Email:** %s", valueOr(user.Email, placeholder)),
		fmt.Sprintf("**Time:** %s", createdAt),
		"",
		valueOr(r.Description, noDescription),
	}
	return strings.Join(lines, "\n")
}

// valueOr returns s, or fallback when s is empty.
func valueOr[T ~string](s T, fallback string) string {
	if s == "" {
		return fallback
	}
	return string(s)
}
