package forward

import (
	"strings"
	"testing"
	"time"

	"github.com/reportrelay/internal/model"
)

var fixedNow = time.Date(2026, 10, 19, 8, 15, 30, 123_000_000, time.UTC)

func TestFormatContent(t *testing.T) {
	cases := []struct {
		name   string
		report model.Report
		want   []string
	}{
		{
			name:   "defaults",
			report: model.Report{Type: "complaint"},
			want: []string{
				"**COMPLAINT** • Priority: normal",
				"**From:** Unknown (—)",
				"**Email:** —",
				"**Time:** 2026-10-19T08:15:30.123Z",
				"",
				"*No description provided*",
			},
		},
		{
			name: "all fields",
			report: model.Report{
				Type:        "Bug",
				Priority:    "high",
				User:        &model.User{Username: "sam", ID: "42", Email: "sam@example.org"},
				CreatedAt:   "2026-01-02T03:04:05Z",
				Description: "noisy neighbor\nsecond line",
			},
			want: []string{
				"**BUG** • Priority: high",
				"**From:** sam (42)",
				"**Email:** sam@example.org",
				"**Time:** 2026-01-02T03:04:05Z",
				"",
				"noisy neighbor\nsecond line",
			},
		},
		{
			name: "partial user",
			report: model.Report{
				Type: "complaint",
				User: &model.User{ID: "7"},
			},
			want: []string{
				"**COMPLAINT** • Priority: normal",
				"**From:** Unknown (7)",
				"**Email:** —",
				"**Time:** 2026-10-19T08:15:30.123Z",
				"",
				"*No description provided*",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatContent(&tc.report, fixedNow)
			want := strings.Join(tc.want, "\n")
			if got != want {
				t.Errorf("unexpected content\ngot:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestFormatContentUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := FormatContent(&model.Report{Type: "x"}, fixedNow.In(loc))

	if !strings.Contains(got, "**Time:** 2026-10-19T08:15:30.123Z") {
		t.Errorf("expected UTC timestamp, got:\n%s", got)
	}
}

func TestFormatContentDoesNotMutateReport(t *testing.T) {
	r := model.Report{Type: "complaint", User: &model.User{}}
	_ = FormatContent(&r, fixedNow)

	if r.Priority != "" || r.CreatedAt != "" || r.Description != "" || r.User.Username != "" {
		t.Errorf("report was mutated: %+v", r)
	}
}
