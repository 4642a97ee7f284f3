package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/precept-tool/precept/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderHookList(refs []domain.HookRef) string {
	if len(refs) == 0 {
		return "(no hooks configured)"
	}

	var b strings.Builder
	for _, ref := range refs {
		b.WriteString("  - ")
		b.WriteString(ref.Hook.ID)
		b.WriteString("  ")
		origin := ref.RepoURL
		if ref.Rev != "" {
			origin += " @ " + ref.Rev
		}
		b.WriteString(clampString(origin, 60))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRunList(refs []domain.RunRef) string {
	if len(refs) == 0 {
		return "(no runs saved)"
	}

	var b strings.Builder
	for _, r := range refs {
		status := "ok"
		if r.Failures > 0 {
			status = fmt.Sprintf("%d failed", r.Failures)
		}
		b.WriteString("  - ")
		b.WriteString(r.ID)
		b.WriteString("  ")
		b.WriteString(string(r.Stage))
		b.WriteString("  ")
		b.WriteString(r.StartedAt.Format(time.RFC3339))
		b.WriteString("  (")
		b.WriteString(status)
		b.WriteString(")\n")
	}
	return b.String()
}

func renderRunSummary(t Theme, run domain.RunResult, id string) string {
	var b strings.Builder

	if id != "" {
		b.WriteString("Run ID: ")
		b.WriteString(id)
		b.WriteString("\n")
	}
	b.WriteString("Stage:  ")
	b.WriteString(string(run.Stage))
	b.WriteString("\n\n")

	for _, r := range run.Results {
		var mark string
		switch r.Status {
		case domain.StatusPassed:
			mark = t.Pass.Render("✓")
		case domain.StatusSkipped:
			mark = t.Skip.Render("-")
		default:
			mark = t.Fail.Render("✗")
		}

		b.WriteString("  ")
		b.WriteString(mark)
		b.WriteString(" ")
		b.WriteString(r.Name)
		if r.Status == domain.StatusSkipped {
			b.WriteString(" (skipped)")
		}
		if r.Error != nil {
			b.WriteString("  ")
			b.WriteString(clampString(r.Error.Message, 50))
		}
		b.WriteString("\n")

		if r.Status == domain.StatusFailed && len(r.Output) > 0 {
			for _, line := range strings.Split(strings.TrimRight(string(r.Output), "\n"), "\n") {
				b.WriteString("      ")
				b.WriteString(clampString(line, 70))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d hook(s), %d failed", len(run.Results), run.Failures()))
	b.WriteString("\n")
	return b.String()
}
