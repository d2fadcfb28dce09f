package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// HumanDate returns a human-friendly absolute date string relative to now.
func HumanDate(t, now time.Time) string {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t, now)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t, now)
	}
}

// SessionPill returns a colored indicator for a diary session tag.
func SessionPill(tag domain.SessionTag) string {
	switch tag {
	case domain.SessionMorning:
		return StyleYellow.Render("☀ Morning")
	case domain.SessionEvening:
		return StyleBlue.Render("☾ Evening")
	case domain.SessionManual:
		return StylePurple.Render("✎ Manual")
	default:
		return StyleDim.Render(string(tag))
	}
}

// RatingCell renders a rating value, or a dim dash when it was never set.
func RatingCell(r domain.Rating) string {
	if !r.IsSet() {
		return StyleDim.Render("–")
	}
	return IntensityColor(r.Value).Render(fmt.Sprintf("%d", r.Value))
}

// Check renders a yes/no mark.
func Check(b bool) string {
	if b {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("·")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
