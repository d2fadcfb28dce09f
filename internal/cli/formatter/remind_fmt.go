package formatter

import (
	"time"

	"github.com/alexanderramin/diarycard/internal/notify"
)

// FormatReminders renders pending reminders with the next time each fires.
func FormatReminders(rs []notify.Reminder, now time.Time) string {
	if len(rs) == 0 {
		return Dim("No reminders scheduled.") + "\n"
	}
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		next := notify.NextOccurrence(r, now)
		rows = append(rows, []string{
			r.At.String(),
			kindLabel(r.Kind),
			r.Body,
			Dim(HumanDate(next, now) + " " + next.Format("15:04")),
		})
	}
	return RenderTable([]string{"TIME", "KIND", "MESSAGE", "NEXT"}, rows)
}

// FormatDue renders reminders that just fired.
func FormatDue(rs []notify.Reminder) string {
	if len(rs) == 0 {
		return Dim("Nothing due right now.") + "\n"
	}
	out := ""
	for _, r := range rs {
		out += StyleYellow.Render("⏰ "+r.At.String()) + "  " + Bold(r.Title) + "  " + r.Body + "\n"
	}
	return out
}

func kindLabel(kind string) string {
	switch kind {
	case notify.KindDiary:
		return StyleBlue.Render("diary")
	case notify.KindMedication:
		return StylePurple.Render("medication")
	default:
		return Dim(kind)
	}
}
