package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
)

// FormatHistory renders a table of diary entries, most recent first.
func FormatHistory(entries []*domain.DiaryEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No diary entries yet. Start one with `diarycard diary new`.") + "\n"
	}

	headers := []string{"ID", "WHEN", "SESSION", "ACTIONS", "MAX URGE", "MEDS", "NOTE"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			TruncID(e.ID),
			HumanTimestamp(e.Timestamp.In(now.Location()), now),
			SessionPill(e.Session),
			fmt.Sprintf("%d", e.ActedCount()),
			IntensityColor(e.MaxUrge()).Render(fmt.Sprintf("%d", e.MaxUrge())),
			medsTaken(e.Medications),
			preview(e.Note, 32),
		})
	}
	return RenderTable(headers, rows)
}

func medsTaken(doses []domain.MedicationDose) string {
	if len(doses) == 0 {
		return Dim("–")
	}
	taken := 0
	for _, d := range doses {
		if d.Taken {
			taken++
		}
	}
	return fmt.Sprintf("%d/%d", taken, len(doses))
}

func preview(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) > max {
		return string([]rune(s)[:max-3]) + "..."
	}
	return s
}

// FormatEntry renders one diary card in full.
func FormatEntry(e *domain.DiaryEntry, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s  %s\n\n",
		Bold(e.Timestamp.In(now.Location()).Format("Mon Jan 2, 2006 15:04")),
		SessionPill(e.Session),
		TruncID(e.ID))

	b.WriteString(Header("Actions") + "\n")
	for _, k := range domain.ActionKeys() {
		fmt.Fprintf(&b, "  %s %s\n", Check(e.Acted(k)), k.Label())
	}
	for _, c := range e.Actions.Custom {
		fmt.Fprintf(&b, "  %s %s\n", Check(c.Acted), c.Label)
	}

	writeRatings(&b, "Urges", domain.RatingKeys(domain.ClusterUrges), e, e.Urges.Custom)
	writeRatings(&b, "Emotions", domain.RatingKeys(domain.ClusterEmotions), e, nil)
	writeRatings(&b, "Skills", domain.RatingKeys(domain.ClusterSkills), e, nil)

	if len(e.Medications) > 0 {
		b.WriteString("\n" + Header("Medications") + "\n")
		for _, d := range e.Medications {
			label := d.Name
			if d.Strength != "" {
				label += " " + Dim(d.Strength)
			}
			fmt.Fprintf(&b, "  %s %s\n", Check(d.Taken), label)
		}
	}
	if len(e.Goals) > 0 {
		b.WriteString("\n" + Header("Goals") + "\n")
		for _, g := range e.Goals {
			fmt.Fprintf(&b, "  %s %s\n", Check(g.Done), g.Goal)
		}
	}
	if strings.TrimSpace(e.Note) != "" {
		b.WriteString("\n" + Header("Note") + "\n")
		b.WriteString("  " + e.Note + "\n")
	}
	return b.String()
}

func writeRatings(b *strings.Builder, title string, keys []domain.RatingKey, e *domain.DiaryEntry, custom []domain.LabeledRating) {
	b.WriteString("\n" + Header(title) + "\n")
	rows := make([][]string, 0, len(keys)+len(custom))
	for _, k := range keys {
		rows = append(rows, []string{"  " + k.Label(), RatingCell(e.Rating(k))})
	}
	for _, c := range custom {
		rows = append(rows, []string{"  " + c.Label, RatingCell(c.Rating)})
	}
	for _, r := range rows {
		fmt.Fprintf(b, "%-32s %s\n", r[0], r[1])
	}
}
