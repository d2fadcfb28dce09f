package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
)

// FormatDrugs renders drug search hits.
func FormatDrugs(drugs []rxnorm.Drug) string {
	if len(drugs) == 0 {
		return Dim("No medications found.") + "\n"
	}
	rows := make([][]string, 0, len(drugs))
	for i, d := range drugs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			d.RxCUI,
			d.Name,
			Dim(d.TTY),
		})
	}
	return RenderTable([]string{"#", "RXCUI", "NAME", "TYPE"}, rows)
}

// FormatFormulations renders the strength-specific products of a drug.
func FormatFormulations(forms []rxnorm.Formulation) string {
	if len(forms) == 0 {
		return Dim("No formulations found.") + "\n"
	}
	rows := make([][]string, 0, len(forms))
	for _, f := range forms {
		kind := "generic"
		if f.TTY == "SBD" {
			kind = "brand"
		}
		rows = append(rows, []string{
			f.RxCUI,
			orDash(f.Strength),
			orDash(f.DosageForm),
			Dim(kind),
			f.Name,
		})
	}
	return RenderTable([]string{"RXCUI", "STRENGTH", "FORM", "KIND", "NAME"}, rows)
}

// FormatMedications renders the user's medication list.
func FormatMedications(meds []*domain.Medication) string {
	if len(meds) == 0 {
		return Dim("No medications on your list.") + "\n"
	}
	rows := make([][]string, 0, len(meds))
	for _, m := range meds {
		rows = append(rows, []string{
			TruncID(m.ID),
			m.DisplayName(),
			orDash(m.DosageForm),
			formatTimes(m.ReminderTimes),
		})
	}
	return RenderTable([]string{"ID", "MEDICATION", "FORM", "REMINDERS"}, rows)
}

func formatTimes(ts []domain.ClockTime) string {
	if len(ts) == 0 {
		return Dim("none")
	}
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return Dim("–")
	}
	return s
}
