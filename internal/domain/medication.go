package domain

import (
	"fmt"
	"time"
)

// Medication is an entry on the user's medication list.
type Medication struct {
	ID            string
	UserID        string
	RxCUI         string
	Name          string
	Strength      string
	DosageForm    string
	ReminderTimes []ClockTime
	CreatedAt     time.Time
}

// DisplayName joins the name and strength when the name does not already
// carry it.
func (m *Medication) DisplayName() string {
	if m.Strength == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Strength)
}

func (m *Medication) Validate() error {
	if m.UserID == "" {
		return fmt.Errorf("medication: missing user id")
	}
	if m.Name == "" {
		return fmt.Errorf("medication: name is required")
	}
	seen := make(map[ClockTime]bool, len(m.ReminderTimes))
	for _, t := range m.ReminderTimes {
		if seen[t] {
			return fmt.Errorf("medication: duplicate reminder time %s", t)
		}
		seen[t] = true
	}
	return nil
}
