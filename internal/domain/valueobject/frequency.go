// Package valueobject defines immutable value objects for the domain layer.
package valueobject

// Frequency is how often a recurrence rule produces a ledger entry.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// IsValid reports whether f is one of the supported frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// String returns the string representation of the frequency.
func (f Frequency) String() string {
	return string(f)
}

const (
	// MinCycleDayOfMonth and MaxCycleDayOfMonth bound a day-of-month anchor.
	MinCycleDayOfMonth = 1
	MaxCycleDayOfMonth = 31

	// MinCycleDayOfWeek (Sunday) and MaxCycleDayOfWeek (Saturday) bound a day-of-week anchor.
	MinCycleDayOfWeek = 0
	MaxCycleDayOfWeek = 6
)
