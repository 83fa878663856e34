package generic

// =============================================================================
// PERIOD - Contract rental window
// =============================================================================

// Period is the rental window of a contract. Start anchors every due date;
// End is the "نهاية العقد" due date.
type Period struct {
	Start Date
	End   Date
}

// Validate rejects a period whose end precedes its start.
func (p Period) Validate() error {
	if !p.End.IsZero() && !p.Start.IsZero() && p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Days returns the inclusive day count of the period.
func (p Period) Days() int {
	if p.End.IsZero() {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// PeriodFromMonths builds a period starting at start and spanning n months.
func PeriodFromMonths(start Date, n int) Period {
	return Period{Start: start, End: start.AddMonths(n).AddDays(-1)}
}
