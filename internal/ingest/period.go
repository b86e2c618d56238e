package ingest

import (
	"fmt"
	"time"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

const dateLayout = "2006-01-02"

// ResolveRange turns a filter set into a closed day range relative to now.
// An explicit inicio/fim pair takes precedence over the period.
func ResolveRange(f models.Filters, now time.Time) (from, to time.Time, err error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if f.Start != "" || f.End != "" {
		to = today
		if f.End != "" {
			if to, err = time.ParseInLocation(dateLayout, f.End, loc); err != nil {
				return from, to, fmt.Errorf("data final inválida: %q", f.End)
			}
		}
		from = to
		if f.Start != "" {
			if from, err = time.ParseInLocation(dateLayout, f.Start, loc); err != nil {
				return from, to, fmt.Errorf("data inicial inválida: %q", f.Start)
			}
		}
		if from.After(to) {
			return from, to, fmt.Errorf("intervalo inválido: %s > %s", f.Start, f.End)
		}
		return from, to, nil
	}

	switch f.Period {
	case models.PeriodToday:
		return today, today, nil
	case models.PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y, nil
	case models.PeriodLast7Days:
		return today.AddDate(0, 0, -6), today, nil
	case models.PeriodLast30Days, "":
		return today.AddDate(0, 0, -29), today, nil
	case models.PeriodCurrentMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc), today, nil
	case models.PeriodPreviousMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1), nil
	}
	return from, to, fmt.Errorf("período desconhecido: %q", f.Period)
}
