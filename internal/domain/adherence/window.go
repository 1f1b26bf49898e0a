package adherence

import (
	"fmt"
	"time"

	"medication-adherence/internal/domain/medications"
)

// Todas las cuentas de días se hacen en UTC: cada instante se pasa a UTC y se
// trunca a su día calendario antes de comparar.

const day = 24 * time.Hour

var epoch = time.Unix(0, 0).UTC()

// Window es el rango [Start, End] cerrado de un reporte.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return &ValidationError{Field: "window", Reason: "start and end are required"}
	}
	if w.Start.After(w.End) {
		return &ValidationError{
			Field:  "window",
			Reason: fmt.Sprintf("start %s is after end %s", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339)),
		}
	}
	return nil
}

// Contains incluye ambos extremos.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayWindow arma la ventana que cubre completos los días de from y to (UTC).
func DayWindow(from, to time.Time) Window {
	return Window{
		Start: utcDay(from),
		End:   utcDay(to).Add(day - time.Nanosecond),
	}
}

// PeriodDays cuenta los días calendario que toca la ventana.
func PeriodDays(w Window) int {
	return inclusiveDays(utcDay(w.Start), utcDay(w.End))
}

// OverlapDays cuenta los días en que la medicación estuvo activa dentro de w.
// Sin active_from se toma epoch; sin active_until se toma el fin de la ventana.
func OverlapDays(m medications.Medication, w Window) int {
	start := epoch
	if m.ActiveFrom != nil {
		start = *m.ActiveFrom
	}
	end := w.End
	if m.ActiveUntil != nil {
		end = *m.ActiveUntil
	}

	from := latest(utcDay(start), utcDay(w.Start))
	to := earliest(utcDay(end), utcDay(w.End))
	return inclusiveDays(from, to)
}

func inclusiveDays(from, to time.Time) int {
	if from.After(to) {
		return 0
	}
	return int(to.Sub(from)/day) + 1
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
