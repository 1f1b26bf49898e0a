package adherence

import (
	"fmt"
	"strings"
	"time"

	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/domain/medications"
)

// Period describe la ventana del reporte.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// MedicationStats es el detalle por medicación.
// Expected es nil para as_needed; AdherenceRate solo se informa en prescription.
type MedicationStats struct {
	MedicationID   string                     `json:"medication_id"`
	Name           string                     `json:"name"`
	Dosage         string                     `json:"dosage"`
	Classification medications.Classification `json:"classification"`
	SlotsPerDay    int                        `json:"slots_per_day"`
	ActiveDays     int                        `json:"active_days"`
	Expected       *int                       `json:"expected"`
	Taken          int                        `json:"taken"`
	Missed         int                        `json:"missed"`
	Skipped        int                        `json:"skipped"`
	AdherenceRate  *int                       `json:"adherence_rate"`
}

// Summary es el resultado numérico del reporte. Los totales solo incluyen
// medicaciones prescription.
type Summary struct {
	Period           Period            `json:"period"`
	TotalMedications int               `json:"total_medications"`
	ExpectedDoses    int               `json:"expected_doses"`
	TakenDoses       int               `json:"taken_doses"`
	MissedDoses      int               `json:"missed_doses"`
	AdherenceRate    int               `json:"adherence_rate"`
	Prescriptions    []MedicationStats `json:"prescriptions"`
	OneTime          []MedicationStats `json:"one_time"`
	AsNeeded         []MedicationStats `json:"as_needed"`
}

// BuildSummary calcula el resumen de adherencia. Es una función pura: mismas
// entradas, mismo resultado.
func BuildSummary(meds []medications.Medication, logs []intakelogs.IntakeLog, w Window) (Summary, error) {
	if err := w.Validate(); err != nil {
		return Summary{}, err
	}

	s := Summary{
		Period: Period{
			Start: w.Start,
			End:   w.End,
			Days:  PeriodDays(w),
		},
		TotalMedications: len(meds),
		Prescriptions:    make([]MedicationStats, 0),
		OneTime:          make([]MedicationStats, 0),
		AsNeeded:         make([]MedicationStats, 0),
	}

	if err := validateLogs(logs); err != nil {
		return Summary{}, err
	}
	counts := GroupOutcomes(logs, w)

	for i, m := range meds {
		if strings.TrimSpace(m.ID) == "" {
			return Summary{}, &ValidationError{Field: fmt.Sprintf("medications[%d].id", i), Reason: "required"}
		}

		c := counts[m.ID]
		active := OverlapDays(m, w)
		st := MedicationStats{
			MedicationID:   m.ID,
			Name:           m.Name,
			Dosage:         m.Dosage,
			Classification: m.Classification,
			SlotsPerDay:    m.SlotsPerDay(),
			ActiveDays:     active,
			Taken:          c.Taken,
			Skipped:        c.Skipped,
		}

		switch m.Classification {
		case medications.ClassificationPrescription:
			expected, _ := ExpectedDoses(m, active)
			rate := Percent(c.Taken, expected)
			st.Expected = &expected
			st.Missed = shortfall(expected, c.Taken)
			st.AdherenceRate = &rate

			s.ExpectedDoses += expected
			s.TakenDoses += c.Taken
			s.Prescriptions = append(s.Prescriptions, st)

		case medications.ClassificationOneTime:
			expected, _ := ExpectedDoses(m, active)
			st.Expected = &expected
			st.Missed = shortfall(expected, c.Taken)
			s.OneTime = append(s.OneTime, st)

		case medications.ClassificationAsNeeded:
			st.Missed = c.Missed
			s.AsNeeded = append(s.AsNeeded, st)

		default:
			return Summary{}, &ValidationError{
				Field:  fmt.Sprintf("medications[%d].classification", i),
				Reason: fmt.Sprintf("unknown classification %q", m.Classification),
			}
		}
	}

	s.MissedDoses = shortfall(s.ExpectedDoses, s.TakenDoses)
	s.AdherenceRate = Percent(s.TakenDoses, s.ExpectedDoses)

	return s, nil
}

// SelectEligible filtra las medicaciones que entran en un reporte.
// Las archivadas nunca entran; las vencidas (active_until antes del día de now)
// solo con includeExpired.
func SelectEligible(meds []medications.Medication, now time.Time, includeExpired bool) []medications.Medication {
	out := make([]medications.Medication, 0, len(meds))
	for _, m := range meds {
		if m.IsArchived {
			continue
		}
		if !includeExpired && m.ActiveUntil != nil && utcDay(*m.ActiveUntil).Before(utcDay(now)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// validateLogs rechaza registros sin medicación o con outcome desconocido.
// Se revisan todos, estén o no dentro de la ventana.
func validateLogs(logs []intakelogs.IntakeLog) error {
	for i, l := range logs {
		if strings.TrimSpace(l.MedicationID) == "" {
			return &ValidationError{Field: fmt.Sprintf("logs[%d].medication_id", i), Reason: "required"}
		}
		if !l.Outcome.Valid() {
			return &ValidationError{
				Field:  fmt.Sprintf("logs[%d].outcome", i),
				Reason: fmt.Sprintf("unknown outcome %q", l.Outcome),
			}
		}
	}
	return nil
}

func shortfall(expected, taken int) int {
	if taken >= expected {
		return 0
	}
	return expected - taken
}
