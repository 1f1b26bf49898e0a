package adherence

import (
	"fmt"
	"strings"

	"medication-adherence/internal/ports/insights"
)

const systemPrompt = "You are a supportive medication-adherence assistant. " +
	"Given a patient's adherence summary, write 3 to 5 short, encouraging insights with practical tips. " +
	"Do not give medical advice beyond adherence habits and do not change prescribed doses."

// BuildPrompt arma el texto enviado al generador. Siempre incluye período,
// dosis esperadas/tomadas/perdidas, tasa global y el listado por medicación.
func BuildPrompt(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Medication adherence report for %s to %s (%d days).\n",
		s.Period.Start.UTC().Format("2006-01-02"),
		s.Period.End.UTC().Format("2006-01-02"),
		s.Period.Days,
	)
	fmt.Fprintf(&b, "Scheduled (prescription) doses: expected %d, taken %d, missed %d.\n",
		s.ExpectedDoses, s.TakenDoses, s.MissedDoses)
	fmt.Fprintf(&b, "Overall adherence rate: %d%%.\n", s.AdherenceRate)
	fmt.Fprintf(&b, "Total medications: %d.\n", s.TotalMedications)

	b.WriteString("\nPrescription medications:\n")
	if len(s.Prescriptions) == 0 {
		b.WriteString("- none\n")
	}
	for _, m := range s.Prescriptions {
		fmt.Fprintf(&b, "- %s: %d/%d doses taken (%d%%), %d missed, %d per day over %d active days\n",
			label(m), m.Taken, deref(m.Expected), deref(m.AdherenceRate), m.Missed, m.SlotsPerDay, m.ActiveDays)
	}

	if len(s.OneTime) > 0 {
		b.WriteString("\nOne-time medications:\n")
		for _, m := range s.OneTime {
			status := "not taken"
			if m.Taken > 0 {
				status = "taken"
			}
			fmt.Fprintf(&b, "- %s: %s\n", label(m), status)
		}
	}

	if len(s.AsNeeded) > 0 {
		b.WriteString("\nAs-needed medications (not part of the adherence rate):\n")
		for _, m := range s.AsNeeded {
			fmt.Fprintf(&b, "- %s: taken %d times\n", label(m), m.Taken)
		}
	}

	return b.String()
}

// BuildRequest arma el request completo (system + user).
func BuildRequest(s Summary) insights.Request {
	return insights.Request{
		Messages: []insights.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(s)},
		},
	}
}

func label(m MedicationStats) string {
	if strings.TrimSpace(m.Dosage) == "" {
		return m.Name
	}
	return m.Name + " (" + m.Dosage + ")"
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
