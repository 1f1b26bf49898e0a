// Package fixtures lee snapshots de medicaciones y tomas desde archivos YAML
// (o JSON, que yaml.v3 también acepta). Lo usa el CLI de reportes offline.
package fixtures

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/domain/medications"
)

type medicationDoc struct {
	ID             string   `yaml:"id"`
	OwnerUserID    string   `yaml:"owner_user_id"`
	Name           string   `yaml:"name"`
	Dosage         string   `yaml:"dosage"`
	ScheduleSlots  []string `yaml:"schedule_slots"`
	Classification string   `yaml:"classification"`
	ActiveFrom     string   `yaml:"active_from"`
	ActiveUntil    string   `yaml:"active_until"`
	IsArchived     bool     `yaml:"is_archived"`
}

type intakeLogDoc struct {
	ID            string `yaml:"id"`
	MedicationID  string `yaml:"medication_id"`
	ScheduledSlot string `yaml:"scheduled_slot"`
	OccurredAt    string `yaml:"occurred_at"`
	Outcome       string `yaml:"outcome"`
}

func LoadMedicationsFile(path string) ([]medications.Medication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeMedications(f)
}

func LoadIntakeLogsFile(path string) ([]intakelogs.IntakeLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeIntakeLogs(f)
}

// DecodeMedications espera una lista. Classification vacía => prescription.
// Los errores llevan el índice del registro en el archivo.
func DecodeMedications(r io.Reader) ([]medications.Medication, error) {
	var docs []medicationDoc
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode medications: %w", err)
	}

	out := make([]medications.Medication, 0, len(docs))
	for i, d := range docs {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return nil, fmt.Errorf("medications[%d].id: required", i)
		}
		cls := medications.Classification(strings.TrimSpace(d.Classification))
		if cls == "" {
			cls = medications.ClassificationPrescription
		}
		if !cls.Valid() {
			return nil, fmt.Errorf("medications[%d]: unknown classification %q", i, d.Classification)
		}

		from, err := parseTime(d.ActiveFrom)
		if err != nil {
			return nil, fmt.Errorf("medications[%d].active_from: %w", i, err)
		}
		until, err := parseTime(d.ActiveUntil)
		if err != nil {
			return nil, fmt.Errorf("medications[%d].active_until: %w", i, err)
		}

		out = append(out, medications.Medication{
			ID:             id,
			OwnerUserID:    d.OwnerUserID,
			Name:           d.Name,
			Dosage:         d.Dosage,
			ScheduleSlots:  d.ScheduleSlots,
			Classification: cls,
			ActiveFrom:     from,
			ActiveUntil:    until,
			IsArchived:     d.IsArchived,
		})
	}
	return out, nil
}

func DecodeIntakeLogs(r io.Reader) ([]intakelogs.IntakeLog, error) {
	var docs []intakeLogDoc
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode intake logs: %w", err)
	}

	out := make([]intakelogs.IntakeLog, 0, len(docs))
	for i, d := range docs {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return nil, fmt.Errorf("logs[%d].id: required", i)
		}
		medID := strings.TrimSpace(d.MedicationID)
		if medID == "" {
			return nil, fmt.Errorf("logs[%d].medication_id: required", i)
		}
		o := intakelogs.Outcome(strings.TrimSpace(d.Outcome))
		if !o.Valid() {
			return nil, fmt.Errorf("logs[%d]: unknown outcome %q", i, d.Outcome)
		}
		at, err := parseTime(d.OccurredAt)
		if err != nil || at == nil {
			return nil, fmt.Errorf("logs[%d].occurred_at: must be YYYY-MM-DD or RFC3339", i)
		}

		out = append(out, intakelogs.IntakeLog{
			ID:            id,
			MedicationID:  medID,
			ScheduledSlot: d.ScheduledSlot,
			OccurredAt:    *at,
			RecordedAt:    *at,
			Outcome:       o,
		})
	}
	return out, nil
}

// ParseDate acepta YYYY-MM-DD (medianoche UTC) o RFC3339. Vacío => nil.
func ParseDate(v string) (*time.Time, error) {
	return parseTime(v)
}

func parseTime(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", v)
	}
	t = t.UTC()
	return &t, nil
}
