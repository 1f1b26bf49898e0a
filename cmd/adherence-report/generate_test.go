package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"medication-adherence/internal/domain/adherence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func sampleFlags(t *testing.T) generateFlags {
	meds := writeFixture(t, "meds.yaml", `
- id: rx-1
  name: Metformin
  dosage: 500mg
  schedule_slots: [Morning, Bedtime]
- id: old
  name: Amoxicillin
  active_until: 2024-01-03
`)
	logs := writeFixture(t, "logs.yaml", `
- {id: l1, medication_id: rx-1, occurred_at: "2024-01-01T08:00:00Z", outcome: taken}
- {id: l2, medication_id: rx-1, occurred_at: "2024-01-01T20:00:00Z", outcome: taken}
- {id: l3, medication_id: rx-1, occurred_at: "2024-01-02T08:00:00Z", outcome: taken}
- {id: l4, medication_id: rx-1, occurred_at: "2024-01-09T08:00:00Z", outcome: taken}
`)
	return generateFlags{
		medications: meds,
		logs:        logs,
		from:        "2024-01-01",
		to:          "2024-01-03",
		now:         "2024-01-10",
		format:      "json",
	}
}

func TestRunGenerate_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runGenerate(context.Background(), &out, sampleFlags(t)))

	var rep adherence.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))

	// "old" venció antes de --now y no se pidió include-expired
	assert.Equal(t, 1, rep.Summary.TotalMedications)
	assert.Equal(t, 3, rep.Summary.Period.Days)
	assert.Equal(t, 6, rep.Summary.ExpectedDoses)
	assert.Equal(t, 3, rep.Summary.TakenDoses)
	assert.Equal(t, 50, rep.Summary.AdherenceRate)
	assert.Nil(t, rep.Insights)
}

func TestRunGenerate_IncludeExpiredText(t *testing.T) {
	f := sampleFlags(t)
	f.includeExpired = true
	f.format = "text"

	var out bytes.Buffer
	require.NoError(t, runGenerate(context.Background(), &out, f))

	text := out.String()
	assert.Contains(t, text, "Period: 2024-01-01 to 2024-01-03 (3 days)")
	assert.Contains(t, text, "Medications: 2")
	assert.Contains(t, text, "Amoxicillin")
	assert.Contains(t, text, "Adherence: 33%")
}

func TestRunGenerate_Errors(t *testing.T) {
	f := sampleFlags(t)
	f.format = "xml"
	assert.Error(t, runGenerate(context.Background(), &bytes.Buffer{}, f))

	f = sampleFlags(t)
	f.from, f.to = "2024-02-01", "2024-01-01"
	var verr *adherence.ValidationError
	assert.ErrorAs(t, runGenerate(context.Background(), &bytes.Buffer{}, f), &verr)

	f = sampleFlags(t)
	f.medications = filepath.Join(t.TempDir(), "nope.yaml")
	assert.Error(t, runGenerate(context.Background(), &bytes.Buffer{}, f))
}

func TestWindowFromFlags(t *testing.T) {
	w, err := windowFromFlags("2024-01-01", "2024-01-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), w.End)

	_, err = windowFromFlags("soon", "2024-01-01")
	assert.Error(t, err)
}

func TestGenerateCmd_RequiresFlags(t *testing.T) {
	cmd := newGenerateCmd()
	cmd.SetArgs([]string{"--from", "2024-01-01"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
