package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"medication-adherence/internal/adapters/insights/gateway"
	"medication-adherence/internal/adapters/storage/fixtures"
	"medication-adherence/internal/domain/adherence"
	"medication-adherence/internal/domain/intakelogs"
	"medication-adherence/internal/platform/config"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/ports/insights"
)

type generateFlags struct {
	medications     string
	logs            string
	from            string
	to              string
	now             string
	includeInsights bool
	includeExpired  bool
	format          string
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compute an adherence summary for a window",
		Example: "  adherence-report generate --medications meds.yaml --logs logs.yaml \\\n" +
			"    --from 2024-01-01 --to 2024-01-07 --format text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVar(&f.medications, "medications", "", "YAML/JSON file with the medication list (required)")
	cmd.Flags().StringVar(&f.logs, "logs", "", "YAML/JSON file with the intake logs")
	cmd.Flags().StringVar(&f.from, "from", "", "Window start, YYYY-MM-DD or RFC3339 (required)")
	cmd.Flags().StringVar(&f.to, "to", "", "Window end, YYYY-MM-DD or RFC3339 (required)")
	cmd.Flags().StringVar(&f.now, "now", "", "Reference date for expiry filtering (default: today)")
	cmd.Flags().BoolVar(&f.includeInsights, "include-insights", false, "Request narrative insights from the configured gateway")
	cmd.Flags().BoolVar(&f.includeExpired, "include-expired", false, "Keep medications whose active_until is already past")
	cmd.Flags().StringVar(&f.format, "format", "json", "Output format: json|text")
	_ = cmd.MarkFlagRequired("medications")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, f generateFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format := strings.ToLower(strings.TrimSpace(f.format))
	if format != "json" && format != "text" {
		return fmt.Errorf("--format must be json or text")
	}

	w, err := windowFromFlags(f.from, f.to)
	if err != nil {
		return err
	}
	now := time.Now()
	if f.now != "" {
		t, err := fixtures.ParseDate(f.now)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
		now = *t
	}

	meds, err := fixtures.LoadMedicationsFile(f.medications)
	if err != nil {
		return err
	}
	meds = adherence.SelectEligible(meds, now, f.includeExpired)

	var logsIn []intakelogs.IntakeLog
	if f.logs != "" {
		logsIn, err = fixtures.LoadIntakeLogsFile(f.logs)
		if err != nil {
			return err
		}
	}

	engine, err := newEngine(f.includeInsights)
	if err != nil {
		return err
	}

	rep, err := engine.GenerateReport(ctx, meds, logsIn, w, adherence.Options{IncludeInsights: f.includeInsights})
	if err != nil {
		return err
	}

	if format == "text" {
		return writeText(out, rep)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// newEngine toma la config del gateway del entorno (ADHERENCE_INSIGHTS_*)
// solo si se piden insights.
func newEngine(withInsights bool) (*adherence.Engine, error) {
	if !withInsights {
		return adherence.NewEngine(adherence.EngineOptions{}), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "adherence-report",
	})

	var gen insights.Generator
	if cfg.InsightsEnabled() {
		c, err := gateway.NewClient(gateway.Config{
			BaseURL:           cfg.InsightsBaseURL,
			APIKey:            cfg.InsightsAPIKey,
			Model:             cfg.InsightsModel,
			Timeout:           cfg.InsightsTimeout,
			RequestsPerMinute: cfg.InsightsRPM,
			Burst:             cfg.InsightsBurst,
		}, log)
		if err != nil {
			return nil, err
		}
		gen = c
	}

	return adherence.NewEngine(adherence.EngineOptions{
		Generator:      gen,
		InsightTimeout: cfg.InsightsTimeout,
		Logger:         log,
	}), nil
}

// windowFromFlags: una fecha YYYY-MM-DD cubre el día completo en UTC.
func windowFromFlags(from, to string) (adherence.Window, error) {
	start, startIsDay, err := parseFlagTime(from)
	if err != nil {
		return adherence.Window{}, fmt.Errorf("--from: %w", err)
	}
	end, endIsDay, err := parseFlagTime(to)
	if err != nil {
		return adherence.Window{}, fmt.Errorf("--to: %w", err)
	}

	w := adherence.Window{Start: start, End: end}
	if startIsDay {
		w.Start = adherence.DayWindow(start, start).Start
	}
	if endIsDay {
		w.End = adherence.DayWindow(end, end).End
	}
	return w, w.Validate()
}

func parseFlagTime(v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("must be YYYY-MM-DD or RFC3339, got %q", v)
	}
	return t, false, nil
}

func writeText(out io.Writer, rep adherence.Report) error {
	s := rep.Summary
	fmt.Fprintf(out, "Period: %s to %s (%d days)\n",
		s.Period.Start.UTC().Format("2006-01-02"), s.Period.End.UTC().Format("2006-01-02"), s.Period.Days)
	fmt.Fprintf(out, "Medications: %d\n", s.TotalMedications)
	fmt.Fprintf(out, "Expected: %d  Taken: %d  Missed: %d  Adherence: %d%%\n\n",
		s.ExpectedDoses, s.TakenDoses, s.MissedDoses, s.AdherenceRate)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MEDICATION\tCLASS\tDAYS\tEXPECTED\tTAKEN\tMISSED\tRATE")
	groups := [][]adherence.MedicationStats{s.Prescriptions, s.OneTime, s.AsNeeded}
	for _, g := range groups {
		for _, m := range g {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
				m.Name, m.Classification, m.ActiveDays, optInt(m.Expected, ""), m.Taken, m.Missed, optInt(m.AdherenceRate, "%"))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rep.Insights != nil {
		fmt.Fprintf(out, "\nInsights (%s):\n", rep.Insights.Status)
		if rep.Insights.Text != "" {
			fmt.Fprintln(out, rep.Insights.Text)
		} else {
			fmt.Fprintln(out, rep.Insights.Message)
		}
	}
	return nil
}

func optInt(p *int, suffix string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d%s", *p, suffix)
}
