package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	sig "github.com/AnatoleLucet/signalgraph"
)

// StatsReport is the serialized form of the runtime counters.
type StatsReport struct {
	Passes        uint64 `json:"passes" yaml:"passes"`
	Runs          int    `json:"runs" yaml:"runs"`
	EffectRuns    int    `json:"effect_runs" yaml:"effect_runs"`
	Deferred      int    `json:"deferred" yaml:"deferred"`
	Failures      int    `json:"failures" yaml:"failures"`
	CycleWarnings int    `json:"cycle_warnings" yaml:"cycle_warnings"`
}

func newStatsReport(s sig.Stats) StatsReport {
	return StatsReport{
		Passes:        s.Passes,
		Runs:          s.Runs,
		EffectRuns:    s.EffectRuns,
		Deferred:      s.Deferred,
		Failures:      s.Failures,
		CycleWarnings: s.CycleWarnings,
	}
}

func writeStats(w io.Writer, format string, s sig.Stats) error {
	report := newStatsReport(s)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()

	default:
		_, err := fmt.Fprintf(w, "passes=%d runs=%d effect_runs=%d deferred=%d failures=%d cycle_warnings=%d\n",
			report.Passes, report.Runs, report.EffectRuns, report.Deferred, report.Failures, report.CycleWarnings)
		return err
	}
}
