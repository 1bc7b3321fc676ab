package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sqlfuse/internal/ir"
)

// TraceSnapshot is the golden form of a run: the compiled SQL and bound
// parameters of every entry, plus SQLite row counts.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
}

// toCanonicalMap converts the snapshot for ir.MarshalCanonical, which only
// handles IR types and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"type":  event.Type,
			"entry": event.Entry,
			"seq":   event.Seq,
		}
		if event.Dialect != "" {
			eventMap["dialect"] = event.Dialect
		}
		if event.SQL != "" {
			eventMap["sql"] = event.SQL
		}
		if len(event.Params) > 0 {
			eventMap["params"] = event.Params
		}
		if event.Code != "" {
			eventMap["code"] = event.Code
		}
		if event.Type == EventExecuted {
			eventMap["rows"] = event.Rows
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
}

// RunWithGolden runs a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// Snapshot renders a result's trace as canonical JSON, the golden file
// format.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{ScenarioName: scenarioName, Trace: result.Trace}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// AssertGolden compares a result's trace against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
