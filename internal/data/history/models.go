package history

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const SchemaVersion = 1

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run records one generation pass.
type Run struct {
	ID          string        `json:"id"`
	ProjectKey  string        `json:"project_key"`
	Timestamp   time.Time     `json:"timestamp"`
	Duration    time.Duration `json:"duration"`
	Status      string        `json:"status"`
	Trigger     string        `json:"trigger,omitempty"`
	Digest      string        `json:"digest,omitempty"`
	Changed     bool          `json:"changed"`
	Resources   int           `json:"resources"`
	Leaves      int           `json:"leaves"`
	Unused      int           `json:"unused"`
	Diagnostics int           `json:"diagnostics"`
	Error       string        `json:"error,omitempty"`
}

// NewRun starts a run record with a fresh identifier.
func NewRun(projectKey, trigger string) Run {
	return Run{
		ID:         uuid.NewString(),
		ProjectKey: normalizeKey(projectKey),
		Timestamp:  time.Now().UTC(),
		Status:     StatusOK,
		Trigger:    trigger,
	}
}

// Fail marks the run failed and keeps the error text.
func (r *Run) Fail(err error) {
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
}

func normalizeKey(projectKey string) string {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return "default"
	}
	return projectKey
}

// Summary aggregates a window of runs.
type Summary struct {
	Runs         int           `json:"runs"`
	Failed       int           `json:"failed"`
	Changed      int           `json:"changed"`
	MeanDuration time.Duration `json:"mean_duration"`
	Last         *Run          `json:"last,omitempty"`
}

// Summarize expects runs newest first, as LoadRuns returns them.
func Summarize(runs []Run) Summary {
	var (
		out   Summary
		total time.Duration
	)
	for i := range runs {
		out.Runs++
		total += runs[i].Duration
		if runs[i].Status == StatusFailed {
			out.Failed++
		}
		if runs[i].Changed {
			out.Changed++
		}
	}
	if out.Runs > 0 {
		out.MeanDuration = total / time.Duration(out.Runs)
		last := runs[0]
		out.Last = &last
	}
	return out
}
