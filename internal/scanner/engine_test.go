package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts Options) (*Engine, *Registry) {
	t.Helper()
	if opts.StepMin == 0 {
		opts.StepMin = time.Microsecond
		opts.StepMax = 2 * time.Microsecond
	}
	reg := NewRegistry()
	return NewEngine(opts, reg, nil), reg
}

func waitForStatus(t *testing.T, e *Engine, id string, want Status) Scan {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := e.Status(id)
		require.NoError(t, err)
		if snap.Status == want {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("scan %s never reached status %s", id, want)
	return Scan{}
}

func TestScanRunsToCompletion(t *testing.T) {
	e, reg := newTestEngine(t, Options{})

	id := e.StartScan("https://example.com", "")
	require.NotEmpty(t, id)

	snap := waitForStatus(t, e, id, StatusCompleted)

	require.Equal(t, 100, snap.Progress)
	require.NotZero(t, snap.CompletedAt)
	require.GreaterOrEqual(t, snap.CompletedAt, snap.StartedAt)
	require.NotEmpty(t, snap.Findings, "a completed scan is never empty")
	require.Equal(t, 1, reg.CompletedCount())
	require.Equal(t, 0, reg.ActiveCount())
}

func TestScanDefaultsUserAgent(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	id := e.StartScan("https://example.com", "")
	snap, err := e.Status(id)
	require.NoError(t, err)
	require.Equal(t, defaultUserAgent, snap.UserAgent)

	id = e.StartScan("https://example.com", "test-agent/1.0")
	snap, err = e.Status(id)
	require.NoError(t, err)
	require.Equal(t, "test-agent/1.0", snap.UserAgent)
}

func TestCompletedScanFindingsAreValid(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	id := e.StartScan("https://example.com", "")
	snap := waitForStatus(t, e, id, StatusCompleted)

	for _, f := range snap.Findings {
		_, err := ParseSeverity(string(f.Severity))
		require.NoError(t, err)
		require.NotEmpty(t, f.ID)
		require.NotEmpty(t, f.Name)
		require.Contains(t, f.URL, "https://example.com/")

		if f.Severity == SeverityLow || f.Severity == SeverityInfo {
			require.Empty(t, f.Param)
			require.Empty(t, f.Attack)
			require.Empty(t, f.Evidence)
		}
	}
}

func TestStatusUnknownScan(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	_, err := e.Status("no-such-scan")
	require.ErrorIs(t, err, ErrScanNotFound)
}

func TestResultsUnknownScan(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	_, err := e.Results("no-such-scan")
	require.ErrorIs(t, err, ErrScanNotFound)
}

func TestResultsBeforeCompletion(t *testing.T) {
	e, _ := newTestEngine(t, Options{StepMin: 50 * time.Millisecond, StepMax: 100 * time.Millisecond})

	id := e.StartScan("https://example.com", "")
	_, err := e.Results(id)
	require.ErrorIs(t, err, ErrScanNotReady)
}

func TestResultsAfterCompletion(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	id := e.StartScan("https://example.com", "")
	snap := waitForStatus(t, e, id, StatusCompleted)

	findings, err := e.Results(id)
	require.NoError(t, err)
	require.Len(t, findings, len(snap.Findings))
}

func TestCancelScan(t *testing.T) {
	e, reg := newTestEngine(t, Options{StepMin: 50 * time.Millisecond, StepMax: 100 * time.Millisecond})

	id := e.StartScan("https://example.com", "")
	e.CancelScan(id)

	snap := waitForStatus(t, e, id, StatusFailed)
	require.NotZero(t, snap.CompletedAt)
	require.Equal(t, 1, reg.CompletedCount())

	// A failed scan has no results to hand out.
	_, err := e.Results(id)
	require.ErrorIs(t, err, ErrScanNotReady)
}

func TestConcurrentScansDoNotInterfere(t *testing.T) {
	e, reg := newTestEngine(t, Options{})

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = e.StartScan("https://example.com", "")
	}

	for _, id := range ids {
		snap := waitForStatus(t, e, id, StatusCompleted)
		require.Equal(t, 100, snap.Progress)
		require.NotEmpty(t, snap.Findings)
	}
	require.Equal(t, 5, reg.CompletedCount())
}

func TestSnapshotIsACopy(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	id := e.StartScan("https://example.com", "")
	snap := waitForStatus(t, e, id, StatusCompleted)

	snap.Findings[0].Name = "mutated"
	again, err := e.Status(id)
	require.NoError(t, err)
	require.NotEqual(t, "mutated", again.Findings[0].Name)
}
