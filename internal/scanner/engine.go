package scanner

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrScanNotFound means the scan id is in neither the active nor the
	// completed registry.
	ErrScanNotFound = errors.New("scan not found")
	// ErrScanNotReady means results were requested before the scan
	// reached the completed state.
	ErrScanNotReady = errors.New("scan not complete")
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ProgressEvent is pushed to subscribers as a scan advances.
type ProgressEvent struct {
	ScanID       string    `json:"scan_id"`
	Status       Status    `json:"status"`
	Progress     int       `json:"progress"`
	FindingCount int       `json:"finding_count"`
	Done         bool      `json:"done,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Broadcaster sends progress events to connected WebSocket clients.
type Broadcaster interface {
	Broadcast(scanID string, ev ProgressEvent)
}

// Options tune the simulation timing.
type Options struct {
	// StepMin and StepMax bound the random delay between progress steps.
	StepMin time.Duration
	StepMax time.Duration
	// UserAgent is used when StartScan is not given one.
	UserAgent string
}

// Engine orchestrates simulated scan lifecycles. One goroutine per scan
// advances progress from 1 to 100, injecting random findings at fixed
// milestones.
type Engine struct {
	opts        Options
	registry    *Registry
	broadcaster Broadcaster
	mu          sync.Mutex
	cancels     map[string]context.CancelFunc
}

// NewEngine creates an engine. broadcaster may be nil when nothing
// listens for progress events.
func NewEngine(opts Options, registry *Registry, broadcaster Broadcaster) *Engine {
	if opts.StepMin <= 0 {
		opts.StepMin = 100 * time.Millisecond
	}
	if opts.StepMax < opts.StepMin {
		opts.StepMax = 5 * opts.StepMin
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Engine{
		opts:        opts,
		registry:    registry,
		broadcaster: broadcaster,
		cancels:     make(map[string]context.CancelFunc),
	}
}

// StartScan registers a new scan against target and begins progressing it
// in a goroutine. It returns the scan id immediately; the id is valid for
// status polling right away.
func (e *Engine) StartScan(target, userAgent string) string {
	if userAgent == "" {
		userAgent = e.opts.UserAgent
	}

	st := &scanState{scan: Scan{
		ID:        uuid.NewString(),
		Target:    target,
		Status:    StatusRunning,
		StartedAt: time.Now().Unix(),
		UserAgent: userAgent,
	}}
	e.registry.add(st)

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.cancels[st.scan.ID] = cancel
	e.mu.Unlock()

	go e.run(ctx, st)
	return st.scan.ID
}

// CancelScan aborts a running scan. The scan ends in the failed state.
// Cancelling an unknown or finished scan is a no-op.
func (e *Engine) CancelScan(id string) {
	e.mu.Lock()
	cancel, ok := e.cancels[id]
	e.mu.Unlock()
	if ok {
		cancel()
	}
}

// Status returns a snapshot of the scan. The background goroutine may
// still be mutating the live state; the snapshot is a consistent copy
// taken under the scan lock.
func (e *Engine) Status(id string) (Scan, error) {
	st, ok := e.registry.get(id)
	if !ok {
		return Scan{}, ErrScanNotFound
	}
	return st.snapshot(), nil
}

// Results returns the findings of a completed scan.
func (e *Engine) Results(id string) ([]Finding, error) {
	st, ok := e.registry.get(id)
	if !ok {
		return nil, ErrScanNotFound
	}
	snap := st.snapshot()
	if snap.Status != StatusCompleted {
		return nil, ErrScanNotReady
	}
	return snap.Findings, nil
}

func (e *Engine) run(ctx context.Context, st *scanState) {
	id := st.scan.ID
	defer func() {
		e.mu.Lock()
		delete(e.cancels, id)
		e.mu.Unlock()
	}()

	for step := 1; step <= 100; step++ {
		select {
		case <-ctx.Done():
			st.mu.Lock()
			st.scan.Status = StatusFailed
			st.scan.CompletedAt = time.Now().Unix()
			ev := e.eventLocked(st, true)
			st.mu.Unlock()
			e.registry.complete(id)
			e.broadcast(id, ev)
			return
		case <-time.After(e.stepDelay()):
		}

		st.mu.Lock()
		st.scan.Progress = step
		if step%15 == 0 && step < 80 {
			st.scan.Findings = append(st.scan.Findings, randomFinding(st.scan.Target, ""))
		}
		done := step == 100
		if done {
			st.scan.Status = StatusCompleted
			st.scan.CompletedAt = time.Now().Unix()
			// A completed scan is never empty.
			if len(st.scan.Findings) == 0 {
				st.scan.Findings = append(st.scan.Findings, randomFinding(st.scan.Target, SeverityLow))
			}
		}
		ev := e.eventLocked(st, done)
		st.mu.Unlock()

		if done {
			e.registry.complete(id)
		}
		e.broadcast(id, ev)
	}
}

// stepDelay draws the inter-step pause uniformly from [StepMin, StepMax].
func (e *Engine) stepDelay() time.Duration {
	span := e.opts.StepMax - e.opts.StepMin
	if span <= 0 {
		return e.opts.StepMin
	}
	return e.opts.StepMin + rand.N(span)
}

func (e *Engine) eventLocked(st *scanState, done bool) ProgressEvent {
	return ProgressEvent{
		ScanID:       st.scan.ID,
		Status:       st.scan.Status,
		Progress:     st.scan.Progress,
		FindingCount: len(st.scan.Findings),
		Done:         done,
		Timestamp:    time.Now(),
	}
}

func (e *Engine) broadcast(id string, ev ProgressEvent) {
	if e.broadcaster != nil {
		e.broadcaster.Broadcast(id, ev)
	}
}
