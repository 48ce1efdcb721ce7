package scenario

import (
	"fmt"
	"log"
	"time"

	"drivesim.dev/internal/record"
	"drivesim.dev/internal/simclient"
)

// Scenario is one spawn -> configure -> step -> measure -> assert -> teardown
// sequence. Run returns nil on pass; assertion failures come back as labeled
// errors, transport errors abort the scenario as-is.
type Scenario struct {
	Name string
	Run  func(*Run) error
}

// Run is the per-scenario driver context. Cleanups registered during the
// scenario execute in LIFO order on every exit path; the simulated world is
// shared across scenarios, so a leaked actor corrupts whatever runs next.
type Run struct {
	Name   string
	Client *simclient.Client
	World  *simclient.World
	Log    *log.Logger

	trace    *record.TraceWriter
	cleanups []func()
}

// Cleanup registers fn to run when the scenario exits, pass or fail.
func (r *Run) Cleanup(fn func()) {
	r.cleanups = append(r.cleanups, fn)
}

// DestroyOnExit guarantees the actor is destroyed at teardown. Destroy
// failures are logged, not fatal: the remaining teardown still runs.
func (r *Run) DestroyOnExit(a *simclient.Actor) {
	r.Cleanup(func() {
		if err := a.Destroy(); err != nil {
			r.Log.Printf("%s: teardown: destroy actor %d: %v", r.Name, a.ID, err)
		}
	})
}

// Failf builds a labeled assertion failure.
func (r *Run) Failf(format string, args ...any) error {
	return fmt.Errorf("%s: %s", r.Name, fmt.Sprintf(format, args...))
}

// Wait advances the world clock by n ticks.
func (r *Run) Wait(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.World.Tick(); err != nil {
			return fmt.Errorf("%s: tick: %w", r.Name, err)
		}
	}
	return nil
}

// Record appends a measurement checkpoint to the run trace, when tracing is
// enabled. Diagnostic only; never fails the scenario.
func (r *Run) Record(checkpoint string, values map[string]float64) {
	if r.trace == nil {
		return
	}
	if err := r.trace.Write(record.TraceEntry{
		Time:       time.Now().UTC(),
		Scenario:   r.Name,
		Checkpoint: checkpoint,
		Values:     values,
	}); err != nil {
		r.Log.Printf("%s: trace write: %v", r.Name, err)
	}
}

func (r *Run) teardown() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
	r.cleanups = nil
}

// Result is one scenario outcome.
type Result struct {
	Scenario string
	Status   string // "pass" or "fail"
	Message  string
	Duration time.Duration
}

const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// RunOne executes a single scenario with guaranteed teardown.
func RunOne(sc Scenario, client *simclient.Client, logger *log.Logger, trace *record.TraceWriter) Result {
	r := &Run{
		Name:   sc.Name,
		Client: client,
		World:  client.World(),
		Log:    logger,
		trace:  trace,
	}
	start := time.Now()
	defer r.teardown()

	if err := sc.Run(r); err != nil {
		return Result{Scenario: sc.Name, Status: StatusFail, Message: err.Error(), Duration: time.Since(start)}
	}
	return Result{Scenario: sc.Name, Status: StatusPass, Duration: time.Since(start)}
}

// RunSuite executes scenarios in order. One failure does not stop the suite;
// teardown isolation is what keeps later scenarios trustworthy.
func RunSuite(scenarios []Scenario, client *simclient.Client, logger *log.Logger, trace *record.TraceWriter) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		logger.Printf("running %s", sc.Name)
		res := RunOne(sc, client, logger, trace)
		if res.Status == StatusPass {
			logger.Printf("%s: ok (%.2fs)", sc.Name, res.Duration.Seconds())
		} else {
			logger.Printf("%s: FAIL: %s", sc.Name, res.Message)
		}
		results = append(results, res)
	}
	return results
}
