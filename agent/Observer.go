package agent

import (
	"github.com/rs/zerolog"

	"github.com/samuelfneumann/gridmdp/table"
)

// Snapshot is the state of a solver after one sweep or one episode.
// The tables are copies owned by the receiver.
type Snapshot struct {
	Iteration int
	Delta     float64
	Epsilon   float64

	// Episode statistics of sampling solvers. Prediction solvers
	// report the total over a sweep of start states.
	Return    float64
	Steps     int
	Truncated bool

	Values *table.Value
	Policy *table.Policy
}

// Observer is notified once per sweep or episode of a solver
type Observer interface {
	Observe(s Snapshot)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(Snapshot)

// Observe calls f(s)
func (f ObserverFunc) Observe(s Snapshot) {
	f(s)
}

// Base holds the bookkeeping shared by all solvers: run status,
// registered observers and the logger. Solvers embed a Base.
type Base struct {
	status    Status
	observers []Observer
	logger    zerolog.Logger
}

// NewBase returns a Base in the Initialized status that discards logs
func NewBase() Base {
	return Base{status: Initialized, logger: zerolog.Nop()}
}

// Status returns the current run status
func (b *Base) Status() Status {
	return b.status
}

// SetStatus moves the solver to status s
func (b *Base) SetStatus(s Status) {
	b.status = s
}

// Register adds an Observer that is notified once per sweep or episode
func (b *Base) Register(o Observer) {
	b.observers = append(b.observers, o)
}

// SetLogger sets the logger the solver writes its progress to
func (b *Base) SetLogger(l zerolog.Logger) {
	b.logger = l
}

// Logger returns the solver's logger
func (b *Base) Logger() *zerolog.Logger {
	return &b.logger
}

// Notify sends a snapshot to every registered observer. The snapshot
// is only built if some observer is registered.
func (b *Base) Notify(snapshot func() Snapshot) {
	if len(b.observers) == 0 {
		return
	}
	s := snapshot()
	for _, o := range b.observers {
		o.Observe(s)
	}
}
