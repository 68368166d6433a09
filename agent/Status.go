package agent

// Status is the state of a solver's run
type Status int

const (
	// Initialized solvers have not started running
	Initialized Status = iota

	// Sweeping solvers are iterating synchronous sweeps
	Sweeping

	// Converged solvers finished with a sweep delta below threshold
	Converged

	// NotConverged solvers hit their sweep cap first
	NotConverged

	// Sampling solvers are generating and learning from episodes
	Sampling

	// BudgetExhausted solvers ran their full episode budget
	BudgetExhausted
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Sweeping:
		return "Sweeping"
	case Converged:
		return "Converged"
	case NotConverged:
		return "NotConverged"
	case Sampling:
		return "Sampling"
	case BudgetExhausted:
		return "BudgetExhausted"
	}
	return "Unknown"
}
