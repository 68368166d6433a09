package agent

// Type represents a specific type of solver Config. Config's with this
// type configure solvers of the corresponding type.
type Type string

const (
	// Sweep based methods
	PolicyEvaluation Type = "PolicyEvaluation"
	ValueIteration   Type = "ValueIteration"
	PolicyIteration  Type = "PolicyIteration"

	// Monte Carlo methods
	MonteCarloPrediction Type = "MonteCarloPrediction"
	MonteCarloControl    Type = "MonteCarloControl"

	// Temporal difference methods
	TDPrediction      Type = "TDPrediction"
	NStepTDPrediction Type = "NStepTDPrediction"
	TDControl         Type = "TDControl"
)
