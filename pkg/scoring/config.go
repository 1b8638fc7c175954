package scoring

// Weights holds every tunable number of the scoring formula.
type Weights struct {
	// Component weights of the composite score.
	Alpha float64 `yaml:"alpha"` // nutritional quality
	Beta  float64 `yaml:"beta"`  // risk penalty
	Gamma float64 `yaml:"gamma"` // fit to goals
	Delta float64 `yaml:"delta"` // budget penalty

	// Per-flag risk penalties, before the relevance multiplier.
	PenaltyHigh   float64 `yaml:"penalty_high"`
	PenaltyMedium float64 `yaml:"penalty_medium"`
	PenaltyLow    float64 `yaml:"penalty_low"`
	// Multiplier applied when a flag is relevant to the caller's profiles.
	RelevanceMultiplier float64 `yaml:"relevance_multiplier"`
	// Cap on the summed risk score before weighting.
	RiskCap float64 `yaml:"risk_cap"`

	// Fit-to-goals deductions per relevant flag.
	FitPenaltyHigh   float64 `yaml:"fit_penalty_high"`
	FitPenaltyMedium float64 `yaml:"fit_penalty_medium"`
	FitPenaltyLow    float64 `yaml:"fit_penalty_low"`

	// Budget penalty price steps, checked highest first.
	BudgetSteps []BudgetStep `yaml:"budget_steps"`

	// Score bands.
	Bands Bands `yaml:"bands"`

	// Classifier gate: flags below this confidence are dropped.
	ClassifierConfidence float64 `yaml:"classifier_confidence"`
}

// BudgetStep penalizes prices above a threshold.
type BudgetStep struct {
	Above   float64 `yaml:"above"`
	Penalty float64 `yaml:"penalty"`
}

// Bands holds the lower bound of each risk band on the 0-100 score.
type Bands struct {
	Safe   int `yaml:"safe"`
	Low    int `yaml:"low"`
	Medium int `yaml:"medium"`
	High   int `yaml:"high"`
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Alpha: 0.4,
		Beta:  0.3,
		Gamma: 0.2,
		Delta: 0.1,

		PenaltyHigh:         25,
		PenaltyMedium:       15,
		PenaltyLow:          5,
		RelevanceMultiplier: 1.5,
		RiskCap:             100,

		FitPenaltyHigh:   30,
		FitPenaltyMedium: 15,
		FitPenaltyLow:    5,

		BudgetSteps: []BudgetStep{
			{Above: 20, Penalty: 30},
			{Above: 10, Penalty: 20},
			{Above: 5, Penalty: 10},
		},

		Bands: Bands{Safe: 80, Low: 60, Medium: 40, High: 20},

		ClassifierConfidence: 0.6,
	}
}
