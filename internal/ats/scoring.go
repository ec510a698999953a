package ats

// Scoring policy constants. Kept as a value type (rather than package-level
// literals scattered through the scorer) so the policy is auditable and can
// be exercised in isolation by tests.
const (
	// Importance caps per keyword category
	TechnicalImportanceCap = 10
	SoftSkillImportanceCap = 8
	IndustryImportanceCap  = 6

	// Missing-keyword partition thresholds
	HighPriorityThreshold      = 8
	MediumPriorityThreshold    = 5
	SoftSkillPriorityThreshold = 6

	// Composite score bonus/penalty shaping
	ActionVerbBonusCap     = 20.0
	ActionVerbBonusRate    = 0.2
	QuantificationBonusCap = 15.0
	QuantificationRate     = 0.15
	IrrelevancePenaltyCap  = 10.0
	IrrelevancePenaltyPer  = 2.0

	// Quantification scoring
	QuantificationPerToken = 10.0

	// Tip generation thresholds
	ActionVerbTipThreshold     = 50.0
	QuantificationTipThreshold = 40.0
	IrrelevantTipThreshold     = 2
	MaxTips                    = 4
	MaxMissingKeywordsPerTip   = 3
)

// Thresholds bundles the tunable scoring policy. Zero fields are filled
// with defaults by NewEngine, so a partially populated config section
// still yields a complete policy.
type Thresholds struct {
	HighPriority      int     `mapstructure:"highPriority"`
	MediumPriority    int     `mapstructure:"mediumPriority"`
	SoftSkillPriority int     `mapstructure:"softSkillPriority"`
	ActionVerbTip     float64 `mapstructure:"actionVerbTip"`
	QuantificationTip float64 `mapstructure:"quantificationTip"`
	IrrelevantTip     int     `mapstructure:"irrelevantTip"`
}

// DefaultThresholds returns the hand-authored scoring policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighPriority:      HighPriorityThreshold,
		MediumPriority:    MediumPriorityThreshold,
		SoftSkillPriority: SoftSkillPriorityThreshold,
		ActionVerbTip:     ActionVerbTipThreshold,
		QuantificationTip: QuantificationTipThreshold,
		IrrelevantTip:     IrrelevantTipThreshold,
	}
}

// applyDefaults fills zero-valued fields with the built-in policy.
func (t Thresholds) applyDefaults() Thresholds {
	defaults := DefaultThresholds()
	if t.HighPriority == 0 {
		t.HighPriority = defaults.HighPriority
	}
	if t.MediumPriority == 0 {
		t.MediumPriority = defaults.MediumPriority
	}
	if t.SoftSkillPriority == 0 {
		t.SoftSkillPriority = defaults.SoftSkillPriority
	}
	if t.ActionVerbTip == 0 {
		t.ActionVerbTip = defaults.ActionVerbTip
	}
	if t.QuantificationTip == 0 {
		t.QuantificationTip = defaults.QuantificationTip
	}
	if t.IrrelevantTip == 0 {
		t.IrrelevantTip = defaults.IrrelevantTip
	}
	return t
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
