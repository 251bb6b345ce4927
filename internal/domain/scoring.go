package domain

// UrgencyTier is the coarse severity attached to a diagnosis.
type UrgencyTier int

const (
	UrgencyLow UrgencyTier = iota
	UrgencyModerate
	UrgencyHigh
)

// Tier thresholds on the weakness ratio, in percent. A ratio below
// lowTierMaxPercent is Low, below moderateTierMaxPercent is Moderate,
// anything else is High.
const (
	lowTierMaxPercent      = 33
	moderateTierMaxPercent = 66
)

// Label is the Portuguese display label, also the vocabulary the prompt asks
// the provider to use.
func (t UrgencyTier) Label() string {
	switch t {
	case UrgencyHigh:
		return "Alta"
	case UrgencyModerate:
		return "Moderada"
	default:
		return "Baixa"
	}
}

func (t UrgencyTier) String() string {
	switch t {
	case UrgencyHigh:
		return "high"
	case UrgencyModerate:
		return "moderate"
	default:
		return "low"
	}
}

// TierForRatio maps a weakness ratio in [0,1] to an urgency tier.
func TierForRatio(ratio float64) UrgencyTier {
	percent := ratio * 100
	switch {
	case percent < lowTierMaxPercent:
		return UrgencyLow
	case percent < moderateTierMaxPercent:
		return UrgencyModerate
	default:
		return UrgencyHigh
	}
}

// ScoringOutcome partitions a question list into strengths and weaknesses.
type ScoringOutcome struct {
	Strengths     []string
	Weaknesses    []string
	WeaknessRatio float64
}

// Tier derives the urgency tier from the weakness ratio.
func (o ScoringOutcome) Tier() UrgencyTier {
	return TierForRatio(o.WeaknessRatio)
}

// Score partitions questions by their answers. A true answer means the
// problem the question describes is present, so the question is a weakness;
// false (or a missing answer) makes it a strength. Order follows questions.
func Score(questions []string, answers map[int]bool) ScoringOutcome {
	outcome := ScoringOutcome{
		Strengths:  make([]string, 0, len(questions)),
		Weaknesses: make([]string, 0, len(questions)),
	}
	for i, q := range questions {
		if answers[i] {
			outcome.Weaknesses = append(outcome.Weaknesses, q)
		} else {
			outcome.Strengths = append(outcome.Strengths, q)
		}
	}
	if len(questions) > 0 {
		outcome.WeaknessRatio = float64(len(outcome.Weaknesses)) / float64(len(questions))
	}
	return outcome
}

// AnswersFromSlice converts the positional answer list used on the wire into
// the index mapping Score expects.
func AnswersFromSlice(answers []bool) map[int]bool {
	m := make(map[int]bool, len(answers))
	for i, a := range answers {
		m[i] = a
	}
	return m
}
