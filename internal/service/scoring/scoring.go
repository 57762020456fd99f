package scoring

import "math"

// Fixed weights of the lead scoring framework: recent pain-point severity
// dominates, recent engagement follows, company fit and contact quality are
// static placeholders in this version.
const (
	weightPainPoints     = 0.4
	weightActivity       = 0.3
	weightCompanyFit     = 0.2
	weightContactQuality = 0.1
)

// Defaults substituted for the scoring terms that are not derived from real
// data yet. Contact quality in particular is never computed anywhere; the
// constant stays until a real derivation exists.
const (
	DefaultCompanyFit     = 7
	DefaultContactQuality = 5
)

// Inputs captures the four terms of the weighted lead score.
type Inputs struct {
	AvgUrgency     float64 // mean pain-point urgency, 1-5
	ColdnessScore  int     // engagement proxy, 1 hot .. 10 cold
	CompanyFit     float64
	ContactQuality float64
}

// Result reports the composite score and the rescaled intermediate terms.
type Result struct {
	Total          float64
	PainPointScore float64
	ActivityScore  float64
}

// Compute evaluates the weighted lead score, rounded to two decimals.
// Urgency is rescaled from 1-5 onto a 0-10 scale and the coldness rating is
// inverted so that recent activity raises the score.
func Compute(in Inputs) Result {
	painPointScore := (in.AvgUrgency / 5) * 10
	activityScore := float64(11 - in.ColdnessScore)

	total := painPointScore*weightPainPoints +
		activityScore*weightActivity +
		in.CompanyFit*weightCompanyFit +
		in.ContactQuality*weightContactQuality

	return Result{
		Total:          round2(total),
		PainPointScore: painPointScore,
		ActivityScore:  activityScore,
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
