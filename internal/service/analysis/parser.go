package analysis

import (
	"encoding/json"
	"strings"
)

// Outcome classifies how the model response was turned into an Analysis.
// Malformed and absent JSON both degrade to a fallback analysis instead of
// failing the run, but the two shapes stay distinguishable for callers and
// logs.
type Outcome int

const (
	// ParsedOK means the extracted JSON object decoded cleanly.
	ParsedOK Outcome = iota
	// MalformedJSON means a {...} span was present but did not decode.
	MalformedJSON
	// NoJSONFound means the response contained no JSON object at all.
	NoJSONFound
)

// String returns the outcome label used in logs.
func (o Outcome) String() string {
	switch o {
	case ParsedOK:
		return "parsed"
	case MalformedJSON:
		return "malformed_json"
	case NoJSONFound:
		return "no_json_found"
	default:
		return "unknown"
	}
}

// PainPointPayload mirrors a pain_points entry from the model. Fields are
// pointers so the pipeline can tell absent keys from zero values when
// validating the shape.
type PainPointPayload struct {
	Description *string `json:"description"`
	Urgency     *int    `json:"urgency"`
	Category    *string `json:"category"`
}

// ColdnessFactors describes the engagement signals the model extracted.
type ColdnessFactors struct {
	RecentActivity     string `json:"recent_activity"`
	BusinessChallenges string `json:"business_challenges"`
	GrowthIndicators   string `json:"growth_indicators"`
}

// Analysis is the structured result expected from the model.
type Analysis struct {
	PainPoints            []PainPointPayload `json:"pain_points"`
	ColdnessFactors       ColdnessFactors    `json:"coldness_factors"`
	ColdnessScore         *int               `json:"coldness_score"`
	BestOutreachAngle     string             `json:"best_outreach_angle"`
	LeadQualityAssessment string             `json:"lead_quality_assessment"`
	RecommendedAction     string             `json:"recommended_action"`
}

const fallbackOutreachLimit = 200

// ParseResponse extracts the first {...} span (greedy, first opening brace to
// last closing brace) from the raw model output and decodes it. Responses
// without usable JSON degrade to a generic fallback analysis so a sloppy
// model reply never fails the whole run.
func ParseResponse(raw string) (Analysis, Outcome) {
	span, found := extractJSONObject(raw)
	if !found {
		return fallbackNoJSON(), NoJSONFound
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(span), &analysis); err != nil {
		return fallbackMalformed(raw), MalformedJSON
	}

	return analysis, ParsedOK
}

func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(raw, "}")
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func fallbackMalformed(raw string) Analysis {
	coldness := 5
	outreach := raw
	if runes := []rune(outreach); len(runes) > fallbackOutreachLimit {
		outreach = string(runes[:fallbackOutreachLimit])
	}
	return Analysis{
		PainPoints: []PainPointPayload{
			genericPainPoint("Business challenges identified in content analysis"),
		},
		ColdnessFactors:       ColdnessFactors{RecentActivity: "Content analysis completed"},
		ColdnessScore:         &coldness,
		BestOutreachAngle:     outreach + "...",
		LeadQualityAssessment: "Analysis completed with formatting issues",
		RecommendedAction:     "nurture_campaign",
	}
}

func fallbackNoJSON() Analysis {
	coldness := 5
	return Analysis{
		PainPoints: []PainPointPayload{
			genericPainPoint("Analysis completed but formatting issue occurred"),
		},
		ColdnessFactors:       ColdnessFactors{RecentActivity: "Unable to parse activity data"},
		ColdnessScore:         &coldness,
		BestOutreachAngle:     "Follow up based on content analysis",
		LeadQualityAssessment: "Analysis completed with formatting issues",
		RecommendedAction:     "nurture_campaign",
	}
}

func genericPainPoint(description string) PainPointPayload {
	urgency := 3
	category := "general"
	return PainPointPayload{
		Description: &description,
		Urgency:     &urgency,
		Category:    &category,
	}
}
