package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/salescope/lead-insights/internal/entity"
	"github.com/salescope/lead-insights/internal/llm"
	"github.com/salescope/lead-insights/internal/repository"
	"github.com/salescope/lead-insights/internal/service/scoring"
)

const defaultColdnessScore = 5

// avg urgency substituted when the model reports no pain points at all.
const defaultAvgUrgency = 3

// Analyzer runs the lead analysis pipeline: prompt the model, parse the
// response, score the lead and persist the enrichment fields.
type Analyzer struct {
	repo   repository.LeadsRepository
	client llm.Client
}

// NewAnalyzer wires a pipeline over the given store and LLM client.
func NewAnalyzer(repo repository.LeadsRepository, client llm.Client) *Analyzer {
	return &Analyzer{repo: repo, client: client}
}

// Run executes one analysis for the lead. The lead is moved to analyzing
// before the model call; any later error leaves it at failed with no
// enrichment fields written. Status transitions are never reversed.
func (a *Analyzer) Run(ctx context.Context, lead *entity.Lead, content string) error {
	if lead == nil {
		return fmt.Errorf("lead payload is nil")
	}

	if err := a.run(ctx, lead, content); err != nil {
		log.Printf("analysis failed for lead %s: %v", lead.ID, err)
		a.markFailed(lead)
		return err
	}

	return nil
}

func (a *Analyzer) run(ctx context.Context, lead *entity.Lead, content string) error {
	if err := a.repo.SetStatus(ctx, lead.ID, entity.StatusAnalyzing); err != nil {
		return fmt.Errorf("mark analyzing: %w", err)
	}

	prompt := BuildPrompt(lead, content)
	raw, err := a.client.Complete(ctx, SystemInstruction, prompt)
	if err != nil {
		return fmt.Errorf("llm completion: %w", err)
	}

	analysis, outcome := ParseResponse(raw)
	if outcome != ParsedOK {
		log.Printf("analysis degraded for lead %s: %s", lead.ID, outcome)
	}

	painPoints, err := mapPainPoints(analysis.PainPoints)
	if err != nil {
		return err
	}

	avgUrgency := float64(defaultAvgUrgency)
	if len(painPoints) > 0 {
		sum := 0
		for _, pp := range painPoints {
			sum += pp.Urgency
		}
		avgUrgency = float64(sum) / float64(len(painPoints))
	}

	coldness := defaultColdnessScore
	if analysis.ColdnessScore != nil {
		coldness = *analysis.ColdnessScore
	}

	score := scoring.Compute(scoring.Inputs{
		AvgUrgency:     avgUrgency,
		ColdnessScore:  coldness,
		CompanyFit:     scoring.DefaultCompanyFit,
		ContactQuality: scoring.DefaultContactQuality,
	})

	result := repository.AnalysisResult{
		PainPoints:            painPoints,
		ColdnessScore:         coldness,
		TotalLeadScore:        score.Total,
		BestOutreachAngle:     analysis.BestOutreachAngle,
		RecentActivitySummary: analysis.ColdnessFactors.RecentActivity,
	}

	if err := a.repo.SaveAnalysis(ctx, lead.ID, result); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	return nil
}

// markFailed records the terminal failed status. It runs on a fresh context
// so the write still lands when the run was cancelled or timed out.
func (a *Analyzer) markFailed(lead *entity.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.repo.SetStatus(ctx, lead.ID, entity.StatusFailed); err != nil {
		log.Printf("could not mark lead %s failed: %v", lead.ID, err)
	}
}

// mapPainPoints converts the decoded payload into pain point values. Entries
// missing a field or carrying an out-of-range urgency abort the run; the
// caller's failure handling records the failed status.
func mapPainPoints(payload []PainPointPayload) ([]entity.PainPoint, error) {
	points := make([]entity.PainPoint, 0, len(payload))
	for i, pp := range payload {
		if pp.Description == nil || pp.Urgency == nil || pp.Category == nil {
			return nil, fmt.Errorf("pain point %d: missing required fields", i)
		}
		if *pp.Urgency < 1 || *pp.Urgency > 5 {
			return nil, fmt.Errorf("pain point %d: urgency %d outside 1-5", i, *pp.Urgency)
		}
		points = append(points, entity.PainPoint{
			Description: *pp.Description,
			Urgency:     *pp.Urgency,
			Category:    *pp.Category,
		})
	}
	return points, nil
}
