package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/salescope/lead-insights/internal/dto"
	"github.com/salescope/lead-insights/internal/entity"
	"github.com/salescope/lead-insights/internal/repository"
	"github.com/salescope/lead-insights/internal/service/analysis"
)

// memoryLeadsRepo is an in-memory LeadsRepository used to exercise the full
// create -> schedule -> analyse flow without a database.
type memoryLeadsRepo struct {
	mu    sync.Mutex
	leads map[uuid.UUID]*entity.Lead
}

func newMemoryLeadsRepo() *memoryLeadsRepo {
	return &memoryLeadsRepo{leads: map[uuid.UUID]*entity.Lead{}}
}

func (m *memoryLeadsRepo) Insert(ctx context.Context, lead *entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *lead
	m.leads[lead.ID] = &clone
	return nil
}

func (m *memoryLeadsRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, repository.ErrLeadNotFound
	}
	clone := *lead
	return &clone, nil
}

func (m *memoryLeadsRepo) List(ctx context.Context, limit int) ([]entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Lead
	for _, lead := range m.leads {
		out = append(out, *lead)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryLeadsRepo) UpdateDetails(ctx context.Context, id uuid.UUID, details repository.LeadDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return repository.ErrLeadNotFound
	}
	lead.CompanyName = details.CompanyName
	lead.Industry = details.Industry
	lead.CompanySize = details.CompanySize
	lead.DecisionMakerName = details.DecisionMakerName
	lead.DecisionMakerTitle = details.DecisionMakerTitle
	lead.LinkedInURL = details.LinkedInURL
	lead.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memoryLeadsRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return repository.ErrLeadNotFound
	}
	lead.AnalysisStatus = status
	lead.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memoryLeadsRepo) SaveAnalysis(ctx context.Context, id uuid.UUID, result repository.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return repository.ErrLeadNotFound
	}
	lead.PainPoints = result.PainPoints
	coldness := result.ColdnessScore
	score := result.TotalLeadScore
	angle := result.BestOutreachAngle
	activity := result.RecentActivitySummary
	lead.ColdnessScore = &coldness
	lead.TotalLeadScore = &score
	lead.BestOutreachAngle = &angle
	lead.RecentActivitySummary = &activity
	lead.AnalysisStatus = entity.StatusCompleted
	lead.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memoryLeadsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[id]; !ok {
		return repository.ErrLeadNotFound
	}
	delete(m.leads, id)
	return nil
}

func (m *memoryLeadsRepo) Stats(ctx context.Context) (dto.LeadStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats dto.LeadStats
	for _, lead := range m.leads {
		stats.TotalLeads++
		if lead.TotalLeadScore == nil {
			continue
		}
		switch score := *lead.TotalLeadScore; {
		case score >= 8:
			stats.HotLeads++
		case score >= 5:
			stats.WarmLeads++
		default:
			stats.ColdLeads++
		}
	}
	return stats, nil
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(ctx context.Context, systemInstruction, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestService(repo repository.LeadsRepository, client *stubLLM) *LeadsService {
	analyzer := analysis.NewAnalyzer(repo, client)
	scheduler := analysis.NewScheduler(time.Second)
	return NewLeadsService(repo, analyzer, scheduler)
}

func validAnalysisJSON() string {
	return `{
        "pain_points": [{"description": "Slow deployments", "urgency": 4, "category": "technological"}],
        "coldness_factors": {"recent_activity": "Funding round closed"},
        "coldness_score": 2,
        "best_outreach_angle": "Congratulate on the round",
        "lead_quality_assessment": "High potential",
        "recommended_action": "immediate_outreach"
    }`
}

func waitHandle(t *testing.T, handle *analysis.Handle) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := handle.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) && handle.Err() == nil {
		t.Fatalf("analysis did not finish in time")
	}
	return err
}

func TestCreateLead_RequiresCompanyName(t *testing.T) {
	svc := newTestService(newMemoryLeadsRepo(), &stubLLM{})

	_, _, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{CompanyName: "   "})
	if !errors.Is(err, ErrCompanyNameRequired) {
		t.Fatalf("expected company name error, got %v", err)
	}
}

func TestCreateLead_WithoutContentStaysPending(t *testing.T) {
	repo := newMemoryLeadsRepo()
	svc := newTestService(repo, &stubLLM{response: validAnalysisJSON()})

	lead, handle, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle != nil {
		t.Fatalf("no analysis may be scheduled without content")
	}
	if lead.AnalysisStatus != entity.StatusPending {
		t.Fatalf("expected pending status, got %s", lead.AnalysisStatus)
	}

	stored, err := svc.GetLead(context.Background(), lead.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.AnalysisStatus != entity.StatusPending {
		t.Fatalf("lead transitioned without a trigger: %s", stored.AnalysisStatus)
	}
}

func TestCreateLead_WithContentReachesCompleted(t *testing.T) {
	repo := newMemoryLeadsRepo()
	svc := newTestService(repo, &stubLLM{response: validAnalysisJSON()})

	content := "Company blog mentions slow release cycles."
	lead, handle, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{
		CompanyName:   "Acme",
		ManualContent: &content,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle == nil {
		t.Fatalf("expected analysis scheduled")
	}
	if err := waitHandle(t, handle); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	stored, err := svc.GetLead(context.Background(), lead.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.AnalysisStatus != entity.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.AnalysisStatus)
	}
	if stored.TotalLeadScore == nil {
		t.Fatalf("expected score persisted")
	}
	// urgency 4, coldness 2: 8*0.4 + 9*0.3 + 7*0.2 + 5*0.1
	if *stored.TotalLeadScore != 7.8 {
		t.Fatalf("expected score 7.8, got %v", *stored.TotalLeadScore)
	}
	if stored.ColdnessScore == nil || *stored.ColdnessScore != 2 {
		t.Fatalf("expected coldness persisted")
	}
	if len(stored.PainPoints) != 1 || stored.PainPoints[0].Description != "Slow deployments" {
		t.Fatalf("unexpected pain points: %+v", stored.PainPoints)
	}
}

func TestCreateLead_LLMFailureMarksFailed(t *testing.T) {
	repo := newMemoryLeadsRepo()
	svc := newTestService(repo, &stubLLM{err: errors.New("api key missing")})

	content := "anything"
	lead, handle, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{
		CompanyName:   "Acme",
		ManualContent: &content,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if waitHandle(t, handle) == nil {
		t.Fatalf("expected analysis error")
	}

	stored, err := svc.GetLead(context.Background(), lead.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.AnalysisStatus != entity.StatusFailed {
		t.Fatalf("expected failed, got %s", stored.AnalysisStatus)
	}
	if stored.TotalLeadScore != nil {
		t.Fatalf("no enrichment may be written on failure")
	}
}

func TestUpdateLead_ReplacesDescriptiveFields(t *testing.T) {
	repo := newMemoryLeadsRepo()
	svc := newTestService(repo, &stubLLM{})

	lead, _, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	industry := "Logistics"
	updated, err := svc.UpdateLead(context.Background(), lead.ID.String(), dto.LeadCreateRequest{
		CompanyName: "Acme Corp",
		Industry:    &industry,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.CompanyName != "Acme Corp" || updated.Industry == nil || *updated.Industry != "Logistics" {
		t.Fatalf("descriptive fields not replaced: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("expected updated_at after created_at")
	}
}

func TestUpdateLead_NotFound(t *testing.T) {
	svc := newTestService(newMemoryLeadsRepo(), &stubLLM{})

	_, err := svc.UpdateLead(context.Background(), uuid.NewString(), dto.LeadCreateRequest{CompanyName: "Acme"})
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteLead_Idempotence(t *testing.T) {
	repo := newMemoryLeadsRepo()
	svc := newTestService(repo, &stubLLM{})

	lead, _, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteLead(context.Background(), lead.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetLead(context.Background(), lead.ID.String()); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteLead(context.Background(), lead.ID.String()); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("deleting a deleted lead must report not found, got %v", err)
	}
}

func TestGetLead_MalformedIDBehavesLikeAbsent(t *testing.T) {
	svc := newTestService(newMemoryLeadsRepo(), &stubLLM{})

	if _, err := svc.GetLead(context.Background(), "not-a-uuid"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
}

func TestTriggerAnalysis_UnknownLead(t *testing.T) {
	svc := newTestService(newMemoryLeadsRepo(), &stubLLM{})

	if _, err := svc.TriggerAnalysis(context.Background(), uuid.NewString(), "content"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTriggerAnalysis_EmptyContentStillRuns(t *testing.T) {
	repo := newMemoryLeadsRepo()
	svc := newTestService(repo, &stubLLM{response: validAnalysisJSON()})

	lead, _, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handle, err := svc.TriggerAnalysis(context.Background(), lead.ID.String(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := waitHandle(t, handle); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	stored, _ := svc.GetLead(context.Background(), lead.ID.String())
	if stored.AnalysisStatus != entity.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.AnalysisStatus)
	}
}

func TestStats_PartitionExcludesUnscored(t *testing.T) {
	repo := newMemoryLeadsRepo()
	svc := newTestService(repo, &stubLLM{})

	// one unscored (pending) lead plus one lead per band
	if _, _, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{CompanyName: "Pending Inc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, score := range []float64{9.1, 6.2, 2.3} {
		lead, _, err := svc.CreateLead(context.Background(), dto.LeadCreateRequest{CompanyName: "Scored"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.SaveAnalysis(context.Background(), lead.ID, repository.AnalysisResult{TotalLeadScore: score, ColdnessScore: 5}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalLeads != 4 {
		t.Fatalf("expected 4 total, got %d", stats.TotalLeads)
	}
	if stats.HotLeads != 1 || stats.WarmLeads != 1 || stats.ColdLeads != 1 {
		t.Fatalf("unexpected band counts: %+v", stats)
	}
	if stats.HotLeads+stats.WarmLeads+stats.ColdLeads != stats.TotalLeads-1 {
		t.Fatalf("pending lead leaked into a score band: %+v", stats)
	}
}
