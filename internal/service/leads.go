package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salescope/lead-insights/internal/dto"
	"github.com/salescope/lead-insights/internal/entity"
	"github.com/salescope/lead-insights/internal/repository"
	"github.com/salescope/lead-insights/internal/service/analysis"
)

var (
	// ErrLeadNotFound is surfaced for unknown or unparseable identifiers.
	ErrLeadNotFound = repository.ErrLeadNotFound
	// ErrCompanyNameRequired rejects lead payloads without a company name.
	ErrCompanyNameRequired = errors.New("company_name is required")
)

// defaultListLimit caps full-collection reads.
const defaultListLimit = 1000

// LeadsService exposes lead CRUD plus analysis scheduling.
type LeadsService struct {
	repo      repository.LeadsRepository
	analyzer  *analysis.Analyzer
	scheduler *analysis.Scheduler
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(repo repository.LeadsRepository, analyzer *analysis.Analyzer, scheduler *analysis.Scheduler) *LeadsService {
	return &LeadsService{repo: repo, analyzer: analyzer, scheduler: scheduler}
}

// CreateLead validates and persists a new lead. When manual content is
// supplied an analysis run is scheduled in the background; the returned lead
// still reads pending until that run gets to write.
func (s *LeadsService) CreateLead(ctx context.Context, req dto.LeadCreateRequest) (*entity.Lead, *analysis.Handle, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, nil, ErrCompanyNameRequired
	}

	now := time.Now().UTC()
	lead := &entity.Lead{
		ID:                 uuid.New(),
		CompanyName:        req.CompanyName,
		Industry:           req.Industry,
		CompanySize:        req.CompanySize,
		DecisionMakerName:  req.DecisionMakerName,
		DecisionMakerTitle: req.DecisionMakerTitle,
		LinkedInURL:        req.LinkedInURL,
		PainPoints:         []entity.PainPoint{},
		AnalysisStatus:     entity.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, lead); err != nil {
		return nil, nil, err
	}

	var handle *analysis.Handle
	if req.ManualContent != nil && *req.ManualContent != "" {
		handle = s.scheduleAnalysis(lead, *req.ManualContent)
	}

	return lead, handle, nil
}

// ListLeads returns the collection ordered by creation time, newest first.
func (s *LeadsService) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	return s.repo.List(ctx, defaultListLimit)
}

// GetLead fetches one lead by its string identifier.
func (s *LeadsService) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	leadID, err := parseLeadID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, leadID)
}

// UpdateLead replaces the descriptive fields of an existing lead and returns
// the refreshed record. Enrichment fields and status are untouched.
func (s *LeadsService) UpdateLead(ctx context.Context, id string, req dto.LeadCreateRequest) (*entity.Lead, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, ErrCompanyNameRequired
	}

	leadID, err := parseLeadID(id)
	if err != nil {
		return nil, err
	}

	details := repository.LeadDetails{
		CompanyName:        req.CompanyName,
		Industry:           req.Industry,
		CompanySize:        req.CompanySize,
		DecisionMakerName:  req.DecisionMakerName,
		DecisionMakerTitle: req.DecisionMakerTitle,
		LinkedInURL:        req.LinkedInURL,
	}
	if err := s.repo.UpdateDetails(ctx, leadID, details); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, leadID)
}

// DeleteLead removes the lead permanently. Deleting an unknown id reports
// not-found, never success.
func (s *LeadsService) DeleteLead(ctx context.Context, id string) error {
	leadID, err := parseLeadID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, leadID)
}

// TriggerAnalysis schedules an analysis run for an existing lead using the
// supplied content and returns without awaiting completion. Content is not
// validated; an empty block is analysed like any other.
func (s *LeadsService) TriggerAnalysis(ctx context.Context, id, content string) (*analysis.Handle, error) {
	leadID, err := parseLeadID(id)
	if err != nil {
		return nil, err
	}

	lead, err := s.repo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	return s.scheduleAnalysis(lead, content), nil
}

// Stats reports live score-band counts over the whole collection.
func (s *LeadsService) Stats(ctx context.Context) (dto.LeadStats, error) {
	return s.repo.Stats(ctx)
}

func (s *LeadsService) scheduleAnalysis(lead *entity.Lead, content string) *analysis.Handle {
	return s.scheduler.Schedule(func(ctx context.Context) error {
		return s.analyzer.Run(ctx, lead, content)
	})
}

// parseLeadID maps malformed identifiers to not-found: an id that cannot
// exist in the store behaves like one that does not.
func parseLeadID(id string) (uuid.UUID, error) {
	leadID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.UUID{}, ErrLeadNotFound
	}
	return leadID, nil
}
