package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salescope/lead-insights/internal/dto"
	"github.com/salescope/lead-insights/internal/entity"
)

// ErrLeadNotFound is returned when no lead matches the lookup identifier.
var ErrLeadNotFound = errors.New("lead not found")

// LeadDetails carries the descriptive fields replaced by an update. The
// enrichment fields are never touched through this path.
type LeadDetails struct {
	CompanyName        string
	Industry           *string
	CompanySize        *string
	DecisionMakerName  *string
	DecisionMakerTitle *string
	LinkedInURL        *string
}

// AnalysisResult bundles the enrichment fields written back by a completed
// analysis run in a single update.
type AnalysisResult struct {
	PainPoints            []entity.PainPoint
	ColdnessScore         int
	TotalLeadScore        float64
	BestOutreachAngle     string
	RecentActivitySummary string
}

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	Insert(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	List(ctx context.Context, limit int) ([]entity.Lead, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, details LeadDetails) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	SaveAnalysis(ctx context.Context, id uuid.UUID, result AnalysisResult) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (dto.LeadStats, error)
}

// pgxPool is the subset of pgxpool.Pool used by the repository, kept small so
// tests can substitute a stub.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

const leadColumns = `
            id,
            company_name,
            industry,
            company_size,
            decision_maker_name,
            decision_maker_title,
            linkedin_url,
            pain_points,
            recent_activity_summary,
            coldness_score,
            total_lead_score,
            best_outreach_angle,
            contact_info_quality,
            analysis_status,
            created_at,
            updated_at
`

// Insert persists a freshly created lead.
func (r *PGXLeadsRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	if lead == nil {
		return fmt.Errorf("lead payload is nil")
	}

	painPoints, err := marshalPainPoints(lead.PainPoints)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO leads (
            id,
            company_name,
            industry,
            company_size,
            decision_maker_name,
            decision_maker_title,
            linkedin_url,
            pain_points,
            analysis_status,
            created_at,
            updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11)
    `

	_, err = r.pool.Exec(ctx, query,
		lead.ID,
		lead.CompanyName,
		lead.Industry,
		lead.CompanySize,
		lead.DecisionMakerName,
		lead.DecisionMakerTitle,
		lead.LinkedInURL,
		string(painPoints),
		lead.AnalysisStatus,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// FindByID retrieves a lead by identifier.
func (r *PGXLeadsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("query lead by id: %w", err)
	}

	return lead, nil
}

// List returns leads ordered by creation time, newest first.
func (r *PGXLeadsRepository) List(ctx context.Context, limit int) ([]entity.Lead, error) {
	if limit <= 0 {
		limit = 1000
	}

	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, nil
}

// UpdateDetails replaces the descriptive fields of a lead and refreshes
// updated_at. Enrichment fields are left untouched.
func (r *PGXLeadsRepository) UpdateDetails(ctx context.Context, id uuid.UUID, details LeadDetails) error {
	query := `
        UPDATE leads SET
            company_name = $2,
            industry = $3,
            company_size = $4,
            decision_maker_name = $5,
            decision_maker_title = $6,
            linkedin_url = $7,
            updated_at = NOW()
        WHERE id = $1
    `

	tag, err := r.pool.Exec(ctx, query,
		id,
		details.CompanyName,
		details.Industry,
		details.CompanySize,
		details.DecisionMakerName,
		details.DecisionMakerTitle,
		details.LinkedInURL,
	)
	if err != nil {
		return fmt.Errorf("update lead details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}

	return nil
}

// SetStatus moves a lead to the given analysis status and refreshes updated_at.
func (r *PGXLeadsRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE leads SET analysis_status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}

	return nil
}

// SaveAnalysis writes the enrichment fields and the completed status in one
// update so a reader never observes a partially analysed lead.
func (r *PGXLeadsRepository) SaveAnalysis(ctx context.Context, id uuid.UUID, result AnalysisResult) error {
	painPoints, err := marshalPainPoints(result.PainPoints)
	if err != nil {
		return err
	}

	query := `
        UPDATE leads SET
            pain_points = $2::jsonb,
            coldness_score = $3,
            total_lead_score = $4,
            best_outreach_angle = $5,
            recent_activity_summary = $6,
            analysis_status = $7,
            updated_at = NOW()
        WHERE id = $1
    `

	tag, err := r.pool.Exec(ctx, query,
		id,
		string(painPoints),
		result.ColdnessScore,
		result.TotalLeadScore,
		result.BestOutreachAngle,
		result.RecentActivitySummary,
		entity.StatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("save lead analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}

	return nil
}

// Delete removes the lead permanently.
func (r *PGXLeadsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}

	return nil
}

// Stats counts leads per score band. Unscored leads contribute to the total
// only.
func (r *PGXLeadsRepository) Stats(ctx context.Context) (dto.LeadStats, error) {
	query := `
        SELECT
            COUNT(*) AS total_leads,
            COUNT(*) FILTER (WHERE total_lead_score >= 8) AS hot_leads,
            COUNT(*) FILTER (WHERE total_lead_score >= 5 AND total_lead_score < 8) AS warm_leads,
            COUNT(*) FILTER (WHERE total_lead_score < 5) AS cold_leads
        FROM leads
    `

	var stats dto.LeadStats
	err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalLeads, &stats.HotLeads, &stats.WarmLeads, &stats.ColdLeads)
	if err != nil {
		return dto.LeadStats{}, fmt.Errorf("count lead stats: %w", err)
	}

	return stats, nil
}

func marshalPainPoints(points []entity.PainPoint) ([]byte, error) {
	if points == nil {
		points = []entity.PainPoint{}
	}
	payload, err := json.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("marshal pain points: %w", err)
	}
	return payload, nil
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var (
		lead               entity.Lead
		industry           sql.NullString
		companySize        sql.NullString
		decisionMakerName  sql.NullString
		decisionMakerTitle sql.NullString
		linkedinURL        sql.NullString
		painPointsJSON     []byte
		recentActivity     sql.NullString
		coldnessScore      sql.NullInt64
		totalLeadScore     sql.NullFloat64
		bestOutreachAngle  sql.NullString
		contactInfoQuality sql.NullInt64
	)

	err := row.Scan(
		&lead.ID,
		&lead.CompanyName,
		&industry,
		&companySize,
		&decisionMakerName,
		&decisionMakerTitle,
		&linkedinURL,
		&painPointsJSON,
		&recentActivity,
		&coldnessScore,
		&totalLeadScore,
		&bestOutreachAngle,
		&contactInfoQuality,
		&lead.AnalysisStatus,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Industry = nullStringToPtr(industry)
	lead.CompanySize = nullStringToPtr(companySize)
	lead.DecisionMakerName = nullStringToPtr(decisionMakerName)
	lead.DecisionMakerTitle = nullStringToPtr(decisionMakerTitle)
	lead.LinkedInURL = nullStringToPtr(linkedinURL)
	lead.RecentActivitySummary = nullStringToPtr(recentActivity)
	lead.BestOutreachAngle = nullStringToPtr(bestOutreachAngle)
	lead.ColdnessScore = nullIntToPtr(coldnessScore)
	lead.ContactInfoQuality = nullIntToPtr(contactInfoQuality)
	if totalLeadScore.Valid {
		val := totalLeadScore.Float64
		lead.TotalLeadScore = &val
	}

	lead.PainPoints = []entity.PainPoint{}
	if len(painPointsJSON) > 0 {
		if err := json.Unmarshal(painPointsJSON, &lead.PainPoints); err != nil {
			return nil, fmt.Errorf("unmarshal pain points: %w", err)
		}
	}

	return &lead, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func nullIntToPtr(value sql.NullInt64) *int {
	if value.Valid {
		val := int(value.Int64)
		return &val
	}
	return nil
}
