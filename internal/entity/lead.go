package entity

import (
	"time"

	"github.com/google/uuid"
)

// Analysis status values for a lead. Transitions move forward only:
// pending -> analyzing -> completed|failed.
const (
	StatusPending   = "pending"
	StatusAnalyzing = "analyzing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// PainPoint is a business problem attributed to a lead, ranked by urgency
// on a 1-5 scale. It has no lifecycle of its own and is stored inside the
// owning lead record.
type PainPoint struct {
	Description string `json:"description"`
	Urgency     int    `json:"urgency"`
	Category    string `json:"category"`
}

// Lead represents a business being evaluated for sales outreach. The
// enrichment fields are populated exclusively by the analysis pipeline.
type Lead struct {
	ID                    uuid.UUID   `json:"id"`
	CompanyName           string      `json:"company_name"`
	Industry              *string     `json:"industry,omitempty"`
	CompanySize           *string     `json:"company_size,omitempty"`
	DecisionMakerName     *string     `json:"decision_maker_name,omitempty"`
	DecisionMakerTitle    *string     `json:"decision_maker_title,omitempty"`
	LinkedInURL           *string     `json:"linkedin_url,omitempty"`
	PainPoints            []PainPoint `json:"pain_points"`
	RecentActivitySummary *string     `json:"recent_activity_summary,omitempty"`
	ColdnessScore         *int        `json:"coldness_score,omitempty"`
	TotalLeadScore        *float64    `json:"total_lead_score,omitempty"`
	BestOutreachAngle     *string     `json:"best_outreach_angle,omitempty"`
	ContactInfoQuality    *int        `json:"contact_info_quality,omitempty"`
	AnalysisStatus        string      `json:"analysis_status"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}
