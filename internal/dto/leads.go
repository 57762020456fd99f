package dto

// LeadCreateRequest carries the descriptive fields for creating or replacing
// a lead. ManualContent, when present on creation, triggers a background
// analysis run.
type LeadCreateRequest struct {
	CompanyName        string  `json:"company_name"`
	Industry           *string `json:"industry"`
	CompanySize        *string `json:"company_size"`
	DecisionMakerName  *string `json:"decision_maker_name"`
	DecisionMakerTitle *string `json:"decision_maker_title"`
	LinkedInURL        *string `json:"linkedin_url"`
	ManualContent      *string `json:"manual_content"`
}

// LeadStats summarises the lead collection by score band. Leads without a
// total score belong to no band, so the three buckets need not sum to the
// total while analyses are still pending.
type LeadStats struct {
	TotalLeads int `json:"total_leads"`
	HotLeads   int `json:"hot_leads"`
	WarmLeads  int `json:"warm_leads"`
	ColdLeads  int `json:"cold_leads"`
}
