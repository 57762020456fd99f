package analysis

import (
	"fmt"

	"github.com/salescope/lead-insights/internal/entity"
)

// SystemInstruction frames the model as a lead-qualification analyst. The
// wording is part of the pipeline contract: the response format below is
// tuned against it.
const SystemInstruction = `You are a B2B lead qualification expert. Your job is to analyze company information and identify business pain points, then provide actionable insights for sales outreach.

Your analysis should focus on:
1. Identifying specific business challenges and pain points
2. Ranking pain points by urgency (1-5 scale)
3. Categorizing pain points (operational, financial, technological, strategic, compliance)
4. Determining outreach strategies
5. Assessing lead quality

Be specific and actionable in your analysis.`

const promptTemplate = `
Analyze the following lead information and provide a comprehensive assessment:

COMPANY: %s
INDUSTRY: %s
COMPANY SIZE: %s
DECISION MAKER: %s - %s

CONTENT TO ANALYZE:
%s

Please provide your analysis in this exact JSON format:
{
    "pain_points": [
        {
            "description": "Specific pain point description",
            "urgency": 4,
            "category": "operational"
        }
    ],
    "coldness_factors": {
        "recent_activity": "Description of recent activity indicating engagement level",
        "business_challenges": "Current challenges mentioned",
        "growth_indicators": "Signs of growth or change"
    },
    "coldness_score": 6,
    "best_outreach_angle": "Specific recommendation for initial outreach",
    "lead_quality_assessment": "Overall assessment of lead potential",
    "recommended_action": "immediate_outreach | nurture_campaign | long_term_nurture | skip"
}

Focus on finding specific, actionable pain points that a B2B solution could address.
`

// BuildPrompt renders the analysis prompt for a lead and the free-text
// content to analyse. Absent descriptive fields are substituted with a
// literal "Unknown".
func BuildPrompt(lead *entity.Lead, content string) string {
	return fmt.Sprintf(promptTemplate,
		orUnknown(&lead.CompanyName),
		orUnknown(lead.Industry),
		orUnknown(lead.CompanySize),
		orUnknown(lead.DecisionMakerName),
		orUnknown(lead.DecisionMakerTitle),
		content,
	)
}

func orUnknown(value *string) string {
	if value == nil || *value == "" {
		return "Unknown"
	}
	return *value
}
