package models

import "time"

// SurveyResponse is one questionnaire submission. Every answer is optional; a nil
// pointer is stored and returned as null.
type SurveyResponse struct {
	ID                    int64       `json:"id"`
	AgeGroup              *string     `json:"age_group"`
	CurrentActivity       MultiSelect `json:"current_activity"`
	SelfDefinition        *string     `json:"self_definition"`
	SelfDefinitionOther   *string     `json:"self_definition_other"`
	KnownAITools          MultiSelect `json:"known_ai_tools"`
	AIUsageLevel          *string     `json:"ai_usage_level"`
	AIExperience          *string     `json:"ai_experience"`
	AILearningMethod      MultiSelect `json:"ai_learning_method"`
	AILearningMethodOther *string     `json:"ai_learning_method_other"`
	MainAIGoal            *string     `json:"main_ai_goal"`
	MainAIGoalOther       *string     `json:"main_ai_goal_other"`
	BiggestAIChallenge    *string     `json:"biggest_ai_challenge"`
	AICreationDream       *string     `json:"ai_creation_dream"`
	FutureAIImpact        *string     `json:"future_ai_impact"`
	MonthlySpending       *string     `json:"monthly_spending"`
	AIBarriers            MultiSelect `json:"ai_barriers"`
	BarriersOther         *string     `json:"barriers_other"`
	CommunityInterest     *string     `json:"community_interest"`
	SpecificAIHelp        *string     `json:"specific_ai_help"`
	SpecificAIHelpOther   *string     `json:"specific_ai_help_other"`
	InvestmentWillingness *string     `json:"investment_willingness"`
	PlatformAccess        *string     `json:"platform_access"`
	FirstName             *string     `json:"first_name"`
	Email                 *string     `json:"email"`
	CompletionTime        *int        `json:"completion_time"`
	AIAnalysis            *string     `json:"ai_analysis"`
	CreatedAt             time.Time   `json:"created_at"`
}

// Stats holds the aggregate counters served by /api/surveys/stats.
type Stats struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
}

// Str returns a pointer to s. Handy for building responses in code and tests.
func Str(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Deref returns the pointed-to string or "" for nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
