package services

import (
	_ "embed"
	"slices"
	"strings"
	"text/template"

	"github.com/dodai/navigator/internal/models"
)

//go:embed prompts/system.md
var systemPromptRaw string

//go:embed prompts/fallback.md
var fallbackRaw string

//go:embed prompts/profile.tmpl
var profileTemplateRaw string

//go:embed prompts/respondent.tmpl
var respondentTemplateRaw string

// notSpecified fills profile fields the respondent left empty.
const notSpecified = "לא צוין"

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"join":  func(values []string) string { return strings.Join(values, ", ") },
	"has":   func(values []string, v string) bool { return slices.Contains(values, v) },
}

var (
	profileTemplate    = template.Must(template.New("profile").Funcs(templateFuncs).Parse(profileTemplateRaw))
	respondentTemplate = template.Must(template.New("respondent").Funcs(templateFuncs).Parse(respondentTemplateRaw))
)

// SystemPrompt is the instruction sent with every remote analysis request.
func SystemPrompt() string { return strings.TrimSpace(systemPromptRaw) }

// FallbackAnalysis is the static text returned whenever the remote model is
// unavailable. It does not depend on the request.
func FallbackAnalysis() string { return strings.TrimSpace(fallbackRaw) }

type profileView struct {
	Age        string
	Activity   string
	Definition string
	UsageLevel string
	MainGoal   string
}

func orNotSpecified(p *string) string {
	if p == nil {
		return notSpecified
	}
	return *p
}

func joinedOrNotSpecified(m models.MultiSelect) string {
	if len(m.Values) == 0 {
		return notSpecified
	}
	return strings.Join(m.Values, ", ")
}

// Profile renders the local template analysis from structured answers. It is
// deterministic and needs no remote model.
func Profile(r *models.SurveyResponse) (string, error) {
	if r == nil {
		r = &models.SurveyResponse{}
	}
	view := profileView{
		Age:        orNotSpecified(r.AgeGroup),
		Activity:   joinedOrNotSpecified(r.CurrentActivity),
		Definition: orNotSpecified(r.SelfDefinition),
		UsageLevel: orNotSpecified(r.AIUsageLevel),
		MainGoal:   orNotSpecified(r.MainAIGoal),
	}
	var b strings.Builder
	if err := profileTemplate.Execute(&b, view); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

type respondentView struct {
	AgeGroup              string
	CurrentActivity       []string
	SelfDefinition        string
	SelfDefinitionOther   string
	KnownAITools          []string
	AIUsageLevel          string
	AIExperience          string
	AILearningMethod      []string
	AILearningMethodOther string
	MainAIGoal            string
	MainAIGoalOther       string
	MonthlySpending       string
	AIBarriers            []string
	BarriersOther         string
	BiggestAIChallenge    string
	AICreationDream       string
	FutureAIImpact        string
	CommunityInterest     string
	SpecificAIHelp        string
	SpecificAIHelpOther   string
	InvestmentWillingness string
}

// BuildPrompt turns stored answers into the user message for a remote analysis.
func BuildPrompt(r *models.SurveyResponse) (string, error) {
	d := models.Deref
	view := respondentView{
		AgeGroup:              d(r.AgeGroup),
		CurrentActivity:       r.CurrentActivity.Values,
		SelfDefinition:        d(r.SelfDefinition),
		SelfDefinitionOther:   d(r.SelfDefinitionOther),
		KnownAITools:          r.KnownAITools.Values,
		AIUsageLevel:          d(r.AIUsageLevel),
		AIExperience:          d(r.AIExperience),
		AILearningMethod:      r.AILearningMethod.Values,
		AILearningMethodOther: d(r.AILearningMethodOther),
		MainAIGoal:            d(r.MainAIGoal),
		MainAIGoalOther:       d(r.MainAIGoalOther),
		MonthlySpending:       d(r.MonthlySpending),
		AIBarriers:            r.AIBarriers.Values,
		BarriersOther:         d(r.BarriersOther),
		BiggestAIChallenge:    d(r.BiggestAIChallenge),
		AICreationDream:       d(r.AICreationDream),
		FutureAIImpact:        d(r.FutureAIImpact),
		CommunityInterest:     d(r.CommunityInterest),
		SpecificAIHelp:        d(r.SpecificAIHelp),
		SpecificAIHelpOther:   d(r.SpecificAIHelpOther),
		InvestmentWillingness: d(r.InvestmentWillingness),
	}
	var b strings.Builder
	if err := respondentTemplate.Execute(&b, view); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
