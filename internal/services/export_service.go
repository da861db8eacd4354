package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/dodai/navigator/internal/models"
)

type ExportParams struct {
	Format string // wide (default) or long
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// utf8BOM lets spreadsheet tools detect the encoding of Hebrew answers.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type answerColumn struct {
	name  string
	value func(r *models.SurveyResponse) []string
}

func scalar(get func(r *models.SurveyResponse) *string) func(r *models.SurveyResponse) []string {
	return func(r *models.SurveyResponse) []string {
		if p := get(r); p != nil {
			return []string{*p}
		}
		return nil
	}
}

func choices(get func(r *models.SurveyResponse) models.MultiSelect) func(r *models.SurveyResponse) []string {
	return func(r *models.SurveyResponse) []string {
		m := get(r)
		switch m.State {
		case models.Parsed:
			return m.Values
		case models.Unparsed:
			return []string{m.Raw}
		}
		return nil
	}
}

var answerColumns = []answerColumn{
	{"age_group", scalar(func(r *models.SurveyResponse) *string { return r.AgeGroup })},
	{"current_activity", choices(func(r *models.SurveyResponse) models.MultiSelect { return r.CurrentActivity })},
	{"self_definition", scalar(func(r *models.SurveyResponse) *string { return r.SelfDefinition })},
	{"self_definition_other", scalar(func(r *models.SurveyResponse) *string { return r.SelfDefinitionOther })},
	{"known_ai_tools", choices(func(r *models.SurveyResponse) models.MultiSelect { return r.KnownAITools })},
	{"ai_usage_level", scalar(func(r *models.SurveyResponse) *string { return r.AIUsageLevel })},
	{"ai_experience", scalar(func(r *models.SurveyResponse) *string { return r.AIExperience })},
	{"ai_learning_method", choices(func(r *models.SurveyResponse) models.MultiSelect { return r.AILearningMethod })},
	{"ai_learning_method_other", scalar(func(r *models.SurveyResponse) *string { return r.AILearningMethodOther })},
	{"main_ai_goal", scalar(func(r *models.SurveyResponse) *string { return r.MainAIGoal })},
	{"main_ai_goal_other", scalar(func(r *models.SurveyResponse) *string { return r.MainAIGoalOther })},
	{"biggest_ai_challenge", scalar(func(r *models.SurveyResponse) *string { return r.BiggestAIChallenge })},
	{"ai_creation_dream", scalar(func(r *models.SurveyResponse) *string { return r.AICreationDream })},
	{"future_ai_impact", scalar(func(r *models.SurveyResponse) *string { return r.FutureAIImpact })},
	{"monthly_spending", scalar(func(r *models.SurveyResponse) *string { return r.MonthlySpending })},
	{"ai_barriers", choices(func(r *models.SurveyResponse) models.MultiSelect { return r.AIBarriers })},
	{"barriers_other", scalar(func(r *models.SurveyResponse) *string { return r.BarriersOther })},
	{"community_interest", scalar(func(r *models.SurveyResponse) *string { return r.CommunityInterest })},
	{"specific_ai_help", scalar(func(r *models.SurveyResponse) *string { return r.SpecificAIHelp })},
	{"specific_ai_help_other", scalar(func(r *models.SurveyResponse) *string { return r.SpecificAIHelpOther })},
	{"investment_willingness", scalar(func(r *models.SurveyResponse) *string { return r.InvestmentWillingness })},
	{"platform_access", scalar(func(r *models.SurveyResponse) *string { return r.PlatformAccess })},
	{"first_name", scalar(func(r *models.SurveyResponse) *string { return r.FirstName })},
	{"email", scalar(func(r *models.SurveyResponse) *string { return r.Email })},
	{"completion_time", func(r *models.SurveyResponse) []string {
		if r.CompletionTime == nil {
			return nil
		}
		return []string{strconv.Itoa(*r.CompletionTime)}
	}},
	{"ai_analysis", scalar(func(r *models.SurveyResponse) *string { return r.AIAnalysis })},
}

// Export renders every stored response as CSV.
func (s *SurveyService) Export(ctx context.Context, params ExportParams) (*ExportResult, error) {
	format := params.Format
	if format == "" {
		format = "wide"
	}
	if format != "wide" && format != "long" {
		return nil, NewInvalidError("unsupported format")
	}
	rs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var b []byte
	if format == "long" {
		b, err = ExportLongCSV(rs)
	} else {
		b, err = ExportWideCSV(rs)
	}
	if err != nil {
		return nil, err
	}
	return &ExportResult{Filename: "survey_responses_" + format + ".csv", ContentType: "text/csv; charset=utf-8", Data: b}, nil
}

// ExportWideCSV writes one row per response. Multi-select cells join options with "; ".
func ExportWideCSV(rs []*models.SurveyResponse) ([]byte, error) {
	buf := bytes.NewBuffer(append([]byte(nil), utf8BOM...))
	w := csv.NewWriter(buf)
	header := []string{"id", "created_at"}
	for _, col := range answerColumns {
		header = append(header, col.name)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rs {
		row := []string{strconv.FormatInt(r.ID, 10), r.CreatedAt.UTC().Format(time.RFC3339)}
		for _, col := range answerColumns {
			row = append(row, strings.Join(col.value(r), "; "))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportLongCSV writes one row per answer value; each chosen option of a
// multi-select gets its own row.
func ExportLongCSV(rs []*models.SurveyResponse) ([]byte, error) {
	buf := bytes.NewBuffer(append([]byte(nil), utf8BOM...))
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"response_id", "field", "value", "created_at"}); err != nil {
		return nil, err
	}
	for _, r := range rs {
		id := strconv.FormatInt(r.ID, 10)
		created := r.CreatedAt.UTC().Format(time.RFC3339)
		for _, col := range answerColumns {
			for _, v := range col.value(r) {
				if err := w.Write([]string{id, col.name, v, created}); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
