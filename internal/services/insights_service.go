package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dodai/navigator/internal/models"
)

// Bucket is one answer value and how many respondents chose it.
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DayCount is one day of the submission trend. Days without submissions are
// omitted.
type DayCount struct {
	Date                  string `json:"date"`
	Count                 int    `json:"count"`
	InterestedInCommunity int    `json:"interested_in_community"`
	PlatformRequests      int    `json:"platform_requests"`
}

// Answers the trend chart singles out.
const (
	communityYes = "ברור שכן"
	platformYes  = "כן"
)

// Insights are answer distributions across all stored responses.
type Insights struct {
	Total            int        `json:"total"`
	AgeGroup         []Bucket   `json:"age_group"`
	AIUsageLevel     []Bucket   `json:"ai_usage_level"`
	MainAIGoal       []Bucket   `json:"main_ai_goal"`
	MonthlySpending  []Bucket   `json:"monthly_spending"`
	CurrentActivity  []Bucket   `json:"current_activity"`
	KnownAITools     []Bucket   `json:"known_ai_tools"`
	AILearningMethod []Bucket   `json:"ai_learning_method"`
	AIBarriers       []Bucket   `json:"ai_barriers"`
	Daily            []DayCount `json:"daily"`
}

type counter map[string]int

func (c counter) add(v string) {
	v = strings.TrimSpace(v)
	if v != "" {
		c[v]++
	}
}

func (c counter) addScalar(p *string) {
	if p != nil {
		c.add(*p)
	}
}

// addChoices counts each option once per respondent. Unparsed values are skipped.
func (c counter) addChoices(m models.MultiSelect) {
	if m.State != models.Parsed {
		return
	}
	seen := map[string]bool{}
	for _, v := range m.Values {
		if !seen[v] {
			seen[v] = true
			c.add(v)
		}
	}
}

func (c counter) buckets() []Bucket {
	out := make([]Bucket, 0, len(c))
	for v, n := range c {
		out = append(out, Bucket{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func buildDaily(days map[string]*DayCount) []DayCount {
	keys := make([]string, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	sort.Strings(keys)
	out := make([]DayCount, 0, len(keys))
	for _, d := range keys {
		out = append(out, *days[d])
	}
	return out
}

// ComputeInsights aggregates the given responses. Days are calendar days in
// loc; nil means the local zone.
func ComputeInsights(rs []*models.SurveyResponse, loc *time.Location) Insights {
	if loc == nil {
		loc = time.Local
	}
	age, usage, goal, spending := counter{}, counter{}, counter{}, counter{}
	activity, tools, learning, barriers := counter{}, counter{}, counter{}, counter{}
	days := map[string]*DayCount{}
	for _, r := range rs {
		if !r.CreatedAt.IsZero() {
			key := r.CreatedAt.In(loc).Format("2006-01-02")
			d := days[key]
			if d == nil {
				d = &DayCount{Date: key}
				days[key] = d
			}
			d.Count++
			if models.Deref(r.CommunityInterest) == communityYes {
				d.InterestedInCommunity++
			}
			if models.Deref(r.PlatformAccess) == platformYes {
				d.PlatformRequests++
			}
		}
		age.addScalar(r.AgeGroup)
		usage.addScalar(r.AIUsageLevel)
		goal.addScalar(r.MainAIGoal)
		spending.addScalar(r.MonthlySpending)
		activity.addChoices(r.CurrentActivity)
		tools.addChoices(r.KnownAITools)
		learning.addChoices(r.AILearningMethod)
		barriers.addChoices(r.AIBarriers)
	}
	return Insights{
		Total:            len(rs),
		AgeGroup:         age.buckets(),
		AIUsageLevel:     usage.buckets(),
		MainAIGoal:       goal.buckets(),
		MonthlySpending:  spending.buckets(),
		CurrentActivity:  activity.buckets(),
		KnownAITools:     tools.buckets(),
		AILearningMethod: learning.buckets(),
		AIBarriers:       barriers.buckets(),
		Daily:            buildDaily(days),
	}
}

// Insights loads every response and aggregates it.
func (s *SurveyService) Insights(ctx context.Context) (Insights, error) {
	rs, err := s.store.ListAll(ctx)
	if err != nil {
		return Insights{}, err
	}
	return ComputeInsights(rs, nil), nil
}
