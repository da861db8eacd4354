package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/dodai/navigator/internal/models"
)

// Index wraps a Bleve index over the free-text answers of survey responses.
type Index struct {
	index bleve.Index
}

// IndexedResponse is the document stored for one response.
type IndexedResponse struct {
	ID         string
	FirstName  string
	Tools      string
	Activities string
	Goal       string
	Challenge  string
	Dream      string
	Impact     string
	Help       string
	Other      string
	Analysis   string
}

// Result is one search hit.
type Result struct {
	ID        int64               `json:"id"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

// Open opens the index at path, creating it when missing.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx}, nil
}

// OpenInMemory returns an index that lives only as long as the process.
func OpenInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create memory index: %w", err)
	}
	return &Index{index: idx}, nil
}

// The standard analyzer tokenizes on Unicode word boundaries, which keeps
// Hebrew answers searchable without stemming.
func buildIndexMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = "standard"

	doc := bleve.NewDocumentMapping()
	id := bleve.NewKeywordFieldMapping()
	id.IncludeInAll = false
	doc.AddFieldMappingsAt("ID", id)
	for _, field := range []string{"FirstName", "Tools", "Activities", "Goal", "Challenge", "Dream", "Impact", "Help", "Other", "Analysis"} {
		doc.AddFieldMappingsAt(field, text)
	}

	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = "standard"
	m.AddDocumentMapping("_default", doc)
	return m
}

func (i *Index) Close() error {
	return i.index.Close()
}

func multi(m models.MultiSelect) string {
	if m.State == models.Unparsed {
		return m.Raw
	}
	return strings.Join(m.Values, " ")
}

func joinNonEmpty(ps ...*string) string {
	var parts []string
	for _, p := range ps {
		if v := strings.TrimSpace(models.Deref(p)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

func toDocument(r *models.SurveyResponse) *IndexedResponse {
	return &IndexedResponse{
		ID:         strconv.FormatInt(r.ID, 10),
		FirstName:  models.Deref(r.FirstName),
		Tools:      multi(r.KnownAITools),
		Activities: multi(r.CurrentActivity),
		Goal:       joinNonEmpty(r.MainAIGoal, r.MainAIGoalOther),
		Challenge:  models.Deref(r.BiggestAIChallenge),
		Dream:      models.Deref(r.AICreationDream),
		Impact:     models.Deref(r.FutureAIImpact),
		Help:       joinNonEmpty(r.SpecificAIHelp, r.SpecificAIHelpOther),
		Other:      joinNonEmpty(r.SelfDefinitionOther, r.AILearningMethodOther, r.BarriersOther),
		Analysis: models.Deref(r.AIAnalysis),
	}
}

// IndexResponse adds or replaces the document for r.
func (i *Index) IndexResponse(r *models.SurveyResponse) error {
	doc := toDocument(r)
	return i.index.Index(doc.ID, doc)
}

// Search runs a query-string query (quotes, +/-, field:term, fuzzy ~) and
// returns hits with highlighted fragments.
func (i *Index) Search(queryStr string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(queryStr), limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Result{ID: id, Score: hit.Score, Fragments: hit.Fragments})
	}
	return out, nil
}

// Rebuild indexes every response in one batch and drops documents for
// responses no longer in rs.
func (i *Index) Rebuild(rs []*models.SurveyResponse) error {
	stale, err := i.documentIDs()
	if err != nil {
		return err
	}
	batch := i.index.NewBatch()
	for _, r := range rs {
		doc := toDocument(r)
		delete(stale, doc.ID)
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	for id := range stale {
		batch.Delete(id)
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (i *Index) documentIDs() (map[string]struct{}, error) {
	n, err := i.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	ids := make(map[string]struct{}, n)
	if n == 0 {
		return ids, nil
	}
	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(n), 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	for _, hit := range res.Hits {
		ids[hit.ID] = struct{}{}
	}
	return ids, nil
}

// Count returns the number of indexed responses.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
