package services

import (
	"context"
	"errors"
	"sort"

	"github.com/dodai/navigator/internal/models"
)

type stubSurveyStore struct {
	rows   map[int64]*models.SurveyResponse
	nextID int64
	err    error
	listed [2]int
}

func newStubSurveyStore() *stubSurveyStore {
	return &stubSurveyStore{rows: map[int64]*models.SurveyResponse{}}
}

func (s *stubSurveyStore) Create(_ context.Context, r *models.SurveyResponse) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.nextID++
	cp := *r
	cp.ID = s.nextID
	s.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (s *stubSurveyStore) Get(_ context.Context, id int64) (*models.SurveyResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if r, ok := s.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (s *stubSurveyStore) List(_ context.Context, limit, offset int) ([]*models.SurveyResponse, error) {
	s.listed = [2]int{limit, offset}
	if s.err != nil {
		return nil, s.err
	}
	all, _ := s.ListAll(context.Background())
	if offset >= len(all) {
		return []*models.SurveyResponse{}, nil
	}
	all = all[offset:]
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *stubSurveyStore) ListAll(_ context.Context) ([]*models.SurveyResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.SurveyResponse, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *stubSurveyStore) Stats(_ context.Context) (models.Stats, error) {
	if s.err != nil {
		return models.Stats{}, s.err
	}
	return models.Stats{Total: int64(len(s.rows)), Today: int64(len(s.rows))}, nil
}

func (s *stubSurveyStore) SetAnalysis(_ context.Context, id int64, text string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	r, ok := s.rows[id]
	if !ok {
		return false, nil
	}
	r.AIAnalysis = &text
	return true, nil
}

type stubIndexer struct {
	ids []int64
	err error
}

func (i *stubIndexer) IndexResponse(r *models.SurveyResponse) error {
	i.ids = append(i.ids, r.ID)
	return i.err
}

var errDiskIO = errors.New("disk I/O error")
