package services

import (
	"context"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/dodai/navigator/internal/models"
)

// SurveyStore abstracts persistence operations required by SurveyService.
type SurveyStore interface {
	Create(ctx context.Context, r *models.SurveyResponse) (int64, error)
	Get(ctx context.Context, id int64) (*models.SurveyResponse, error)
	List(ctx context.Context, limit, offset int) ([]*models.SurveyResponse, error)
	ListAll(ctx context.Context) ([]*models.SurveyResponse, error)
	Stats(ctx context.Context) (models.Stats, error)
	SetAnalysis(ctx context.Context, id int64, text string) (bool, error)
}

// Indexer receives every created or re-analysed response. Failures are logged
// and never fail the write.
type Indexer interface {
	IndexResponse(r *models.SurveyResponse) error
}

// ListOptions selects a page of responses. A nil Limit means the default; an
// explicit zero selects nothing.
type ListOptions struct {
	Limit  *int
	Offset int
}

type SurveyServiceOptions struct {
	DefaultLimit int
	// MaxLimit clamps larger requests; 0 means no ceiling.
	MaxLimit int
	Index    Indexer
	Logger   *zap.Logger
}

// SurveyService stores and reads questionnaire submissions.
type SurveyService struct {
	store        SurveyStore
	index        Indexer
	log          *zap.Logger
	defaultLimit int
	maxLimit     int
}

func NewSurveyService(store SurveyStore, opts SurveyServiceOptions) *SurveyService {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 100
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &SurveyService{
		store:        store,
		index:        opts.Index,
		log:          opts.Logger.Named("surveys"),
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
	}
}

// Create persists r and returns its new id. The id and created_at on r are
// ignored.
func (s *SurveyService) Create(ctx context.Context, r *models.SurveyResponse) (int64, error) {
	if r == nil {
		return 0, NewInvalidError("survey body required")
	}
	id, err := s.store.Create(ctx, r)
	if err != nil {
		return 0, err
	}
	s.log.Info("survey response stored",
		zap.Int64("id", id),
		zap.String("contact", contactFingerprint(models.Deref(r.Email))),
		zap.Intp("completion_time", r.CompletionTime))
	s.reindex(ctx, id)
	return id, nil
}

// Get returns the stored response or ErrSurveyNotFound.
func (s *SurveyService) Get(ctx context.Context, id int64) (*models.SurveyResponse, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrSurveyNotFound
	}
	return r, nil
}

// List returns a page of responses, newest first.
func (s *SurveyService) List(ctx context.Context, opts ListOptions) ([]*models.SurveyResponse, error) {
	limit, offset, err := s.page(opts)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, limit, offset)
}

func (s *SurveyService) page(opts ListOptions) (int, int, error) {
	limit := s.defaultLimit
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	if limit < 0 {
		return 0, 0, NewInvalidError("limit must not be negative")
	}
	if opts.Offset < 0 {
		return 0, 0, NewInvalidError("offset must not be negative")
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit, opts.Offset, nil
}

func (s *SurveyService) All(ctx context.Context) ([]*models.SurveyResponse, error) {
	return s.store.ListAll(ctx)
}

func (s *SurveyService) Stats(ctx context.Context) (models.Stats, error) {
	return s.store.Stats(ctx)
}

// SaveAnalysis writes text into the response's ai_analysis column.
func (s *SurveyService) SaveAnalysis(ctx context.Context, id int64, text string) error {
	ok, err := s.store.SetAnalysis(ctx, id, text)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSurveyNotFound
	}
	s.reindex(ctx, id)
	return nil
}

func (s *SurveyService) reindex(ctx context.Context, id int64) {
	if s.index == nil {
		return
	}
	r, err := s.store.Get(ctx, id)
	if err != nil || r == nil {
		s.log.Warn("reload for index failed", zap.Int64("id", id), zap.Error(err))
		return
	}
	if err := s.index.IndexResponse(r); err != nil {
		s.log.Warn("index survey response failed", zap.Int64("id", id), zap.Error(err))
	}
}

// contactFingerprint identifies a respondent in logs without recording the address.
func contactFingerprint(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(email))
	return hex.EncodeToString(sum[:6])
}
