package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dodai/navigator/internal/models"
)

const shareIssuer = "ai-navigator"

// SharedAnalysis is what a share link reveals about a response.
type SharedAnalysis struct {
	ID        int64     `json:"id"`
	FirstName *string   `json:"first_name"`
	Analysis  string    `json:"analysis"`
	CreatedAt time.Time `json:"created_at"`
}

type shareReader interface {
	Get(ctx context.Context, id int64) (*models.SurveyResponse, error)
}

// ShareService issues and resolves signed links to a stored analysis.
type ShareService struct {
	store  shareReader
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewShareService returns a service that refuses every call when secret is empty.
func NewShareService(store shareReader, secret string, ttl time.Duration) *ShareService {
	return &ShareService{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *ShareService) Enabled() bool { return len(s.secret) > 0 }

// Issue signs a token for response id.
func (s *ShareService) Issue(id int64) (string, error) {
	if !s.Enabled() {
		return "", ErrShareDisabled
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    shareIssuer,
		Subject:   strconv.FormatInt(id, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *ShareService) parse(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(shareIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid {
		return 0, ErrInvalidShareToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidShareToken
	}
	return id, nil
}

// Resolve verifies token and loads the analysis it points to.
func (s *ShareService) Resolve(ctx context.Context, token string) (*SharedAnalysis, error) {
	if !s.Enabled() {
		return nil, ErrShareDisabled
	}
	id, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrSurveyNotFound
	}
	if strings.TrimSpace(models.Deref(r.AIAnalysis)) == "" {
		return nil, ErrNoAnalysis
	}
	return &SharedAnalysis{ID: r.ID, FirstName: r.FirstName, Analysis: *r.AIAnalysis, CreatedAt: r.CreatedAt}, nil
}
