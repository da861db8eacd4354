package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/llm"
	"github.com/dodai/navigator/internal/models"
)

// Source tells callers where an analysis text came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Analysis is the outcome of one analysis request.
type Analysis struct {
	ID     string
	Text   string
	Source Source
	Model  string
}

type AnalyzerOptions struct {
	MaxTokens   int
	Temperature float64
	Logger      *zap.Logger
}

// Analyzer produces Hebrew analyses. With a remote model it returns the model's
// text verbatim; without one, or on any remote failure, it returns the static
// fallback. It makes a single attempt per call and never returns an error.
type Analyzer struct {
	remote      llm.Completer
	maxTokens   int
	temperature float64
	log         *zap.Logger
	idGenerator func() string
}

// NewAnalyzer binds the analyzer to remote, which may be nil to disable the
// remote path.
func NewAnalyzer(remote llm.Completer, opts AnalyzerOptions) *Analyzer {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 800
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Analyzer{
		remote:      remote,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		log:         opts.Logger.Named("analyzer"),
		idGenerator: uuid.NewString,
	}
}

// Analyze answers a free-text prompt.
func (a *Analyzer) Analyze(ctx context.Context, prompt string) Analysis {
	id := a.idGenerator()
	if a.remote == nil {
		a.log.Debug("remote model not configured; using fallback", zap.String("analysis_id", id))
		return Analysis{ID: id, Text: FallbackAnalysis(), Source: SourceFallback}
	}
	start := time.Now()
	text, err := a.remote.Complete(ctx, llm.Request{
		System:      SystemPrompt(),
		Prompt:      prompt,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		a.log.Warn("remote analysis failed; using fallback",
			zap.String("analysis_id", id),
			zap.String("model", a.remote.Model()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return Analysis{ID: id, Text: FallbackAnalysis(), Source: SourceFallback}
	}
	a.log.Info("remote analysis completed",
		zap.String("analysis_id", id),
		zap.String("model", a.remote.Model()),
		zap.Int("chars", len([]rune(text))),
		zap.Duration("elapsed", time.Since(start)))
	return Analysis{ID: id, Text: text, Source: SourceRemote, Model: a.remote.Model()}
}

// AnalyzeResponse builds the prompt from stored answers and analyses it.
func (a *Analyzer) AnalyzeResponse(ctx context.Context, r *models.SurveyResponse) Analysis {
	prompt, err := BuildPrompt(r)
	if err != nil {
		a.log.Warn("build prompt failed; using fallback", zap.Int64("id", r.ID), zap.Error(err))
		return Analysis{ID: a.idGenerator(), Text: FallbackAnalysis(), Source: SourceFallback}
	}
	return a.Analyze(ctx, prompt)
}
