package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/models"
)

// timeLayout is fixed width so created_at sorts and range-compares as text.
const timeLayout = "2006-01-02 15:04:05.000000"

const responseColumns = `id, age_group, current_activity, self_definition, self_definition_other,
	known_ai_tools, ai_usage_level, ai_experience, ai_learning_method, ai_learning_method_other,
	main_ai_goal, main_ai_goal_other, biggest_ai_challenge, ai_creation_dream, future_ai_impact,
	monthly_spending, ai_barriers, barriers_other, community_interest, specific_ai_help,
	specific_ai_help_other, investment_willingness, platform_access, first_name, email,
	completion_time, ai_analysis, created_at`

type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Open opens (creating if needed) the SQLite file at path and applies the schema.
func Open(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := NewSQLiteStore(sqlDB, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err := ApplySchema(ctx, sqlDB, ""); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteStore(db *sql.DB, logger *zap.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{
		db:  db,
		log: logger.Named("sqlite"),
		now: func() time.Time { return time.Now() },
	}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Ping reports whether the database file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func toNullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func toNullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func fromNullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func encodeMultiSelect(m models.MultiSelect) (sql.NullString, error) {
	text, ok, err := m.Encode()
	if err != nil || !ok {
		return sql.NullString{}, err
	}
	return sql.NullString{String: text, Valid: true}, nil
}

func (s *SQLiteStore) decodeMultiSelect(id int64, column string, ns sql.NullString) models.MultiSelect {
	if !ns.Valid {
		return models.MultiSelect{}
	}
	m := models.ParseMultiSelect(ns.String)
	if m.Malformed() {
		s.log.Warn("stored multi-select is not a JSON list; returning raw text",
			zap.Int64("id", id), zap.String("column", column))
	}
	return m
}

// Create inserts r and returns the id assigned by SQLite. created_at is set
// from the store clock and never changes afterwards.
func (s *SQLiteStore) Create(ctx context.Context, r *models.SurveyResponse) (int64, error) {
	if r == nil {
		return 0, errors.New("nil response")
	}
	multi := map[string]models.MultiSelect{
		"current_activity":   r.CurrentActivity,
		"known_ai_tools":     r.KnownAITools,
		"ai_learning_method": r.AILearningMethod,
		"ai_barriers":        r.AIBarriers,
	}
	encoded := make(map[string]sql.NullString, len(multi))
	for column, m := range multi {
		ns, err := encodeMultiSelect(m)
		if err != nil {
			return 0, fmt.Errorf("encode %s: %w", column, err)
		}
		encoded[column] = ns
	}
	createdAt := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `INSERT INTO survey_responses (
		age_group, current_activity, self_definition, self_definition_other, known_ai_tools,
		ai_usage_level, ai_experience, ai_learning_method, ai_learning_method_other, main_ai_goal,
		main_ai_goal_other, biggest_ai_challenge, ai_creation_dream, future_ai_impact, monthly_spending,
		ai_barriers, barriers_other, community_interest, specific_ai_help, specific_ai_help_other,
		investment_willingness, platform_access, first_name, email, completion_time,
		ai_analysis, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		toNullString(r.AgeGroup),
		encoded["current_activity"],
		toNullString(r.SelfDefinition),
		toNullString(r.SelfDefinitionOther),
		encoded["known_ai_tools"],
		toNullString(r.AIUsageLevel),
		toNullString(r.AIExperience),
		encoded["ai_learning_method"],
		toNullString(r.AILearningMethodOther),
		toNullString(r.MainAIGoal),
		toNullString(r.MainAIGoalOther),
		toNullString(r.BiggestAIChallenge),
		toNullString(r.AICreationDream),
		toNullString(r.FutureAIImpact),
		toNullString(r.MonthlySpending),
		encoded["ai_barriers"],
		toNullString(r.BarriersOther),
		toNullString(r.CommunityInterest),
		toNullString(r.SpecificAIHelp),
		toNullString(r.SpecificAIHelpOther),
		toNullString(r.InvestmentWillingness),
		toNullString(r.PlatformAccess),
		toNullString(r.FirstName),
		toNullString(r.Email),
		toNullInt(r.CompletionTime),
		toNullString(r.AIAnalysis),
		createdAt.Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert survey response: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanResponse(row rowScanner) (*models.SurveyResponse, error) {
	var (
		r                                                 models.SurveyResponse
		ageGroup, activity, selfDef, selfDefOther, tools  sql.NullString
		usage, experience, learning, learningOther, goal  sql.NullString
		goalOther, challenge, dream, impact, spending     sql.NullString
		barriers, barriersOther, community, help          sql.NullString
		helpOther, investment, platform, firstName, email sql.NullString
		analysis                                          sql.NullString
		completion                                        sql.NullInt64
		createdAt                                         sql.NullTime
	)
	err := row.Scan(&r.ID, &ageGroup, &activity, &selfDef, &selfDefOther,
		&tools, &usage, &experience, &learning, &learningOther,
		&goal, &goalOther, &challenge, &dream, &impact,
		&spending, &barriers, &barriersOther, &community, &help,
		&helpOther, &investment, &platform, &firstName, &email,
		&completion, &analysis, &createdAt)
	if err != nil {
		return nil, err
	}
	r.AgeGroup = fromNullString(ageGroup)
	r.CurrentActivity = s.decodeMultiSelect(r.ID, "current_activity", activity)
	r.SelfDefinition = fromNullString(selfDef)
	r.SelfDefinitionOther = fromNullString(selfDefOther)
	r.KnownAITools = s.decodeMultiSelect(r.ID, "known_ai_tools", tools)
	r.AIUsageLevel = fromNullString(usage)
	r.AIExperience = fromNullString(experience)
	r.AILearningMethod = s.decodeMultiSelect(r.ID, "ai_learning_method", learning)
	r.AILearningMethodOther = fromNullString(learningOther)
	r.MainAIGoal = fromNullString(goal)
	r.MainAIGoalOther = fromNullString(goalOther)
	r.BiggestAIChallenge = fromNullString(challenge)
	r.AICreationDream = fromNullString(dream)
	r.FutureAIImpact = fromNullString(impact)
	r.MonthlySpending = fromNullString(spending)
	r.AIBarriers = s.decodeMultiSelect(r.ID, "ai_barriers", barriers)
	r.BarriersOther = fromNullString(barriersOther)
	r.CommunityInterest = fromNullString(community)
	r.SpecificAIHelp = fromNullString(help)
	r.SpecificAIHelpOther = fromNullString(helpOther)
	r.InvestmentWillingness = fromNullString(investment)
	r.PlatformAccess = fromNullString(platform)
	r.FirstName = fromNullString(firstName)
	r.Email = fromNullString(email)
	r.CompletionTime = fromNullInt(completion)
	r.AIAnalysis = fromNullString(analysis)
	if createdAt.Valid {
		r.CreatedAt = createdAt.Time.UTC()
	}
	return &r, nil
}

// Get returns the response with the given id, or nil when no row matches.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*models.SurveyResponse, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+responseColumns+" FROM survey_responses WHERE id = ?", id)
	r, err := s.scanResponse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get survey response %d: %w", id, err)
	}
	return r, nil
}

// List returns responses newest first. A negative limit means no limit.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*models.SurveyResponse, error) {
	if limit < 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+responseColumns+
		" FROM survey_responses ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list survey responses: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := []*models.SurveyResponse{}
	for rows.Next() {
		r, err := s.scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan survey response: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate survey responses: %w", err)
	}
	return out, nil
}

// ListAll returns every stored response, newest first.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]*models.SurveyResponse, error) {
	return s.List(ctx, -1, 0)
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM survey_responses").Scan(&n); err != nil {
		return 0, fmt.Errorf("count survey responses: %w", err)
	}
	return n, nil
}

// Stats counts all rows and the rows created on the store's current local date.
func (s *SQLiteStore) Stats(ctx context.Context) (models.Stats, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	var today int64
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM survey_responses WHERE created_at >= ? AND created_at < ?",
		start.UTC().Format(timeLayout), end.UTC().Format(timeLayout)).Scan(&today)
	if err != nil {
		return models.Stats{}, fmt.Errorf("count today's survey responses: %w", err)
	}
	return models.Stats{Total: total, Today: today}, nil
}

// SetAnalysis stores text in the ai_analysis column. It reports false when no
// row has the given id.
func (s *SQLiteStore) SetAnalysis(ctx context.Context, id int64, text string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE survey_responses SET ai_analysis = ? WHERE id = ?",
		text, id)
	if err != nil {
		return false, fmt.Errorf("set analysis for %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
