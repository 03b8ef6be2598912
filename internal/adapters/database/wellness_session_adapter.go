package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

const wellnessSessionsTable = "wellness_sessions"

var wellnessSessionColumns = []any{
	"id", "user_id", "transcription", "summary", "bot_conversation",
	"wellness_data", "analysis_results", "created_at", "updated_at",
}

type wellnessSessionRow struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	Transcription   string         `db:"transcription"`
	Summary         string         `db:"summary"`
	BotConversation sql.NullString `db:"bot_conversation"`
	WellnessData    []byte         `db:"wellness_data"`
	AnalysisResults []byte         `db:"analysis_results"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r *wellnessSessionRow) toEntity() *entities.WellnessSession {
	return &entities.WellnessSession{
		ID:              r.ID,
		UserID:          r.UserID,
		Transcription:   r.Transcription,
		Summary:         r.Summary,
		BotConversation: fromNullable(r.BotConversation),
		WellnessData:    rawJSON(r.WellnessData),
		AnalysisResults: rawJSON(r.AnalysisResults),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type userSummaryRow struct {
	Email          string    `db:"email"`
	InterviewCount int       `db:"interview_count"`
	FirstInterview time.Time `db:"first_interview"`
	LastInterview  time.Time `db:"last_interview"`
}

// WellnessSessionAdapter implements WellnessSessionRepository
type WellnessSessionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	dbx    *sqlx.DB
}

// NewWellnessSessionAdapter creates a new wellness session adapter
func NewWellnessSessionAdapter(client *postgres.Client) repositories.WellnessSessionRepository {
	return &WellnessSessionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		dbx:    sqlx.NewDb(client.DB(), "postgres"),
	}
}

// Create inserts a session
func (a *WellnessSessionAdapter) Create(ctx context.Context, session *entities.WellnessSession) error {
	record := goqu.Record{
		"id":               session.ID,
		"user_id":          session.UserID,
		"transcription":    session.Transcription,
		"summary":          session.Summary,
		"bot_conversation": nullableText(session.BotConversation),
		"wellness_data":    jsonColumn(session.WellnessData),
		"analysis_results": jsonColumn(session.AnalysisResults),
		"created_at":       session.CreatedAt,
		"updated_at":       session.UpdatedAt,
	}

	query, args, err := a.db.Insert(wellnessSessionsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.dbx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create wellness session", err)
	}
	return nil
}

// GetByID retrieves one session of a user
func (a *WellnessSessionAdapter) GetByID(ctx context.Context, id, userID string) (*entities.WellnessSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query, args, err := a.db.Select(wellnessSessionColumns...).
		From(wellnessSessionsTable).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row wellnessSessionRow
	if err := a.dbx.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewInternalError("failed to get wellness session", err)
	}
	return row.toEntity(), nil
}

// ListByUser retrieves a user's sessions newest first
func (a *WellnessSessionAdapter) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.WellnessSession, error) {
	query, args, err := a.db.Select(wellnessSessionColumns...).
		From(wellnessSessionsTable).
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var rows []wellnessSessionRow
	if err := a.dbx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list wellness sessions", err)
	}

	sessions := make([]*entities.WellnessSession, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, rows[i].toEntity())
	}
	return sessions, nil
}

// Update applies a partial update and returns the stored session
func (a *WellnessSessionAdapter) Update(ctx context.Context, id, userID string, update entities.WellnessSessionUpdate) (*entities.WellnessSession, error) {
	if update.Empty() {
		return a.GetByID(ctx, id, userID)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	set := goqu.Record{"updated_at": time.Now().UTC()}
	if update.Transcription != nil {
		set["transcription"] = *update.Transcription
	}
	if update.Summary != nil {
		set["summary"] = *update.Summary
	}
	if update.BotConversation != nil {
		set["bot_conversation"] = nullableText(update.BotConversation)
	}
	if len(update.WellnessData) > 0 {
		set["wellness_data"] = jsonColumn(update.WellnessData)
	}
	if len(update.AnalysisResults) > 0 {
		set["analysis_results"] = jsonColumn(update.AnalysisResults)
	}

	query, args, err := a.db.Update(wellnessSessionsTable).
		Set(set).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		Returning(wellnessSessionColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	var row wellnessSessionRow
	if err := a.dbx.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewInternalError("failed to update wellness session", err)
	}
	return row.toEntity(), nil
}

// Delete removes one session of a user and reports whether it existed
func (a *WellnessSessionAdapter) Delete(ctx context.Context, id, userID string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	query, args, err := a.db.Delete(wellnessSessionsTable).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.dbx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete wellness session", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read affected rows", err)
	}
	return affected > 0, nil
}

// SummarizeUsers groups sessions per user
func (a *WellnessSessionAdapter) SummarizeUsers(ctx context.Context) ([]*entities.UserSummary, error) {
	query, args, err := a.db.From(wellnessSessionsTable).
		Select(
			goqu.C("user_id").As("email"),
			goqu.COUNT(goqu.Star()).As("interview_count"),
			goqu.MIN("created_at").As("first_interview"),
			goqu.MAX("created_at").As("last_interview"),
		).
		GroupBy("user_id").
		Order(goqu.I("last_interview").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var rows []userSummaryRow
	if err := a.dbx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to summarize users", err)
	}

	summaries := make([]*entities.UserSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, &entities.UserSummary{
			Email:          r.Email,
			InterviewCount: r.InterviewCount,
			FirstInterview: r.FirstInterview,
			LastInterview:  r.LastInterview,
		})
	}
	return summaries, nil
}

// nullableText stores nil and "" as NULL.
func nullableText(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// jsonColumn stores an absent or JSON-null document as NULL.
func jsonColumn(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}
