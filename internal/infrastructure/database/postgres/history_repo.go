package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS analyses (
	request_id   TEXT PRIMARY KEY,
	compound     TEXT NOT NULL,
	confidence   DOUBLE PRECISION NOT NULL,
	warnings     INT NOT NULL DEFAULT 0,
	result       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_analyses_compound ON analyses (lower(compound));
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// HistoryEntry is a persisted analysis summary returned by listings.
type HistoryEntry struct {
	RequestID  string    `json:"requestId"`
	Compound   string    `json:"compound"`
	Confidence float64   `json:"confidence"`
	Warnings   int       `json:"warnings"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HistoryRepo persists completed analyses as JSONB documents.
type HistoryRepo struct {
	conn   *Connection
	logger logging.Logger
}

// NewHistoryRepo constructs the repository and ensures the schema exists.
func NewHistoryRepo(ctx context.Context, conn *Connection, log logging.Logger) (*HistoryRepo, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if _, err := conn.Pool().Exec(ctx, schemaDDL); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to ensure analyses schema")
	}
	return &HistoryRepo{conn: conn, logger: log.Named("history_repo")}, nil
}

// SaveAnalysis stores a completed analysis.  Re-saving the same request id
// overwrites the earlier row.
func (r *HistoryRepo) SaveAnalysis(ctx context.Context, result *types.AnalysisResult) error {
	doc, err := json.Marshal(result)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "analysis result not serializable")
	}

	_, err = r.conn.Pool().Exec(ctx, `
		INSERT INTO analyses (request_id, compound, confidence, warnings, result)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (request_id) DO UPDATE
		SET compound = EXCLUDED.compound,
		    confidence = EXCLUDED.confidence,
		    warnings = EXCLUDED.warnings,
		    result = EXCLUDED.result`,
		result.RequestID,
		result.ActiveCompound.Name,
		result.Confidence,
		len(result.Warnings),
		doc,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to save analysis")
	}
	return nil
}

// GetByRequestID loads a full stored analysis.
func (r *HistoryRepo) GetByRequestID(ctx context.Context, requestID string) (*types.AnalysisResult, error) {
	var doc []byte
	err := r.conn.Pool().QueryRow(ctx,
		`SELECT result FROM analyses WHERE request_id = $1`, requestID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.ErrCodeNotFound, "no analysis with request id %q", requestID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to load analysis")
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(doc, &result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "stored analysis is corrupt")
	}
	return &result, nil
}

// ListRecent returns summaries of the most recent analyses, newest first.
func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.conn.Pool().Query(ctx, `
		SELECT request_id, compound, confidence, warnings, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.RequestID, &e.Compound, &e.Confidence, &e.Warnings, &e.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan analysis row")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "analysis listing failed")
	}
	return entries, nil
}
