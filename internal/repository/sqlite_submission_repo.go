package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"exhibitsurvey/internal/model"
)

const submissionsSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	id TEXT PRIMARY KEY,
	survey_type TEXT NOT NULL,
	submitted_at TEXT NOT NULL,
	answers TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_survey_type ON submissions (survey_type);
`

type sqliteSubmissionRepo struct {
	db *sql.DB
}

// OpenSQLite opens the local submissions database and creates its schema
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, submissionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// NewSQLiteSubmissionRepo appends rows to a local table, answers kept as an
// ordered JSON array of {key, value} pairs.
func NewSQLiteSubmissionRepo(db *sql.DB) SubmissionRepo {
	return &sqliteSubmissionRepo{db: db}
}

func (r *sqliteSubmissionRepo) Append(ctx context.Context, row model.Row) error {
	if row.SurveyType == "" {
		return ErrEmptyRow
	}
	answers, err := json.Marshal(row.Pairs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO submissions (id, survey_type, submitted_at, answers) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), row.SurveyType, row.SubmittedAt.UTC().Format(time.RFC3339Nano), string(answers),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}
