package repository

import (
	"context"
	"errors"

	"exhibitsurvey/internal/model"
)

// ErrEmptyRow is returned when a row has no survey type to route it by
var ErrEmptyRow = errors.New("submission row has no survey type")

// SubmissionRepo appends completed surveys to an append-only store. The
// row's SurveyType selects the target sheet, collection or table partition.
// Stores return success or failure only; there is no row identifier or
// idempotency, so a retry after an ambiguous failure may duplicate a row.
type SubmissionRepo interface {
	Append(ctx context.Context, row model.Row) error
}
