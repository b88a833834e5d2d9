package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	oauthjwt "golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"exhibitsurvey/internal/model"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// NewSheetsService authenticates a Sheets client as a service account
func NewSheetsService(ctx context.Context, email, privateKey string, opts ...option.ClientOption) (*sheets.Service, error) {
	conf := &oauthjwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   googleTokenURL,
	}
	opts = append([]option.ClientOption{option.WithTokenSource(conf.TokenSource(ctx))}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

type sheetsSubmissionRepo struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsSubmissionRepo appends rows to the spreadsheet, one tab per
// survey type. Each row is the ISO-8601 timestamp followed by the answers in
// definition order.
func NewSheetsSubmissionRepo(svc *sheets.Service, spreadsheetID string) SubmissionRepo {
	return &sheetsSubmissionRepo{
		svc:           svc,
		spreadsheetID: spreadsheetID,
	}
}

func (r *sheetsSubmissionRepo) Append(ctx context.Context, row model.Row) error {
	if row.SurveyType == "" {
		return ErrEmptyRow
	}
	cells := make([]interface{}, 0, len(row.Pairs)+1)
	cells = append(cells, row.SubmittedAt.UTC().Format(time.RFC3339))
	for _, p := range row.Pairs {
		cells = append(cells, p.Value)
	}

	_, err := r.svc.Spreadsheets.Values.
		Append(r.spreadsheetID, sheetRange(row.SurveyType), &sheets.ValueRange{
			MajorDimension: "ROWS",
			Values:         [][]interface{}{cells},
		}).
		// RAW keeps answers as typed: no formulas, no date or number coercion
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", row.SurveyType, err)
	}
	return nil
}

// sheetRange quotes the tab name for A1 notation; embedded quotes are doubled
func sheetRange(surveyType string) string {
	return fmt.Sprintf("'%s'!A:A", strings.ReplaceAll(surveyType, "'", "''"))
}
