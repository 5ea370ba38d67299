package reports

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"jobmate-backend/internal/orchestrate"
)

func sampleResult() orchestrate.AnalysisResult {
	return orchestrate.AnalysisResult{
		Comprehension: orchestrate.Outcome{Payload: json.RawMessage(`{"score":80}`)},
		Questions:     orchestrate.Outcome{Payload: json.RawMessage(`["q1"]`)},
		ActionItems:   orchestrate.Outcome{Payload: json.RawMessage(`[{"action":"a","priority":"high","isChecked":false}]`)},
	}
}

func TestPGRepoSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	report := Report{
		UserID:         "user-1",
		ReportID:       "report-1",
		AnalysisResult: sampleResult(),
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analysis_results").
		WithArgs(
			report.UserID,
			report.ReportID,
			sqlmock.AnyArg(), // analysis_result
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), report); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Now().UTC()
	payload, _ := json.Marshal(sampleResult())

	rows := sqlmock.NewRows([]string{"user_id", "report_id", "analysis_result", "creation_datetime"}).
		AddRow("user-1", "report-1", string(payload), created)
	mock.ExpectQuery("SELECT user_id, report_id, analysis_result, creation_datetime").
		WithArgs("user-1", "report-1").
		WillReturnRows(rows)

	report, err := repo.GetByReport(context.Background(), "user-1", "report-1")
	if err != nil {
		t.Fatalf("GetByReport: %v", err)
	}
	if report.ReportID != "report-1" || !report.AnalysisResult.Questions.Succeeded() {
		t.Fatalf("unexpected report: %+v", report)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByReportNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT user_id, report_id, analysis_result, creation_datetime").
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "report_id", "analysis_result", "creation_datetime"}))

	if _, err := repo.GetByReport(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByUserOrdersNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	payload, _ := json.Marshal(sampleResult())
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"user_id", "report_id", "analysis_result", "creation_datetime"}).
		AddRow("user-1", "report-2", string(payload), now).
		AddRow("user-1", "report-1", string(payload), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT user_id, report_id, analysis_result, creation_datetime").
		WithArgs("user-1").
		WillReturnRows(rows)

	list, err := repo.GetByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(list) != 2 || list[0].ReportID != "report-2" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
