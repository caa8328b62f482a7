package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	appErrors "github.com/threadline/wa-marketing-backend/internal/errors"
	"github.com/threadline/wa-marketing-backend/internal/model"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestMarkRunningWinsFromDraft(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &CampaignRepository{DB: db}

	mock.ExpectExec(`UPDATE campaigns`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkRunning(1)
	if err != nil {
		t.Fatalf("MarkRunning: %v", err)
	}
	if !ok {
		t.Error("MarkRunning = false, want true when a row transitions")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMarkRunningLosesWhenAlreadyRunning(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &CampaignRepository{DB: db}

	// Status predicate matches no row: someone else already started it.
	mock.ExpectExec(`UPDATE campaigns`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkRunning(1)
	if err != nil {
		t.Fatalf("MarkRunning: %v", err)
	}
	if ok {
		t.Error("MarkRunning = true, want false when no row transitions")
	}
}

func TestCancelSkipsTerminalCampaign(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &CampaignRepository{DB: db}

	// Status predicate excludes completed/cancelled rows.
	mock.ExpectExec(`UPDATE campaigns`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Cancel(1)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if ok {
		t.Error("Cancel = true, want false for a terminal campaign")
	}
}

func TestCancelFlipsActiveCampaign(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &CampaignRepository{DB: db}

	mock.ExpectExec(`UPDATE campaigns`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Cancel(1)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !ok {
		t.Error("Cancel = false, want true when a row transitions")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &CampaignRepository{DB: db}

	mock.ExpectQuery(`SELECT (.+) FROM campaigns`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(42)
	var notFound *appErrors.ErrCampaignNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrCampaignNotFound", err)
	}
	if notFound.CampaignID != 42 {
		t.Errorf("CampaignID = %d, want 42", notFound.CampaignID)
	}
}

func TestCreateCampaignAssignsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &CampaignRepository{DB: db}

	created := time.Now()
	mock.ExpectQuery(`INSERT INTO campaigns`).
		WithArgs("Diwali", nil, "", model.CampaignStatusDraft, 5, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	c := &model.Campaign{Name: "Diwali", TotalRecipients: 5}
	if err := repo.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 7 {
		t.Errorf("ID = %d, want 7", c.ID)
	}
	if c.Status != model.CampaignStatusDraft {
		t.Errorf("Status = %q, want draft default", c.Status)
	}
}
