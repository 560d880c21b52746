package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"display_bridge/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

// anyUTCTime matches a time.Time argument in UTC.
type anyUTCTime struct{}

func (anyUTCTime) Match(v driver.Value) bool {
	tm, ok := v.(time.Time)
	return ok && tm.Location() == time.UTC
}

func newEventRepo(t *testing.T) (*EventSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewEventSQLite(db), mock
}

func TestAppend_FillsDefaults(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), anyUTCTime{}, "DISPLAY_SET", "display set to 1234",
			`{"frame":"$D1234\n"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(context.Background(), models.DeviceEvent{
		Type:        " display_set ",
		Description: "display set to 1234",
		Metadata:    map[string]string{"frame": "$D1234\n"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppend_NoMetadataStoresNull(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("ev-1", at.UTC(), "MODE_CHANGE", "mode switched to Clock", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(context.Background(), models.DeviceEvent{
		EventID:     "ev-1",
		OccurredAt:  at,
		Type:        models.EventModeChange,
		Description: "mode switched to Clock",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	mock.ExpectExec("INSERT INTO device_events").WillReturnError(errors.New("down"))

	err := repo.Append(context.Background(), models.DeviceEvent{Type: "error", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestList_NoFilters_ParsesMetadata(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"frame": "$D1000\n"})
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("1", now, "CLOCK_UPDATE", "clock 10:00", string(js)).
		AddRow("2", now.Add(time.Minute), "ERROR", "write failed", nil).
		AddRow("3", now.Add(2*time.Minute), "ERROR", "raw", "{not json")

	mock.ExpectQuery(regexp.QuoteMeta(selectEventSQL + orderEventSQL)).WillReturnRows(rows)

	got, err := repo.List(context.Background(), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	b, _ := json.Marshal(got[0].Metadata)
	if string(b) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", b, js)
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "{not json" {
		t.Fatalf("expected raw meta, got %#v", got[2].Metadata)
	}
}

func TestList_WithFilters(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	query := selectEventSQL + ` WHERE occurred_at >= ? AND occurred_at <= ? AND type = ?` + orderEventSQL

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("2", from, "MODE_CHANGE", "b", nil)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(from, to, "MODE_CHANGE").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), from, to, " mode_change ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("x", 123, "ERROR", "msg", nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectEventSQL + orderEventSQL)).WillReturnRows(rows)

	if _, err := repo.List(context.Background(), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
}

func TestDeleteBefore(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)
	berlin := time.FixedZone("CEST", 2*3600)
	cutoff := time.Date(2025, 5, 1, 2, 0, 0, 0, berlin)

	mock.ExpectExec(regexp.QuoteMeta(deleteEventSQL)).
		WithArgs(cutoff.UTC()).
		WillReturnResult(sqlmock.NewResult(0, 1440))
	mock.ExpectExec(regexp.QuoteMeta(deleteEventSQL)).
		WithArgs(cutoff.UTC()).
		WillReturnError(errors.New("database is locked"))

	n, err := repo.DeleteBefore(context.Background(), cutoff)
	if err != nil || n != 1440 {
		t.Fatalf("DeleteBefore = %d, %v", n, err)
	}
	if _, err := repo.DeleteBefore(context.Background(), cutoff); err == nil {
		t.Fatal("expected exec error")
	}
}
