package integration

import (
	"context"
	"testing"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
)

func loadMadrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	return loc
}

func TestStoredTimesFollowLocation(t *testing.T) {
	madrid := loadMadrid(t)
	repo := openRepo(t)
	repo.SetLocation(madrid)
	ctx := context.Background()
	axis := calendar.DefaultAxis()

	tests := []struct {
		name    string
		startAt time.Time // UTC, as the CRM sends it
		hour    int
		row     int
	}{
		{name: "winter time", startAt: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), hour: 9, row: 12},
		{name: "summer time", startAt: time.Date(2025, 3, 31, 7, 0, 0, 0, time.UTC), hour: 9, row: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := createActivity(t, repo, activity.KindVisit, tt.startAt, tt.startAt.Add(time.Hour))

			got, err := repo.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.StartAt.Location() != madrid {
				t.Errorf("location = %v, want Europe/Madrid", got.StartAt.Location())
			}
			if !got.StartAt.Equal(tt.startAt) {
				t.Errorf("instant changed: %v, want %v", got.StartAt, tt.startAt)
			}
			if got.StartAt.Hour() != tt.hour {
				t.Errorf("hour = %d, want %d", got.StartAt.Hour(), tt.hour)
			}
			if row := axis.RowAt(got.StartAt); row != tt.row {
				t.Errorf("RowAt = %d, want %d", row, tt.row)
			}
		})
	}
}

func TestMidnightEndFillsLastRow(t *testing.T) {
	madrid := loadMadrid(t)
	repo := openRepo(t)
	repo.SetLocation(madrid)
	axis := calendar.DefaultAxis()

	start := time.Date(2025, 3, 10, 23, 0, 0, 0, madrid)
	created := createActivity(t, repo, activity.KindMeetingOrCourse, start, start.Add(time.Hour))

	got, err := repo.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	startRow, endRow := axis.TimeRangeToRows(got.StartAt, got.EndAt)
	if startRow != 68 || endRow != axis.Rows() {
		t.Errorf("rows = %d-%d, want 68-%d", startRow, endRow, axis.Rows())
	}
}

func TestWeekColumnUsesLocalDay(t *testing.T) {
	madrid := loadMadrid(t)
	repo := openRepo(t)
	ctx := context.Background()
	layout := calendar.NewLayout(calendar.DefaultAxis(), 0)

	// Sunday 23:30 UTC is Monday 00:30 in Madrid.
	start := time.Date(2025, 3, 16, 23, 30, 0, 0, time.UTC)
	created := createActivity(t, repo, activity.KindCall, start, start.Add(30*time.Minute))

	tests := []struct {
		name   string
		loc    *time.Location
		column int
	}{
		{name: "utc", loc: time.UTC, column: 6},
		{name: "madrid", loc: madrid, column: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.SetLocation(tt.loc)
			got, err := repo.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			slots := layout.Week([]*activity.Activity{got})
			if slots[0].Column != tt.column {
				t.Errorf("column = %d, want %d", slots[0].Column, tt.column)
			}
		})
	}
}
