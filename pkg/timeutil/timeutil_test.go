package timeutil_test

import (
	"testing"
	"time"

	"crm-activity-bot/pkg/timeutil"
)

func TestDurationString(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{90 * time.Minute, "01:30"},
		{time.Hour, "01:00"},
		{25*time.Hour + 5*time.Minute, "25:05"},
		{59 * time.Second, "00:00"},
	}
	for _, tt := range tests {
		got := timeutil.DurationString(tt.d)
		if got != tt.want {
			t.Errorf("DurationString(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestCombine(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatal(err)
	}

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, 9, 30, 0, 0, time.UTC)

	got := timeutil.Combine(date, &clock, madrid)
	want := time.Date(2026, 3, 10, 9, 30, 0, 0, madrid)
	if !got.Equal(want) {
		t.Errorf("Combine = %v, want %v", got, want)
	}

	// nil clock means midnight, nil location means UTC
	got = timeutil.Combine(date, nil, nil)
	want = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Combine(nil clock) = %v, want %v", got, want)
	}
}

func TestIsMidnight(t *testing.T) {
	if !timeutil.IsMidnight(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected midnight")
	}
	if timeutil.IsMidnight(time.Date(2026, 3, 10, 0, 0, 1, 0, time.UTC)) {
		t.Error("00:00:01 is not midnight")
	}
}
