package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-activity-bot/internal/schedule"
	"crm-activity-bot/pkg/timeutil"
)

var testNow = time.Date(2026, 3, 10, 16, 45, 12, 0, time.UTC)

func madrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	return loc
}

func clock(h, m int) *time.Time {
	c := time.Date(0, 1, 1, h, m, 0, 0, time.UTC)
	return &c
}

func TestNormalizeFromDateAndTime(t *testing.T) {
	loc := madrid(t)

	upd := schedule.Update{
		Date:     schedule.Of(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)),
		Time:     schedule.Of(*clock(9, 30)),
		Duration: schedule.Of(90 * time.Minute),
	}
	got := schedule.Normalize(upd, nil, loc, testNow)

	require.True(t, got.DtStart.Valid)
	require.True(t, got.DtEnd.Valid)
	// Madrid is UTC+1 on 2026-03-10.
	assert.Equal(t, time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC), got.DtStart.V)
	assert.Equal(t, 90*time.Minute, got.DtEnd.V.Sub(got.DtStart.V))
}

func TestNormalizeEndMinusStartEqualsDuration(t *testing.T) {
	loc := madrid(t)
	durations := []time.Duration{0, time.Minute, 45 * time.Minute, 26 * time.Hour}
	for _, d := range durations {
		upd := schedule.Update{
			Date:     schedule.Of(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)),
			Time:     schedule.Of(*clock(14, 0)),
			Duration: schedule.Of(d),
		}
		got := schedule.Normalize(upd, nil, loc, testNow)
		require.True(t, got.DtEnd.Valid, "duration %v", d)
		assert.Equal(t, d, got.DtEnd.V.Sub(got.DtStart.V), "duration %v", d)
	}
}

func TestNormalizeNoDurationMeansNoEnd(t *testing.T) {
	upd := schedule.Update{
		Date: schedule.Of(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)),
		Time: schedule.Of(*clock(9, 0)),
	}
	got := schedule.Normalize(upd, nil, nil, testNow)

	require.True(t, got.DtStart.Valid)
	assert.True(t, got.DtEnd.Set)
	assert.False(t, got.DtEnd.Valid)
}

func TestNormalizeFromStartTimestamp(t *testing.T) {
	loc := madrid(t)

	// 08:30 UTC is 09:30 in Madrid.
	start := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	upd := schedule.Update{
		DtStart: schedule.Of(start),
		DtEnd:   schedule.Of(end),
	}
	got := schedule.Normalize(upd, nil, loc, testNow)

	require.True(t, got.Date.Valid)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), got.Date.V)
	require.True(t, got.Time.Valid)
	assert.Equal(t, 9, got.Time.V.Hour())
	assert.Equal(t, 30, got.Time.V.Minute())
	require.True(t, got.Duration.Valid)
	assert.Equal(t, 2*time.Hour, got.Duration.V)
}

func TestNormalizeFromStartTimestampNoTimezone(t *testing.T) {
	// Without a company zone the derived date and time are the plain
	// UTC components of the timestamp.
	start := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	got := schedule.Normalize(schedule.Update{DtStart: schedule.Of(start)}, nil, nil, testNow)

	require.True(t, got.Date.Valid)
	assert.True(t, timeutil.SameDate(start, got.Date.V))
	require.True(t, got.Time.Valid)
	assert.Equal(t, 8, got.Time.V.Hour())
	assert.Equal(t, 30, got.Time.V.Minute())
}

func TestNormalizeMidnightStartBecomesFullDay(t *testing.T) {
	loc := madrid(t)

	// 23:00 UTC on the 9th is midnight in Madrid on the 10th.
	start := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	got := schedule.Normalize(schedule.Update{DtStart: schedule.Of(start)}, nil, loc, testNow)

	require.True(t, got.Date.Valid)
	assert.Equal(t, 10, got.Date.V.Day())
	assert.True(t, got.Time.Set)
	assert.False(t, got.Time.Valid, "midnight must normalize to an absent time")
}

func TestNormalizeEndOnlyUsesRecordStart(t *testing.T) {
	recStart := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	rec := &schedule.Record{
		Date:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		DtStart: &recStart,
	}
	end := recStart.Add(45 * time.Minute)
	got := schedule.Normalize(schedule.Update{DtEnd: schedule.Of(end)}, rec, nil, testNow)

	require.True(t, got.Duration.Valid)
	assert.Equal(t, 45*time.Minute, got.Duration.V)
	// The branch short-circuits: dtstart is not recomputed.
	assert.False(t, got.DtStart.Set)
}

func TestNormalizeClearedEndClearsDuration(t *testing.T) {
	got := schedule.Normalize(schedule.Update{DtEnd: schedule.Null[time.Time]()}, &schedule.Record{}, nil, testNow)
	assert.True(t, got.Duration.Set)
	assert.False(t, got.Duration.Valid)
}

func TestNormalizeFallsBackToRecord(t *testing.T) {
	d := 30 * time.Minute
	rec := &schedule.Record{
		Date:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Time:     clock(11, 15),
		Duration: &d,
	}
	// Update only moves the date; time and duration come from the record.
	upd := schedule.Update{Date: schedule.Of(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))}
	got := schedule.Normalize(upd, rec, nil, testNow)

	require.True(t, got.DtStart.Valid)
	assert.Equal(t, time.Date(2026, 3, 11, 11, 15, 0, 0, time.UTC), got.DtStart.V)
	require.True(t, got.DtEnd.Valid)
	assert.Equal(t, d, got.DtEnd.V.Sub(got.DtStart.V))
}

func TestNormalizeNoDateNoDerivation(t *testing.T) {
	upd := schedule.Update{Duration: schedule.Of(time.Hour)}
	got := schedule.Normalize(upd, nil, nil, testNow)

	assert.False(t, got.DtStart.Set)
	assert.False(t, got.DtEnd.Set)
	assert.Equal(t, upd.Duration, got.Duration)
}

func TestNormalizeAbsentTimeDefaultsToNow(t *testing.T) {
	upd := schedule.Update{
		Date: schedule.Of(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)),
	}
	got := schedule.Normalize(upd, nil, nil, testNow)

	require.True(t, got.DtStart.Valid)
	assert.Equal(t, 16, got.DtStart.V.Hour())
	assert.Equal(t, 45, got.DtStart.V.Minute())
	// The fallback never becomes the stored time of day.
	assert.False(t, got.Time.Set)
}
