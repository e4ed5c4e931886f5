// Package schedule derives the consistent set of temporal fields for an
// activity from a partial update: calendar date and time of day are kept
// in the company's local zone while dtstart/dtend are stored in UTC.
package schedule

import (
	"time"

	"crm-activity-bot/pkg/timeutil"
)

// Optional is a field of a partial update. Set reports whether the
// caller supplied the field at all, Valid whether it carries a non-null
// value. The distinction matters: an update may explicitly clear a
// field, which is not the same as leaving it alone.
type Optional[T any] struct {
	Set   bool
	Valid bool
	V     T
}

// Of wraps a present, non-null value.
func Of[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, V: v}
}

// Null marks a field as explicitly cleared.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// OfPtr wraps a present field whose value may be null.
func OfPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Null[T]()
	}
	return Of(*p)
}

// Ptr returns the value as a pointer, nil when unset or null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.V
	return &v
}

// Update is a partial update of an activity's temporal fields.
type Update struct {
	Date     Optional[time.Time]
	Time     Optional[time.Time]
	Duration Optional[time.Duration]
	DtStart  Optional[time.Time]
	DtEnd    Optional[time.Time]
}

// Record holds the stored values an update falls back to.
type Record struct {
	Date     time.Time
	Time     *time.Time
	Duration *time.Duration
	DtStart  *time.Time
}

// ToLocal converts a UTC timestamp into the company zone. A nil
// location is an identity conversion.
func ToLocal(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// Normalize completes a partial update so that date, time, duration,
// dtstart and dtend agree with each other. rec may be nil on creation.
// loc is the company zone (nil keeps everything in UTC) and now supplies
// the wall clock used when no time of day is resolvable.
func Normalize(upd Update, rec *Record, loc *time.Location, now time.Time) Update {
	if !upd.Date.Set {
		var dtstart *time.Time
		if upd.DtStart.Set && upd.DtStart.Valid {
			local := ToLocal(upd.DtStart.V, loc)
			upd.Date = Of(timeutil.DateOf(local))
			if timeutil.IsMidnight(local) {
				// A start at exactly 0:00 is treated as a full-day
				// activity: the calendar view cannot distinguish an
				// event at midnight from an all-day one, and midnight
				// events are rare enough that this is the best default.
				upd.Time = Null[time.Time]()
			} else {
				upd.Time = Of(timeutil.ClockOf(local))
			}
			if upd.DtEnd.Set {
				if upd.DtEnd.Valid {
					upd.Duration = Of(upd.DtEnd.V.Sub(upd.DtStart.V))
				} else {
					upd.Duration = Null[time.Duration]()
				}
			}
			return upd
		}
		if rec != nil {
			dtstart = rec.DtStart
		}
		if upd.DtEnd.Set {
			if upd.DtEnd.Valid && dtstart != nil {
				upd.Duration = Of(upd.DtEnd.V.Sub(*dtstart))
			} else {
				upd.Duration = Null[time.Duration]()
			}
			return upd
		}
	}

	if rec != nil {
		if !upd.Date.Set && !rec.Date.IsZero() {
			upd.Date = Of(rec.Date)
		}
		if !upd.Time.Set {
			upd.Time = OfPtr(rec.Time)
		}
		if !upd.Duration.Set {
			upd.Duration = OfPtr(rec.Duration)
		}
	}

	if !upd.Date.Set || !upd.Date.Valid {
		// Nothing to derive from.
		return upd
	}

	// An absent time of day falls back to the current wall clock. The
	// fallback only feeds dtstart and is never written back to the time
	// field, so a full-day activity keeps its null time.
	clock := upd.Time.Ptr()
	if clock == nil {
		c := timeutil.ClockOf(now)
		clock = &c
	}

	dtstart := timeutil.Combine(upd.Date.V, clock, loc).UTC()
	upd.DtStart = Of(dtstart)
	if upd.Duration.Set && upd.Duration.Valid {
		upd.DtEnd = Of(dtstart.Add(upd.Duration.V))
	} else {
		upd.DtEnd = Null[time.Time]()
	}
	return upd
}
