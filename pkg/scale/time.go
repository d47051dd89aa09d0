package scale

import (
	"time"
)

// Unit is a calendar unit used for time ticks and niceing.
type Unit int

// Calendar units.
const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

const (
	durationDay   = 24 * time.Hour
	durationWeek  = 7 * durationDay
	durationMonth = 30 * durationDay
	durationYear  = 365 * durationDay
)

// Interval is a calendar unit repeated Step times (for example 3 hours).
type Interval struct {
	Unit Unit
	Step int
}

type tickInterval struct {
	Interval

	span time.Duration
}

// tickIntervals lists the candidate tick spacings in ascending duration.
var tickIntervals = []tickInterval{
	{Interval{Second, 1}, time.Second},
	{Interval{Second, 5}, 5 * time.Second},
	{Interval{Second, 15}, 15 * time.Second},
	{Interval{Second, 30}, 30 * time.Second},
	{Interval{Minute, 1}, time.Minute},
	{Interval{Minute, 5}, 5 * time.Minute},
	{Interval{Minute, 15}, 15 * time.Minute},
	{Interval{Minute, 30}, 30 * time.Minute},
	{Interval{Hour, 1}, time.Hour},
	{Interval{Hour, 3}, 3 * time.Hour},
	{Interval{Hour, 6}, 6 * time.Hour},
	{Interval{Hour, 12}, 12 * time.Hour},
	{Interval{Day, 1}, durationDay},
	{Interval{Day, 2}, 2 * durationDay},
	{Interval{Week, 1}, durationWeek},
	{Interval{Month, 1}, durationMonth},
	{Interval{Month, 3}, 3 * durationMonth},
	{Interval{Year, 1}, durationYear},
}

// Time maps the instants [Start, End] onto [R0, R1]. Calendar operations
// (niceing, ticks) use Location; a nil Location means UTC.
type Time struct {
	Start, End time.Time
	R0, R1     float64
	Location   *time.Location
}

// NewTime creates a time scale.
func NewTime(start, end time.Time, r0, r1 float64, loc *time.Location) Time {
	if loc == nil {
		loc = time.UTC
	}

	return Time{Start: start, End: end, R0: r0, R1: r1, Location: loc}
}

func (s Time) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}

	return s.Location
}

// Map projects an instant into the range. A zero-length domain maps to the
// range midpoint.
func (s Time) Map(t time.Time) float64 {
	span := s.End.Sub(s.Start)
	if span == 0 {
		return (s.R0 + s.R1) / 2
	}

	return s.R0 + float64(t.Sub(s.Start))/float64(span)*(s.R1-s.R0)
}

// Nice widens the domain outward to the boundaries of the tick interval
// chosen for count ticks. A zero-length domain is returned unchanged.
func (s Time) Nice(count int) Time {
	iv, ok := ChooseInterval(s.Start, s.End, count)
	if !ok {
		return s
	}

	out := s
	out.Start = iv.Floor(s.Start.In(s.loc()))
	out.End = iv.Ceil(s.End.In(s.loc()))

	return out
}

// Ticks returns the interval boundaries inside the domain.
func (s Time) Ticks(count int) []time.Time {
	iv, ok := ChooseInterval(s.Start, s.End, count)
	if !ok {
		if s.Start.IsZero() && s.End.IsZero() {
			return nil
		}

		return []time.Time{s.Start}
	}

	lo, hi := s.Start, s.End
	if hi.Before(lo) {
		lo, hi = hi, lo
	}

	var ticks []time.Time

	for t := iv.Ceil(lo.In(s.loc())); !t.After(hi); t = iv.Offset(t, 1) {
		ticks = append(ticks, t)
	}

	return ticks
}

// ChooseInterval picks the calendar interval whose duration is closest to
// (end-start)/count. ok is false for an empty span or count.
func ChooseInterval(start, end time.Time, count int) (Interval, bool) {
	span := end.Sub(start)
	if span < 0 {
		span = -span
	}

	if span == 0 || count <= 0 {
		return Interval{}, false
	}

	target := span / time.Duration(count)

	i := 0
	for i < len(tickIntervals) && tickIntervals[i].span <= target {
		i++
	}

	switch {
	case i == len(tickIntervals):
		years := TickStep(0, float64(span)/float64(durationYear), count)

		return Interval{Unit: Year, Step: max(1, int(years))}, true
	case i == 0:
		return Interval{Unit: Second, Step: 1}, true
	}

	prev, next := tickIntervals[i-1], tickIntervals[i]
	if float64(target)/float64(prev.span) < float64(next.span)/float64(target) {
		return prev.Interval, true
	}

	return next.Interval, true
}

// Floor rounds t down to the interval boundary, in t's location.
func (iv Interval) Floor(t time.Time) time.Time {
	step := max(1, iv.Step)
	y, mo, d := t.Date()
	h, mi, sec := t.Clock()
	loc := t.Location()

	switch iv.Unit {
	case Second:
		return time.Date(y, mo, d, h, mi, sec-sec%step, 0, loc)
	case Minute:
		return time.Date(y, mo, d, h, mi-mi%step, 0, 0, loc)
	case Hour:
		return time.Date(y, mo, d, h-h%step, 0, 0, 0, loc)
	case Day:
		return time.Date(y, mo, d-(d-1)%step, 0, 0, 0, 0, loc)
	case Week:
		return time.Date(y, mo, d-int(t.Weekday()), 0, 0, 0, 0, loc)
	case Month:
		m := int(mo) - 1

		return time.Date(y, time.Month(m-m%step+1), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y-y%step, time.January, 1, 0, 0, 0, 0, loc)
	}
}

// Ceil rounds t up to the interval boundary.
func (iv Interval) Ceil(t time.Time) time.Time {
	floor := iv.Floor(t)
	if floor.Equal(t) {
		return floor
	}

	return iv.Offset(floor, 1)
}

// Offset advances t by n intervals.
func (iv Interval) Offset(t time.Time, n int) time.Time {
	k := n * max(1, iv.Step)

	switch iv.Unit {
	case Second:
		return t.Add(time.Duration(k) * time.Second)
	case Minute:
		return t.Add(time.Duration(k) * time.Minute)
	case Hour:
		return t.Add(time.Duration(k) * time.Hour)
	case Day:
		return t.AddDate(0, 0, k)
	case Week:
		return t.AddDate(0, 0, 7*k)
	case Month:
		return t.AddDate(0, k, 0)
	default:
		return t.AddDate(k, 0, 0)
	}
}

// Format returns the tick label layout suited to the interval.
func (iv Interval) Format() string {
	switch iv.Unit {
	case Second:
		return "15:04:05"
	case Minute, Hour:
		return "15:04"
	case Day, Week:
		return "Jan 02"
	case Month:
		return "Jan 2006"
	default:
		return "2006"
	}
}
