// Package query answers "what happened last" questions over a crop's event
// log: the latest stage, the latest watering or feeding, and day counts
// relative to a reference date.
package query

import (
	"iter"
	"time"

	"github.com/mesh-intelligence/crops/pkg/record"
)

// Predicate decides whether an entry is of the kind being looked for.
type Predicate func(record.Entry) bool

// Match is an entry found by FindLatest and the date it was logged on.
type Match struct {
	Entry record.Entry
	Date  time.Time
}

// Backward yields every entry of the log with its date, most recent first:
// days newest first, slots within a day newest first, entries within a slot
// last-appended first.
func Backward(log *record.EventLog) iter.Seq2[time.Time, record.Entry] {
	return func(yield func(time.Time, record.Entry) bool) {
		days := log.Days()
		for i := len(days) - 1; i >= 0; i-- {
			slots := days[i].Slots()
			for j := len(slots) - 1; j >= 0; j-- {
				entries := slots[j].Entries()
				for k := len(entries) - 1; k >= 0; k-- {
					if !yield(days[i].Date(), entries[k]) {
						return
					}
				}
			}
		}
	}
}

// FindLatest returns the most recent entry matching pred. It reports false
// when no entry matches, including for an empty log.
func FindLatest(log *record.EventLog, pred Predicate) (Match, bool) {
	for date, e := range Backward(log) {
		if pred(e) {
			return Match{Entry: e, Date: date}, true
		}
	}
	return Match{}, false
}

// IsStage matches {stage: ...} entries.
func IsStage(e record.Entry) bool { return e.Kind() == record.KindStage }

// IsWater matches {water: ...} entries and the bare "water" tag.
func IsWater(e record.Entry) bool { return e.Kind() == record.KindWater }

// IsFeed matches {feed: ...} entries and the bare "feed" tag.
func IsFeed(e record.Entry) bool { return e.Kind() == record.KindFeed }

// DaysSince returns the number of whole calendar days from date to now.
// Time of day is ignored and dates on or after now count as 0.
func DaysSince(date, now time.Time) int {
	from := civilUTC(date)
	to := civilUTC(now)
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// civilUTC maps the calendar date of t onto UTC midnight so that day counts
// are not skewed by daylight saving transitions.
func civilUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
