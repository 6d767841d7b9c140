package query

import (
	"time"

	"github.com/mesh-intelligence/crops/pkg/record"
	"github.com/mesh-intelligence/crops/pkg/types"
)

// StageStatus is the current growth stage of a crop.
type StageStatus struct {
	Stage   string    `json:"stage"`
	Since   time.Time `json:"since"`
	DaysAgo int       `json:"days_ago"`

	// Implicit is set when no stage was ever logged and the crop is taken
	// to be planted since its planting date.
	Implicit bool `json:"implicit"`
}

// CareStatus is the latest watering or feeding of a crop. Done is false
// when the crop was never watered (or fed); the other fields are then zero.
type CareStatus struct {
	Done      bool      `json:"done"`
	Date      time.Time `json:"date,omitzero"`
	DaysAgo   int       `json:"days_ago"`
	Additives []string  `json:"additives,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// ResolveStage returns the latest logged stage, or "planted" since the
// planting date when none was logged.
func ResolveStage(rec *record.Record, now time.Time) StageStatus {
	m, ok := FindLatest(rec.Events(), IsStage)
	if !ok {
		planted := record.CivilDate(rec.Info().Planted())
		return StageStatus{
			Stage:    types.StagePlanted,
			Since:    planted,
			DaysAgo:  DaysSince(planted, now),
			Implicit: true,
		}
	}
	return StageStatus{
		Stage:   m.Entry.Stage(),
		Since:   m.Date,
		DaysAgo: DaysSince(m.Date, now),
	}
}

// ResolveWater returns the latest watering. There is no default: a crop
// without water entries was never watered.
func ResolveWater(rec *record.Record, now time.Time) CareStatus {
	return resolveCare(rec, now, IsWater)
}

// ResolveFeed returns the latest feeding.
func ResolveFeed(rec *record.Record, now time.Time) CareStatus {
	return resolveCare(rec, now, IsFeed)
}

func resolveCare(rec *record.Record, now time.Time, pred Predicate) CareStatus {
	m, ok := FindLatest(rec.Events(), pred)
	if !ok {
		return CareStatus{}
	}
	return CareStatus{
		Done:      true,
		Date:      m.Date,
		DaysAgo:   DaysSince(m.Date, now),
		Additives: m.Entry.Additives(),
		Notes:     m.Entry.Notes(),
	}
}

// Age returns the number of days since the crop was planted.
func Age(rec *record.Record, now time.Time) int {
	return DaysSince(rec.Info().Planted(), now)
}
