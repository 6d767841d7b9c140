package export

// Schema DDL of the SQLite export. Tables are created when missing so that
// repeated exports accumulate into the same database.
const (
	createCrops = `CREATE TABLE IF NOT EXISTS crops (
    crop_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    cultivar TEXT,
    plants INTEGER,
    planted TEXT NOT NULL,
    source TEXT,
    notes TEXT,
    file TEXT NOT NULL,
    exported_at TEXT NOT NULL
);`

	createEvents = `CREATE TABLE IF NOT EXISTS events (
    crop_id TEXT NOT NULL,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    seq INTEGER NOT NULL,
    kind TEXT NOT NULL,
    stage TEXT,
    tag TEXT,
    additives TEXT,
    notes TEXT,
    PRIMARY KEY (crop_id, date, time, seq),
    FOREIGN KEY (crop_id) REFERENCES crops(crop_id) ON DELETE CASCADE
);`

	createEventsKindIndex = `CREATE INDEX IF NOT EXISTS idx_events_kind ON events(crop_id, kind, date);`
)

var schema = []string{createCrops, createEvents, createEventsKindIndex}
