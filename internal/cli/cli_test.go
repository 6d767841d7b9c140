package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crops/internal/cropfile"
	"github.com/mesh-intelligence/crops/pkg/query"
	"github.com/mesh-intelligence/crops/pkg/record"
	"github.com/mesh-intelligence/crops/pkg/types"
)

const blueberryCrop = `name: Blueberry
planted: 2024-01-01
---
2024-01-05:
  09h00:
  - water
2024-02-01:
  10h30:
  - stage: vegetation
`

const basilCrop = `name: basil
planted: 2024-03-01
`

// testEnv holds isolated config and crop directories for one test.
type testEnv struct {
	t         *testing.T
	configDir string
	cropDir   string
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("CROPS_DIR", "")
	t.Setenv("CROPS_LANGUAGE", "")
	t.Setenv("CROPS_LOG_LEVEL", "")
	return &testEnv{
		t:         t,
		configDir: t.TempDir(),
		cropDir:   t.TempDir(),
		now:       time.Date(2024, 2, 10, 14, 30, 0, 0, time.Local),
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	cmd := NewRootCmd(WithClock(func() time.Time { return e.now }), WithInteractive(false))
	base := []string{"--config-dir", e.configDir, "--crop-dir", e.cropDir}
	if !containsFlag(args, "--lang") {
		base = append(base, "--lang", "en")
	}
	cmd.SetArgs(append(base, args...))

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (e *testEnv) mustRun(args ...string) result {
	e.t.Helper()
	r := e.run(args...)
	require.NoError(e.t, r.err, "stderr: %s", r.stderr)
	return r
}

func (e *testEnv) writeCrop(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.cropDir, name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *testEnv) readCrop(name string) *record.Record {
	e.t.Helper()
	rec, err := cropfile.Read(filepath.Join(e.cropDir, name))
	require.NoError(e.t, err)
	return rec
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestInfoBlueberry(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Blueberry.crop", blueberryCrop)

	r := env.mustRun("info", "-s", "-w", "-a", "Blueberry.crop")
	assert.Equal(t, []string{
		"Current Blueberry stage: vegetation (since 2024-02-01, 9 days ago).",
		"Blueberry was watered 05 January (Fri), 36 days ago.",
		"Blueberry has been planted for 40 days.",
	}, lines(r.stdout))
	assert.Empty(t, r.stderr)
}

func TestInfoBasilWithoutEvents(t *testing.T) {
	env := newTestEnv(t)
	env.now = time.Date(2024, 3, 1, 18, 0, 0, 0, time.Local)
	env.writeCrop("Basil.crop", basilCrop)

	r := env.mustRun("show", "--stage", "--water", "--feed", "--age", "Basil.crop")
	assert.Equal(t, []string{
		"Current basil stage: planted (since 2024-03-01, 0 days ago).",
		"basil was never watered.",
		"basil was never fed.",
		"Basil has been planted for 0 days.",
	}, lines(r.stdout))
}

func TestInfoDump(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Basil.crop", basilCrop)
	env.writeCrop("Blueberry.crop", blueberryCrop)

	r := env.mustRun("info", "Basil.crop")
	assert.Contains(t, r.stdout, "== Crop Info ==")
	assert.Contains(t, r.stdout, "name: basil")
	assert.Contains(t, r.stdout, "== Crop Events ==")
	assert.Contains(t, r.stdout, "No events added yet.")

	r = env.mustRun("info", "Blueberry.crop")
	assert.Contains(t, r.stdout, "- stage: vegetation")
	assert.NotContains(t, r.stdout, "No events added yet.")
}

func TestInfoJSON(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Blueberry.crop", blueberryCrop)

	r := env.mustRun("info", "--json", "Blueberry.crop")
	var got cropReport
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))

	assert.Equal(t, "Blueberry", got.Name)
	assert.Equal(t, "Blueberry", got.Info["name"])
	require.NotNil(t, got.Stage)
	assert.Equal(t, "vegetation", got.Stage.Stage)
	assert.Equal(t, 9, got.Stage.DaysAgo)
	require.NotNil(t, got.Water)
	assert.True(t, got.Water.Done)
	assert.Equal(t, 36, got.Water.DaysAgo)
	require.NotNil(t, got.Feed)
	assert.False(t, got.Feed.Done)
	require.NotNil(t, got.Age)
	assert.Equal(t, 40, *got.Age)

	r = env.mustRun("info", "--json", "-w", "Blueberry.crop")
	got = cropReport{}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Nil(t, got.Stage)
	assert.Nil(t, got.Info)
	require.NotNil(t, got.Water)
}

func TestInfoContinuesAfterFailingFile(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Blueberry.crop", blueberryCrop)
	env.writeCrop("Broken.crop", "name: [unclosed\n")
	env.writeCrop("NoPlanted.crop", "name: Mint\n")

	r := env.run("info", "-s", "missing.crop", "Broken.crop", "NoPlanted.crop", "Blueberry.crop")
	require.Error(t, r.err)
	assert.Equal(t, exitUserError, ExitCode(r.err))

	assert.Equal(t, []string{"Current Blueberry stage: vegetation (since 2024-02-01, 9 days ago)."}, lines(r.stdout))
	errLines := lines(r.stderr)
	require.Len(t, errLines, 3)
	assert.True(t, strings.HasPrefix(errLines[0], "crops: missing.crop: "))
	assert.True(t, strings.HasPrefix(errLines[1], "crops: Broken.crop: "))
	assert.Contains(t, errLines[1], types.ErrMalformedRecord.Error())
	assert.Contains(t, errLines[2], "info section has no planted")
}

func TestWaterWithDetails(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Blueberry.crop", blueberryCrop)

	r := env.mustRun("water", "-a", "compost tea", "-n", "weekly feed", "Blueberry.crop")
	assert.Equal(t, "[2024-02-10 14:30] Watering Blueberry with compost tea.\n", r.stdout)

	rec := env.readCrop("Blueberry.crop")
	m, ok := query.FindLatest(rec.Events(), query.IsWater)
	require.True(t, ok)
	assert.Equal(t, []string{"compost tea"}, m.Entry.Additives())
	assert.Equal(t, "weekly feed", m.Entry.Notes())

	days := rec.Events().Days()
	require.Len(t, days, 3)
	assert.Equal(t, "2024-02-10", days[2].Date().Format(record.DateLayout))
	assert.Equal(t, "14h30", days[2].Slots()[0].Label())
	assert.Equal(t, "vegetation", days[1].Slots()[0].Entries()[0].Stage(), "earlier events are kept")

	data, err := os.ReadFile(filepath.Join(env.cropDir, "Blueberry.crop"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-02-10:")
	assert.Contains(t, string(data), "additives:")
	assert.Contains(t, string(data), "notes: weekly feed")

	r = env.mustRun("info", "-w", "Blueberry.crop")
	assert.Equal(t, "Blueberry was watered today.\n", r.stdout)
}

func TestWaterBareAppendsToSameSlot(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Basil.crop", basilCrop)

	env.mustRun("water", "Basil.crop")
	env.mustRun("stage", "germination", "Basil.crop")

	rec := env.readCrop("Basil.crop")
	days := rec.Events().Days()
	require.Len(t, days, 1)
	slots := days[0].Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, "14h30", slots[0].Label())
	entries := slots[0].Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Bare())
	assert.Equal(t, record.KindWater, entries[0].Kind())
	assert.Equal(t, "germination", entries[1].Stage())
}

func TestWaterSeveralFiles(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Basil.crop", basilCrop)
	env.writeCrop("Blueberry.crop", blueberryCrop)

	r := env.mustRun("water", "Basil.crop", "Blueberry.crop")
	assert.Equal(t, []string{
		"[2024-02-10 14:30] Watering basil.",
		"[2024-02-10 14:30] Watering Blueberry.",
	}, lines(r.stdout))
	for _, name := range []string{"Basil.crop", "Blueberry.crop"} {
		st := query.ResolveWater(env.readCrop(name), env.now)
		assert.True(t, st.Done, name)
		assert.Zero(t, st.DaysAgo, name)
	}
}

func TestFeed(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Blueberry.crop", blueberryCrop)

	r := env.mustRun("feed", "-n", "fish emulsion", "Blueberry.crop")
	assert.Equal(t, "[2024-02-10 14:30] Feeding Blueberry.\n", r.stdout)

	r = env.mustRun("info", "-f", "Blueberry.crop")
	assert.Equal(t, "Blueberry was fed today.\n", r.stdout)

	st := query.ResolveFeed(env.readCrop("Blueberry.crop"), env.now)
	assert.Equal(t, "fish emulsion", st.Notes)
}

func TestStage(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Blueberry.crop", blueberryCrop)

	r := env.mustRun("stage", "flowering", "Blueberry.crop")
	assert.Equal(t, "[2024-02-10 14:30] Stage of Blueberry set to flowering.\n", r.stdout)

	r = env.mustRun("info", "-s", "Blueberry.crop")
	assert.Equal(t, "Current Blueberry stage: flowering (since 2024-02-10, 0 days ago).\n", r.stdout)
}

func TestStageRejectsUnknownNames(t *testing.T) {
	for _, stage := range []string{"blooming", types.StagePlanted, ""} {
		t.Run(stage, func(t *testing.T) {
			env := newTestEnv(t)
			path := env.writeCrop("Blueberry.crop", blueberryCrop)

			r := env.run("stage", stage, "Blueberry.crop")
			require.Error(t, r.err)
			assert.ErrorIs(t, r.err, types.ErrUnknownStage)
			assert.Equal(t, exitUserError, ExitCode(r.err))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, blueberryCrop, string(data), "file is untouched")
		})
	}
}

func TestNewFromFlags(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun("new", "--name", "Cherry Tomato", "--plants", "3", "--stage", "seedling")
	path := filepath.Join(env.cropDir, "CherryTomato.crop")
	assert.Equal(t, "New crop saved to: "+path+"\n", r.stdout)

	rec := env.readCrop("CherryTomato.crop")
	info := rec.Info()
	assert.Equal(t, "Cherry Tomato", info.Name())
	plants, ok := info.Plants()
	require.True(t, ok)
	assert.Equal(t, 3, plants)
	assert.Equal(t, "Cherry Tomato (unknown)", info.Cultivar())
	assert.Equal(t, types.DefaultSource, info.Source())
	_, hasNotes := info.Notes()
	assert.False(t, hasNotes)
	assert.Len(t, info.ID(), 36)
	assert.True(t, info.Planted().Equal(env.now))
	assert.Equal(t, []string{"name", "plants", "cultivar", "planted", "source", "notes", "id"}, info.Keys())

	st := query.ResolveStage(rec, env.now)
	assert.Equal(t, types.StageSeedling, st.Stage)
	assert.False(t, st.Implicit)
}

func TestNewPlantedWritesNoEvents(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("new", "--name", "Mint", "--cultivar", "Spearmint", "--source", "cutting", "--notes", "kitchen", "herbs/mint")

	data, err := os.ReadFile(filepath.Join(env.cropDir, "herbs", "mint.crop"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "---")

	rec := env.readCrop(filepath.Join("herbs", "mint.crop"))
	assert.Equal(t, "Spearmint", rec.Info().Cultivar())
	assert.Equal(t, "cutting", rec.Info().Source())
	notes, ok := rec.Info().Notes()
	assert.True(t, ok)
	assert.Equal(t, "kitchen", notes)
	assert.True(t, rec.Events().Empty())
}

func TestNewRefusesToOverwrite(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeCrop("Basil.crop", basilCrop)

	r := env.run("new", "--name", "Basil")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, types.ErrDestinationExists)
	assert.Equal(t, exitUserError, ExitCode(r.err))
	assert.Equal(t, "File already exists. Aborting!\n", r.stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, basilCrop, string(data))
}

func TestNewRequiresName(t *testing.T) {
	env := newTestEnv(t)
	r := env.run("new")
	require.Error(t, r.err)
	assert.Equal(t, exitUserError, ExitCode(r.err))
}

func TestNewRejectsUnknownStage(t *testing.T) {
	env := newTestEnv(t)
	r := env.run("new", "--name", "Basil", "--stage", "sprouting")
	assert.ErrorIs(t, r.err, types.ErrUnknownStage)
	assert.NoFileExists(t, filepath.Join(env.cropDir, "Basil.crop"))
}

func TestExportJSONL(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Blueberry.crop", blueberryCrop)
	env.writeCrop("Basil.crop", basilCrop)

	r := env.mustRun("export", "--out", "crops.jsonl", "Blueberry.crop", "Basil.crop")
	out := filepath.Join(env.cropDir, "crops.jsonl")
	assert.Equal(t, "Exported 2 of 2 crops to "+out+"\n", r.stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, lines(string(data)), 4, "a crop line and one line per event")
}

func TestExportSQLite(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Blueberry.crop", blueberryCrop)
	env.writeCrop("Broken.crop", "name: Mint\n")

	out := filepath.Join(t.TempDir(), "crops.db")
	r := env.run("export", "--format", "sqlite", "-o", out, "Blueberry.crop", "Broken.crop")
	assert.Equal(t, exitUserError, ExitCode(r.err))
	assert.Contains(t, r.stderr, "crops: Broken.crop: ")

	db, err := sql.Open("sqlite", out)
	require.NoError(t, err)
	defer db.Close()

	var crops, events int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM crops`).Scan(&crops))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&events))
	assert.Equal(t, 1, crops)
	assert.Equal(t, 2, events)
}

func TestExportRequiresOut(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Basil.crop", basilCrop)
	r := env.run("export", "Basil.crop")
	assert.Equal(t, exitUserError, ExitCode(r.err))

	r = env.run("export", "--format", "csv", "--out", "x.csv", "Basil.crop")
	assert.ErrorContains(t, r.err, "unknown export format")
}

func TestInitWritesConfigOnce(t *testing.T) {
	env := newTestEnv(t)
	configDir := filepath.Join(env.configDir, "nested")
	path := filepath.Join(configDir, configFileExt)

	r := env.mustRun("--config-dir", configDir, "init")
	assert.Equal(t, "Configuration written to: "+path+"\n", r.stdout)

	cfg, err := loadConfig(configDir)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSource, cfg.DefaultSource)
	assert.Equal(t, types.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, env.cropDir, cfg.CropDir)

	require.NoError(t, os.WriteFile(path, []byte("language: fr\n"), 0o644))
	r = env.mustRun("--config-dir", configDir, "init")
	assert.Equal(t, "Configuration already exists: "+path+"\n", r.stdout)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "language: fr\n", string(data))
}

func TestConfigLanguage(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Basil.crop", basilCrop)
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte("language: fr\n"), 0o644))

	// An explicit --lang wins over the configuration.
	r := env.mustRun("info", "-w", "Basil.crop")
	assert.Equal(t, "basil was never watered.\n", r.stdout)

	cmd := NewRootCmd(WithClock(func() time.Time { return env.now }), WithInteractive(false))
	cmd.SetArgs([]string{"--config-dir", env.configDir, "--crop-dir", env.cropDir, "info", "-w", "Basil.crop"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "basil n'a jamais été arrosé.\n", stdout.String())
}

func TestConfigFromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("CROPS_DEFAULT_SOURCE", "nursery")

	env.mustRun("new", "--name", "Sage")
	assert.Equal(t, "nursery", env.readCrop("Sage.crop").Info().Source())
}

func TestBadLogLevelIsSystemError(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte("log_level: loud\n"), 0o644))

	r := env.run("info", "Basil.crop")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, types.ErrLogLevelUnknown)
	assert.Equal(t, exitSysError, ExitCode(r.err))
}

func TestVerboseLogsToStderr(t *testing.T) {
	env := newTestEnv(t)
	env.writeCrop("Basil.crop", basilCrop)

	r := env.mustRun("-v", "water", "Basil.crop")
	assert.Contains(t, r.stderr, "level=DEBUG")
	assert.Contains(t, r.stderr, "event appended")
	assert.Equal(t, "[2024-02-10 14:30] Watering basil.\n", r.stdout)
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	r := env.mustRun("version")
	assert.Equal(t, "crops v"+Version+"\nmodule: "+modulePath+"\n", r.stdout)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, ExitCode(nil))
	assert.Equal(t, exitSysError, ExitCode(sysError(os.ErrPermission)))
	assert.Equal(t, exitUserError, ExitCode(userError(os.ErrNotExist)))
	assert.Equal(t, exitUserError, ExitCode(os.ErrClosed))
}
