package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crops/internal/cropfile"
	"github.com/mesh-intelligence/crops/pkg/record"
)

// cropFunc handles one loaded crop file.
type cropFunc func(path string, rec *record.Record) error

// eachCrop loads every file and hands it to fn. A failing file is reported
// on stderr and the remaining files are still processed; the returned error
// only carries the exit code.
func (a *app) eachCrop(cmd *cobra.Command, files []string, fn cropFunc) error {
	failed := 0
	for _, name := range files {
		path := cropfile.Resolve(name, a.cropDir)
		slog.Debug("processing crop file", "command", cmd.Name(), "file", path)

		rec, err := cropfile.Read(path)
		if err == nil {
			err = fn(path, rec)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "crops: %s: %v\n", name, err)
			failed++
		}
	}
	if failed > 0 {
		return &codedError{
			code:   exitUserError,
			err:    fmt.Errorf("%d of %d crop files failed", failed, len(files)),
			silent: true,
		}
	}
	return nil
}

// appendEach appends entry to every file and saves it. confirm builds the
// line printed for each crop.
func (a *app) appendEach(cmd *cobra.Command, files []string, entry record.Entry, confirm func(name string, at time.Time) string) error {
	return a.eachCrop(cmd, files, func(path string, rec *record.Record) error {
		at := a.now()
		rec.AppendEvent(entry, at)
		if err := cropfile.Save(path, rec); err != nil {
			return err
		}
		slog.Debug("event appended", "file", path, "kind", entry.Kind().String(), "at", at)
		fmt.Fprintln(cmd.OutOrStdout(), confirm(rec.Info().Name(), at))
		return nil
	})
}
