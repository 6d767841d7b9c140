package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crops/internal/cropfile"
	"github.com/mesh-intelligence/crops/internal/export"
	"github.com/mesh-intelligence/crops/pkg/record"
)

func (a *app) newExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export --out <path> <file>...",
		Short: "Export crops to JSON Lines or SQLite",
		Long: "Write the info and the flattened event log of each crop file to a JSON Lines\n" +
			"file or a SQLite database. Formats: " + strings.Join(export.Formats, ", ") + ".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return userError(errors.New("--out is required"))
			}
			dest := cropfile.Resolve(out, a.cropDir)
			sink, err := export.Open(format, dest)
			if err != nil {
				return userError(err)
			}

			exported := 0
			runErr := a.eachCrop(cmd, args, func(path string, rec *record.Record) error {
				c, events := export.Flatten(rec, path)
				if err := sink.Write(c, events); err != nil {
					return err
				}
				exported++
				return nil
			})
			if err := sink.Close(); err != nil {
				return sysError(err)
			}
			slog.Debug("export finished", "format", format, "out", dest, "crops", exported)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d of %d crops to %s\n", exported, len(args), dest)
			return runErr
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatJSONL, "export format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination file")
	return cmd
}
