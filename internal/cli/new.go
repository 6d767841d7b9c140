package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crops/internal/cropfile"
	"github.com/mesh-intelligence/crops/internal/i18n"
	"github.com/mesh-intelligence/crops/internal/prompt"
	"github.com/mesh-intelligence/crops/pkg/record"
	"github.com/mesh-intelligence/crops/pkg/types"
)

func (a *app) newNewCmd() *cobra.Command {
	var ans prompt.Answers
	cmd := &cobra.Command{
		Use:   "new [output]",
		Short: "Start a new crop file",
		Long: "Create a crop file from the answers to a short form. The file is named after\n" +
			"the crop, spaces removed, unless an output path is given. When the input is\n" +
			"not a terminal, or --name is set, the values are taken from the flags.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ans.Name == "" && a.interactive(cmd.InOrStdin()) {
				got, err := prompt.Run(cmd.InOrStdin(), cmd.OutOrStdout(), a.p, a.defaultSource())
				if errors.Is(err, prompt.ErrCancelled) {
					return userError(err)
				}
				if err != nil {
					return sysError(err)
				}
				ans = got
			}
			var output string
			if len(args) == 1 {
				output = args[0]
			}
			return a.runNew(cmd, ans, output)
		},
	}
	cmd.Flags().StringVar(&ans.Name, "name", "", "crop name")
	cmd.Flags().IntVar(&ans.Plants, "plants", 1, "number of plants")
	cmd.Flags().StringVar(&ans.Cultivar, "cultivar", "", "cultivar (default: \"<name> (unknown)\")")
	cmd.Flags().StringVar(&ans.Stage, "stage", types.StagePlanted, "initial stage")
	cmd.Flags().StringVar(&ans.Source, "source", "", "where the plants came from (default: config default_source)")
	cmd.Flags().StringVar(&ans.Notes, "notes", "", "free-form notes")
	return cmd
}

func (a *app) defaultSource() string {
	if a.cfg.DefaultSource != "" {
		return a.cfg.DefaultSource
	}
	return a.p.Sprintf(i18n.PromptSeeds)
}

func (a *app) runNew(cmd *cobra.Command, ans prompt.Answers, output string) error {
	name := strings.TrimSpace(ans.Name)
	if name == "" {
		return userError(errors.New("a crop name is required (--name)"))
	}
	if ans.Plants < 1 {
		return userError(fmt.Errorf("invalid number of plants: %d", ans.Plants))
	}
	if ans.Stage == "" {
		ans.Stage = types.StagePlanted
	}
	if !types.IsStage(ans.Stage) {
		return userError(fmt.Errorf("%w %q", types.ErrUnknownStage, ans.Stage))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return sysError(fmt.Errorf("generate crop id: %w", err))
	}
	now := a.now()
	fields := record.InfoFields{
		Name:     name,
		Plants:   ans.Plants,
		Cultivar: ans.Cultivar,
		Planted:  now,
		Source:   ans.Source,
		ID:       id.String(),
	}
	if fields.Cultivar == "" {
		fields.Cultivar = a.p.Sprintf(i18n.MsgUnknownSuffix, name)
	}
	if fields.Source == "" {
		fields.Source = a.defaultSource()
	}
	if ans.Notes != "" {
		fields.Notes = &ans.Notes
	}

	rec := record.New(record.NewInfo(fields))
	if ans.Stage != types.StagePlanted {
		rec.AppendEvent(record.NewStage(ans.Stage), now)
	}

	path := cropfile.PathFor(name, output, a.cropDir)
	if err := cropfile.Create(path, rec); err != nil {
		if errors.Is(err, types.ErrDestinationExists) {
			fmt.Fprintln(cmd.ErrOrStderr(), a.p.Sprintf(i18n.MsgFileExists))
			return &codedError{code: exitUserError, err: err, silent: true}
		}
		return sysError(err)
	}
	slog.Debug("crop created", "file", path, "id", fields.ID, "stage", ans.Stage)
	fmt.Fprintln(cmd.OutOrStdout(), a.p.Sprintf(i18n.MsgNewSaved, path))
	return nil
}
