package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crops/internal/i18n"
	"github.com/mesh-intelligence/crops/pkg/record"
	"github.com/mesh-intelligence/crops/pkg/types"
)

// eventLayout stamps the confirmation of appended events.
const eventLayout = "2006-01-02 15:04"

func (a *app) newWaterCmd() *cobra.Command {
	var additives []string
	var notes string
	cmd := &cobra.Command{
		Use:   "water <file>...",
		Short: "Log a watering",
		Long:  "Append a water entry, with optional additives and notes, to each crop file.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := record.NewWater(additives, notes)
			return a.appendEach(cmd, args, entry, func(name string, at time.Time) string {
				if len(additives) > 0 {
					return a.p.Sprintf(i18n.MsgWateringWith, at.Format(eventLayout), name, strings.Join(additives, ", "))
				}
				return a.p.Sprintf(i18n.MsgWatering, at.Format(eventLayout), name)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&additives, "additive", "a", nil, "additive mixed in the water (repeatable)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
	return cmd
}

func (a *app) newFeedCmd() *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "feed <file>...",
		Short: "Log a feeding",
		Long:  "Append a feed entry, with optional notes, to each crop file.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := record.NewFeed(notes)
			return a.appendEach(cmd, args, entry, func(name string, at time.Time) string {
				return a.p.Sprintf(i18n.MsgFeeding, at.Format(eventLayout), name)
			})
		},
	}
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
	return cmd
}

func (a *app) newStageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage <stage> <file>...",
		Short: "Log a new growth stage",
		Long: "Append a stage entry to each crop file. Valid stages: " +
			strings.Join(types.SettableStages(), ", ") + ".",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: types.SettableStages(),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage := args[0]
			if err := types.ValidateSettableStage(stage); err != nil {
				return userError(err)
			}
			entry := record.NewStage(stage)
			return a.appendEach(cmd, args[1:], entry, func(name string, at time.Time) string {
				return a.p.Sprintf(i18n.MsgStageSet, at.Format(eventLayout), name, a.p.Stage(stage))
			})
		},
	}
}
