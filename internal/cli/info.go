package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crops/internal/i18n"
	"github.com/mesh-intelligence/crops/pkg/query"
	"github.com/mesh-intelligence/crops/pkg/record"
)

// careLayout renders the date of the last watering or feeding.
const careLayout = "02 January (Mon)"

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

// infoSelectors picks the queries reported by the info command.
type infoSelectors struct {
	stage, water, feed, age bool
}

func (s infoSelectors) any() bool {
	return s.stage || s.water || s.feed || s.age
}

// cropReport is the JSON form of the info command's output for one crop.
type cropReport struct {
	File  string             `json:"file"`
	Name  string             `json:"name"`
	Info  map[string]any     `json:"info,omitempty"`
	Stage *query.StageStatus `json:"stage,omitempty"`
	Water *query.CareStatus  `json:"water,omitempty"`
	Feed  *query.CareStatus  `json:"feed,omitempty"`
	Age   *int               `json:"age_days,omitempty"`
}

func (a *app) newInfoCmd() *cobra.Command {
	var sel infoSelectors
	cmd := &cobra.Command{
		Use:     "info <file>...",
		Aliases: []string{"show"},
		Short:   "Show crop information",
		Long: "Report the current stage, last watering, last feeding, or age of each crop.\n" +
			"With no selector the whole crop file is shown.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.eachCrop(cmd, args, func(path string, rec *record.Record) error {
				if a.flags.jsonMode {
					return a.printReportJSON(cmd.OutOrStdout(), path, rec, sel)
				}
				if !sel.any() {
					return a.printDump(cmd.OutOrStdout(), rec)
				}
				a.printReport(cmd.OutOrStdout(), rec, sel)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&sel.stage, "stage", "s", false, "show the current stage")
	cmd.Flags().BoolVarP(&sel.water, "water", "w", false, "show the last watering")
	cmd.Flags().BoolVarP(&sel.feed, "feed", "f", false, "show the last feeding")
	cmd.Flags().BoolVarP(&sel.age, "age", "a", false, "show the age of the crop")
	return cmd
}

func (a *app) printReport(w io.Writer, rec *record.Record, sel infoSelectors) {
	now := a.now()
	name := rec.Info().Name()
	if sel.stage {
		st := query.ResolveStage(rec, now)
		fmt.Fprintln(w, a.p.Sprintf(i18n.MsgStage, name, a.p.Stage(st.Stage), st.Since.Format(record.DateLayout), st.DaysAgo))
	}
	if sel.water {
		fmt.Fprintln(w, a.careLine(name, query.ResolveWater(rec, now), i18n.MsgNeverWatered, i18n.MsgWateredToday, i18n.MsgWatered))
	}
	if sel.feed {
		fmt.Fprintln(w, a.careLine(name, query.ResolveFeed(rec, now), i18n.MsgNeverFed, i18n.MsgFedToday, i18n.MsgFed))
	}
	if sel.age {
		fmt.Fprintln(w, a.p.Sprintf(i18n.MsgAge, a.p.Capitalize(name), query.Age(rec, now)))
	}
}

func (a *app) careLine(name string, st query.CareStatus, never, today, ago string) string {
	switch {
	case !st.Done:
		return a.p.Sprintf(never, name)
	case st.DaysAgo == 0:
		return a.p.Sprintf(today, name)
	default:
		return a.p.Sprintf(ago, name, st.Date.Format(careLayout), st.DaysAgo)
	}
}

func (a *app) printReportJSON(w io.Writer, path string, rec *record.Record, sel infoSelectors) error {
	now := a.now()
	r := cropReport{File: path, Name: rec.Info().Name()}
	all := !sel.any()
	if all {
		m, err := rec.Info().Map()
		if err != nil {
			return err
		}
		r.Info = m
	}
	if all || sel.stage {
		st := query.ResolveStage(rec, now)
		r.Stage = &st
	}
	if all || sel.water {
		st := query.ResolveWater(rec, now)
		r.Water = &st
	}
	if all || sel.feed {
		st := query.ResolveFeed(rec, now)
		r.Feed = &st
	}
	if all || sel.age {
		age := query.Age(rec, now)
		r.Age = &age
	}

	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printDump writes the info section and the event log as they are stored.
func (a *app) printDump(w io.Writer, rec *record.Record) error {
	header := func(s string) string { return s }
	if a.styled(w) {
		header = func(s string) string { return headerStyle.Render(s) }
	}

	info, err := encodeNode(rec.Info().Node())
	if err != nil {
		return err
	}
	fmt.Fprintln(w, header(a.p.Sprintf(i18n.MsgCropInfo)))
	fmt.Fprint(w, info)
	fmt.Fprintln(w)
	fmt.Fprintln(w, header(a.p.Sprintf(i18n.MsgCropEvents)))

	sections := rec.Serialize()
	if rec.Events().Empty() || len(sections) < 2 {
		fmt.Fprintln(w, a.p.Sprintf(i18n.MsgNoEvents))
		return nil
	}
	events, err := encodeNode(sections[1])
	if err != nil {
		return err
	}
	fmt.Fprint(w, events)
	return nil
}

func encodeNode(n *yaml.Node) (string, error) {
	var buf bytes.Buffer
	if err := record.WriteSections(&buf, []*yaml.Node{n}); err != nil {
		return "", err
	}
	return strings.TrimPrefix(buf.String(), "---\n"), nil
}
