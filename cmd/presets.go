package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/booster-sim/booster-sim/sim"
)

// presetsCmd lists the presets in the defaults file.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets in the defaults file",
	Run: func(cmd *cobra.Command, args []string) {
		presets, err := loadPresets(defaultsPath, true)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		printPresets(cmd.OutOrStdout(), presets)
	},
}

// printPresets writes one row per preset, sorted by name, with the duration
// each campaign would take.
func printPresets(w io.Writer, f *sim.ScenarioFile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tDOSES\tPER DAY\tPRICE\tMETHOD\tTRIALS\tDAYS\tDESCRIPTION")
	for _, name := range f.Names() {
		s := f.Scenarios[name]
		price := "-"
		if s.BumpPrice != nil {
			price = fmt.Sprintf("%g", *s.BumpPrice)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%d\t%d\t%s\n",
			name, s.Doses, s.DosesPerDay, price, s.BumpMethod, s.Trials,
			sim.DurationDays(s.Doses, s.DosesPerDay), s.Description)
	}
	_ = tw.Flush()
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
