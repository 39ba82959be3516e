package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"routine-maker/backend/internal/routine"
)

func (a *App) gridCmd() *cobra.Command {
	var sectionsPath string
	var days []string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the weekly grid of the given sections",
		Long: `Print every display slot with the class and lab meetings placed in it,
one column per day. Without --days the whole week is filled.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			sections, err := readSections(sectionsPath)
			if err != nil {
				return err
			}
			active, err := parseDays(days)
			if err != nil {
				return err
			}
			if active.Len() == 0 {
				active = routine.NewDaySet(routine.AllDays[:]...)
			}

			grid := routine.NewBuilder(routine.DefaultSlotCatalog(), a.logger).BuildGrid(sections, active)
			a.printGrid(grid, active)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sectionsPath, "sections", "s", "", "JSON file of the chosen sections")
	cmd.Flags().StringSliceVarP(&days, "days", "d", nil, "days to fill, e.g. Sunday,Tuesday")
	_ = cmd.MarkFlagRequired("sections")
	return cmd
}

func (a *App) printGrid(grid *routine.Grid, active routine.DaySet) {
	for _, row := range grid.Rows() {
		fmt.Fprintf(a.out, "%s\n", row.Slot.Label)
		for _, d := range active.Days() {
			cells := row.Cells[d]
			if len(cells) == 0 {
				continue
			}
			entries := make([]string, 0, len(cells))
			for _, c := range cells {
				entries = append(entries, fmt.Sprintf("%s %s-%s %s (%s)",
					strings.ToUpper(string(c.Kind)[:1])+string(c.Kind)[1:],
					c.Section.CourseCode, c.Section.SectionName, c.Section.FacultyName(), c.TimeLabel))
			}
			fmt.Fprintf(a.out, "  %-9s  %s\n", d, strings.Join(entries, "; "))
		}
	}
	fmt.Fprintf(a.out, "%d placement(s)\n", grid.Placements())
}
