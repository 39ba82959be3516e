package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"routine-maker/backend/internal/model"
	"routine-maker/backend/internal/routine"
)

func (a *App) validateCmd() *cobra.Command {
	var sectionsPath, examsPath string
	var days []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the given sections against the routine rules",
		Long: `Check day coverage for the chosen days and, with --exams, exam clashes.
The exam file has the same shape as the sections file. Exits non-zero when
any rule is broken.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			sections, err := readSections(sectionsPath)
			if err != nil {
				return err
			}
			selected, err := parseDays(days)
			if err != nil {
				return err
			}

			var feed *routine.ExamFeed
			if examsPath != "" {
				items, err := readSections(examsPath)
				if err != nil {
					return err
				}
				feed = routine.NewExamFeed(model.ExamRecordsFromSections(items))
			}

			verdict := routine.NewValidator(a.logger).Validate(sections, selected, feed)
			if verdict.Valid() {
				fmt.Fprintln(a.out, "valid: no rule broken")
				return nil
			}
			for _, v := range verdict.Violations {
				fmt.Fprintf(a.out, "%-22s %s\n", v.Kind(), v.Message())
			}
			return fmt.Errorf("%w: %d", ErrViolations, len(verdict.Violations))
		},
	}

	cmd.Flags().StringVarP(&sectionsPath, "sections", "s", "", "JSON file of the chosen sections")
	cmd.Flags().StringSliceVarP(&days, "days", "d", nil, "days the student is available, e.g. Sunday,Tuesday")
	cmd.Flags().StringVarP(&examsPath, "exams", "e", "", "JSON exam feed; without it exams are not checked")
	_ = cmd.MarkFlagRequired("sections")
	return cmd
}
