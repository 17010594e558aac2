package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a completed career path",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		sum, err := d.Workflows.CareerSummary(cmd.Context())
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("No completed career path yet. Keep going!")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Println(theme.Title.Render(fmt.Sprintf("%s · %s", sum.UserName, sum.CareerGoal)))
		fmt.Println(theme.Field("Readiness", theme.ProgressBar(sum.Readiness, 30)))
		fmt.Println(theme.Field("Modules", fmt.Sprintf("%d/%d", sum.CompletedModules, sum.TotalModules)))
		fmt.Println(theme.Field("Time spent", fmt.Sprintf("%dh", sum.TimeSpentHours)))
		fmt.Println(theme.Field("Completed", sum.CompletionDate.Local().Format("2006-01-02")))

		fmt.Println()
		fmt.Println(theme.Subtitle.Render("Skills"))
		for _, s := range sum.Skills {
			fmt.Printf("  %-28s %-13s %s\n", s.Name, s.Level, theme.ProgressBar(s.Progress, 15))
		}

		fmt.Println()
		fmt.Println(theme.Subtitle.Render("Next steps"))
		for _, s := range sum.Suggestions {
			fmt.Println("  → " + s)
		}
		return nil
	},
}
