package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Browse and progress through career paths",
}

var pathsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the learner's career paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		paths, err := d.Workflows.ListCareerPaths(cmd.Context())
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println("No career paths yet. Run `pathwise profile create` first.")
			return nil
		}

		// Header.
		fmt.Printf("%-36s  %-32s  %-12s  %7s  %s\n",
			"ID", "Career", "Difficulty", "Modules", "Progress")
		fmt.Println(strings.Repeat("─", 110))

		for _, p := range paths {
			name := p.CareerName
			if len(name) > 32 {
				name = name[:29] + "..."
			}
			fmt.Printf("%-36s  %-32s  %-12s  %3d/%-3d  %s\n",
				p.ID, name, p.Difficulty, len(p.CompletedModules), len(p.Modules),
				theme.ProgressBar(p.Progress, 20))
		}

		fmt.Printf("\n%d paths\n", len(paths))
		return nil
	},
}

var pathsShowCmd = &cobra.Command{
	Use:   "show <path id>",
	Short: "Show a career path and its modules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.Workflows.GetCareerPath(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printCareerPath(*p)
		if p.Description != "" {
			fmt.Println()
			fmt.Println(theme.Hint.Render(p.Description))
		}
		for _, n := range p.AINudges {
			fmt.Println("  → " + n)
		}
		return nil
	},
}

var pathsCompleteCmd = &cobra.Command{
	Use:   "complete <path id> <module index>",
	Short: "Mark a module as complete",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid module index %q: %w", args[1], err)
		}

		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.Workflows.MarkModuleComplete(cmd.Context(), args[0], index)
		if err != nil {
			return err
		}
		fmt.Println(theme.Correct.Render("✓ " + p.ModuleTitle(index)))
		fmt.Println(theme.ProgressBar(p.Progress, 30))
		if p.Progress == 100 {
			fmt.Println("Path complete! Run `pathwise summary` to see your results.")
		}
		return nil
	},
}

var pathsModuleCmd = &cobra.Command{
	Use:   "module <path id> <module index>",
	Short: "Generate and show the content of a path's module",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid module index %q: %w", args[1], err)
		}
		detailed, _ := cmd.Flags().GetBool("detailed")

		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := d.generationContext(cmd.Context())
		defer cancel()
		view, err := d.Workflows.LoadModuleContent(ctx, args[0], index, detailed)
		if err != nil {
			return err
		}
		if view.Completed {
			fmt.Println(theme.Correct.Render("● completed"))
		}
		printModuleContent(view.Content)
		return nil
	},
}

func init() {
	pathsModuleCmd.Flags().Bool("detailed", false, "Generate the advanced four-section variant")

	pathsCmd.AddCommand(pathsListCmd)
	pathsCmd.AddCommand(pathsShowCmd)
	pathsCmd.AddCommand(pathsCompleteCmd)
	pathsCmd.AddCommand(pathsModuleCmd)
}
