package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the learner's profile, paths and quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := resolveUser(cmd)
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Printf("Delete all data for learner %q? [y/N] ", user)
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		removed, err := d.Workflows.ResetUser(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d documents.\n", removed)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
