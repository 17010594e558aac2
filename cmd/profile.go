package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the learner profile",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Save a profile and generate its career paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		fmt.Println("Generating career paths, this can take a minute...")
		res, err := d.Workflows.CreateProfile(cmd.Context(), profileFromFlags(cmd))
		if err != nil {
			return err
		}

		fmt.Println(theme.Field("Profile", res.UserDocID))
		fmt.Println()
		for _, p := range res.Paths {
			printCareerPath(p)
			fmt.Println()
		}
		return nil
	},
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Learner name (required)")
	cmd.Flags().String("goal", "", "Career goal (required)")
	cmd.Flags().StringSlice("skills", nil, "Current skills, comma separated")
	cmd.Flags().StringSlice("interests", nil, "Interests, comma separated")
	cmd.Flags().Int("age", 0, "Learner age")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("goal")
}

func profileFromFlags(cmd *cobra.Command) content.Profile {
	name, _ := cmd.Flags().GetString("name")
	goal, _ := cmd.Flags().GetString("goal")
	skills, _ := cmd.Flags().GetStringSlice("skills")
	interests, _ := cmd.Flags().GetStringSlice("interests")
	age, _ := cmd.Flags().GetInt("age")
	return content.Profile{Name: name, Goal: goal, Skills: skills, Interests: interests, Age: age}
}

func init() {
	addProfileFlags(profileCreateCmd)
	profileCmd.AddCommand(profileCreateCmd)
}
