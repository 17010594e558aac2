package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/contentgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate learning content without tracking progress",
}

// generate runs fn with wired dependencies and prints its result, as JSON
// when --json is set.
func generate[T any](cmd *cobra.Command, fn func(d *deps, cmd *cobra.Command) (T, error), render func(T)) error {
	d, err := buildDeps(cmd, nil)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := d.generationContext(cmd.Context())
	defer cancel()
	cmd.SetContext(ctx)

	out, err := fn(d, cmd)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(out)
	}
	render(out)
	return nil
}

var generateModuleCmd = &cobra.Command{
	Use:   "module <topic>",
	Short: "Generate the sections of a learning module",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(cmd, func(d *deps, cmd *cobra.Command) (*content.ModuleContent, error) {
			detailed, _ := cmd.Flags().GetBool("detailed")
			model, _ := cmd.Flags().GetString("model")
			return d.Content.GenerateModuleContent(cmd.Context(), strings.Join(args, " "),
				contentgen.ModuleOptions{Detailed: detailed, Model: model})
		}, printModuleContent)
	},
}

var generateFlashcardsCmd = &cobra.Command{
	Use:   "flashcards <topic>",
	Short: "Generate study flashcards",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(cmd, func(d *deps, cmd *cobra.Command) ([]content.Flashcard, error) {
			count, _ := cmd.Flags().GetInt("count")
			return d.Content.GenerateFlashcards(cmd.Context(), strings.Join(args, " "), count)
		}, printFlashcards)
	},
}

var generateModuleQuizCmd = &cobra.Command{
	Use:   "module-quiz <module name>",
	Short: "Generate the five-question quiz for a module",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(cmd, func(d *deps, cmd *cobra.Command) (content.ModuleQuiz, error) {
			return d.Content.GenerateQuiz(cmd.Context(), strings.Join(args, " "))
		}, printModuleQuiz)
	},
}

var generatePathCmd = &cobra.Command{
	Use:   "path <goal>",
	Short: "Generate a topic or career learning path",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(cmd, func(d *deps, cmd *cobra.Command) (content.LearningPath, error) {
			pathType, _ := cmd.Flags().GetString("type")
			model, _ := cmd.Flags().GetString("model")
			return d.Content.GenerateLearningPath(cmd.Context(), strings.Join(args, " "),
				contentgen.PathOptions{Type: content.PathType(pathType), Model: model})
		}, printLearningPath)
	},
}

var generateCareersCmd = &cobra.Command{
	Use:   "careers",
	Short: "Generate personalized career paths for a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(cmd, func(d *deps, cmd *cobra.Command) ([]content.CareerPath, error) {
			return d.Content.GenerateCareerPaths(cmd.Context(), profileFromFlags(cmd))
		}, printCareerPaths)
	},
}

func init() {
	generateCmd.PersistentFlags().Bool("json", false, "Print the raw JSON result")

	generateModuleCmd.Flags().Bool("detailed", false, "Generate the advanced four-section variant")
	generateFlashcardsCmd.Flags().IntP("count", "n", 10, "Number of flashcards")
	generatePathCmd.Flags().String("type", string(content.PathTopic), "Path type: topic or career")
	for _, c := range []*cobra.Command{generateModuleCmd, generatePathCmd} {
		c.Flags().String("model", "", "Model to try first within each provider family")
	}
	addProfileFlags(generateCareersCmd)

	generateCmd.AddCommand(generateModuleCmd)
	generateCmd.AddCommand(generateFlashcardsCmd)
	generateCmd.AddCommand(generateModuleQuizCmd)
	generateCmd.AddCommand(generatePathCmd)
	generateCmd.AddCommand(generateCareersCmd)
}
