package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the learning assistant",
	Long: `Ask the learning assistant a question. With a message argument a single
reply is printed; without one an interactive session starts. Enter an empty
line to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		level, _ := cmd.Flags().GetString("level")
		focus, _ := cmd.Flags().GetString("focus")
		cc := content.ChatContext{Topic: topic, Level: level, Focus: focus}

		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		ask := func(message string) error {
			ctx, cancel := d.generationContext(cmd.Context())
			defer cancel()
			reply, err := d.Content.GenerateChatResponse(ctx, message, cc)
			if err != nil {
				return err
			}
			fmt.Println(theme.Body.Render(reply))
			return nil
		}

		if len(args) > 0 {
			return ask(strings.Join(args, " "))
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(theme.Label.Render("you> "))
			if !scanner.Scan() {
				return nil
			}
			message := strings.TrimSpace(scanner.Text())
			if message == "" {
				return nil
			}
			if err := ask(message); err != nil {
				fmt.Fprintln(os.Stderr, theme.Incorrect.Render("error:"), err)
			}
			fmt.Println()
		}
	},
}

func init() {
	chatCmd.Flags().String("topic", "", "Conversation topic (default General)")
	chatCmd.Flags().String("level", "", "Learner level (default Intermediate)")
	chatCmd.Flags().String("focus", "", "What to focus on (default General understanding)")
}
