package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded model calls, token usage and cost",
}

// withEvents opens the store and hands its event log to fn.
func withEvents(cmd *cobra.Command, fn func(events store.EventRepo) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(s.EventRepo())
}

func rule(width int) string {
	return theme.ProgressEmpty.Render(strings.Repeat("─", width))
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		family, _ := cmd.Flags().GetString("family")
		failed, _ := cmd.Flags().GetBool("failed")

		return withEvents(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			var shown int
			for _, e := range events {
				if family != "" && e.Family != family {
					continue
				}
				if failed && e.Success {
					continue
				}
				if shown == 0 {
					fmt.Println(theme.Subtitle.Render(fmt.Sprintf("%-5s  %-19s  %-16s  %-10s  %-28s  %6s  %6s  %7s  %s",
						"ID", "Timestamp", "Purpose", "Family", "Model", "In", "Out", "Ms", "OK")))
					fmt.Println(rule(114))
				}
				shown++

				ok := theme.Correct.Render("✓")
				if !e.Success {
					ok = theme.Incorrect.Render("✗")
				}
				fmt.Printf("%-5d  %-19s  %-16s  %-10s  %-28s  %6d  %6d  %7d  %s\n",
					e.ID,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Purpose,
					e.Family,
					truncate(e.Model, 28),
					e.InputTokens,
					e.OutputTokens,
					e.LatencyMs,
					ok,
				)
			}

			if shown == 0 {
				fmt.Println("No model calls recorded.")
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of a model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withEvents(cmd, func(repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Println(theme.Field("ID", strconv.Itoa(e.ID)))
			fmt.Println(theme.Field("Time", e.Timestamp.Local().Format("2006-01-02 15:04:05")))
			fmt.Println(theme.Field("Family", e.Family))
			fmt.Println(theme.Field("Model", e.Model))
			fmt.Println(theme.Field("Purpose", e.Purpose))
			fmt.Println(theme.Field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)))
			fmt.Println(theme.Field("Latency", fmt.Sprintf("%dms", e.LatencyMs)))
			if cost := llm.LookupCost(e.Model); cost != nil {
				fmt.Println(theme.Field("Cost", formatCost(cost.Cost(e.InputTokens, e.OutputTokens))))
			}
			if e.Success {
				fmt.Println(theme.Field("Success", theme.Correct.Render("yes")))
			} else {
				fmt.Println(theme.Field("Success", theme.Incorrect.Render("no")))
				fmt.Println(theme.Field("Error", e.ErrorMessage))
			}

			for _, part := range []struct{ name, body string }{
				{"REQUEST", e.RequestBody},
				{"RESPONSE", e.ResponseBody},
			} {
				fmt.Println()
				fmt.Println(rule(60))
				fmt.Println(theme.Subtitle.Render(part.name))
				fmt.Println(rule(60))
				if part.body == "" {
					fmt.Println(theme.Hint.Render("(not captured)"))
					continue
				}
				fmt.Println(part.body)
			}
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per generator and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(repo store.EventRepo) error {
			ctx := cmd.Context()
			usage, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(usage) == 0 {
				fmt.Println("No LLM usage recorded yet.")
				return nil
			}

			fmt.Println(theme.Title.Render("Usage by Generator"))
			fmt.Println(rule(80))
			fmt.Printf("%-16s  %6s  %6s  %10s  %10s  %10s  %8s\n",
				"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
			fmt.Println(rule(80))

			var calls, failures, in, out int
			for _, u := range usage {
				fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %10d  %8d\n",
					u.Purpose, u.Calls, u.Failures, u.InputTokens, u.OutputTokens,
					u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
				calls += u.Calls
				failures += u.Failures
				in += u.InputTokens
				out += u.OutputTokens
			}
			fmt.Println(rule(80))
			fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %10d\n", "TOTAL", calls, failures, in, out, in+out)

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(byModel) == 0 {
				return nil
			}

			fmt.Println()
			fmt.Println(theme.Title.Render("Estimated Cost (USD)"))
			fmt.Println(rule(80))
			fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
			fmt.Println(rule(80))

			var total float64
			var unpriced []string
			for _, mu := range byModel {
				price := "?"
				if cost := llm.LookupCost(mu.Model); cost != nil {
					c := cost.Cost(mu.InputTokens, mu.OutputTokens)
					total += c
					price = formatCost(c)
				} else {
					unpriced = append(unpriced, mu.Model)
				}
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, price)
			}

			fmt.Println(rule(80))
			label := "TOTAL"
			if len(unpriced) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
			if len(unpriced) > 0 {
				fmt.Println(theme.Hint.Render("Pricing unavailable for: " + strings.Join(unpriced, ", ")))
			}
			return nil
		})
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by generator (e.g. module_content, flashcards, chat)")
	llmListCmd.Flags().StringP("family", "f", "", "Filter by provider family (e.g. groq, gemini)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
