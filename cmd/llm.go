package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mindpath/internal/llm"
	"github.com/abhisek/mindpath/internal/store"
	"github.com/abhisek/mindpath/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMRequests(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-19s  %-20s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, theme.Rule(110))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			fmt.Fprintf(out, "%-6d  %-19s  %-20s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.Sequence,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 20),
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				theme.Check(e.Success),
			)
			if !e.Success && e.ErrorMessage != "" {
				fmt.Fprintln(out, "        "+theme.Bad.Render(truncate(e.ErrorMessage, 100)))
			}
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.EventRepo().LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintln(out, theme.Title.Render("Usage by Model and Purpose"))
		fmt.Fprintln(out, theme.Rule(100))
		fmt.Fprintf(out, "%-28s  %-20s  %6s  %5s  %10s  %10s  %8s  %10s\n",
			"Model", "Purpose", "Calls", "Fail", "Input", "Output", "Avg Ms", "Cost")
		fmt.Fprintln(out, theme.Rule(100))

		var calls, in, outTok int
		var total float64
		var unknown []string
		for _, u := range usage {
			cost := "?"
			if _, ok := llm.LookupCost(u.Model); ok {
				c := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens)
				total += c
				cost = formatCost(c)
			} else if !slices.Contains(unknown, u.Model) {
				unknown = append(unknown, u.Model)
			}
			fmt.Fprintf(out, "%-28s  %-20s  %6d  %5d  %10d  %10d  %8.0f  %10s\n",
				truncate(u.Model, 28), truncate(u.Purpose, 20), u.Requests, u.Failures,
				u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
			calls += u.Requests
			in += u.InputTokens
			outTok += u.OutputTokens
		}

		fmt.Fprintln(out, theme.Rule(100))
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-28s  %-20s  %6d  %5s  %10d  %10d  %8s  %10s\n",
			label, "", calls, "", in, outTok, "", formatCost(total))

		if len(unknown) > 0 {
			fmt.Fprintln(out, theme.Hint.Render("\nPricing unavailable for: "+strings.Join(unknown, ", ")))
		}
		return nil
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
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. diagnostic-questions, explanation)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
