package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mindpath/internal/store"
	"github.com/abhisek/mindpath/internal/ui/theme"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded adaptation decisions",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List adaptation events in the order they happened",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")
		userID, _ := cmd.Flags().GetString("user")
		verbose, _ := cmd.Flags().GetBool("verbose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryAdaptations(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			SessionID: sessionID,
			UserID:    userID,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No adaptation events found.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-19s  %-36s  %-22s  %-3s  %5s  %s\n",
			"Seq", "Timestamp", "Session", "Trigger", "Upd", "Count", "Changes")
		fmt.Fprintln(out, theme.Rule(110))
		for _, e := range events {
			changes := make([]string, len(e.Changes))
			for i, c := range e.Changes {
				changes[i] = fmt.Sprintf("%s %s→%s", c.Field, c.From, c.To)
			}
			fmt.Fprintf(out, "%-6d  %-19s  %-36s  %-22s  %-3s  %5d  %s\n",
				e.Sequence,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.SessionID,
				e.Trigger,
				theme.Check(e.ProfileUpdated),
				e.AdaptationCount,
				strings.Join(changes, ", "),
			)
			if verbose {
				for _, r := range e.Reasons {
					fmt.Fprintln(out, "        "+theme.Hint.Render(r))
				}
			}
		}
		return nil
	},
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 50, "Number of events to show")
	eventsListCmd.Flags().StringP("session", "s", "", "Only events for this session id")
	eventsListCmd.Flags().StringP("user", "u", "", "Only events for this user id")
	eventsListCmd.Flags().BoolP("verbose", "v", false, "Show the reason behind each change")

	eventsCmd.AddCommand(eventsListCmd)
}
