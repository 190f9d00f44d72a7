package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mindpath/internal/store"
	"github.com/abhisek/mindpath/internal/style"
	"github.com/abhisek/mindpath/internal/ui/theme"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect stored learner profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List returning learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		profiles, err := s.ProfileRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list profiles: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(profiles) == 0 {
			fmt.Fprintln(out, "No stored profiles.")
			return nil
		}

		fmt.Fprintf(out, "%-24s  %-13s  %-7s  %-7s  %-16s  %8s  %s\n",
			"User", "Style", "Pace", "Conf.", "Presentation", "Sessions", "Updated")
		fmt.Fprintln(out, theme.Rule(100))
		for _, sp := range profiles {
			fmt.Fprintf(out, "%-24s  %-13s  %-7s  %-7s  %-16s  %8d  %s\n",
				truncate(sp.UserID, 24),
				sp.Profile.LearningStyle,
				sp.Profile.Pace,
				sp.Profile.Confidence,
				style.Select(sp.Profile),
				sp.Sessions,
				sp.UpdatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show one learner's stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sp, err := s.ProfileRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no stored profile for %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.ProfileCard(sp.UserID, sp.Profile))
		fmt.Fprintln(out, theme.Field("sessions", sp.Sessions))
		fmt.Fprintln(out, theme.Field("first seen", sp.CreatedAt.Local().Format("2006-01-02 15:04")))
		fmt.Fprintln(out, theme.Field("last updated", sp.UpdatedAt.Local().Format("2006-01-02 15:04")))
		return nil
	},
}

var profileResetCmd = &cobra.Command{
	Use:   "reset <user-id>",
	Short: "Forget a learner's stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ProfileRepo().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile for %s reset.\n", args[0])
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileResetCmd)
}
