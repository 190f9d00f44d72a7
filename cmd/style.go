package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
	"github.com/abhisek/mindpath/internal/ui/theme"
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Show which presentation style a profile selects",
	Long: `Evaluate the style rules for a profile given on the command line.
Unset fields take their default values.`,
	RunE: runStyle,
}

func init() {
	def := profile.Default()
	styleCmd.Flags().String("learning-style", string(def.LearningStyle), "conceptual, visual or exam-focused")
	styleCmd.Flags().String("pace", string(def.Pace), "slow, medium or fast")
	styleCmd.Flags().String("confidence", string(def.Confidence), "low, medium or high")
	styleCmd.Flags().String("depth", string(def.DepthPreference), "intuition-first or formula-first")
	styleCmd.Flags().Bool("rules", false, "Also list the rules in precedence order")
}

func runStyle(cmd *cobra.Command, args []string) error {
	p, err := profileFromFlags(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, theme.ProfileCard("profile", p))

	sty := style.Select(p)
	fmt.Fprintln(out, theme.Field("presents with", style.Describe(sty)))
	fmt.Fprintln(out, theme.Hint.Render(style.Instructions(sty)))

	if listRules, _ := cmd.Flags().GetBool("rules"); listRules {
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("Rules"))
		for i, r := range style.Rules {
			mark := " "
			if r.Match(p) {
				mark = theme.Good.Render("•")
			}
			fmt.Fprintf(out, "%s %d. %-26s → %s\n", mark, i+1, r.Name, theme.Badge(r.Style))
		}
		fmt.Fprintf(out, "     %-26s → %s\n", "default", theme.Badge(style.StoryAnalogy))
	}
	return nil
}

func profileFromFlags(cmd *cobra.Command) (profile.Profile, error) {
	p := profile.Default()
	var err error

	v, _ := cmd.Flags().GetString("learning-style")
	if p.LearningStyle, err = profile.ParseLearningStyle(v); err != nil {
		return p, err
	}
	v, _ = cmd.Flags().GetString("pace")
	if p.Pace, err = profile.ParsePace(v); err != nil {
		return p, err
	}
	v, _ = cmd.Flags().GetString("confidence")
	if p.Confidence, err = profile.ParseConfidence(v); err != nil {
		return p, err
	}
	v, _ = cmd.Flags().GetString("depth")
	if p.DepthPreference, err = profile.ParseDepth(v); err != nil {
		return p, err
	}
	return p, nil
}
