package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/docsync/internal/adapters/outbound/tui"
)

func newRulesCmd(g *globalFlags) *cobra.Command {
	var (
		rulesPath  string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active validation rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g, rulesPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd.OutOrStdout(), s.svc.Rules())
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(s.svc.Rules()))
			return nil
		},
	}
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file replacing the configured rules")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output rules as JSON")
	return cmd
}
