package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/aib-club/internal/planner"
)

// planCmd runs the project planner without the UI
var planCmd = &cobra.Command{
	Use:   "plan [idea]",
	Short: "Generate a project plan for an idea",
	Long: `Sends the idea to the plan generator and prints the plan as JSON.

Example:
  aibclub plan "AI-powered study planner"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, cancel := headlessContext(cmd.Context())
	defer cancel()

	gen := newGenerator(ctx)
	plan, err := gen.Generate(ctx, strings.Join(args, " "))
	if err != nil {
		if planner.Classify(err) == planner.ClassAccount {
			return fmt.Errorf("%w\ncheck your API key and billing at %s", err, cfg.AccountURL())
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
