package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/aib-club/internal/reveal"
)

// countdownCmd prints where the launch gate stands right now
var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Print the launch phase and time remaining",
	Args:  cobra.NoArgs,
	RunE:  runCountdown,
}

func runCountdown(cmd *cobra.Command, args []string) error {
	launch, err := cfg.LaunchTime(launchAt)
	if err != nil {
		return err
	}
	now := time.Now()
	phase := reveal.Initialize(launch, now)
	logger.Debug("countdown", zap.Time("launch_at", launch), zap.Stringer("phase", phase))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Launch:  %s\n", launch.Format(time.RFC1123))
	fmt.Fprintf(out, "Phase:   %s (%s)\n", phase.FriendlyName(), phase)
	if snap, ok := reveal.SnapshotAt(launch, now); ok {
		fmt.Fprintf(out, "Remains: %s\n", snap)
	} else {
		fmt.Fprintln(out, "Remains: launched")
	}
	return nil
}
