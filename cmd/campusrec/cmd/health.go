package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var healthWatch bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend reachability",
	Long: `Probe the backend health endpoint once and report the result.

With --watch, keep probing on the configured interval and report every
time reachability flips, until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.monitor.CheckNow(cmd.Context()) {
			fmt.Println("Backend: DEGRADED (reads fall back to cached/demo data)")
		} else {
			fmt.Println("Backend: OK")
		}

		if !healthWatch {
			return nil
		}

		flips, cancel := a.monitor.Subscribe()
		defer cancel()
		a.monitor.Start()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		for {
			select {
			case <-flips:
				if a.monitor.Degraded() {
					fmt.Println("Backend: DEGRADED")
				} else {
					fmt.Println("Backend: OK")
				}
			case <-sig:
				return nil
			}
		}
	},
}

func init() {
	healthCmd.Flags().BoolVar(&healthWatch, "watch", false, "keep watching and report flips")
	rootCmd.AddCommand(healthCmd)
}
