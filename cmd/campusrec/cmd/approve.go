package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusrec/campusrec/internal/domain/catalog"
	"github.com/campusrec/campusrec/internal/metrics"
	"github.com/campusrec/campusrec/internal/service/resource"
)

var approval catalog.Approval

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Record a course approval",
	Long: `Record that a student passed a course with a professor. Approvals
feed the recommendation scoring on the backend.

Approvals are direct writes: they require the backend to be reachable
and are rejected locally in demo mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireRole(""); err != nil {
			return err
		}

		if approval.StudentName == "" {
			if sess := a.gateway.Current(); sess != nil {
				approval.StudentName = sess.Name
			}
		}

		if err := runApprove(cmd.Context(), a, approval); err != nil {
			return err
		}
		fmt.Printf("Approval recorded: %s passed %s with %s\n",
			approval.StudentName, approval.CourseCode, approval.ProfessorName)
		return nil
	},
}

// runApprove registers an approval, subject to the same demo-mode
// blocking as every other mutation: in demo mode or while the backend
// is degraded it fails locally with no network call.
func runApprove(ctx context.Context, a *app, ap catalog.Approval) error {
	if a.forceMock() || a.monitor.Degraded() {
		metrics.MutationsBlocked.WithLabelValues("approvals").Inc()
		return fmt.Errorf("%w: approvals require a reachable backend", resource.ErrDemoModeRestriction)
	}
	return a.client.RegisterApproval(ctx, ap)
}

func init() {
	approveCmd.Flags().StringVar(&approval.StudentName, "student", "", "student name (default: signed-in student)")
	approveCmd.Flags().StringVar(&approval.ProfessorName, "professor", "", "professor name")
	approveCmd.Flags().StringVar(&approval.CourseCode, "course", "", "course code")
	rootCmd.AddCommand(approveCmd)
}
