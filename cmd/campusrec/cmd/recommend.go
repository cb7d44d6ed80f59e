package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var recommendLimit int

var recommendCmd = &cobra.Command{
	Use:   "recommend [student-name]",
	Short: "Get course recommendations for a student",
	Long: `Get scored professor/course recommendations.

Without an argument, recommendations are fetched for the signed-in
student. Administrators can pass any student name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireRole(""); err != nil {
			return err
		}

		studentName := ""
		if len(args) == 1 {
			studentName = args[0]
		} else if sess := a.gateway.Current(); sess != nil {
			studentName = sess.Name
		}
		if studentName == "" {
			return fmt.Errorf("no student name available; pass one explicitly")
		}

		rc := a.recommendationsContext(studentName, recommendLimit)
		defer rc.Close()
		rc.Fetch(cmd.Context(), a.forceMock())

		st := rc.State()
		if note := sourceNote(st); note != "" {
			fmt.Fprintln(os.Stderr, note)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tCOURSE\tPROFESSOR\tREASON")
		for _, r := range st.Items {
			course := r.CourseCode
			if r.CourseName != "" {
				course += " " + r.CourseName
			}
			fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\n", r.Score, course, r.ProfessorName, r.Reason)
		}
		return w.Flush()
	},
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "maximum number of recommendations (0 = server default)")
	rootCmd.AddCommand(recommendCmd)
}
