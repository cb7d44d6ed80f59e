package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/campusrec/campusrec/internal/domain/auth"
	"github.com/campusrec/campusrec/internal/domain/catalog"
)

var (
	professorInput   catalog.ProfessorInput
	professorCourses []string
	byCourseCode     string
)

var professorsCmd = &cobra.Command{
	Use:   "professors",
	Short: "Browse and manage professors",
}

var professorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List professors, optionally filtered by course",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireRole(""); err != nil {
			return err
		}

		// The course filter is a direct read; the unfiltered listing
		// goes through the cached context.
		if byCourseCode != "" {
			profs, err := a.client.ProfessorsByCourse(cmd.Context(), byCourseCode)
			if err != nil {
				return err
			}
			return printProfessors(profs)
		}

		rc := a.professorsContext()
		defer rc.Close()
		rc.Fetch(cmd.Context(), a.forceMock())

		st := rc.State()
		if note := sourceNote(st); note != "" {
			fmt.Fprintln(os.Stderr, note)
		}
		return printProfessors(st.Items)
	},
}

func printProfessors(profs []catalog.Professor) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDEPARTMENT\tRATING\tCOURSES")
	for _, p := range profs {
		rating := ""
		if p.Rating > 0 {
			rating = fmt.Sprintf("%.1f", p.Rating)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Department, rating, strings.Join(p.Courses, ", "))
	}
	return w.Flush()
}

var professorsGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Show one professor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireRole(""); err != nil {
			return err
		}

		rc := a.professorsContext()
		defer rc.Close()
		rc.Fetch(cmd.Context(), a.forceMock())

		p, ok := rc.GetByID(args[0])
		if !ok {
			return fmt.Errorf("professor %q not found", args[0])
		}
		fmt.Printf("Name:       %s\n", p.Name)
		if p.Email != "" {
			fmt.Printf("Email:      %s\n", p.Email)
		}
		if p.Department != "" {
			fmt.Printf("Department: %s\n", p.Department)
		}
		if p.Rating > 0 {
			fmt.Printf("Rating:     %.1f\n", p.Rating)
		}
		if len(p.Courses) > 0 {
			fmt.Printf("Courses:    %s\n", strings.Join(p.Courses, ", "))
		}
		return nil
	},
}

var professorsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new professor",
	RunE: func(cmd *cobra.Command, args []string) error {
		professorInput.Courses = professorCourses
		return runProfessorMutation(func(a *app, ctx context.Context) error {
			return a.client.CreateProfessor(ctx, professorInput)
		}, "Professor created.")
	},
}

var professorsUpdateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Update an existing professor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		professorInput.Courses = professorCourses
		return runProfessorMutation(func(a *app, ctx context.Context) error {
			return a.client.UpdateProfessor(ctx, args[0], professorInput)
		}, "Professor updated.")
	},
}

var professorsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a professor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfessorMutation(func(a *app, ctx context.Context) error {
			return a.client.DeleteProfessor(ctx, args[0])
		}, "Professor deleted.")
	},
}

func runProfessorMutation(op func(*app, context.Context) error, doneMsg string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireRole(auth.RoleAdmin); err != nil {
		return err
	}

	rc := a.professorsContext()
	defer rc.Close()
	ctx := context.Background()
	rc.Fetch(ctx, a.forceMock())

	if err := rc.Mutate(ctx, func(ctx context.Context) error {
		return op(a, ctx)
	}); err != nil {
		return err
	}
	fmt.Println(doneMsg)
	return nil
}

func init() {
	professorsListCmd.Flags().StringVar(&byCourseCode, "course", "", "only professors teaching this course code")

	for _, c := range []*cobra.Command{professorsCreateCmd, professorsUpdateCmd} {
		c.Flags().StringVar(&professorInput.Name, "name", "", "full name")
		c.Flags().StringVar(&professorInput.Email, "email", "", "email address (optional)")
		c.Flags().StringVar(&professorInput.Department, "department", "", "department (optional)")
		c.Flags().StringSliceVar(&professorCourses, "courses", nil, "course codes taught")
	}

	professorsCmd.AddCommand(professorsListCmd, professorsGetCmd, professorsCreateCmd, professorsUpdateCmd, professorsDeleteCmd)
	rootCmd.AddCommand(professorsCmd)
}
