package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/campusrec/campusrec/internal/domain/auth"
	"github.com/campusrec/campusrec/internal/domain/catalog"
)

var courseInput catalog.CourseInput

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Browse and manage the course catalog",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireRole(""); err != nil {
			return err
		}

		rc := a.coursesContext()
		defer rc.Close()
		rc.Fetch(cmd.Context(), a.forceMock())

		st := rc.State()
		if note := sourceNote(st); note != "" {
			fmt.Fprintln(os.Stderr, note)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tCREDITS\tDEPARTMENT")
		for _, c := range st.Items {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.Code, c.Name, c.Credits, c.Department)
		}
		return w.Flush()
	},
}

var coursesGetCmd = &cobra.Command{
	Use:   "get [code]",
	Short: "Show one course",
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

		rc := a.coursesContext()
		defer rc.Close()
		rc.Fetch(cmd.Context(), a.forceMock())

		c, ok := rc.GetByID(args[0])
		if !ok {
			return fmt.Errorf("course %q not found", args[0])
		}
		fmt.Printf("Code:       %s\n", c.Code)
		fmt.Printf("Name:       %s\n", c.Name)
		if c.Credits > 0 {
			fmt.Printf("Credits:    %d\n", c.Credits)
		}
		if c.Department != "" {
			fmt.Printf("Department: %s\n", c.Department)
		}
		return nil
	},
}

var coursesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a course to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCourseMutation(func(a *app, ctx context.Context) error {
			return a.client.CreateCourse(ctx, courseInput)
		}, "Course created.")
	},
}

var coursesUpdateCmd = &cobra.Command{
	Use:   "update [code]",
	Short: "Update an existing course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCourseMutation(func(a *app, ctx context.Context) error {
			return a.client.UpdateCourse(ctx, args[0], courseInput)
		}, "Course updated.")
	},
}

var coursesDeleteCmd = &cobra.Command{
	Use:   "delete [code]",
	Short: "Remove a course from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCourseMutation(func(a *app, ctx context.Context) error {
			return a.client.DeleteCourse(ctx, args[0])
		}, "Course deleted.")
	},
}

func runCourseMutation(op func(*app, context.Context) error, doneMsg string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireRole(auth.RoleAdmin); err != nil {
		return err
	}

	rc := a.coursesContext()
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
	for _, c := range []*cobra.Command{coursesCreateCmd, coursesUpdateCmd} {
		c.Flags().StringVar(&courseInput.Code, "code", "", "course code")
		c.Flags().StringVar(&courseInput.Name, "name", "", "course name")
		c.Flags().IntVar(&courseInput.Credits, "credits", 0, "credit count (optional)")
		c.Flags().StringVar(&courseInput.Department, "department", "", "department (optional)")
	}

	coursesCmd.AddCommand(coursesListCmd, coursesGetCmd, coursesCreateCmd, coursesUpdateCmd, coursesDeleteCmd)
	rootCmd.AddCommand(coursesCmd)
}
