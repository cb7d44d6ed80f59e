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

var studentInput catalog.StudentInput

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Browse and manage students",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all students",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireRole(""); err != nil {
			return err
		}

		rc := a.studentsContext()
		defer rc.Close()
		rc.Fetch(cmd.Context(), a.forceMock())

		st := rc.State()
		if note := sourceNote(st); note != "" {
			fmt.Fprintln(os.Stderr, note)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CARNET\tNAME\tEMAIL\tCAREER")
		for _, s := range st.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Carnet, s.Name, s.Email, s.Career)
		}
		return w.Flush()
	},
}

var studentsGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Show one student",
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

		rc := a.studentsContext()
		defer rc.Close()
		rc.Fetch(cmd.Context(), a.forceMock())

		s, ok := rc.GetByID(args[0])
		if !ok {
			return fmt.Errorf("student %q not found", args[0])
		}
		fmt.Printf("Name:   %s\n", s.Name)
		fmt.Printf("Carnet: %s\n", s.Carnet)
		fmt.Printf("Email:  %s\n", s.Email)
		if s.Career != "" {
			fmt.Printf("Career: %s\n", s.Career)
		}
		return nil
	},
}

var studentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new student",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudentMutation(func(a *app, ctx context.Context) error {
			return a.client.CreateStudent(ctx, studentInput)
		}, "Student created.")
	},
}

var studentsUpdateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Update an existing student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudentMutation(func(a *app, ctx context.Context) error {
			return a.client.UpdateStudent(ctx, args[0], studentInput)
		}, "Student updated.")
	},
}

var studentsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudentMutation(func(a *app, ctx context.Context) error {
			return a.client.DeleteStudent(ctx, args[0])
		}, "Student deleted.")
	},
}

// runStudentMutation wires the shared admin-gated mutation flow: the
// context must be API-backed or the mutation is rejected locally.
func runStudentMutation(op func(*app, context.Context) error, doneMsg string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireRole(auth.RoleAdmin); err != nil {
		return err
	}

	rc := a.studentsContext()
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
	for _, c := range []*cobra.Command{studentsCreateCmd, studentsUpdateCmd} {
		c.Flags().StringVar(&studentInput.Carnet, "carnet", "", "carnet number")
		c.Flags().StringVar(&studentInput.Name, "name", "", "full name")
		c.Flags().StringVar(&studentInput.Email, "email", "", "email address")
		c.Flags().StringVar(&studentInput.Password, "password", "", "initial password (optional)")
		c.Flags().StringVar(&studentInput.Career, "career", "", "career (optional)")
	}

	studentsCmd.AddCommand(studentsListCmd, studentsGetCmd, studentsCreateCmd, studentsUpdateCmd, studentsDeleteCmd)
	rootCmd.AddCommand(studentsCmd)
}
