package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusrec/campusrec/internal/domain/auth"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login [email-or-carnet]",
	Short: "Sign in with an email or carnet",
	Long: `Sign in against the backend and save the session locally.

The identifier may be an email address or a carnet number. When the
backend cannot be reached, a fixed pair of demo accounts still works:

  estudiante@uvg.edu.gt / password123   (student)
  admin@uvg.edu.gt / admin123           (administrator)

The password is read from --password or the CAMPUSREC_PASSWORD
environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("CAMPUSREC_PASSWORD")
		}
		if password == "" {
			return fmt.Errorf("no password given; use --password or CAMPUSREC_PASSWORD")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.gateway.Login(cmd.Context(), auth.Credentials{
			Identifier: args[0],
			Password:   password,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Signed in as %s (%s)\n", sess.Name, sess.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	rootCmd.AddCommand(loginCmd)
}
