package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sess := a.gateway.Current()
		if sess == nil {
			fmt.Println("Not signed in.")
			return nil
		}

		fmt.Printf("Name:   %s\n", sess.Name)
		fmt.Printf("Role:   %s\n", sess.Role)
		if sess.Email != "" {
			fmt.Printf("Email:  %s\n", sess.Email)
		}
		if sess.Carnet != "" {
			fmt.Printf("Carnet: %s\n", sess.Carnet)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
