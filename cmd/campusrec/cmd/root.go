// Package cmd provides the CLI commands for campusrec.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusrec/campusrec/internal/config"
)

var (
	cfgFile  string
	demoMode bool
)

var rootCmd = &cobra.Command{
	Use:   "campusrec",
	Short: "campusrec - course and professor recommendations client",
	Long: `campusrec is a client for the course and professor recommendation
platform. It talks to the backend API and keeps working when the
backend is down: reads fall back to cached or demo data, and a fixed
pair of demo accounts can still sign in.

Quick start:
  1. Sign in:            campusrec login estudiante@uvg.edu.gt --password password123
  2. Browse courses:     campusrec courses list
  3. Get suggestions:    campusrec recommend

Configuration:
  Config is loaded from campusrec.yaml in the current directory,
  $HOME/.campusrec/, or /etc/campusrec/.

  Environment variables can override config values with the CAMPUSREC_
  prefix. Example: CAMPUSREC_API_BASE_URL=http://localhost:9000/api

Commands:
  login        Sign in with an email or carnet
  logout       Sign out and clear the saved session
  whoami       Show the active session
  students     Browse and manage students
  professors   Browse and manage professors
  courses      Browse and manage courses
  recommend    Get course recommendations for a student
  approve      Record a course approval
  health       Check backend reachability
  hash-password  Generate an Argon2id hash for a password
  version      Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./campusrec.yaml)")
	rootCmd.PersistentFlags().BoolVar(&demoMode, "demo", false, "skip the backend and use demo data")
}

func initConfig() {
	config.InitViper(cfgFile)
}
