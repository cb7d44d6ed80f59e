// Command campusrec is a CLI client for the course and professor
// recommendation platform.
package main

import "github.com/campusrec/campusrec/cmd/campusrec/cmd"

func main() {
	cmd.Execute()
}
