// Command bread runs the Bread Therapist Collective in a terminal.
package main

import "github.com/berth-dev/bread/internal/cli"

func main() {
	cli.Execute()
}
