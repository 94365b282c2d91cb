// The main package for the xscrape executable.
package main

import "github.com/xscrape/xscrape/cmd"

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
