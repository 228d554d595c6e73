// The main package for the legislation-crawler executable.
package main

import (
	"github.com/JakeFAU/legislation-crawler/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
