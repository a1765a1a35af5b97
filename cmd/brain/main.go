// Command brain is the secondbrain CLI.
package main

import "github.com/mesh-intelligence/secondbrain/internal/cli"

func main() {
	cli.Execute()
}
