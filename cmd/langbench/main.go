// cmd/langbench/main.go
package main

import (
	cmd "github.com/mwiater/langbench/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main hands control to the cobra root command. Build metadata is injected
// through -ldflags.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
