package main

import (
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	exitCode := Execute()
	os.Exit(exitCode)
}
