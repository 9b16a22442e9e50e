package main

import (
	"os"

	"github.com/intersystems-ib/customer-support-agent-demo/cmd/support-agent/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
