// Package main is the entry point for the appstack CLI.
//
// appstack turns one declarative stack file into the resources that serve an
// application on Kubernetes: namespace, public address, DNS record,
// certificate, deployment, disruption budget, service and ingress. Each
// resource is created only when the stack needs it.
//
// Commands: init, validate, render, apply.
//
// For detailed usage information, run:
//
//	appstack --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/appstack/cmd/appstack/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
