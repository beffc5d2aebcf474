// @MX:ANCHOR: main is the only entry point of the codegrade binary; exit codes come from cli.ExitCode.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modu-ai/codegrade/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegrade:", err)
		os.Exit(cli.ExitCode(err))
	}
}
