// Command pagewait runs browser wait plans against a page and serves the
// fixture pages used to try them out.
//
//	pagewait probe --url http://localhost:8080 --plan plan.yaml --metrics
//	pagewait serve --addr :8080
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
