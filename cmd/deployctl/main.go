package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vpittamp/backstage-app/cmd/deployctl/deps"
)

const (
	// ReturnCodeSuccess is passed to os.Exit() when no error is reported.
	ReturnCodeSuccess = 0
	// ReturnCodeError is passed to os.Exit() if a command reports an error.
	ReturnCodeError = 1
)

func main() {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt)
	os.Exit(run(ctx))
}

func run(ctx context.Context) int {
	container, err := deps.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ReturnCodeError
	}

	err = container.Invoke(func(cmd *cobra.Command) error {
		return cmd.ExecuteContext(ctx)
	})
	if err != nil {
		return ReturnCodeError
	}

	return ReturnCodeSuccess
}
