package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	client "github.com/hsn0918/aip-client"
)

// exitTimeout lets scripts tell an abandoned wait apart from a failed call and resume with "job wait".
const exitTimeout = 3

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, &cliOptions{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, client.ErrJobTimeout) {
		return exitTimeout
	}
	return 1
}
