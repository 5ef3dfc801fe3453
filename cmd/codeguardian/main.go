package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeguardian/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "codeguardian:", err)
		os.Exit(1)
	}
}
