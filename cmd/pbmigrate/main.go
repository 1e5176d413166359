package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrchypark/pocketbase-go-skill/internal/cli"
	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, cmd, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, common.ErrInvalidInput) {
			fmt.Fprint(stderr, config.Usage)
		}
		return 1
	}

	app, err := cli.NewApp(cfg, cmd, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	return app.Run(ctx)
}
