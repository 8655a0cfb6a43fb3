package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sanverite/http-probe-bench/internal/core"
	"github.com/sanverite/http-probe-bench/internal/probe"
)

func main() {
	logger := log.Default()

	if err := run(context.Background(), os.Stdout, probe.Config{}); err != nil {
		logger.Fatalf("bench: %v", err)
	}
}

// run executes one full probe loop and writes the success count to w.
func run(ctx context.Context, w io.Writer, cfg probe.Config) error {
	state := core.NewState(cfg.Attempts)
	summary, err := probe.Run(ctx, cfg, state)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, summary.Successes)
	return err
}
