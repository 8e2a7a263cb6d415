package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ChenchengLiang/tf2-gnn/internal/app"
	"github.com/ChenchengLiang/tf2-gnn/internal/cli"
)

// main is the entrypoint for the checkpoint-evaluation CLI.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	evalConfig, shouldExit, err := cli.ParseEvaluate(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	evalApp := app.NewEvalApp(outW, evalConfig)
	_, err = evalApp.Evaluate(context.Background(), evalConfig)
	return err
}
