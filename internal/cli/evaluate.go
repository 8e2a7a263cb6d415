package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ChenchengLiang/tf2-gnn/internal/app"
)

// ParseEvaluate processes command-line arguments for the evaluation entry
// point. Both spellings are accepted:
//
//	evaluate --trained-model STEM --data-path DATA_PATH
//	evaluate STEM DATA_PATH
func ParseEvaluate(args []string, output io.Writer) (*app.EvalConfig, bool, error) {
	slog.Debug("Evaluate CLI parser started.")
	flagSet := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
tf2-gnn evaluate - Evaluate a stored model checkpoint on the test fold.

Usage:
  evaluate [options] [TRAINED_MODEL DATA_PATH]

Arguments:
  TRAINED_MODEL  Checkpoint stem of the stored model (without extension).
  DATA_PATH      Directory containing the task data.

Options:
`)
		flagSet.PrintDefaults()
	}

	trainedModelFlag := flagSet.String("trained-model", "", "Checkpoint stem of the stored model (without extension).")
	dataPathFlag := flagSet.String("data-path", "", "Directory containing the task data.")
	quietFlag := flagSet.Bool("quiet", false, "Generate less output during evaluation.")
	trackingURLFlag := flagSet.String("tracking-url", "", "Experiment-tracking endpoint to report metrics to. Empty disables tracking.")
	logFormatFlag := flagSet.String("log-format", "text", "Diagnostic log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Diagnostic logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	trainedModel, dataPath := *trainedModelFlag, *dataPathFlag
	if trainedModel == "" && flagSet.NArg() > 0 {
		positional := flagSet.Args()
		if len(positional) != 2 {
			return nil, false, &ExitError{Code: 2, Message: "expected exactly two positional arguments: TRAINED_MODEL DATA_PATH"}
		}
		trainedModel, dataPath = positional[0], positional[1]
	}

	if trainedModel == "" || dataPath == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewEvalConfig(app.EvalConfig{
		TrainedModelStem: trainedModel,
		DataPath:         dataPath,
		Quiet:            *quietFlag,
		TrackingURL:      *trackingURLFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("Evaluate CLI parser finished successfully.")
	return config, false, nil
}
