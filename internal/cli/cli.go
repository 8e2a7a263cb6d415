package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ChenchengLiang/tf2-gnn/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments for the training entry point. It
// returns a populated app.Config, a boolean indicating the program should
// exit cleanly (help requested or usage printed), or an ExitError.
//
// Both spellings are accepted:
//
//	train --model MODEL --task TASK --data-path DATA_PATH
//	train MODEL TASK DATA_PATH
//
// With --hyperdrive-arg-parse, unrecognized "--key value" pairs are captured
// as hyperparameter-search overrides instead of failing the parse.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("train", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
tf2-gnn train - Train a graph neural network model.

Usage:
  train [options] [MODEL TASK DATA_PATH]

Arguments:
  MODEL      Message-passing implementation to train with.
  TASK       Task to train a model for.
  DATA_PATH  Directory containing the task data.

Options:
`)
		flagSet.PrintDefaults()
	}

	modelFlag := flagSet.String("model", "", "Message-passing implementation to train with.")
	taskFlag := flagSet.String("task", "", "Task to train a model for.")
	dataPathFlag := flagSet.String("data-path", "", "Directory containing the task data.")
	saveDirFlag := flagSet.String("save-dir", "trained_model", "Path in which to store the trained model and log.")
	modelParamsFlag := flagSet.String("model-params-override", "", "JSON object overriding model hyperparameter values.")
	dataParamsFlag := flagSet.String("data-params-override", "", "JSON object overriding data hyperparameter values.")
	maxEpochsFlag := flagSet.Int("max-epochs", 10000, "Maximal number of epochs to train for.")
	patienceFlag := flagSet.Int("patience", 25, "Maximal number of epochs to continue training without improvement.")
	seedFlag := flagSet.Int64("seed", 0, "Random seed to use.")
	runNameFlag := flagSet.String("run-name", "", "A human-readable name for this run.")
	loadSavedModelFlag := flagSet.String("load-saved-model", "", "Optional checkpoint stem to load initial model weights from.")
	quietFlag := flagSet.Bool("quiet", false, "Generate less output during training.")
	runTestFlag := flagSet.Bool("run-test", true, "Run on the test set after training.")
	trackingURLFlag := flagSet.String("tracking-url", "", "Experiment-tracking endpoint to report metrics to. Empty disables tracking.")
	tunedDirFlag := flagSet.String("tuned-hypers-dir", "default_hypers", "Directory probed for tuned {task}_{model}.json default files.")
	logFormatFlag := flagSet.String("log-format", "text", "Diagnostic log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Diagnostic logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.Bool("hyperdrive-arg-parse", false,
		`Interpret unknown options "--key val" as hyperparameter "key" with value "val".`)

	searchOverrides := map[string]string{}
	if hasFlag(args, "hyperdrive-arg-parse") {
		args = extractSearchOverrides(args, flagSet, searchOverrides)
	}

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "search_overrides", len(searchOverrides))

	model, task, dataPath := *modelFlag, *taskFlag, *dataPathFlag
	if model == "" && flagSet.NArg() > 0 {
		positional := flagSet.Args()
		if len(positional) != 3 {
			return nil, false, &ExitError{Code: 2, Message: "expected exactly three positional arguments: MODEL TASK DATA_PATH"}
		}
		model, task, dataPath = positional[0], positional[1], positional[2]
	}

	if model == "" || task == "" || dataPath == "" {
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

	config, err := app.NewConfig(app.Config{
		Model:              model,
		Task:               task,
		DataPath:           dataPath,
		SaveDir:            *saveDirFlag,
		ModelParamOverride: *modelParamsFlag,
		DataParamOverride:  *dataParamsFlag,
		MaxEpochs:          *maxEpochsFlag,
		Patience:           *patienceFlag,
		Seed:               *seedFlag,
		RunName:            *runNameFlag,
		LoadSavedModel:     *loadSavedModelFlag,
		Quiet:              *quietFlag,
		RunTest:            *runTestFlag,
		TrackingURL:        *trackingURLFlag,
		TunedDefaultsDir:   *tunedDirFlag,
		LogFormat:          logFormat,
		LogLevel:           logLevel,
		SearchOverrides:    searchOverrides,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}

// hasFlag reports whether the raw argument list mentions the named flag in
// either -name or --name spelling, with or without an =value suffix.
func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		trimmed := strings.TrimLeft(arg, "-")
		if trimmed == name || strings.HasPrefix(trimmed, name+"=") {
			return true
		}
	}
	return false
}

// extractSearchOverrides removes unknown "--key value" (or "--key=value")
// pairs from args, recording them as search overrides, and returns the
// remaining arguments for normal flag parsing.
func extractSearchOverrides(args []string, flagSet *flag.FlagSet, overrides map[string]string) []string {
	var kept []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			kept = append(kept, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		value := ""
		hasInlineValue := false
		if eq := strings.Index(name, "="); eq >= 0 {
			name, value, hasInlineValue = name[:eq], name[eq+1:], true
		}
		if flagSet.Lookup(name) != nil {
			kept = append(kept, arg)
			continue
		}
		if !hasInlineValue {
			if i+1 >= len(args) {
				// Dangling unknown flag; let flag.Parse report it.
				kept = append(kept, arg)
				continue
			}
			i++
			value = args[i]
		}
		slog.Debug("Captured hyperparameter-search override.", "key", name, "value", value)
		overrides[name] = value
	}
	return kept
}
