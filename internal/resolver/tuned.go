package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChenchengLiang/tf2-gnn/internal/ctxlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
)

// TunedDefaults are task+model-specific hyperparameters tuned offline and
// shipped as JSON files named {task}_{messagePassing}.json.
type TunedDefaults struct {
	TaskParams  hyper.Params `json:"task_params"`
	ModelParams hyper.Params `json:"model_params"`
}

// LoadTunedDefaults probes dir for the tuned-defaults file of a task/model
// combination. A missing file is not an error: most combinations ship no
// tuned file and fall back to the global defaults. A file that exists but
// fails to parse is fatal.
func LoadTunedDefaults(ctx context.Context, dir, taskName, messagePassing string) (TunedDefaults, error) {
	logger := ctxlog.FromContext(ctx)
	empty := TunedDefaults{TaskParams: hyper.Params{}, ModelParams: hyper.Params{}}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", taskName, messagePassing))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("No tuned default hyperparameters found, using global defaults.", "path", path)
			return empty, nil
		}
		return empty, fmt.Errorf("failed to read tuned defaults %s: %w", path, err)
	}

	var tuned TunedDefaults
	if err := json.Unmarshal(data, &tuned); err != nil {
		return empty, fmt.Errorf("failed to parse tuned defaults %s: %w", path, err)
	}
	if tuned.TaskParams == nil {
		tuned.TaskParams = hyper.Params{}
	}
	if tuned.ModelParams == nil {
		tuned.ModelParams = hyper.Params{}
	}
	logger.Info("Loaded tuned default hyperparameters.", "path", path)
	return tuned, nil
}
