package regression

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/tasks/messagepassing"
	"github.com/ChenchengLiang/tf2-gnn/tasks/synthgraph"
	"gonum.org/v1/gonum/mat"
)

// DefaultModelHyperparameters are the class-intrinsic model defaults for a
// message-passing implementation.
func DefaultModelHyperparameters(messagePassing string) hyper.Params {
	return hyper.Params{
		"learning_rate": 0.01,
		"weight_decay":  0.0,
	}
}

// Model is a linear readout regressor: one round of neighbor aggregation,
// mean pooling, then a learned linear map to the scalar target, trained by
// per-graph gradient steps.
type Model struct {
	params hyper.Params
	rng    *rand.Rand

	weights *mat.VecDense
	bias    float64
	built   bool
}

// NewModel constructs the model; weights are sized at Build time.
func NewModel(params hyper.Params, numEdgeTypes int, rng *rand.Rand) *Model {
	return &Model{params: params, rng: rng}
}

func (m *Model) Params() hyper.Params { return m.params }

func (m *Model) Build(desc gnn.BatchDescription) error {
	if m.built {
		return nil
	}
	dim := desc.NodeFeatureDim
	scale := 1 / math.Sqrt(float64(dim))
	m.weights = mat.NewVecDense(dim, nil)
	for i := 0; i < dim; i++ {
		m.weights.SetVec(i, m.rng.NormFloat64()*scale)
	}
	m.built = true
	return nil
}

// epochResults carries per-graph predictions and targets for metric
// aggregation.
type epochResults struct {
	predictions []float64
	targets     []float64
}

func (m *Model) RunOneEpoch(ctx context.Context, batches []gnn.Batch, training, quiet bool) (float64, float64, gnn.EpochResults, error) {
	if !m.built {
		return 0, 0, nil, fmt.Errorf("model used before Build")
	}
	variant := m.params.String(gnn.MessagePassingKey, "mean")
	lr := m.params.Float("learning_rate", 0.01)
	decay := m.params.Float("weight_decay", 0.0)

	results := &epochResults{}
	totalLoss := 0.0
	start := time.Now()

	for _, rawBatch := range batches {
		batch, ok := rawBatch.(synthgraph.Batch)
		if !ok {
			return 0, 0, nil, fmt.Errorf("unexpected batch type %T", rawBatch)
		}
		for _, g := range batch {
			readout, err := messagepassing.Readout(g, variant)
			if err != nil {
				return 0, 0, nil, err
			}
			pred := mat.Dot(readout, m.weights) + m.bias
			residual := pred - g.Target
			totalLoss += residual * residual

			if training {
				for i := 0; i < m.weights.Len(); i++ {
					grad := residual*readout.AtVec(i) + decay*m.weights.AtVec(i)
					m.weights.SetVec(i, m.weights.AtVec(i)-lr*grad)
				}
				m.bias -= lr * residual
			}
			results.predictions = append(results.predictions, pred)
			results.targets = append(results.targets, g.Target)
		}
	}

	n := len(results.predictions)
	if n == 0 {
		return 0, 0, results, nil
	}
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		elapsed = 1e-9
	}
	return totalLoss / float64(n), float64(n) / elapsed, results, nil
}

// ComputeEpochMetrics reduces an epoch to the mean absolute error.
func (m *Model) ComputeEpochMetrics(raw gnn.EpochResults) (float64, string) {
	results := raw.(*epochResults)
	mae := 0.0
	for i, pred := range results.predictions {
		mae += math.Abs(pred - results.targets[i])
	}
	if len(results.predictions) > 0 {
		mae /= float64(len(results.predictions))
	}
	return mae, fmt.Sprintf("Mean absolute error: %.5f", mae)
}

// savedWeights is the on-disk weight format, shared by Save and Load.
type savedWeights struct {
	Version string    `json:"version"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func (m *Model) SaveWeights(stem string) error {
	saved := savedWeights{Version: "1", Weights: m.weights.RawVector().Data, Bias: m.bias}
	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	return os.WriteFile(stem+".weights.json", data, 0o644)
}

func (m *Model) LoadWeights(stem string) error {
	data, err := os.ReadFile(stem + ".weights.json")
	if err != nil {
		return fmt.Errorf("failed to read weights file: %w", err)
	}
	var saved savedWeights
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	m.weights = mat.NewVecDense(len(saved.Weights), saved.Weights)
	m.bias = saved.Bias
	m.built = true
	return nil
}
