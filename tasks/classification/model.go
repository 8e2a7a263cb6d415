package classification

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
		"learning_rate": 0.05,
	}
}

// Model is a logistic readout classifier trained by per-graph gradient steps
// on the cross-entropy loss. The tracked metric is the error rate, so lower
// remains better.
type Model struct {
	params hyper.Params
	rng    *rand.Rand

	weights *mat.VecDense
	bias    float64
	built   bool
}

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

type epochResults struct {
	probabilities []float64
	labels        []float64
}

func (m *Model) RunOneEpoch(ctx context.Context, batches []gnn.Batch, training, quiet bool) (float64, float64, gnn.EpochResults, error) {
	if !m.built {
		return 0, 0, nil, fmt.Errorf("model used before Build")
	}
	variant := m.params.String(gnn.MessagePassingKey, "mean")
	lr := m.params.Float("learning_rate", 0.05)

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
			prob := sigmoid(mat.Dot(readout, m.weights) + m.bias)
			totalLoss += crossEntropy(prob, g.Target)

			if training {
				residual := prob - g.Target
				for i := 0; i < m.weights.Len(); i++ {
					m.weights.SetVec(i, m.weights.AtVec(i)-lr*residual*readout.AtVec(i))
				}
				m.bias -= lr * residual
			}
			results.probabilities = append(results.probabilities, prob)
			results.labels = append(results.labels, g.Target)
		}
	}

	n := len(results.probabilities)
	if n == 0 {
		return 0, 0, results, nil
	}
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		elapsed = 1e-9
	}
	return totalLoss / float64(n), float64(n) / elapsed, results, nil
}

// ComputeEpochMetrics reduces an epoch to the classification error rate.
func (m *Model) ComputeEpochMetrics(raw gnn.EpochResults) (float64, string) {
	results := raw.(*epochResults)
	wrong := 0
	for i, prob := range results.probabilities {
		predicted := 0.0
		if prob >= 0.5 {
			predicted = 1.0
		}
		if predicted != results.labels[i] {
			wrong++
		}
	}
	errorRate := 0.0
	if len(results.probabilities) > 0 {
		errorRate = float64(wrong) / float64(len(results.probabilities))
	}
	return errorRate, fmt.Sprintf("Accuracy: %.4f (error rate %.5f)", 1-errorRate, errorRate)
}

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

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func crossEntropy(prob, label float64) float64 {
	const eps = 1e-10
	if label > 0.5 {
		return -math.Log(math.Max(prob, eps))
	}
	return -math.Log(math.Max(1-prob, eps))
}
