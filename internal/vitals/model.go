package vitals

import (
	"encoding/json"
	"fmt"
)

// Feature indexes in the model input vector [heart_rate, temperature, age].
const (
	featureHeartRate   = 0
	featureTemperature = 1
	featureAge         = 2
	featureCount       = 3
)

// treeNode is one node of a flattened binary decision tree. Interior
// nodes split on features[Feature] <= Threshold (left) vs > (right).
// Leaves have Left == -1 and carry the class plus both class posteriors.
type treeNode struct {
	Feature   int        `json:"feature"`
	Threshold float64    `json:"threshold"`
	Left      int        `json:"left"`
	Right     int        `json:"right"`
	Class     int        `json:"class"`
	Probs     [2]float64 `json:"probs"`
}

func (n treeNode) leaf() bool { return n.Left < 0 }

// Model is a pre-trained binary decision tree over the feature triple.
// Immutable after ParseModel.
type Model struct {
	Nodes []treeNode `json:"nodes"`
}

// ParseModel decodes and validates a serialized tree artifact.
func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if len(m.Nodes) == 0 {
		return nil, fmt.Errorf("model artifact has no nodes")
	}
	for i, n := range m.Nodes {
		if n.leaf() {
			if n.Class != 0 && n.Class != 1 {
				return nil, fmt.Errorf("node %d: class %d out of range", i, n.Class)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= featureCount {
			return nil, fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left >= len(m.Nodes) || n.Right < 0 || n.Right >= len(m.Nodes) {
			return nil, fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return &m, nil
}

// Predict walks the tree for one input vector and returns the predicted
// class and the winning class's posterior probability.
func (m *Model) Predict(heartRate, temperature float64, age int) (int, float64) {
	features := [featureCount]float64{heartRate, temperature, float64(age)}

	idx := 0
	// Node count bounds the walk even if the artifact encodes a cycle.
	for steps := 0; steps <= len(m.Nodes); steps++ {
		n := m.Nodes[idx]
		if n.leaf() {
			return n.Class, n.Probs[n.Class]
		}
		if features[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return 0, 0
}
