package vitals

// Prediction is the single output shape both classification paths
// normalize to.
type Prediction struct {
	IsAbnormal   int     `json:"is_abnormal"`
	Confidence   float64 `json:"confidence"`
	AlertMessage string  `json:"alert_message"`
	HeartRate    float64 `json:"heart_rate"`
	Temperature  float64 `json:"temperature"`
	Age          int     `json:"age"`
}

// Classifier produces a verdict for one reading. Resolved once at
// startup: model-backed when an artifact loaded, threshold-backed
// otherwise.
type Classifier interface {
	Predict(heartRate, temperature float64, age int) Prediction
}

type modelClassifier struct {
	model *Model
}

// NewModelClassifier wraps a parsed artifact. The model supplies the
// abnormality flag and confidence; the alert text always comes from the
// threshold engine so explanations stay auditable.
func NewModelClassifier(artifact []byte) (Classifier, error) {
	m, err := ParseModel(artifact)
	if err != nil {
		return nil, err
	}
	return modelClassifier{model: m}, nil
}

func (c modelClassifier) Predict(heartRate, temperature float64, age int) Prediction {
	class, confidence := c.model.Predict(heartRate, temperature, age)
	verdict := Evaluate(heartRate, temperature, age)

	return Prediction{
		IsAbnormal:   class,
		Confidence:   confidence,
		AlertMessage: verdict.AlertMessage,
		HeartRate:    heartRate,
		Temperature:  temperature,
		Age:          age,
	}
}

type thresholdClassifier struct{}

// NewThresholdClassifier is the always-available rule-based path, used
// when no model artifact could be loaded. Confidence is a fixed nominal
// value since no posterior exists.
func NewThresholdClassifier() Classifier {
	return thresholdClassifier{}
}

const fallbackConfidence = 0.5

func (thresholdClassifier) Predict(heartRate, temperature float64, age int) Prediction {
	verdict := Evaluate(heartRate, temperature, age)

	abnormal := 0
	if verdict.IsAbnormal {
		abnormal = 1
	}

	return Prediction{
		IsAbnormal:   abnormal,
		Confidence:   fallbackConfidence,
		AlertMessage: verdict.AlertMessage,
		HeartRate:    heartRate,
		Temperature:  temperature,
		Age:          age,
	}
}
