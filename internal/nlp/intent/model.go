// Package intent implements the statistical intent classifier: a TF-IDF
// vectorizer over a frozen n-gram feature space and a multinomial logistic
// regression trained on labeled logistics queries.
//
// A Model is created untrained and becomes usable through Fit or a
// Load/LoadFile restore. After that it is read-only and safe for any
// number of concurrent Predict callers. Retraining builds a new Model
// which the owner swaps in atomically.
package intent

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/textnorm"
)

const (
	maxFeatures = 500
	testRatio   = 0.2
	splitSeed   = 42

	trainEpochs  = 500
	learningRate = 0.5
)

var (
	ErrNotTrained    = errors.New("MODEL_NOT_TRAINED")
	ErrCorruptModel  = errors.New("MODEL_CORRUPT")
	ErrModelMissing  = errors.New("MODEL_MISSING")
	ErrDatasetFormat = errors.New("DATASET_FORMAT_INVALID")
)

// Intents is the closed label set the classifier is trained on.
var Intents = []string{
	"CHECK_RATE",
	"CHECK_SERVICEABILITY",
	"BOOK_PICKUP",
	"TRACK_ORDER",
	"CANCEL_ORDER",
	"RESCHEDULE_PICKUP",
	"RAISE_COMPLAINT",
	"CONNECT_TO_AGENT",
	"PAYMENT_QUERY",
	"DOCUMENT_UPLOAD_QUERY",
}

// Example is one labeled training sample.
type Example struct {
	Text   string `json:"text"`
	Intent string `json:"intent"`
}

// Prediction is the classifier output for a single query.
type Prediction struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Model holds the frozen feature space and classifier parameters.
type Model struct {
	vectorizer *Vectorizer
	classes    []string
	weights    [][]float64 // classes x features
	bias       []float64
	trained    bool
}

// New creates an untrained Model.
func New() *Model {
	return &Model{}
}

// Trained reports whether the model can serve predictions.
func (m *Model) Trained() bool {
	return m.trained
}

// Classes returns the label set learned at training time.
func (m *Model) Classes() []string {
	out := make([]string, len(m.classes))
	copy(out, m.classes)
	return out
}

// Fit trains the classifier on labeled examples. Texts are normalized, an
// n-gram vocabulary is built from the training split only, and a softmax
// classifier is fit by deterministic full-batch gradient descent. The
// returned report holds held-out accuracy and per-class metrics.
func (m *Model) Fit(examples []Example) (*Report, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrDatasetFormat)
	}
	for i, ex := range examples {
		if ex.Text == "" || ex.Intent == "" {
			return nil, fmt.Errorf("%w: row %d has an empty text or intent column", ErrDatasetFormat, i)
		}
	}

	train, test, err := stratifiedSplit(examples, testRatio, splitSeed)
	if err != nil {
		return nil, err
	}

	classes := collectClasses(train)
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	trainDocs := make([]string, len(train))
	yTrain := make([]int, len(train))
	for i, ex := range train {
		trainDocs[i] = textnorm.Normalize(ex.Text)
		yTrain[i] = classIndex[ex.Intent]
	}

	vectorizer := NewVectorizer()
	vectorizer.Fit(trainDocs)

	xTrain := make([][]float64, len(trainDocs))
	for i, doc := range trainDocs {
		xTrain[i] = vectorizer.Transform(doc)
	}

	weights, bias := trainSoftmax(xTrain, yTrain, len(classes), vectorizer.NumFeatures())

	m.vectorizer = vectorizer
	m.classes = classes
	m.weights = weights
	m.bias = bias
	m.trained = true

	yTest := make([]int, len(test))
	yPred := make([]int, len(test))
	for i, ex := range test {
		yTest[i] = classIndex[ex.Intent]
		probs := m.posteriors(vectorizer.Transform(textnorm.Normalize(ex.Text)))
		yPred[i] = argmax(probs)
	}

	return buildReport(yTest, yPred, classes), nil
}

// Predict classifies a single query. It fails with ErrNotTrained until the
// model has been fit or restored. Read-only, safe under concurrent calls.
func (m *Model) Predict(text string) (Prediction, error) {
	if !m.trained {
		return Prediction{}, ErrNotTrained
	}

	vec := m.vectorizer.Transform(textnorm.Normalize(text))
	probs := m.posteriors(vec)
	best := argmax(probs)

	return Prediction{
		Intent:     m.classes[best],
		Confidence: math.Round(probs[best]*100) / 100,
	}, nil
}

// posteriors computes softmax class probabilities for a feature vector.
func (m *Model) posteriors(vec []float64) []float64 {
	scores := make([]float64, len(m.classes))
	for c := range m.classes {
		s := m.bias[c]
		row := m.weights[c]
		for j, v := range vec {
			if v != 0 {
				s += row[j] * v
			}
		}
		scores[c] = s
	}
	return softmax(scores)
}

// trainSoftmax fits multinomial logistic regression with full-batch
// gradient descent. No randomness: weights start at zero and the update
// order is fixed, so identical inputs produce identical parameters.
func trainSoftmax(x [][]float64, y []int, numClasses, numFeatures int) ([][]float64, []float64) {
	weights := make([][]float64, numClasses)
	for c := range weights {
		weights[c] = make([]float64, numFeatures)
	}
	bias := make([]float64, numClasses)

	gradW := make([][]float64, numClasses)
	for c := range gradW {
		gradW[c] = make([]float64, numFeatures)
	}
	gradB := make([]float64, numClasses)

	n := float64(len(x))
	for epoch := 0; epoch < trainEpochs; epoch++ {
		for c := range gradW {
			for j := range gradW[c] {
				gradW[c][j] = 0
			}
			gradB[c] = 0
		}

		for i, xi := range x {
			scores := make([]float64, numClasses)
			for c := range scores {
				s := bias[c]
				for j, v := range xi {
					if v != 0 {
						s += weights[c][j] * v
					}
				}
				scores[c] = s
			}
			probs := softmax(scores)

			for c := range probs {
				diff := probs[c]
				if c == y[i] {
					diff -= 1
				}
				if diff == 0 {
					continue
				}
				for j, v := range xi {
					if v != 0 {
						gradW[c][j] += diff * v
					}
				}
				gradB[c] += diff
			}
		}

		step := learningRate / n
		for c := range weights {
			for j := range weights[c] {
				weights[c][j] -= step * gradW[c][j]
			}
			bias[c] -= step * gradB[c]
		}
	}

	return weights, bias
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func argmax(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}

func collectClasses(examples []Example) []string {
	seen := make(map[string]bool)
	classes := []string{}
	for _, ex := range examples {
		if !seen[ex.Intent] {
			seen[ex.Intent] = true
			classes = append(classes, ex.Intent)
		}
	}
	sort.Strings(classes)
	return classes
}
