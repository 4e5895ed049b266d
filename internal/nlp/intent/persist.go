package intent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

const modelFormatVersion = 1

// modelSchema guards restores against truncated or hand-edited artifacts
// before any field is trusted.
const modelSchema = `{
	"type": "object",
	"required": ["version", "feature_space", "classifier"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"feature_space": {
			"type": "object",
			"required": ["ngram_min", "ngram_max", "terms"],
			"properties": {
				"ngram_min": {"type": "integer", "minimum": 1},
				"ngram_max": {"type": "integer", "minimum": 1},
				"terms": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["term", "idf"],
						"properties": {
							"term": {"type": "string", "minLength": 1},
							"idf": {"type": "number"}
						}
					}
				}
			}
		},
		"classifier": {
			"type": "object",
			"required": ["classes", "weights", "bias"],
			"properties": {
				"classes": {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1},
				"weights": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
				"bias": {"type": "array", "items": {"type": "number"}}
			}
		}
	}
}`

type modelBlob struct {
	Version      int              `json:"version"`
	FeatureSpace featureSpaceBlob `json:"feature_space"`
	Classifier   classifierBlob   `json:"classifier"`
}

type featureSpaceBlob struct {
	NgramMin int    `json:"ngram_min"`
	NgramMax int    `json:"ngram_max"`
	Terms    []Term `json:"terms"`
}

type classifierBlob struct {
	Classes []string    `json:"classes"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// Save serializes a trained model as JSON.
func (m *Model) Save(w io.Writer) error {
	if !m.trained {
		return ErrNotTrained
	}

	blob := modelBlob{
		Version: modelFormatVersion,
		FeatureSpace: featureSpaceBlob{
			NgramMin: m.vectorizer.NgramMin,
			NgramMax: m.vectorizer.NgramMax,
			Terms:    m.vectorizer.Terms,
		},
		Classifier: classifierBlob{
			Classes: m.classes,
			Weights: m.weights,
			Bias:    m.bias,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(blob)
}

// SaveFile writes the model artifact to path, creating parent directories.
func (m *Model) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer f.Close()

	if err := m.Save(f); err != nil {
		return err
	}
	return f.Close()
}

// Load restores a model from a saved artifact. The payload is validated
// against the artifact schema and dimension-checked before being trusted,
// so truncated or mismatched files fail with ErrCorruptModel instead of
// producing a model that panics at predict time.
func (m *Model) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(modelSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}
	if !result.Valid() {
		return fmt.Errorf("%w: %s", ErrCorruptModel, result.Errors()[0])
	}

	var blob modelBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}
	if blob.Version != modelFormatVersion {
		return fmt.Errorf("%w: unsupported artifact version %d", ErrCorruptModel, blob.Version)
	}
	if err := checkDimensions(&blob); err != nil {
		return err
	}

	vectorizer := &Vectorizer{
		NgramMin: blob.FeatureSpace.NgramMin,
		NgramMax: blob.FeatureSpace.NgramMax,
		Terms:    blob.FeatureSpace.Terms,
	}
	vectorizer.rebuildIndex()

	m.vectorizer = vectorizer
	m.classes = blob.Classifier.Classes
	m.weights = blob.Classifier.Weights
	m.bias = blob.Classifier.Bias
	m.trained = true
	return nil
}

// LoadFile restores a model from path. A missing file maps to
// ErrModelMissing so callers can distinguish "never trained" from a
// damaged artifact.
func (m *Model) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrModelMissing, path)
		}
		return fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	return m.Load(f)
}

func checkDimensions(blob *modelBlob) error {
	numClasses := len(blob.Classifier.Classes)
	numFeatures := len(blob.FeatureSpace.Terms)

	if len(blob.Classifier.Weights) != numClasses {
		return fmt.Errorf("%w: %d weight rows for %d classes", ErrCorruptModel, len(blob.Classifier.Weights), numClasses)
	}
	if len(blob.Classifier.Bias) != numClasses {
		return fmt.Errorf("%w: %d bias terms for %d classes", ErrCorruptModel, len(blob.Classifier.Bias), numClasses)
	}
	for c, row := range blob.Classifier.Weights {
		if len(row) != numFeatures {
			return fmt.Errorf("%w: weight row %d has %d values for %d features", ErrCorruptModel, c, len(row), numFeatures)
		}
	}
	return nil
}
