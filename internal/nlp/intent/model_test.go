package intent

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingExamples() []Example {
	return []Example{
		{Text: "What is the rate from Mumbai to Delhi for 5kg", Intent: "CHECK_RATE"},
		{Text: "How much to ship 10 kg from Pune to Bangalore", Intent: "CHECK_RATE"},
		{Text: "Rate batao Mumbai se Delhi 2kg parcel", Intent: "CHECK_RATE"},
		{Text: "Price for shipping 15kg from Hyderabad", Intent: "CHECK_RATE"},
		{Text: "Shipping charges from Noida to Gurgaon", Intent: "CHECK_RATE"},
		{Text: "Tell me the courier rate for 20 kg", Intent: "CHECK_RATE"},
		{Text: "Book a pickup from Andheri to Powai 2 boxes", Intent: "BOOK_PICKUP"},
		{Text: "I want to schedule a pickup tomorrow morning", Intent: "BOOK_PICKUP"},
		{Text: "Pickup karna hai Bandra se Kurla 3 packages", Intent: "BOOK_PICKUP"},
		{Text: "Schedule a courier pickup from Mumbai 1 parcel", Intent: "BOOK_PICKUP"},
		{Text: "Book pickup kal 10 am Thane se Navi Mumbai", Intent: "BOOK_PICKUP"},
		{Text: "Arrange pickup from Ghatkopar 5 boxes", Intent: "BOOK_PICKUP"},
		{Text: "Where is my order", Intent: "TRACK_ORDER"},
		{Text: "Track my shipment please", Intent: "TRACK_ORDER"},
		{Text: "Mera parcel kahan hai", Intent: "TRACK_ORDER"},
		{Text: "What is the status of my delivery", Intent: "TRACK_ORDER"},
		{Text: "I want to track my courier", Intent: "TRACK_ORDER"},
		{Text: "When will my order arrive", Intent: "TRACK_ORDER"},
		{Text: "Cancel my order", Intent: "CANCEL_ORDER"},
		{Text: "I want to cancel my booking", Intent: "CANCEL_ORDER"},
		{Text: "Order cancel karna hai", Intent: "CANCEL_ORDER"},
		{Text: "Please cancel my pickup request", Intent: "CANCEL_ORDER"},
		{Text: "Cancel the shipment I booked yesterday", Intent: "CANCEL_ORDER"},
		{Text: "How do I cancel my courier booking", Intent: "CANCEL_ORDER"},
	}
}

func TestModel_PredictBeforeTraining(t *testing.T) {
	model := New()

	_, err := model.Predict("track my order")
	assert.ErrorIs(t, err, ErrNotTrained)
	assert.False(t, model.Trained())
}

func TestModel_FitAndPredict(t *testing.T) {
	model := New()
	report, err := model.Fit(trainingExamples())
	require.NoError(t, err)
	require.True(t, model.Trained())

	assert.Greater(t, report.Accuracy, 0.0)
	assert.Equal(t, []string{"BOOK_PICKUP", "CANCEL_ORDER", "CHECK_RATE", "TRACK_ORDER"}, model.Classes())

	tests := []struct {
		query  string
		intent string
	}{
		{"What is the courier rate from Delhi for 3kg", "CHECK_RATE"},
		{"Book a pickup from Powai 2 boxes", "BOOK_PICKUP"},
		{"Where is my shipment", "TRACK_ORDER"},
		{"Cancel my booking please", "CANCEL_ORDER"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			prediction, err := model.Predict(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, prediction.Intent)
			assert.GreaterOrEqual(t, prediction.Confidence, 0.0)
			assert.LessOrEqual(t, prediction.Confidence, 1.0)
		})
	}
}

func TestModel_ConfidenceRounding(t *testing.T) {
	model := New()
	_, err := model.Fit(trainingExamples())
	require.NoError(t, err)

	prediction, err := model.Predict("track my parcel")
	require.NoError(t, err)

	scaled := prediction.Confidence * 100
	assert.InDelta(t, math.Round(scaled), scaled, 1e-9, "confidence must carry two decimals")
}

func TestModel_Deterministic(t *testing.T) {
	examples := trainingExamples()

	first := New()
	reportA, err := first.Fit(examples)
	require.NoError(t, err)

	second := New()
	reportB, err := second.Fit(examples)
	require.NoError(t, err)

	assert.Equal(t, reportA.Accuracy, reportB.Accuracy)

	queries := []string{
		"rate from mumbai for 5kg",
		"book a pickup tomorrow",
		"where is my order",
		"cancel everything",
	}
	for _, query := range queries {
		p1, err := first.Predict(query)
		require.NoError(t, err)
		p2, err := second.Predict(query)
		require.NoError(t, err)
		assert.Equal(t, p1, p2)
	}

	var bufA, bufB bytes.Buffer
	require.NoError(t, first.Save(&bufA))
	require.NoError(t, second.Save(&bufB))
	assert.Equal(t, bufA.Bytes(), bufB.Bytes(), "identical corpora must produce identical artifacts")
}

func TestModel_FitRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		examples []Example
	}{
		{name: "empty dataset", examples: nil},
		{
			name: "empty intent label",
			examples: []Example{
				{Text: "where is my order", Intent: "TRACK_ORDER"},
				{Text: "track my parcel", Intent: ""},
			},
		},
		{
			name: "class too small to stratify",
			examples: []Example{
				{Text: "where is my order", Intent: "TRACK_ORDER"},
				{Text: "track my parcel", Intent: "TRACK_ORDER"},
				{Text: "cancel my order", Intent: "CANCEL_ORDER"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := New()
			_, err := model.Fit(tt.examples)
			assert.ErrorIs(t, err, ErrDatasetFormat)
			assert.False(t, model.Trained())
		})
	}
}

func TestModel_SaveLoadRoundtrip(t *testing.T) {
	trained := New()
	_, err := trained.Fit(trainingExamples())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "models", "intent_model.json")
	require.NoError(t, trained.SaveFile(path))

	restored := New()
	require.NoError(t, restored.LoadFile(path))
	require.True(t, restored.Trained())
	assert.Equal(t, trained.Classes(), restored.Classes())

	queries := []string{
		"what is the rate for 2kg from pune",
		"book pickup from andheri",
		"track my order please",
	}
	for _, query := range queries {
		want, err := trained.Predict(query)
		require.NoError(t, err)
		got, err := restored.Predict(query)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestModel_SaveBeforeTraining(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, New().Save(&buf), ErrNotTrained)
}

func TestModel_LoadCorruptArtifacts(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: `{"version": 1, "feature_spa`},
		{name: "missing classifier", blob: `{"version": 1, "feature_space": {"ngram_min": 1, "ngram_max": 2, "terms": []}}`},
		{name: "unsupported version", blob: `{"version": 99, "feature_space": {"ngram_min": 1, "ngram_max": 2, "terms": []}, "classifier": {"classes": ["A"], "weights": [[]], "bias": [0]}}`},
		{
			name: "weight rows disagree with classes",
			blob: `{"version": 1, "feature_space": {"ngram_min": 1, "ngram_max": 2, "terms": [{"term": "rate", "idf": 1.2}]}, "classifier": {"classes": ["A", "B"], "weights": [[0.1]], "bias": [0, 0]}}`,
		},
		{
			name: "weight row disagrees with feature count",
			blob: `{"version": 1, "feature_space": {"ngram_min": 1, "ngram_max": 2, "terms": [{"term": "rate", "idf": 1.2}]}, "classifier": {"classes": ["A"], "weights": [[0.1, 0.2]], "bias": [0]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := New()
			err := model.Load(bytes.NewReader([]byte(tt.blob)))
			assert.ErrorIs(t, err, ErrCorruptModel)
			assert.False(t, model.Trained())
		})
	}
}

func TestModel_LoadFileMissing(t *testing.T) {
	model := New()
	err := model.LoadFile(filepath.Join(t.TempDir(), "no_such_model.json"))
	assert.ErrorIs(t, err, ErrModelMissing)
	assert.NotErrorIs(t, err, ErrCorruptModel)
}

func TestStratifiedSplit(t *testing.T) {
	examples := trainingExamples()

	train, test, err := stratifiedSplit(examples, 0.2, splitSeed)
	require.NoError(t, err)
	assert.Len(t, train, len(examples)-len(test))

	countByClass := func(set []Example) map[string]int {
		counts := map[string]int{}
		for _, ex := range set {
			counts[ex.Intent]++
		}
		return counts
	}

	trainCounts := countByClass(train)
	testCounts := countByClass(test)
	for _, class := range []string{"CHECK_RATE", "BOOK_PICKUP", "TRACK_ORDER", "CANCEL_ORDER"} {
		assert.Positive(t, trainCounts[class], "class %s absent from train split", class)
		assert.Positive(t, testCounts[class], "class %s absent from test split", class)
	}

	trainAgain, testAgain, err := stratifiedSplit(examples, 0.2, splitSeed)
	require.NoError(t, err)
	assert.Equal(t, train, trainAgain)
	assert.Equal(t, test, testAgain)
}

func TestStratifiedSplit_EveryClassGetsAtLeastOneTestRow(t *testing.T) {
	examples := []Example{
		{Text: "a one", Intent: "A"}, {Text: "a two", Intent: "A"},
		{Text: "b one", Intent: "B"}, {Text: "b two", Intent: "B"},
	}

	train, test, err := stratifiedSplit(examples, 0.2, splitSeed)
	require.NoError(t, err)
	assert.Len(t, test, 2)
	assert.Len(t, train, 2)
}
