package intent

import (
	"math"
	"sort"
	"strings"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/textnorm"
)

// Term is one vocabulary entry with its learned inverse document frequency.
type Term struct {
	Text string  `json:"term"`
	IDF  float64 `json:"idf"`
}

// Vectorizer maps normalized text into a fixed TF-IDF feature space built
// from word unigrams and bigrams. The vocabulary is capped at maxFeatures
// entries, ranked by total corpus TF-IDF weight with lexicographic
// tie-breaking so that the same corpus always yields the same space.
type Vectorizer struct {
	NgramMin int
	NgramMax int
	Terms    []Term

	index map[string]int
}

// NewVectorizer creates a vectorizer over unigrams and bigrams.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{NgramMin: 1, NgramMax: 2}
}

// NumFeatures returns the dimensionality of the feature space.
func (v *Vectorizer) NumFeatures() int {
	return len(v.Terms)
}

// Fit learns the vocabulary and IDF weights from normalized documents.
func (v *Vectorizer) Fit(docs []string) {
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, gram := range v.ngrams(doc) {
			termFreq[gram]++
			if !seen[gram] {
				seen[gram] = true
				docFreq[gram]++
			}
		}
	}

	n := float64(len(docs))
	idf := func(term string) float64 {
		return math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	candidates := make([]string, 0, len(termFreq))
	for term := range termFreq {
		candidates = append(candidates, term)
	}
	sort.Slice(candidates, func(i, j int) bool {
		wi := float64(termFreq[candidates[i]]) * idf(candidates[i])
		wj := float64(termFreq[candidates[j]]) * idf(candidates[j])
		if wi != wj {
			return wi > wj
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > maxFeatures {
		candidates = candidates[:maxFeatures]
	}
	sort.Strings(candidates)

	v.Terms = make([]Term, len(candidates))
	for i, term := range candidates {
		v.Terms[i] = Term{Text: term, IDF: idf(term)}
	}
	v.rebuildIndex()
}

// Transform produces the L2-normalized TF-IDF vector for a normalized
// document. Out-of-vocabulary grams are ignored; a document with no known
// grams maps to the zero vector.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.Terms))
	for _, gram := range v.ngrams(doc) {
		if idx, ok := v.index[gram]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i, count := range vec {
		if count != 0 {
			vec[i] = count * v.Terms[i].IDF
			norm += vec[i] * vec[i]
		}
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (v *Vectorizer) ngrams(doc string) []string {
	tokens := textnorm.Tokens(doc)
	grams := make([]string, 0, len(tokens)*2)
	for size := v.NgramMin; size <= v.NgramMax; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+size], " "))
		}
	}
	return grams
}

func (v *Vectorizer) rebuildIndex() {
	v.index = make(map[string]int, len(v.Terms))
	for i, t := range v.Terms {
		v.index[t.Text] = i
	}
}
