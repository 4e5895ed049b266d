package intent

import (
	"fmt"
	"math/rand"
	"sort"
)

// stratifiedSplit partitions examples into train and test sets so that
// every class is represented on both sides. One seeded generator shuffles
// the classes in sorted-name order, which keeps the split reproducible for
// a given dataset. Classes with fewer than two examples cannot be split.
func stratifiedSplit(examples []Example, ratio float64, seed int64) (train, test []Example, err error) {
	byClass := make(map[string][]int)
	for i, ex := range examples {
		byClass[ex.Intent] = append(byClass[ex.Intent], i)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	rng := rand.New(rand.NewSource(seed))
	for _, class := range classes {
		indices := byClass[class]
		if len(indices) < 2 {
			return nil, nil, fmt.Errorf("%w: intent %q has %d example(s), need at least 2 for a stratified split",
				ErrDatasetFormat, class, len(indices))
		}

		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		numTest := int(ratio*float64(len(indices)) + 0.5)
		if numTest < 1 {
			numTest = 1
		}
		if numTest >= len(indices) {
			numTest = len(indices) - 1
		}

		for _, idx := range indices[:numTest] {
			test = append(test, examples[idx])
		}
		for _, idx := range indices[numTest:] {
			train = append(train, examples[idx])
		}
	}

	return train, test, nil
}
