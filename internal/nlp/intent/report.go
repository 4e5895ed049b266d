package intent

// ClassMetrics holds per-intent evaluation numbers from the held-out split.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report summarizes held-out performance after a Fit.
type Report struct {
	Accuracy    float64                 `json:"accuracy"`
	TestSamples int                     `json:"test_samples"`
	Classes     map[string]ClassMetrics `json:"classes"`
}

func buildReport(yTrue, yPred []int, classes []string) *Report {
	report := &Report{
		TestSamples: len(yTrue),
		Classes:     make(map[string]ClassMetrics, len(classes)),
	}

	correct := 0
	truePos := make([]int, len(classes))
	falsePos := make([]int, len(classes))
	falseNeg := make([]int, len(classes))
	support := make([]int, len(classes))

	for i := range yTrue {
		support[yTrue[i]]++
		if yPred[i] == yTrue[i] {
			correct++
			truePos[yTrue[i]]++
		} else {
			falsePos[yPred[i]]++
			falseNeg[yTrue[i]]++
		}
	}

	if len(yTrue) > 0 {
		report.Accuracy = float64(correct) / float64(len(yTrue))
	}

	for c, class := range classes {
		var precision, recall, f1 float64
		if truePos[c]+falsePos[c] > 0 {
			precision = float64(truePos[c]) / float64(truePos[c]+falsePos[c])
		}
		if truePos[c]+falseNeg[c] > 0 {
			recall = float64(truePos[c]) / float64(truePos[c]+falseNeg[c])
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		report.Classes[class] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support[c],
		}
	}

	return report
}
