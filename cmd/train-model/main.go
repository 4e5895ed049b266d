// Command train-model fits the intent classifier on the labeled corpus and
// writes the model artifact the voice agent serves from.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/config"
	commonErrors "github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/errors"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/database"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/dataset"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/intent"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to the training CSV (overrides config)")
	source := flag.String("source", "", "dataset source: csv or postgres (overrides config)")
	outPath := flag.String("out", "", "where to write the model artifact (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console")
	defer zapLog.Sync()

	if *datasetPath != "" {
		cfg.Model.DatasetPath = *datasetPath
	}
	if *source != "" {
		cfg.Model.DatasetSource = *source
	}
	if *outPath != "" {
		cfg.Model.Path = *outPath
	}

	examples, err := loadExamples(cfg, zapLog)
	if err != nil {
		if errors.Is(err, intent.ErrDatasetFormat) {
			zapLog.Fatal("dataset load failed", zap.Any("error", commonErrors.NewDatasetFormatError(err.Error())))
		}
		zapLog.Fatal("dataset load failed", zap.Error(err))
	}
	zapLog.Info("dataset loaded",
		zap.Int("examples", len(examples)),
		zap.String("source", cfg.Model.DatasetSource),
	)

	model := intent.New()
	start := time.Now()
	report, err := model.Fit(examples)
	if err != nil {
		if errors.Is(err, intent.ErrDatasetFormat) {
			zapLog.Fatal("training failed", zap.Any("error", commonErrors.NewDatasetFormatError(err.Error())))
		}
		zapLog.Fatal("training failed", zap.Error(err))
	}
	zapLog.Info("training finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("accuracy", report.Accuracy),
		zap.Int("testSamples", report.TestSamples),
	)

	printReport(report)

	if err := model.SaveFile(cfg.Model.Path); err != nil {
		zapLog.Fatal("model save failed", zap.Error(err))
	}
	zapLog.Info("model saved", zap.String("path", cfg.Model.Path))
}

func loadExamples(cfg *config.Config, zapLog *zap.Logger) ([]intent.Example, error) {
	switch cfg.Model.DatasetSource {
	case "postgres":
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		defer pg.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return dataset.LoadPostgres(ctx, pg.DB)

	default:
		return dataset.LoadCSV(cfg.Model.DatasetPath)
	}
}

func printReport(report *intent.Report) {
	fmt.Printf("\naccuracy: %.4f (%d test samples)\n\n", report.Accuracy, report.TestSamples)
	fmt.Printf("%-24s %9s %9s %9s %9s\n", "intent", "precision", "recall", "f1", "support")

	classes := make([]string, 0, len(report.Classes))
	for class := range report.Classes {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for _, class := range classes {
		m := report.Classes[class]
		fmt.Printf("%-24s %9.4f %9.4f %9.4f %9d\n", class, m.Precision, m.Recall, m.F1, m.Support)
	}
}
