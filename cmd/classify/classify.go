// Package classify handles payer classification commands
package classify

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vcollos/concilia-csv/cmd/root"
	"vcollos/concilia-csv/internal/classifier"
	"vcollos/concilia-csv/internal/logging"
)

var (
	payerName string
	namesFile string
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify payer names as individual (PF) or company (PJ)",
	Long: `Classify payer names as individual (PF) or company (PJ) using the
corporate-suffix list, the optional Gemini entity recognizer and the
casing heuristics, in that order. Takes a single --name or a --file with
one name per line.`,
	Run: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&payerName, "name", "n", "", "Payer name to classify")
	Cmd.Flags().StringVarP(&namesFile, "file", "f", "", "File with one payer name per line")
	Cmd.MarkFlagsOneRequired("name", "file")
	Cmd.MarkFlagsMutuallyExclusive("name", "file")
}

func classifyFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Classify command called")
	ctx := context.Background()
	logger := logging.FromLogrus(root.Log)

	var recognizer classifier.Recognizer
	if root.Cfg.Classifier.AIEnabled {
		timeout := time.Duration(root.Cfg.Classifier.TimeoutSeconds) * time.Second
		gemini, err := classifier.NewGeminiRecognizer(ctx, root.Cfg.Classifier.APIKey, root.Cfg.Classifier.Model, timeout, logger)
		if err != nil {
			root.Log.Warnf("Error creating entity recognizer, falling back to heuristics: %v", err)
		} else {
			defer gemini.Close()
			recognizer = gemini
		}
	}
	c := classifier.New(recognizer, logger)

	if payerName != "" {
		root.Log.Infof("Payer %q classified as: %s", payerName, c.Classify(ctx, payerName))
		return
	}

	names, err := readNames(namesFile)
	if err != nil {
		root.Log.Fatalf("Error reading names file: %v", err)
	}

	results := c.ClassifyBatch(ctx, names)
	for _, name := range names {
		root.Log.Infof("Payer %q classified as: %s", name, results[name])
	}
}

func readNames(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}
