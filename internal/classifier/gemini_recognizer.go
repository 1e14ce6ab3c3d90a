package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"vcollos/concilia-csv/internal/logging"
)

// GeminiRecognizer implements Recognizer using the Google Gemini API. It is
// the NLP step of the classification cascade; when the API key is absent
// the application simply runs without a recognizer.
type GeminiRecognizer struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiRecognizer creates a recognizer backed by the given model.
// Callers own the recognizer and must Close it.
func NewGeminiRecognizer(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger logging.Logger) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini recognizer requires an API key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiRecognizer{
		client:  client,
		model:   client.GenerativeModel(modelName),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Close releases the underlying API client.
func (r *GeminiRecognizer) Close() error {
	return r.client.Close()
}

// Recognize asks the model for named entities in the text. The prompt pins
// the answer to one entity per line so parsing stays trivial; anything the
// model returns outside that shape is ignored.
func (r *GeminiRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`Identify the named entities in the following Brazilian payer name:
%s

List every entity you find, one per line, in this exact format:
PERSON: [name]
ORGANIZATION: [name]

If there are no entities, answer exactly:
NONE`, text)

	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	entities := parseEntities(responseText)

	r.logger.WithFields(
		logging.Field{Key: "name", Value: text},
		logging.Field{Key: "entities", Value: len(entities)},
	).Debug("Gemini entity recognition completed")

	return entities, nil
}

func parseEntities(response string) []Entity {
	var entities []Entity
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "PERSON:"):
			entities = append(entities, Entity{
				Label: LabelPerson,
				Text:  strings.TrimSpace(strings.TrimPrefix(line, "PERSON:")),
			})
		case strings.HasPrefix(line, "ORGANIZATION:"):
			entities = append(entities, Entity{
				Label: LabelOrganization,
				Text:  strings.TrimSpace(strings.TrimPrefix(line, "ORGANIZATION:")),
			})
		}
	}
	return entities
}
