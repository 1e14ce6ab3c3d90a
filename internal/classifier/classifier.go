// Package classifier decides whether a payer name on a collection slip
// belongs to an individual (PF) or a company (PJ). It combines a
// corporate-suffix table with an optional named-entity recognizer and a
// pair of lexical heuristics, in a fixed priority order.
package classifier

import (
	"context"
	"strings"

	"vcollos/concilia-csv/internal/logging"
	"vcollos/concilia-csv/internal/textutils"
)

// EntityType is the classification result, using the Brazilian
// pessoa-física / pessoa-jurídica vocabulary of the source reports.
type EntityType string

const (
	Individual EntityType = "PF"
	Company    EntityType = "PJ"
	Unknown    EntityType = "Indefinido"
)

// Entity is one named entity found in a payer name.
type Entity struct {
	Label string
	Text  string
}

// Entity labels produced by recognizers.
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORGANIZATION"
)

// Recognizer finds named entities in free text. Implementations may call
// an external NLP service; a nil Recognizer is valid and skips that step
// of the cascade entirely.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// Classifier classifies payer names. It is safe for concurrent use: all
// state is read-only after construction.
type Classifier struct {
	suffixes   []string
	recognizer Recognizer
	logger     logging.Logger
}

// New builds a Classifier with the default corporate-suffix table. The
// recognizer may be nil.
func New(recognizer Recognizer, logger logging.Logger) *Classifier {
	return NewWithSuffixes(recognizer, DefaultSuffixes(), logger)
}

// NewWithSuffixes builds a Classifier with a custom suffix table. Suffixes
// are normalized once here so Classify only does containment checks.
func NewWithSuffixes(recognizer Recognizer, suffixes []string, logger logging.Logger) *Classifier {
	normalized := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if key := textutils.NormalizeKey(s); key != "" {
			normalized = append(normalized, key)
		}
	}
	return &Classifier{
		suffixes:   normalized,
		recognizer: recognizer,
		logger:     logger,
	}
}

// Classify runs the classification cascade over one payer name:
//
//  1. empty name: Unknown
//  2. corporate suffix in the name: Company
//  3. recognizer finds a person and no organization: Individual;
//     an organization and no person: Company (skipped without recognizer)
//  4. fully upper-case, more than one word: Company
//  5. otherwise: Company
//
// The final default is a deliberate bias: collection-slip payers skew
// corporate, so an undecidable name is assumed to be a company rather
// than silently dropped.
func (c *Classifier) Classify(ctx context.Context, name string) EntityType {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unknown
	}

	if c.hasCorporateSuffix(name) {
		return Company
	}

	if c.recognizer != nil {
		if result, decided := c.classifyByEntities(ctx, name); decided {
			return result
		}
	}

	if textutils.IsUpper(name) && len(strings.Fields(name)) > 1 {
		return Company
	}

	return Company
}

// ClassifyBatch classifies each distinct name independently. The result is
// identical to calling Classify per name; batching exists so callers can
// classify the distinct payers of a report once instead of per row.
func (c *Classifier) ClassifyBatch(ctx context.Context, names []string) map[string]EntityType {
	results := make(map[string]EntityType, len(names))
	for _, name := range names {
		if _, seen := results[name]; seen {
			continue
		}
		results[name] = c.Classify(ctx, name)
	}
	return results
}

func (c *Classifier) hasCorporateSuffix(name string) bool {
	key := textutils.NormalizeKey(name)
	for _, suffix := range c.suffixes {
		if strings.Contains(key, suffix) {
			return true
		}
	}
	return false
}

// classifyByEntities consults the recognizer. It only decides when the
// entity evidence is unambiguous; mixed or empty results fall through to
// the lexical heuristics, as does a recognizer failure.
func (c *Classifier) classifyByEntities(ctx context.Context, name string) (EntityType, bool) {
	entities, err := c.recognizer.Recognize(ctx, name)
	if err != nil {
		c.logger.WithError(err).WithField("name", name).
			Warn("Entity recognition failed, falling back to heuristics")
		return Unknown, false
	}

	var isPerson, isOrganization bool
	for _, entity := range entities {
		switch entity.Label {
		case LabelPerson:
			isPerson = true
		case LabelOrganization:
			isOrganization = true
		}
	}

	if isPerson && !isOrganization {
		return Individual, true
	}
	if isOrganization && !isPerson {
		return Company, true
	}
	return Unknown, false
}
