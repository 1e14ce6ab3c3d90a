package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"vcollos/concilia-csv/internal/logging"
)

// fakeRecognizer returns canned entities and records how often it ran.
type fakeRecognizer struct {
	entities []Entity
	err      error
	calls    int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	f.calls++
	return f.entities, f.err
}

func testLogger() logging.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logging.FromLogrus(logger)
}

func TestClassifySuffixes(t *testing.T) {
	c := New(nil, testLogger())
	ctx := context.Background()

	tests := []struct {
		name     string
		payer    string
		expected EntityType
	}{
		{"Legal suffix", "PADARIA DO BAIRRO LTDA", Company},
		{"Accented sector word", "Associação Beneficente", Company},
		{"Lower-case suffix", "empresa de software eireli", Company},
		{"Empty name", "   ", Unknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Classify(ctx, tc.payer))
		})
	}
}

func TestClassifyWithRecognizer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		entities []Entity
		err      error
		expected EntityType
	}{
		{"Person only", []Entity{{Label: LabelPerson, Text: "Luiz Otavio"}}, nil, Individual},
		{"Organization only", []Entity{{Label: LabelOrganization, Text: "Vix Parts"}}, nil, Company},
		{
			"Mixed evidence falls through to default",
			[]Entity{{Label: LabelPerson}, {Label: LabelOrganization}},
			nil,
			Company,
		},
		{"No entities falls through to default", nil, nil, Company},
		{"Recognizer failure falls through to default", nil, errors.New("quota exceeded"), Company},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recognizer := &fakeRecognizer{entities: tc.entities, err: tc.err}
			c := New(recognizer, testLogger())
			assert.Equal(t, tc.expected, c.Classify(ctx, "Luiz Otavio"))
			assert.Equal(t, 1, recognizer.calls)
		})
	}
}

func TestClassifySuffixShortCircuitsRecognizer(t *testing.T) {
	recognizer := &fakeRecognizer{entities: []Entity{{Label: LabelPerson}}}
	c := New(recognizer, testLogger())

	assert.Equal(t, Company, c.Classify(context.Background(), "TRANSPORTES UNIDOS LTDA"))
	assert.Equal(t, 0, recognizer.calls)
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(nil, testLogger())
	ctx := context.Background()

	first := c.Classify(ctx, "MERCADO CENTRAL DE VITORIA")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(ctx, "MERCADO CENTRAL DE VITORIA"))
	}
}

func TestClassifyBatch(t *testing.T) {
	recognizer := &fakeRecognizer{entities: []Entity{{Label: LabelPerson}}}
	c := New(recognizer, testLogger())

	names := []string{"Luiz Otavio", "PADARIA LTDA", "Luiz Otavio", ""}
	results := c.ClassifyBatch(context.Background(), names)

	assert.Len(t, results, 3)
	assert.Equal(t, Individual, results["Luiz Otavio"])
	assert.Equal(t, Company, results["PADARIA LTDA"])
	assert.Equal(t, Unknown, results[""])

	// Duplicate names are classified once.
	assert.Equal(t, 1, recognizer.calls)
}

func TestNewWithSuffixesNormalizes(t *testing.T) {
	c := NewWithSuffixes(nil, []string{" ltda ", "", "cooperativa"}, testLogger())
	assert.Equal(t, Company, c.Classify(context.Background(), "Cooperativa Agrícola"))
}
