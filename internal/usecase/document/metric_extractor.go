package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"om-api/internal/domain/entity"

	"github.com/phuslu/log"
)

const DefaultExtractionMaxChars = 12000

// TextGenerator is the external generative text capability.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const metricsPromptTemplate = `Extract structured financial data from this commercial real estate offering memorandum.

Return ONLY valid JSON. Do not include markdown. Do not include explanation text.

Schema:
{
  "purchase_price": number or null,
  "noi": number or null,
  "cap_rate": decimal like 0.065 or null,
  "occupancy": decimal like 0.92 or null,
  "units": integer or null,
  "year_built": integer or null,
  "property_type": string or null,
  "location": string or null,
  "risk_summary": string or null
}

If a value is not found, return null.

Text:
%s
`

// rawLogLimit bounds how much of an unparsable response goes into the log event.
const rawLogLimit = 2000

type MetricExtractor struct {
	generator TextGenerator
	maxChars  int
	logger    *log.Logger
}

func NewMetricExtractor(generator TextGenerator, maxChars int, logger *log.Logger) *MetricExtractor {
	if maxChars <= 0 {
		maxChars = DefaultExtractionMaxChars
	}
	return &MetricExtractor{
		generator: generator,
		maxChars:  maxChars,
		logger:    logger,
	}
}

// Extract asks the model for the metrics of fullText. A response that is not
// the expected JSON object yields entity.FallbackMetrics and no error; only a
// failed model call is returned as an error.
func (e *MetricExtractor) Extract(ctx context.Context, fullText string) (*entity.ExtractedMetrics, error) {
	prompt := fmt.Sprintf(metricsPromptTemplate, truncateRunes(fullText, e.maxChars))

	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metrics: %w", err)
	}

	cleaned := stripCodeFence(raw)
	metrics, err := parseMetrics(cleaned)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Int("response_length", len(raw)).
			Str("raw_response", truncateRunes(raw, rawLogLimit)).
			Msg("Metric extraction returned unparsable output, using fallback record")
		return entity.FallbackMetrics(), nil
	}

	e.logger.Debug().
		Int("input_length", len(fullText)).
		Msg("Metrics extracted")

	return metrics, nil
}

// metricsPayload mirrors entity.ExtractedMetrics with float integer fields so
// that "units": 120.0 is accepted.
type metricsPayload struct {
	PurchasePrice *float64 `json:"purchase_price"`
	NOI           *float64 `json:"noi"`
	CapRate       *float64 `json:"cap_rate"`
	Occupancy     *float64 `json:"occupancy"`
	Units         *float64 `json:"units"`
	YearBuilt     *float64 `json:"year_built"`
	PropertyType  *string  `json:"property_type"`
	Location      *string  `json:"location"`
	RiskSummary   *string  `json:"risk_summary"`
}

func parseMetrics(s string) (*entity.ExtractedMetrics, error) {
	if s == "" {
		return nil, fmt.Errorf("empty response")
	}
	if !strings.HasPrefix(s, "{") {
		return nil, fmt.Errorf("response is not a JSON object")
	}

	var payload metricsPayload
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}

	units, err := wholeNumber("units", payload.Units)
	if err != nil {
		return nil, err
	}
	yearBuilt, err := wholeNumber("year_built", payload.YearBuilt)
	if err != nil {
		return nil, err
	}

	return &entity.ExtractedMetrics{
		PurchasePrice: payload.PurchasePrice,
		NOI:           payload.NOI,
		CapRate:       payload.CapRate,
		Occupancy:     payload.Occupancy,
		Units:         units,
		YearBuilt:     yearBuilt,
		PropertyType:  payload.PropertyType,
		Location:      payload.Location,
		RiskSummary:   payload.RiskSummary,
	}, nil
}

func wholeNumber(field string, v *float64) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if *v != math.Trunc(*v) || math.Abs(*v) > math.MaxInt32 {
		return nil, fmt.Errorf("%s is not an integer: %v", field, *v)
	}
	n := int(*v)
	return &n, nil
}

// stripCodeFence removes a ```lang ... ``` wrapper the model may add anyway.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
	})
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
