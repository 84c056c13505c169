package parser

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"callcenter-sim/errors"
	"callcenter-sim/metrics"
	"callcenter-sim/models"

	"gopkg.in/yaml.v3"
)

// ParseModel reads a declarative model from a YAML document. Unknown keys
// are rejected so typos do not silently fall back to defaults. Global
// parameters missing from the document take the values of
// models.NewModel.
func ParseModel(r io.Reader) (*models.Model, error) {
	start := time.Now()
	m, err := parseModel(r)
	records := 0
	if m != nil {
		records = 1
	}
	metrics.ObserveParse(time.Since(start), records, err, errorType(err))
	return m, err
}

func parseModel(r io.Reader) (*models.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading model: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", errors.ErrInvalidModel)
	}

	m := models.NewModel("")
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidModel, err)
	}
	return &m, nil
}

// FormatModel writes a model as YAML, the inverse of ParseModel.
func FormatModel(w io.Writer, m *models.Model) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("error writing model: %w", err)
	}
	return encoder.Close()
}
