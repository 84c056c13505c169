package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"callcenter-sim/errors"
	"callcenter-sim/metrics"
	"callcenter-sim/models"
)

// ParseCurve reads a staffing or arrival curve from CSV data.
// Lines starting with '#' are headers/comments.
// Every other line holds one value, optionally preceded by a label such as
// the interval start time ("08:30, 4"); the label is ignored.
// The curve must have 24, 48 or 96 values.
func ParseCurve(r io.Reader) (models.Curve, error) {
	start := time.Now()
	curve, err := parseCurve(r)
	metrics.ObserveParse(time.Since(start), len(curve), err, errorType(err))
	return curve, err
}

func parseCurve(r io.Reader) (models.Curve, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var curve models.Curve
	lineNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		// Blank lines are skipped by the reader, so take the line number
		// from the record itself.
		lineNum, _ = reader.FieldPos(0)

		// Handle headers/comments
		if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}

		if len(record) > 2 {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    errors.ErrInvalidFieldCount,
			}
		}

		field := strings.TrimSpace(record[len(record)-1])
		if field == "" {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    errors.ErrEmptyRecord,
			}
		}

		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %v", errors.ErrInvalidValue, err),
			}
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %s must be a non-negative number", errors.ErrInvalidValue, field),
			}
		}

		curve = append(curve, value)
	}

	if !curve.Valid() {
		return nil, &errors.ParseError{
			Line: lineNum,
			Err:  fmt.Errorf("%w (got %d)", errors.ErrInvalidCurveSize, len(curve)),
		}
	}
	return curve, nil
}

// errorType maps a reader error to the metric label.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errors.ErrInvalidFieldCount):
		return "field_count"
	case errors.Is(err, errors.ErrEmptyRecord):
		return "empty_record"
	case errors.Is(err, errors.ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, errors.ErrInvalidCurveSize):
		return "curve_size"
	case errors.Is(err, errors.ErrInvalidModel):
		return "invalid_model"
	default:
		return "read"
	}
}
