package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/samber/lo"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatInflux  Format = "influx"
	FormatSummary Format = "summary"
)

func ParseFormat(raw string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(raw))); format {
	case FormatJSON, FormatInflux, FormatSummary:
		return format, nil
	case "influxdb", "line":
		return FormatInflux, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (json|influx|summary)", raw)
	}
}

// MissingMetricError is returned by the line renderer when a metric it
// always prints is not in the map.
type MissingMetricError struct {
	Key string
}

func (e *MissingMetricError) Error() string {
	return fmt.Sprintf("metric %q is missing", e.Key)
}

// WriteJSON writes the map as a single JSON object. Negative values are kept.
func WriteJSON(w io.Writer, metrics domain.MetricMap) error {
	encoded, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	encoded = append(encoded, '\n')

	_, err = w.Write(encoded)
	return err
}

// WriteLines writes one line per measurement group:
//
//	data,unit=bytes used=5,total=100,remaining=95
//	talk,unit=minutes used=12
//	messages,type=sms used=40,total=2500,remaining=2460
//	balance,unit=$ balance=42.5,fido_dollar=12.75
//
// Negative values mean "not applicable" and are left out. Nothing is written
// when an error is returned.
func WriteLines(w io.Writer, metrics domain.MetricMap) error {
	lines := make([]string, 0, len(domain.Categories)+1)

	for _, category := range domain.Categories {
		fields, err := categoryFields(metrics, category)
		if err != nil {
			return err
		}
		lines = append(lines, measurement(category)+" "+strings.Join(fields, ","))
	}

	balance, ok := metrics.Get(domain.MetricBalance)
	if !ok {
		return &MissingMetricError{Key: domain.MetricBalance}
	}
	loyalty, ok := metrics.Get(domain.MetricFidoDollar)
	if !ok {
		return &MissingMetricError{Key: domain.MetricFidoDollar}
	}
	lines = append(lines, fmt.Sprintf("balance,unit=$ balance=%s,fido_dollar=%s", formatValue(balance), formatValue(loyalty)))

	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func measurement(category domain.Category) string {
	if category.IsMessage() {
		return "messages,type=" + string(category)
	}
	return string(category) + ",unit=" + category.Unit()
}

func categoryFields(metrics domain.MetricMap, category domain.Category) ([]string, error) {
	for _, field := range domain.Fields {
		key := domain.MetricKey(category, field)
		if _, ok := metrics.Get(key); !ok {
			return nil, &MissingMetricError{Key: key}
		}
	}

	applicable := lo.Filter(domain.Fields, func(field domain.Field, _ int) bool {
		return metrics[domain.MetricKey(category, field)] >= 0
	})

	return lo.Map(applicable, func(field domain.Field, _ int) string {
		return string(field) + "=" + formatValue(metrics[domain.MetricKey(category, field)])
	}), nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
