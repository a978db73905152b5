package summary

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type Input struct {
	Line          domain.Line
	AccountNumber string
	Metrics       domain.MetricMap
	FetchedAt     time.Time
}

const barWidth = 24

func renderView(input Input, s styles) string {
	lines := []string{
		s.title.Render("Fido Usage"),
		s.header.Render(headerLine(input)),
	}

	if len(input.Metrics) == 0 {
		lines = append(lines, s.empty.Render("No usage available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	usage := make([]string, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		usage = append(usage, categoryLine(category, input.Metrics, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, usage...)))

	money := []string{
		moneyLine("balance:", input.Metrics, domain.MetricBalance, formatDollars, s),
		moneyLine("fido dollars:", input.Metrics, domain.MetricFidoDollar, formatPlain, s),
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, money...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(input Input) string {
	line := input.Line.DisplayName()
	if input.Line.Name != "" {
		line = fmt.Sprintf("%s (%s)", input.Line.Name, input.Line.Number)
	}

	parts := []string{"line: " + line}
	if input.AccountNumber != "" {
		parts = append(parts, "account: "+input.AccountNumber)
	}
	if !input.FetchedAt.IsZero() {
		parts = append(parts, "as of "+input.FetchedAt.Format("15:04 on 02 Jan"))
	}
	return strings.Join(parts, "  ")
}

func categoryLine(category domain.Category, metrics domain.MetricMap, s styles) string {
	used := metrics[domain.MetricKey(category, domain.FieldUsed)]
	total := metrics[domain.MetricKey(category, domain.FieldTotal)]
	remaining := metrics[domain.MetricKey(category, domain.FieldRemaining)]

	label := s.category.Render(string(category))
	format := formatterFor(category)

	if total < 0 || remaining < 0 {
		detail := "unlimited"
		if used >= 0 {
			detail = fmt.Sprintf("unlimited (%s used)", format(used))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.detail.Render(detail))
	}

	bar := renderProgressBar(remaining, total, barWidth, s)
	detail := s.detail.Render(fmt.Sprintf("%s of %s left (%s used)", format(remaining), format(total), format(used)))

	return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", bar, " ", detail)
}

func moneyLine(label string, metrics domain.MetricMap, key string, format func(float64) string, s styles) string {
	value, ok := metrics.Get(key)
	text := "n/a"
	if ok {
		text = format(value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, s.category.Render(label), " ", s.money.Render(text))
}

func renderProgressBar(remaining, total float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := 0.0
	if total > 0 {
		fraction = remaining / total
	}
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatterFor(category domain.Category) func(float64) string {
	switch category {
	case domain.CategoryData:
		return formatBytes
	case domain.CategoryTalk:
		return func(v float64) string { return formatPlain(v) + " min" }
	default:
		return formatPlain
	}
}

func formatBytes(v float64) string {
	const unit = 1024.0
	if v < unit {
		return formatPlain(v) + " B"
	}

	suffixes := []string{"KB", "MB", "GB", "TB"}
	value := v / unit
	i := 0
	for value >= unit && i < len(suffixes)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[i])
}

func formatDollars(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
