package domain

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

const (
	MetricBalance    = "balance"
	MetricFidoDollar = "fido_dollar"
)

// MetricMap is the flat result of a run, keyed like "data_used" or "balance".
type MetricMap map[string]float64

func MetricKey(category Category, field Field) string {
	return string(category) + "_" + string(field)
}

func (m MetricMap) Get(key string) (float64, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MetricMap) SortedKeys() []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

type usageSource struct {
	category Category
	grouping string
	index    int
}

// Only the first entry of each grouping is read: the dashboard does not say
// which entry belongs to which phone line on multi-line accounts.
var usageSources = []usageSource{
	{category: CategoryData, grouping: "data", index: 0},
	{category: CategoryTalk, grouping: "talk", index: 0},
	{category: CategoryMMS, grouping: "text", index: 0},
	{category: CategorySMS, grouping: "text", index: 1},
	{category: CategorySMSInt, grouping: "text", index: 2},
}

// Normalize flattens the usage dashboard, balance and Fido dollar balance
// into a MetricMap. A nil balance or loyalty value leaves its key out.
func Normalize(usage RawUsage, balance, loyalty *float64) (MetricMap, error) {
	metrics := make(MetricMap, len(usageSources)*len(Fields)+2)

	for _, source := range usageSources {
		summary, err := source.lookup(usage)
		if err != nil {
			return nil, err
		}

		for _, field := range Fields {
			value := summary.Value(field)
			if value == nil {
				return nil, &NormalizationError{
					Path:   fmt.Sprintf("%s.%s", source.path(), field),
					Reason: "field missing",
				}
			}
			metrics[MetricKey(source.category, field)] = *value
		}
	}

	if balance != nil {
		metrics[MetricBalance] = *balance
	}
	if loyalty != nil {
		metrics[MetricFidoDollar] = *loyalty
	}

	return metrics, nil
}

func (s usageSource) lookup(usage RawUsage) (UsageSummary, error) {
	groups := usage.grouping(s.grouping)
	if len(groups) == 0 {
		return UsageSummary{}, &NormalizationError{Path: s.grouping, Reason: "grouping missing"}
	}

	summaries := groups[0].Summaries
	if s.index >= len(summaries) {
		return UsageSummary{}, &NormalizationError{
			Path:   s.path(),
			Reason: fmt.Sprintf("expected at least %d entries, got %d", s.index+1, len(summaries)),
		}
	}

	return summaries[s.index], nil
}

func (s usageSource) path() string {
	return fmt.Sprintf("%s[0].wirelessUsageSummaryInfoList[%d]", s.grouping, s.index)
}
