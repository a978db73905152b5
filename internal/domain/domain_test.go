package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usageFixture = `{
  "data": [{"wirelessUsageSummaryInfoList": [{"used": 5, "total": 100, "remaining": 95}]}],
  "talk": [{"wirelessUsageSummaryInfoList": [{"used": 12, "total": -1, "remaining": -1}]}],
  "text": [{"wirelessUsageSummaryInfoList": [
    {"used": 1, "total": -1, "remaining": -1},
    {"used": 40, "total": 2500, "remaining": 2460},
    {"used": 0, "total": 50, "remaining": 50}
  ]}]
}`

func decodeUsage(t *testing.T, raw string) RawUsage {
	t.Helper()

	var usage RawUsage
	require.NoError(t, json.Unmarshal([]byte(raw), &usage))
	return usage
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestNormalizeFlattensCategoriesAndBalance(t *testing.T) {
	metrics, err := Normalize(decodeUsage(t, usageFixture), floatPtr(42.5), nil)
	require.NoError(t, err)

	assert.Equal(t, 5.0, metrics["data_used"])
	assert.Equal(t, 100.0, metrics["data_total"])
	assert.Equal(t, 95.0, metrics["data_remaining"])
	assert.Equal(t, 12.0, metrics["talk_used"])
	assert.Equal(t, 1.0, metrics["mms_used"])
	assert.Equal(t, 2460.0, metrics["sms_remaining"])
	assert.Equal(t, 50.0, metrics["smsint_total"])
	assert.Equal(t, 42.5, metrics["balance"])

	_, ok := metrics[MetricFidoDollar]
	assert.False(t, ok, "unknown loyalty balance must be absent, not zero")
	assert.Len(t, metrics, 16)
}

func TestNormalizeKeepsOnlyCategoryFieldKeys(t *testing.T) {
	metrics, err := Normalize(decodeUsage(t, usageFixture), nil, nil)
	require.NoError(t, err)

	expected := make([]string, 0, 15)
	for _, category := range Categories {
		for _, field := range Fields {
			expected = append(expected, MetricKey(category, field))
		}
	}
	assert.ElementsMatch(t, expected, metrics.SortedKeys())
}

func TestNormalizeIsDeterministic(t *testing.T) {
	usage := decodeUsage(t, usageFixture)

	first, err := Normalize(usage, floatPtr(10), floatPtr(3.25))
	require.NoError(t, err)
	second, err := Normalize(usage, floatPtr(10), floatPtr(3.25))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 3.25, second[MetricFidoDollar])
}

func TestNormalizeReadsFirstLineOnly(t *testing.T) {
	usage := decodeUsage(t, usageFixture)
	usage.Data = append(usage.Data, UsageGroup{Summaries: []UsageSummary{{
		Used: floatPtr(999), Total: floatPtr(999), Remaining: floatPtr(0),
	}}})

	metrics, err := Normalize(usage, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, metrics["data_used"])
}

func TestNormalizeFailures(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantPath string
	}{
		{
			name:     "text grouping missing",
			raw:      `{"data":[{"wirelessUsageSummaryInfoList":[{"used":1,"total":2,"remaining":1}]}],"talk":[{"wirelessUsageSummaryInfoList":[{"used":1,"total":2,"remaining":1}]}]}`,
			wantPath: "text",
		},
		{
			name:     "text has two entries",
			raw:      `{"data":[{"wirelessUsageSummaryInfoList":[{"used":1,"total":2,"remaining":1}]}],"talk":[{"wirelessUsageSummaryInfoList":[{"used":1,"total":2,"remaining":1}]}],"text":[{"wirelessUsageSummaryInfoList":[{"used":1,"total":2,"remaining":1},{"used":1,"total":2,"remaining":1}]}]}`,
			wantPath: "text[0].wirelessUsageSummaryInfoList[2]",
		},
		{
			name:     "data field missing",
			raw:      `{"data":[{"wirelessUsageSummaryInfoList":[{"used":1,"total":2}]}]}`,
			wantPath: "data[0].wirelessUsageSummaryInfoList[0].remaining",
		},
		{
			name:     "empty payload",
			raw:      `{}`,
			wantPath: "data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, err := Normalize(decodeUsage(t, tt.raw), floatPtr(1), floatPtr(1))
			require.Error(t, err)
			assert.Nil(t, metrics)

			var normErr *NormalizationError
			require.True(t, errors.As(err, &normErr))
			assert.Equal(t, tt.wantPath, normErr.Path)
		})
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    PhoneNumber
		wantErr string
	}{
		{raw: "5145550199", want: "5145550199"},
		{raw: " (514) 555-0199 ", want: "5145550199"},
		{raw: "514.555.0199", want: "5145550199"},
		{raw: "", wantErr: "phone number is required"},
		{raw: "514-CALL-ME", wantErr: "invalid phone number"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizePhoneNumber(tt.raw)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthErrorMessage(t *testing.T) {
	err := &AuthError{Step: AuthStepAccessToken, Reason: "result has no accessToken"}
	assert.Equal(t, "login failed: missing access token: result has no accessToken", err.Error())

	err = &AuthError{Step: AuthStepAccountNumber}
	assert.Equal(t, "login failed: missing account number", err.Error())
}

func TestCredentialsValidate(t *testing.T) {
	assert.NoError(t, Credentials{PhoneNumber: "5145550199", Password: "secret"}.Validate())
	assert.ErrorContains(t, Credentials{Password: "secret"}.Validate(), "phone number is required")
	assert.ErrorContains(t, Credentials{PhoneNumber: "5145550199"}.Validate(), "password is required")
}
