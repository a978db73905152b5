package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type accountOverviewPayload struct {
	GetAccountInfo struct {
		Balance json.RawMessage `json:"balance"`
	} `json:"getAccountInfo"`
}

type loyaltyRequest struct {
	FidoDollarBalanceFormList []loyaltyRequestEntry `json:"fidoDollarBalanceFormList"`
}

type loyaltyRequestEntry struct {
	PhoneNumber   string `json:"phoneNumber"`
	AccountNumber string `json:"accountNumber"`
}

type loyaltyPayload struct {
	FidoDollarBalanceInfoList []struct {
		FidoDollarBalance json.RawMessage `json:"fidoDollarBalance"`
	} `json:"fidoDollarBalanceInfoList"`
}

func (s *Session) lineValues() url.Values {
	values := url.Values{}
	values.Set("ctn", string(s.number))
	values.Set("language", s.client.locale())
	values.Set("accountNumber", s.accountNumber)
	return values
}

// FetchBalance returns the account balance, or nil when the overview does
// not carry a usable one. Only transport failures are errors.
func (s *Session) FetchBalance(ctx context.Context) (*float64, error) {
	resp, err := s.postForm(ctx, s.client.API.PortalBaseURL, accountOverview, s.lineValues())
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	var payload accountOverviewPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		s.fetchLogger("balance").WithError(err).WithField("status", resp.StatusCode).Warn("balance response is not usable")
		return nil, nil
	}

	return parseOptionalFloat(payload.GetAccountInfo.Balance), nil
}

// FetchLoyaltyBalance returns the Fido dollar balance, or nil when unknown.
func (s *Session) FetchLoyaltyBalance(ctx context.Context) (*float64, error) {
	body := loyaltyRequest{FidoDollarBalanceFormList: []loyaltyRequestEntry{{
		PhoneNumber:   string(s.number),
		AccountNumber: s.accountNumber,
	}}}

	resp, err := s.postJSON(ctx, s.client.API.PortalBaseURL, rewardsBasicInfo, body)
	if err != nil {
		return nil, fmt.Errorf("fetch fido dollar balance: %w", err)
	}

	var payload loyaltyPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		s.fetchLogger("fido_dollar").WithError(err).WithField("status", resp.StatusCode).Warn("fido dollar response is not usable")
		return nil, nil
	}
	if len(payload.FidoDollarBalanceInfoList) == 0 {
		return nil, nil
	}

	return parseOptionalFloat(payload.FidoDollarBalanceInfoList[0].FidoDollarBalance), nil
}

func (s *Session) FetchUsage(ctx context.Context) (domain.RawUsage, error) {
	resp, err := s.postForm(ctx, s.client.API.PortalBaseURL, dashboardUsage, s.lineValues())
	if err != nil {
		return domain.RawUsage{}, fmt.Errorf("fetch usage: %w", err)
	}
	if !resp.ok() {
		return domain.RawUsage{}, fmt.Errorf("fetch usage: %w", resp.statusError())
	}

	var usage domain.RawUsage
	if err := json.Unmarshal(resp.Body, &usage); err != nil {
		return domain.RawUsage{}, fmt.Errorf("fetch usage: decode response: %w", err)
	}

	return usage, nil
}

func (s *Session) fetchLogger(metric string) logrus.FieldLogger {
	return s.client.logger().WithFields(logrus.Fields{"component": "fetcher", "metric": metric})
}

// parseOptionalFloat reads a JSON number or numeric string. Anything else,
// including null and absence, is nil.
func parseOptionalFloat(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
	}

	value, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return nil
	}

	f := value.InexactFloat64()
	return &f
}
