package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/sirupsen/logrus"
)

type getResultPayload struct {
	Result *struct {
		AccessToken string `json:"accessToken"`
		UserData    struct {
			UUID string `json:"uuid"`
		} `json:"userData"`
	} `json:"result"`
}

type loginPayload struct {
	GetCustomerAccounts struct {
		Accounts []struct {
			AccountNumber flexString `json:"accountNumber"`
		} `json:"accounts"`
	} `json:"getCustomerAccounts"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("account number is neither string nor number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// Login runs the three-step handshake: sign-in form on the identity
// provider, result polling for the access token, then token exchange for a
// portal session. Each step reuses the cookies set by the previous ones.
func (c Client) Login(ctx context.Context, creds domain.Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	session, err := c.newSession(creds.PhoneNumber)
	if err != nil {
		return nil, err
	}
	log := c.logger().WithField("component", "authenticator")

	log.WithField("step", 1).Debug("submitting sign-in form")
	if err := session.signIn(ctx, creds); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	log.WithField("step", 2).Debug("fetching sign-in result")
	result, err := session.fetchResult(ctx)
	if err != nil {
		return nil, err
	}

	log.WithField("step", 3).Debug("exchanging access token for portal session")
	accountNumber, err := session.exchangeToken(ctx, result)
	if err != nil {
		return nil, err
	}
	session.accountNumber = accountNumber

	log.WithFields(logrus.Fields{"step": 3, "account": maskAccount(accountNumber)}).Debug("portal session ready")
	return session, nil
}

func (s *Session) signIn(ctx context.Context, creds domain.Credentials) error {
	form := s.client.API.SignIn
	values := url.Values{}
	values.Set("utf8", "✓")
	values.Set("capture_screen", "signIn")
	values.Set("js_version", form.JSVersion)
	values.Set("capture_transactionId", form.TransactionID)
	values.Set("form", "signInForm")
	values.Set("flow", "fido")
	values.Set("client_id", form.ClientID)
	values.Set("redirect_uri", form.RedirectURI)
	values.Set("response_type", "token")
	values.Set("flow_version", form.FlowVersion)
	values.Set("settings_version", "")
	values.Set("locale", s.client.locale())
	values.Set("recaptchaVersion", "1")
	values.Set("userID", string(creds.PhoneNumber))
	values.Set("currentPassword", creds.Password)

	// The sign-in answer carries nothing but cookies; the outcome is read
	// from get_result.
	_, err := s.postForm(ctx, s.client.API.IdentityBaseURL, signInPath, values)
	return err
}

type signInResult struct {
	AccessToken string
	UUID        string
}

func (s *Session) fetchResult(ctx context.Context) (signInResult, error) {
	query := url.Values{}
	query.Set("transactionId", s.client.API.SignIn.TransactionID)

	resp, err := s.get(ctx, s.client.API.IdentityBaseURL, getResultPath, query)
	if err != nil {
		return signInResult{}, fmt.Errorf("get sign-in result: %w", err)
	}

	var payload getResultPayload
	if err := decodeJSONP(resp.Body, &payload); err != nil {
		return signInResult{}, fmt.Errorf("get sign-in result: %w", err)
	}

	if payload.Result == nil {
		return signInResult{}, &domain.AuthError{Step: domain.AuthStepAccessToken, Reason: "no result in sign-in response"}
	}
	token := strings.TrimSpace(payload.Result.AccessToken)
	if token == "" {
		return signInResult{}, &domain.AuthError{Step: domain.AuthStepAccessToken, Reason: "no accessToken in sign-in result"}
	}
	uuid := strings.TrimSpace(payload.Result.UserData.UUID)
	if uuid == "" {
		return signInResult{}, &domain.AuthError{Step: domain.AuthStepAccessToken, Reason: "no userData.uuid in sign-in result"}
	}

	return signInResult{AccessToken: token, UUID: uuid}, nil
}

func (s *Session) exchangeToken(ctx context.Context, result signInResult) (string, error) {
	values := url.Values{}
	values.Set("accessToken", result.AccessToken)
	values.Set("uuid", result.UUID)

	resp, err := s.postForm(ctx, s.client.API.PortalBaseURL, loginPath, values)
	if err != nil {
		return "", fmt.Errorf("portal login: %w", err)
	}

	var payload loginPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		if !resp.ok() {
			return "", fmt.Errorf("portal login: %w", resp.statusError())
		}
		return "", fmt.Errorf("portal login: decode response: %w", err)
	}

	accounts := payload.GetCustomerAccounts.Accounts
	if len(accounts) == 0 {
		return "", &domain.AuthError{Step: domain.AuthStepAccountNumber, Reason: "no account linked to this login"}
	}
	accountNumber := strings.TrimSpace(string(accounts[0].AccountNumber))
	if accountNumber == "" {
		return "", &domain.AuthError{Step: domain.AuthStepAccountNumber, Reason: "first account has no accountNumber"}
	}

	return accountNumber, nil
}

func maskAccount(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return strings.Repeat("*", len(accountNumber))
	}
	return strings.Repeat("*", len(accountNumber)-4) + accountNumber[len(accountNumber)-4:]
}
