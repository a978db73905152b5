package portal

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = domain.Credentials{PhoneNumber: "5145550199", Password: "hunter2"}

func TestJSONPPrefixMatchesProviderWrapper(t *testing.T) {
	assert.Len(t, jsonpTestPrefix, jsonpPrefixLen)
	assert.Len(t, ");", jsonpSuffixLen)

	payload, err := stripJSONP([]byte(wrapJSONP(`{"result":{}}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"result":{}}`, string(payload))
}

func TestStripJSONPRejectsUnexpectedWrapper(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "too short", body: `{"a":1}`},
		{name: "plain json", body: `{"result":{"accessToken":"token-abc","userData":{"uuid":"uuid-123"}}}`},
		{name: "missing suffix", body: jsonpTestPrefix + `{"result":{}}` + "\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stripJSONP([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errJSONPWrapper))
		})
	}
}

func TestLoginRunsHandshakeInOrder(t *testing.T) {
	fake := newFakeFido(t)
	client := newTestClient(t, fake)

	session, err := client.Login(context.Background(), testCreds)
	require.NoError(t, err)

	assert.Equal(t, "123456789", session.AccountNumber())
	assert.Equal(t, []string{signInPath, getResultPath, loginPath}, fake.Calls())

	signIn := fake.Form(signInPath)
	assert.Equal(t, "5145550199", signIn["userID"])
	assert.Equal(t, "hunter2", signIn["currentPassword"])
	assert.Equal(t, "signInForm", signIn["form"])
	assert.Equal(t, "fido", signIn["flow"])
	assert.Equal(t, "token", signIn["response_type"])
	assert.Equal(t, "fr", signIn["locale"])
	assert.Equal(t, DefaultSignInForm().ClientID, signIn["client_id"])
	assert.Equal(t, DefaultSignInForm().TransactionID, signIn["capture_transactionId"])

	login := fake.Form(loginPath)
	assert.Equal(t, "token-abc", login["accessToken"])
	assert.Equal(t, "uuid-123", login["uuid"])
}

func TestLoginAcceptsNumericAccountNumber(t *testing.T) {
	fake := newFakeFido(t)
	fake.loginBody = `{"getCustomerAccounts":{"accounts":[{"accountNumber":123456789}]}}`
	client := newTestClient(t, fake)

	session, err := client.Login(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, "123456789", session.AccountNumber())
}

func TestLoginMissingAccessTokenStopsBeforePortal(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no result", body: wrapJSONP(`{"stat":"error","error":"invalid_credentials"}`)},
		{name: "no access token", body: wrapJSONP(`{"stat":"ok","result":{"userData":{"uuid":"uuid-123"}}}`)},
		{name: "no user uuid", body: wrapJSONP(`{"stat":"ok","result":{"accessToken":"token-abc"}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeFido(t)
			fake.resultBody = tt.body
			client := newTestClient(t, fake)

			session, err := client.Login(context.Background(), testCreds)
			require.Error(t, err)
			assert.Nil(t, session)

			var authErr *domain.AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, domain.AuthStepAccessToken, authErr.Step)
			assert.NotContains(t, fake.Calls(), loginPath)
		})
	}
}

func TestLoginMissingAccountNumber(t *testing.T) {
	fake := newFakeFido(t)
	fake.loginBody = `{"getCustomerAccounts":{"accounts":[]}}`
	client := newTestClient(t, fake)

	_, err := client.Login(context.Background(), testCreds)
	require.Error(t, err)

	var authErr *domain.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, domain.AuthStepAccountNumber, authErr.Step)
}

func TestLoginMalformedResultIsNotAnAuthError(t *testing.T) {
	fake := newFakeFido(t)
	fake.resultBody = wrapJSONP(`{"result":`)
	client := newTestClient(t, fake)

	_, err := client.Login(context.Background(), testCreds)
	require.Error(t, err)

	var authErr *domain.AuthError
	assert.False(t, errors.As(err, &authErr))
	assert.Contains(t, err.Error(), "decode jsonp payload")
}

func TestLoginRejectsIncompleteCredentials(t *testing.T) {
	fake := newFakeFido(t)
	client := newTestClient(t, fake)

	_, err := client.Login(context.Background(), domain.Credentials{PhoneNumber: "5145550199"})
	require.Error(t, err)
	assert.Empty(t, fake.Calls())
}

func TestFetchesUseSessionCookiesAndAccount(t *testing.T) {
	fake := newFakeFido(t)
	client := newTestClient(t, fake)
	ctx := context.Background()

	session, err := client.Login(ctx, testCreds)
	require.NoError(t, err)

	balance, err := session.FetchBalance(ctx)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, 42.5, *balance)

	loyalty, err := session.FetchLoyaltyBalance(ctx)
	require.NoError(t, err)
	require.NotNil(t, loyalty)
	assert.Equal(t, 12.75, *loyalty)

	usage, err := session.FetchUsage(ctx)
	require.NoError(t, err)
	require.Len(t, usage.Text, 1)
	assert.Len(t, usage.Text[0].Summaries, 3)

	for _, path := range []string{accountOverview, dashboardUsage} {
		form := fake.Form(path)
		assert.Equal(t, "5145550199", form["ctn"], path)
		assert.Equal(t, "123456789", form["accountNumber"], path)
		assert.Equal(t, "fr", form["language"], path)
	}

	assert.Equal(t, map[string]any{
		"fidoDollarBalanceFormList": []any{
			map[string]any{"phoneNumber": "5145550199", "accountNumber": "123456789"},
		},
	}, fake.LoyaltyRequest())
}

func TestFetchBalanceResolvesToNilWhenUnusable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "field missing", body: `{"getAccountInfo":{}}`},
		{name: "section missing", body: `{}`},
		{name: "null", body: `{"getAccountInfo":{"balance":null}}`},
		{name: "not numeric", body: `{"getAccountInfo":{"balance":"n/a"}}`},
		{name: "not json", body: `<html>maintenance</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeFido(t)
			fake.balanceBody = tt.body
			client := newTestClient(t, fake)
			ctx := context.Background()

			session, err := client.Login(ctx, testCreds)
			require.NoError(t, err)

			balance, err := session.FetchBalance(ctx)
			require.NoError(t, err)
			assert.Nil(t, balance)
		})
	}
}

func TestFetchLoyaltyBalanceResolvesToNilWhenUnusable(t *testing.T) {
	for _, body := range []string{`{}`, `{"fidoDollarBalanceInfoList":[]}`, `{"fidoDollarBalanceInfoList":[{}]}`, `oops`} {
		fake := newFakeFido(t)
		fake.loyaltyBody = body
		client := newTestClient(t, fake)
		ctx := context.Background()

		session, err := client.Login(ctx, testCreds)
		require.NoError(t, err)

		loyalty, err := session.FetchLoyaltyBalance(ctx)
		require.NoError(t, err, body)
		assert.Nil(t, loyalty, body)
	}
}

func TestFetchUsageFailsOnErrorStatus(t *testing.T) {
	fake := newFakeFido(t)
	fake.usageStatus = http.StatusInternalServerError
	fake.usageBody = `{"error":"boom"}`
	client := newTestClient(t, fake)
	ctx := context.Background()

	session, err := client.Login(ctx, testCreds)
	require.NoError(t, err)

	_, err = session.FetchUsage(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestParseOptionalFloat(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{raw: `42.5`, want: ptr(42.5)},
		{raw: `"42.50"`, want: ptr(42.5)},
		{raw: `" -3 "`, want: ptr(-3)},
		{raw: `0`, want: ptr(0)},
		{raw: ``},
		{raw: `null`},
		{raw: `true`},
		{raw: `"abc"`},
		{raw: `{"amount":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOptionalFloat([]byte(tt.raw)))
		})
	}
}

func TestBuildAPIURL(t *testing.T) {
	endpoint, err := buildAPIURL("https://www.fido.ca/", loginPath)
	require.NoError(t, err)
	assert.Equal(t, "https://www.fido.ca/pages/api/selfserve/v3/login", endpoint)

	endpoint, err = buildAPIURL("http://127.0.0.1:8080/proxy", getResultPath)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/proxy/widget/get_result.jsonp", endpoint)

	_, err = buildAPIURL("ftp://example.com", loginPath)
	assert.ErrorContains(t, err, "http or https")
}

func TestMaskAccount(t *testing.T) {
	assert.Equal(t, "*****6789", maskAccount("123456789"))
	assert.Equal(t, "***", maskAccount("123"))
}

func ptr(v float64) *float64 {
	return &v
}
