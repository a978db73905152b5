package portal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonpTestPrefix = "window.janrain_capture_get_result_callback("

const usageBody = `{
  "data": [{"wirelessUsageSummaryInfoList": [{"used": 5, "total": 100, "remaining": 95}]}],
  "talk": [{"wirelessUsageSummaryInfoList": [{"used": 12, "total": -1, "remaining": -1}]}],
  "text": [{"wirelessUsageSummaryInfoList": [
    {"used": 1, "total": -1, "remaining": -1},
    {"used": 40, "total": 2500, "remaining": 2460},
    {"used": 0, "total": 50, "remaining": 50}
  ]}]
}`

func wrapJSONP(payload string) string {
	return jsonpTestPrefix + payload + ");"
}

// fakeFido serves both the identity provider and the portal endpoints.
type fakeFido struct {
	t *testing.T

	resultBody      string
	loginBody       string
	balanceBody     string
	loyaltyBody     string
	usageBody       string
	usageStatus     int
	lastLoyaltyBody []byte

	mu    sync.Mutex
	calls []string
	forms map[string]map[string]string
}

func newFakeFido(t *testing.T) *fakeFido {
	return &fakeFido{
		t:           t,
		resultBody:  wrapJSONP(`{"stat":"ok","result":{"accessToken":"token-abc","userData":{"uuid":"uuid-123"}}}`),
		loginBody:   `{"getCustomerAccounts":{"accounts":[{"accountNumber":"123456789"},{"accountNumber":"987654321"}]}}`,
		balanceBody: `{"getAccountInfo":{"balance":"42.50"}}`,
		loyaltyBody: `{"fidoDollarBalanceInfoList":[{"fidoDollarBalance":12.75}]}`,
		usageBody:   usageBody,
		forms:       map[string]map[string]string{},
	}
}

func (f *fakeFido) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.URL.Path)
	if r.Header.Get("Content-Type") == formContentType {
		require.NoError(f.t, r.ParseForm())
		values := map[string]string{}
		for key := range r.PostForm {
			values[key] = r.PostForm.Get(key)
		}
		f.forms[r.URL.Path] = values
	}
}

func (f *fakeFido) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFido) Form(path string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[path]
}

func (f *fakeFido) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, DefaultUserAgent, r.Header.Get("User-Agent"))

	switch r.URL.Path {
	case signInPath:
		f.record(r)
		assert.Equal(f.t, http.MethodPost, r.Method)
		http.SetCookie(w, &http.Cookie{Name: "capture_session", Value: "identity-cookie", Path: "/"})
		_, _ = io.WriteString(w, wrapJSONP(`{"stat":"ok"}`))
	case getResultPath:
		f.record(r)
		assert.Equal(f.t, http.MethodGet, r.Method)
		assert.Equal(f.t, DefaultSignInForm().TransactionID, r.URL.Query().Get("transactionId"))
		cookie, err := r.Cookie("capture_session")
		if assert.NoError(f.t, err) {
			assert.Equal(f.t, "identity-cookie", cookie.Value)
		}
		_, _ = io.WriteString(w, f.resultBody)
	case loginPath:
		f.record(r)
		http.SetCookie(w, &http.Cookie{Name: "portal_session", Value: "portal-cookie", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, f.loginBody)
	case accountOverview:
		f.record(r)
		f.requirePortalCookie(r)
		_, _ = io.WriteString(w, f.balanceBody)
	case rewardsBasicInfo:
		f.mu.Lock()
		f.calls = append(f.calls, r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		f.lastLoyaltyBody = body
		f.mu.Unlock()
		assert.Equal(f.t, jsonContentType, r.Header.Get("Content-Type"))
		f.requirePortalCookie(r)
		_, _ = io.WriteString(w, f.loyaltyBody)
	case dashboardUsage:
		f.record(r)
		f.requirePortalCookie(r)
		if f.usageStatus != 0 {
			w.WriteHeader(f.usageStatus)
		}
		_, _ = io.WriteString(w, f.usageBody)
	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeFido) requirePortalCookie(r *http.Request) {
	cookie, err := r.Cookie("portal_session")
	if assert.NoError(f.t, err, "portal call without session cookie") {
		assert.Equal(f.t, "portal-cookie", cookie.Value)
	}
}

func (f *fakeFido) LoyaltyRequest() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	var decoded map[string]any
	require.NoError(f.t, json.Unmarshal(f.lastLoyaltyBody, &decoded))
	return decoded
}

func newTestClient(t *testing.T, fake *fakeFido) Client {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	api := DefaultAPI()
	api.IdentityBaseURL = server.URL
	api.PortalBaseURL = server.URL

	return Client{API: api, HTTPClient: server.Client()}
}
