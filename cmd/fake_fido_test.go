package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

const jsonpWrapper = "window.janrain_capture_get_result_callback("

// fakeFido answers the identity and portal endpoints on one test server.
type fakeFido struct {
	resultBody  string
	loginBody   string
	balanceBody string
	loyaltyBody string
	usageBody   string
	delay       time.Duration

	mu        sync.Mutex
	paths     []string
	passwords []string
}

func newFakeFido() *fakeFido {
	return &fakeFido{
		resultBody:  jsonpWrapper + `{"stat":"ok","result":{"accessToken":"token-abc","userData":{"uuid":"uuid-123"}}}` + ");",
		loginBody:   `{"getCustomerAccounts":{"accounts":[{"accountNumber":"123456789"}]}}`,
		balanceBody: `{"getAccountInfo":{"balance":"42.50"}}`,
		loyaltyBody: `{"fidoDollarBalanceInfoList":[{"fidoDollarBalance":12.75}]}`,
		usageBody: `{
  "data": [{"wirelessUsageSummaryInfoList": [{"used": 5, "total": 100, "remaining": 95}]}],
  "talk": [{"wirelessUsageSummaryInfoList": [{"used": 12, "total": -1, "remaining": -1}]}],
  "text": [{"wirelessUsageSummaryInfoList": [
    {"used": 1, "total": -1, "remaining": -1},
    {"used": 40, "total": 2500, "remaining": 2460},
    {"used": 0, "total": 50, "remaining": 50}
  ]}]
}`,
	}
}

func (f *fakeFido) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	switch r.URL.Path {
	case "/widget/traditional_signin.jsonp":
		_ = r.ParseForm()
		f.mu.Lock()
		f.passwords = append(f.passwords, r.PostForm.Get("currentPassword"))
		f.mu.Unlock()
		_, _ = io.WriteString(w, jsonpWrapper+`{"stat":"ok"}`+");")
	case "/widget/get_result.jsonp":
		_, _ = io.WriteString(w, f.resultBody)
	case "/pages/api/selfserve/v3/login":
		http.SetCookie(w, &http.Cookie{Name: "portal_session", Value: "portal-cookie", Path: "/"})
		_, _ = io.WriteString(w, f.loginBody)
	case "/pages/api/selfserve/v2/accountOverview":
		_, _ = io.WriteString(w, f.balanceBody)
	case "/pages/api/selfserve/v1/wireless/rewards/basicinfo":
		_, _ = io.WriteString(w, f.loyaltyBody)
	case "/pages/api/selfserve/v1/postpaid/dashboard/usage":
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		_, _ = io.WriteString(w, f.usageBody)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeFido) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func (f *fakeFido) Passwords() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.passwords...)
}

// serve points the CLI at the fake for the rest of the test.
func (f *fakeFido) serve(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(f)
	t.Cleanup(server.Close)

	t.Setenv("FIDO_IDENTITY_BASE_URL", server.URL)
	t.Setenv("FIDO_PORTAL_BASE_URL", server.URL)
}
