package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/bnema/fido-usage-cli/internal/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

const maxResponseBytes = 4 << 20

const (
	DefaultIdentityBaseURL = "https://rogers-fido.janraincapture.com"
	DefaultPortalBaseURL   = "https://www.fido.ca"
	DefaultLocale          = "fr"
	DefaultUserAgent       = "Mozilla/5.0 (X11; Linux x86_64; rv:10.0.7) Gecko/20100101 Firefox/10.0.7 Iceweasel/10.0.7"
)

const (
	signInPath        = "/widget/traditional_signin.jsonp"
	getResultPath     = "/widget/get_result.jsonp"
	loginPath         = "/pages/api/selfserve/v3/login"
	accountOverview   = "/pages/api/selfserve/v2/accountOverview"
	rewardsBasicInfo  = "/pages/api/selfserve/v1/wireless/rewards/basicinfo"
	dashboardUsage    = "/pages/api/selfserve/v1/postpaid/dashboard/usage"
	formContentType   = "application/x-www-form-urlencoded"
	jsonContentType   = "application/json;charset=UTF-8"
	defaultRedirectTo = "https://www.fido.ca/pages/#/"
)

// SignInForm holds the fixed values the identity provider expects from the
// Fido web client.
type SignInForm struct {
	TransactionID string
	ClientID      string
	JSVersion     string
	FlowVersion   string
	RedirectURI   string
}

func DefaultSignInForm() SignInForm {
	return SignInForm{
		TransactionID: "bxpgwszl8jgtooke73nbwfyul2f84tp2ffqxx8bb",
		ClientID:      "bfkecrvys7sprse8kc4wtwugr2bj9hmp",
		JSVersion:     "ccadba4",
		FlowVersion:   "d707d6bc-625a-40fa-9f95-aff1c1dbe1dd",
		RedirectURI:   defaultRedirectTo,
	}
}

type API struct {
	IdentityBaseURL string
	PortalBaseURL   string
	Locale          string
	UserAgent       string
	SignIn          SignInForm
}

func DefaultAPI() API {
	return API{
		IdentityBaseURL: DefaultIdentityBaseURL,
		PortalBaseURL:   DefaultPortalBaseURL,
		Locale:          DefaultLocale,
		UserAgent:       DefaultUserAgent,
		SignIn:          DefaultSignInForm(),
	}
}

// Client talks to the identity provider and the Fido self-serve API. It is
// stateless; Authenticate returns a Session that owns the cookies.
type Client struct {
	API        API
	HTTPClient *http.Client
	// Timeout applies to each request when non-zero. Zero keeps the
	// transport default.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

var _ ports.Portal = Client{}

func (c Client) Authenticate(ctx context.Context, creds domain.Credentials) (ports.PortalSession, error) {
	session, err := c.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (c Client) newSession(number domain.PhoneNumber) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	httpClient := &http.Client{Jar: jar, Timeout: c.Timeout}
	if c.HTTPClient != nil {
		httpClient.Transport = c.HTTPClient.Transport
		httpClient.CheckRedirect = c.HTTPClient.CheckRedirect
		if httpClient.Timeout == 0 {
			httpClient.Timeout = c.HTTPClient.Timeout
		}
	}

	userAgent := c.API.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Session{
		client:  c,
		http:    httpClient,
		jar:     jar,
		number:  number,
		headers: map[string]string{"User-Agent": userAgent},
	}, nil
}

func (c Client) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func (c Client) locale() string {
	if c.API.Locale != "" {
		return c.API.Locale
	}
	return DefaultLocale
}

type response struct {
	StatusCode int
	Body       []byte
}

func (r response) ok() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

func (r response) statusError() error {
	return fmt.Errorf("status %d: %s", r.StatusCode, truncate(strings.TrimSpace(string(r.Body)), 200))
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(strings.TrimRight(parsed.Path, "/") + path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
