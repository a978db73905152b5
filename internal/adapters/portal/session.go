package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/bnema/fido-usage-cli/internal/ports"
)

// Session carries the state of one run: base headers, the cookie jar filled
// by the login handshake and the account number it resolved. It is not safe
// to share between runs.
type Session struct {
	client        Client
	http          *http.Client
	jar           http.CookieJar
	headers       map[string]string
	number        domain.PhoneNumber
	accountNumber string
}

var _ ports.PortalSession = (*Session)(nil)

func (s *Session) AccountNumber() string {
	return s.accountNumber
}

func (s *Session) PhoneNumber() domain.PhoneNumber {
	return s.number
}

// Cookies returns the cookies the session would send to rawURL.
func (s *Session) Cookies(rawURL string) []*http.Cookie {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return s.jar.Cookies(parsed)
}

func (s *Session) get(ctx context.Context, baseURL string, path string, query url.Values) (response, error) {
	endpoint, err := buildAPIURL(baseURL, path)
	if err != nil {
		return response{}, err
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return s.do(ctx, http.MethodGet, endpoint, "", nil)
}

func (s *Session) postForm(ctx context.Context, baseURL string, path string, values url.Values) (response, error) {
	endpoint, err := buildAPIURL(baseURL, path)
	if err != nil {
		return response{}, err
	}

	return s.do(ctx, http.MethodPost, endpoint, formContentType, strings.NewReader(values.Encode()))
}

func (s *Session) postJSON(ctx context.Context, baseURL string, path string, payload any) (response, error) {
	endpoint, err := buildAPIURL(baseURL, path)
	if err != nil {
		return response{}, err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("encode request body: %w", err)
	}

	return s.do(ctx, http.MethodPost, endpoint, jsonContentType, bytes.NewReader(encoded))
}

func (s *Session) do(ctx context.Context, method string, endpoint string, contentType string, body io.Reader) (response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return response{}, fmt.Errorf("read response: %w", err)
	}

	return response{StatusCode: resp.StatusCode, Body: data}, nil
}
