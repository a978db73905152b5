package portal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// get_result.jsonp wraps its payload as
// "window.janrain_capture_get_result_callback(" + payload + ");".
const (
	jsonpPrefixLen = 43
	jsonpSuffixLen = 2
)

var errJSONPWrapper = errors.New("unexpected jsonp wrapper")

func stripJSONP(body []byte) ([]byte, error) {
	if len(body) < jsonpPrefixLen+jsonpSuffixLen {
		return nil, fmt.Errorf("%w: body is %d bytes", errJSONPWrapper, len(body))
	}

	prefix := body[:jsonpPrefixLen]
	suffix := body[len(body)-jsonpSuffixLen:]
	if prefix[len(prefix)-1] != '(' || suffix[0] != ')' {
		return nil, fmt.Errorf("%w: %q...%q", errJSONPWrapper, prefix, suffix)
	}

	return body[jsonpPrefixLen : len(body)-jsonpSuffixLen], nil
}

func decodeJSONP(body []byte, v any) error {
	payload, err := stripJSONP(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode jsonp payload: %w", err)
	}
	return nil
}
