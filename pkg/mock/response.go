package mock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// ContentResolver resolves a body reference from a definition file to a
// readable stream of its content. Implementations decide what a reference
// means (a file path, a URL, ...).
type ContentResolver interface {
	Open(ref string) (io.ReadCloser, error)
}

// Errors reported by the validating setters.
var (
	ErrStatusRange     = errors.New("status must be in the range 100..599")
	ErrPercentileRange = errors.New("percentile must be in the range 0..100")
)

// TypeError reports a definition attribute holding a value of the wrong type.
type TypeError struct {
	Key  string
	Want string
	Got  any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("attribute %q: expected %s, got %T", e.Key, e.Want, e.Got)
}

// Response is one configured mock response: HTTP status, response delay,
// headers, body, and the percentile weight used by a consumer to choose
// among multiple responses configured for the same endpoint.
//
// A Response is built either with New followed by chained With* setters,
// or with Parse from a generic attribute map decoded from a definition
// file.
type Response struct {
	status     int
	delay      int64 // milliseconds
	percentile int
	headers    map[string]string
	body       string
	err        error
}

// New returns an empty response: zero status, delay and percentile, an
// empty header map, and no body.
func New() *Response {
	return &Response{headers: map[string]string{}}
}

// Parse builds a response from a generic attribute map, typically decoded
// from a JSON or YAML definition file. Missing "status" and "delay"
// attributes fall back to the given defaults; a missing "percentile" is
// zero (unweighted).
//
// The "body" attribute is either a string, treated as a reference and
// loaded through resolver, or any structured value, rendered as indented
// JSON. Parse takes status and percentile values as written in the
// definition; the With* range checks apply only to the setters.
func Parse(defaultStatus int, defaultDelay int64, attrs map[string]any, resolver ContentResolver) (*Response, error) {
	r := New()
	r.status = defaultStatus
	r.delay = defaultDelay

	if v, ok := attrs["status"]; ok {
		n, err := intAttr("status", v)
		if err != nil {
			return nil, err
		}
		r.status = n
	}
	if v, ok := attrs["delay"]; ok {
		n, err := intAttr("delay", v)
		if err != nil {
			return nil, err
		}
		r.delay = int64(n)
	}
	if v, ok := attrs["percentile"]; ok {
		n, err := intAttr("percentile", v)
		if err != nil {
			return nil, err
		}
		r.percentile = n
	}
	if v, ok := attrs["headers"]; ok {
		hdrs, err := headerAttr("headers", v)
		if err != nil {
			return nil, err
		}
		for k, val := range hdrs {
			r.headers[k] = val
		}
	}
	if v, ok := attrs["body"]; ok {
		body, err := resolveBody(v, resolver)
		if err != nil {
			return nil, fmt.Errorf("failed to parse endpoint response: %w", err)
		}
		r.body = body
	}

	return r, nil
}

// resolveBody turns a "body" attribute value into body text: a string is
// a reference loaded through the resolver, anything else is rendered as
// indented JSON. The content stream is closed on every path; a close
// failure never masks the read outcome.
func resolveBody(v any, resolver ContentResolver) (string, error) {
	ref, ok := v.(string)
	if !ok {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if resolver == nil {
		return "", fmt.Errorf("no content resolver for reference %q", ref)
	}
	rc, err := resolver.Open(ref)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// intAttr decodes a numeric attribute. JSON decoding yields float64,
// YAML yields int; both are accepted.
func intAttr(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &TypeError{Key: key, Want: "integer", Got: v}
		}
		return int(i), nil
	}
	return 0, &TypeError{Key: key, Want: "integer", Got: v}
}

// headerAttr decodes a "headers" attribute into a string-to-string map.
func headerAttr(key string, v any) (map[string]string, error) {
	switch m := v.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, &TypeError{Key: key + "." + k, Want: "string", Got: val}
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, &TypeError{Key: key, Want: "object of strings", Got: v}
}

// Status returns the configured HTTP status.
func (r *Response) Status() int {
	return r.status
}

// WithStatus sets the HTTP status to return. A status outside 100..599
// is rejected: the prior value is kept and the error is recorded in Err.
func (r *Response) WithStatus(status int) *Response {
	if status < 100 || status > 599 {
		r.setErr(ErrStatusRange)
		return r
	}
	r.status = status
	return r
}

// Delay returns the configured response delay in milliseconds.
func (r *Response) Delay() int64 {
	return r.delay
}

// WithDelay sets the number of milliseconds a consumer should wait
// before returning the response.
func (r *Response) WithDelay(delay int64) *Response {
	r.delay = delay
	return r
}

// Percentile returns the configured percentile weight.
func (r *Response) Percentile() int {
	return r.percentile
}

// WithPercentile sets the weight used to choose this response out of
// multiple choices for the same endpoint. A value outside 0..100 is
// rejected: the prior value is kept and the error is recorded in Err.
func (r *Response) WithPercentile(percentile int) *Response {
	if percentile < 0 || percentile > 100 {
		r.setErr(ErrPercentileRange)
		return r
	}
	r.percentile = percentile
	return r
}

// Headers returns the response's header map. It is the owned map, not a
// copy; entries added by the caller become part of the response.
func (r *Response) Headers() map[string]string {
	return r.headers
}

// WithHeader sets a single header, overwriting any existing entry for key.
func (r *Response) WithHeader(key, value string) *Response {
	r.headers[key] = value
	return r
}

// Body returns the resolved body text, or the empty string when no body
// is configured.
func (r *Response) Body() string {
	return r.body
}

// WithBody replaces the body text.
func (r *Response) WithBody(body string) *Response {
	r.body = body
	return r
}

// Err returns the first validation error recorded by a setter chain, or
// nil when every call succeeded.
func (r *Response) Err() error {
	return r.err
}

func (r *Response) setErr(err error) {
	if r.err == nil {
		r.err = err
	}
}

// String renders the response as the decimal form of its status.
func (r *Response) String() string {
	return strconv.Itoa(r.status)
}

// Compare orders responses by percentile weight: 0 when equal, 1 when r
// carries the higher percentile, -1 otherwise.
func (r *Response) Compare(o *Response) int {
	switch {
	case r.percentile == o.percentile:
		return 0
	case r.percentile > o.percentile:
		return 1
	default:
		return -1
	}
}

// SortByPercentile sorts responses in place by ascending percentile weight.
func SortByPercentile(responses []*Response) {
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Compare(responses[j]) < 0
	})
}

// responseJSON is the persisted form of a response; the body is stored
// already resolved.
type responseJSON struct {
	Status     int               `json:"status"`
	Delay      int64             `json:"delay,omitempty"`
	Percentile int               `json:"percentile,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseJSON{
		Status:     r.status,
		Delay:      r.delay,
		Percentile: r.percentile,
		Headers:    r.headers,
		Body:       r.body,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw responseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.status = raw.Status
	r.delay = raw.Delay
	r.percentile = raw.Percentile
	r.headers = raw.Headers
	if r.headers == nil {
		r.headers = map[string]string{}
	}
	r.body = raw.Body
	return nil
}
