package mock

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

// stubResolver returns canned content (or a canned error) for any reference.
type stubResolver struct {
	content  string
	openErr  error
	closeErr error
	lastRef  string
}

func (s *stubResolver) Open(ref string) (io.ReadCloser, error) {
	s.lastRef = ref
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &stubStream{Reader: strings.NewReader(s.content), closeErr: s.closeErr}, nil
}

type stubStream struct {
	*strings.Reader
	closeErr error
}

func (s *stubStream) Close() error {
	return s.closeErr
}

func TestNewDefaults(t *testing.T) {
	r := New()

	if r.Status() != 0 {
		t.Errorf("Status() = %d, want 0", r.Status())
	}
	if r.Delay() != 0 {
		t.Errorf("Delay() = %d, want 0", r.Delay())
	}
	if r.Percentile() != 0 {
		t.Errorf("Percentile() = %d, want 0", r.Percentile())
	}
	if r.Headers() == nil {
		t.Error("Headers() = nil, want empty map")
	}
	if len(r.Headers()) != 0 {
		t.Errorf("Headers() has %d entries, want 0", len(r.Headers()))
	}
	if r.Body() != "" {
		t.Errorf("Body() = %q, want empty", r.Body())
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestWithStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		ok     bool
	}{
		{"lower bound", 100, true},
		{"upper bound", 599, true},
		{"typical", 404, true},
		{"below range", 99, false},
		{"above range", 600, false},
		{"zero", 0, false},
		{"negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New().WithStatus(200).WithStatus(tt.status)
			if tt.ok {
				if r.Err() != nil {
					t.Fatalf("Err() = %v, want nil", r.Err())
				}
				if r.Status() != tt.status {
					t.Errorf("Status() = %d, want %d", r.Status(), tt.status)
				}
			} else {
				if !errors.Is(r.Err(), ErrStatusRange) {
					t.Fatalf("Err() = %v, want ErrStatusRange", r.Err())
				}
				if r.Status() != 200 {
					t.Errorf("Status() = %d, want prior value 200", r.Status())
				}
			}
		})
	}
}

func TestWithPercentile(t *testing.T) {
	tests := []struct {
		name       string
		percentile int
		ok         bool
	}{
		{"lower bound", 0, true},
		{"upper bound", 100, true},
		{"typical", 75, true},
		{"negative", -1, false},
		{"above range", 101, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New().WithPercentile(50).WithPercentile(tt.percentile)
			if tt.ok {
				if r.Err() != nil {
					t.Fatalf("Err() = %v, want nil", r.Err())
				}
				if r.Percentile() != tt.percentile {
					t.Errorf("Percentile() = %d, want %d", r.Percentile(), tt.percentile)
				}
			} else {
				if !errors.Is(r.Err(), ErrPercentileRange) {
					t.Fatalf("Err() = %v, want ErrPercentileRange", r.Err())
				}
				if r.Percentile() != 50 {
					t.Errorf("Percentile() = %d, want prior value 50", r.Percentile())
				}
			}
		})
	}
}

func TestSetterChaining(t *testing.T) {
	r := New().
		WithStatus(503).
		WithDelay(250).
		WithPercentile(80).
		WithHeader("Content-Type", "application/json").
		WithBody(`{"error":"unavailable"}`)

	if r.Err() != nil {
		t.Fatalf("Err() = %v, want nil", r.Err())
	}
	if r.Status() != 503 || r.Delay() != 250 || r.Percentile() != 80 {
		t.Errorf("got status=%d delay=%d percentile=%d", r.Status(), r.Delay(), r.Percentile())
	}
	if r.Headers()["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q", r.Headers()["Content-Type"])
	}
	if r.Body() != `{"error":"unavailable"}` {
		t.Errorf("Body() = %q", r.Body())
	}
}

func TestErrKeepsFirstError(t *testing.T) {
	r := New().WithStatus(42).WithPercentile(500)
	if !errors.Is(r.Err(), ErrStatusRange) {
		t.Errorf("Err() = %v, want ErrStatusRange", r.Err())
	}
}

func TestHeaderOverwriteAndAliasing(t *testing.T) {
	r := New().WithHeader("X", "1").WithHeader("X", "2")

	if len(r.Headers()) != 1 {
		t.Fatalf("Headers() has %d entries, want 1", len(r.Headers()))
	}
	if r.Headers()["X"] != "2" {
		t.Errorf(`Headers()["X"] = %q, want "2"`, r.Headers()["X"])
	}

	// The accessor hands out the owned map.
	r.Headers()["Y"] = "3"
	if r.Headers()["Y"] != "3" {
		t.Error("external mutation not visible through the response")
	}
}

func TestString(t *testing.T) {
	r := New().WithStatus(404)
	if got := r.String(); got != "404" {
		t.Errorf("String() = %q, want %q", got, "404")
	}
}

func TestCompare(t *testing.T) {
	low := New().WithPercentile(10)
	high := New().WithPercentile(90)
	alsoLow := New().WithPercentile(10)

	if got := low.Compare(alsoLow); got != 0 {
		t.Errorf("Compare(equal) = %d, want 0", got)
	}
	if got := high.Compare(low); got != 1 {
		t.Errorf("Compare(higher) = %d, want 1", got)
	}
	if got := low.Compare(high); got != -1 {
		t.Errorf("Compare(lower) = %d, want -1", got)
	}
}

func TestSortByPercentile(t *testing.T) {
	rs := []*Response{
		New().WithPercentile(80),
		New().WithPercentile(10),
		New().WithPercentile(50),
	}
	SortByPercentile(rs)

	got := []int{rs[0].Percentile(), rs[1].Percentile(), rs[2].Percentile()}
	want := []int{10, 50, 80}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("percentile order = %v, want %v", got, want)
		}
	}
}

func TestParseAttributesOverrideDefaults(t *testing.T) {
	r, err := Parse(200, 0, map[string]any{"status": float64(201), "delay": float64(50)}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Status() != 201 {
		t.Errorf("Status() = %d, want 201", r.Status())
	}
	if r.Delay() != 50 {
		t.Errorf("Delay() = %d, want 50", r.Delay())
	}
}

func TestParseFallsBackToDefaults(t *testing.T) {
	r, err := Parse(404, 250, map[string]any{}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Status() != 404 {
		t.Errorf("Status() = %d, want 404", r.Status())
	}
	if r.Delay() != 250 {
		t.Errorf("Delay() = %d, want 250", r.Delay())
	}
	if r.Percentile() != 0 {
		t.Errorf("Percentile() = %d, want 0", r.Percentile())
	}
}

func TestParseOutOfRangeValuesKept(t *testing.T) {
	// Definition values are taken as written; only the setters validate.
	r, err := Parse(200, 0, map[string]any{"status": 42, "percentile": 150}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Status() != 42 {
		t.Errorf("Status() = %d, want 42", r.Status())
	}
	if r.Percentile() != 150 {
		t.Errorf("Percentile() = %d, want 150", r.Percentile())
	}
}

func TestParseHeaders(t *testing.T) {
	attrs := map[string]any{
		"headers": map[string]any{"X-Mock": "yes", "Content-Type": "text/plain"},
	}
	r, err := Parse(200, 0, attrs, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Headers()["X-Mock"] != "yes" || r.Headers()["Content-Type"] != "text/plain" {
		t.Errorf("Headers() = %v", r.Headers())
	}
}

func TestParseStructuredBody(t *testing.T) {
	r, err := Parse(200, 0, map[string]any{"body": map[string]any{"a": 1}}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "{\n  \"a\": 1\n}"
	if r.Body() != want {
		t.Errorf("Body() = %q, want %q", r.Body(), want)
	}
}

func TestParseReferenceBody(t *testing.T) {
	resolver := &stubResolver{content: "hello from a file"}
	r, err := Parse(200, 0, map[string]any{"body": "some-reference"}, resolver)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if resolver.lastRef != "some-reference" {
		t.Errorf("resolver got ref %q, want %q", resolver.lastRef, "some-reference")
	}
	if r.Body() != "hello from a file" {
		t.Errorf("Body() = %q", r.Body())
	}
}

func TestParseReferenceBodyCloseErrorIgnored(t *testing.T) {
	resolver := &stubResolver{content: "content", closeErr: errors.New("close failed")}
	r, err := Parse(200, 0, map[string]any{"body": "ref"}, resolver)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Body() != "content" {
		t.Errorf("Body() = %q, want %q", r.Body(), "content")
	}
}

func TestParseReferenceBodyResolverError(t *testing.T) {
	cause := errors.New("no such resource")
	_, err := Parse(200, 0, map[string]any{"body": "missing"}, &stubResolver{openErr: cause})
	if err == nil {
		t.Fatal("Parse: expected error")
	}
	if !strings.Contains(err.Error(), "failed to parse endpoint response") {
		t.Errorf("error = %q, want it to mention the parse failure", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error does not wrap the cause: %v", err)
	}
}

func TestParseTypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]any
	}{
		{"status as string", map[string]any{"status": "teapot"}},
		{"delay as bool", map[string]any{"delay": true}},
		{"percentile as list", map[string]any{"percentile": []any{1}}},
		{"headers as string", map[string]any{"headers": "nope"}},
		{"header value not string", map[string]any{"headers": map[string]any{"X": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(200, 0, tt.attrs, nil)
			var typeErr *TypeError
			if !errors.As(err, &typeErr) {
				t.Fatalf("Parse error = %v, want *TypeError", err)
			}
		})
	}
}

func TestResponseJSONRoundTrip(t *testing.T) {
	orig := New().
		WithStatus(418).
		WithDelay(100).
		WithPercentile(30).
		WithHeader("X-Mock", "yes").
		WithBody("short and stout")

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Response
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Status() != 418 || got.Delay() != 100 || got.Percentile() != 30 {
		t.Errorf("got status=%d delay=%d percentile=%d", got.Status(), got.Delay(), got.Percentile())
	}
	if got.Headers()["X-Mock"] != "yes" {
		t.Errorf("Headers() = %v", got.Headers())
	}
	if got.Body() != "short and stout" {
		t.Errorf("Body() = %q", got.Body())
	}
}

func TestResponseUnmarshalNilHeaders(t *testing.T) {
	var r Response
	if err := json.Unmarshal([]byte(`{"status":200}`), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.Headers() == nil {
		t.Error("Headers() = nil after unmarshal, want empty map")
	}
}
