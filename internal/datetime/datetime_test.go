package datetime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"
)

const anchor int64 = 1700000000 // 2023-11-14T22:13:20Z

func TestResolveNumericPassthrough(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		{"1700000000", 1700000000},
		{"0", 0},
		{"-1", -1},
		{"+42", 42},
		{" 1700000123 ", 1700000123},
	}

	for _, tc := range testCases {
		got, err := Resolve(tc.input, anchor)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("Resolve(%q): expected %d, got %d", tc.input, tc.expected, got)
		}
	}
}

func TestResolveNow(t *testing.T) {
	for _, input := range []string{"now", "NOW", "Now", "  now  "} {
		got, err := Resolve(input, anchor)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", input, err)
		}
		if got != anchor {
			t.Errorf("Resolve(%q): expected %d, got %d", input, anchor, got)
		}
	}
}

func TestResolveShorthandOffsets(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		{"1d", anchor - 86400},
		{"-1d", anchor - 86400},
		{"+1d", anchor + 86400},
		{"2h", anchor - 2*3600},
		{"30m", anchor - 30*60},
		{"10s", anchor - 10},
		{"5min", anchor - 5*60},
		{"+1w", anchor + 604800},
		{"1mo", anchor - 2592000},
		{"-2y", anchor - 2*31536000},
	}

	for _, tc := range testCases {
		got, err := Resolve(tc.input, anchor)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("Resolve(%q): expected %d, got %d", tc.input, tc.expected, got)
		}
	}
}

func TestResolveNowOffsets(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		{"now-1h", anchor - 3600},
		{"now+2d", anchor + 2*86400},
		{"NOW-1H", anchor - 3600},
		{"now - 15m", anchor - 15*60},
		{"now + 1mo", anchor + 2592000},
		{"now-1y", anchor - 31536000},
	}

	for _, tc := range testCases {
		got, err := Resolve(tc.input, anchor)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("Resolve(%q): expected %d, got %d", tc.input, tc.expected, got)
		}
	}
}

func TestResolveNumericIdempotence(t *testing.T) {
	first, err := Resolve("now-1h", anchor)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Feeding the result back in, even against a different anchor, must be
	// identity: resolved values are never reinterpreted.
	second, err := Resolve(strconv.FormatInt(first, 10), anchor+12345)
	if err != nil {
		t.Fatalf("Resolve of resolved value failed: %v", err)
	}
	if second != first {
		t.Errorf("expected idempotent resolution, got %d then %d", first, second)
	}
}

func TestResolveISO8601(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		{
			"2024-11-27T10:30:00+02:00",
			time.Date(2024, 11, 27, 10, 30, 0, 0, time.FixedZone("", 2*3600)).Unix(),
		},
		{
			"2024-11-27T08:30:00Z",
			time.Date(2024, 11, 27, 8, 30, 0, 0, time.UTC).Unix(),
		},
		{
			"2024-11-27T08:30:00",
			time.Date(2024, 11, 27, 8, 30, 0, 0, time.UTC).Unix(),
		},
		{
			"2024-01-02",
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix(),
		},
	}

	for _, tc := range testCases {
		// The anchor must not influence absolute timestamps.
		for _, at := range []int64{anchor, 0, anchor + 999999} {
			got, err := Resolve(tc.input, at)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("Resolve(%q) at anchor %d: expected %d, got %d", tc.input, at, tc.expected, got)
			}
		}
	}
}

func TestResolveNaturalLanguage(t *testing.T) {
	// The natural-language tier is delegated to the rule library, so these
	// assert direction and approximate magnitude rather than exact values.
	day := int64(86400)

	testCases := []struct {
		input string
		min   int64
		max   int64
	}{
		{"yesterday", anchor - 2*day, anchor - 1},
		{"5 days ago", anchor - 6*day, anchor - 4*day},
		{"in 2 weeks", anchor + 13*day, anchor + 15*day},
		{"tomorrow", anchor + 1, anchor + 2*day},
		{"next monday", anchor + 1, anchor + 8*day},
	}

	for _, tc := range testCases {
		got, err := Resolve(tc.input, anchor)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tc.input, err)
		}
		if got < tc.min || got > tc.max {
			t.Errorf("Resolve(%q): %d outside [%d, %d]", tc.input, got, tc.min, tc.max)
		}
	}
}

func TestResolveCasualSpans(t *testing.T) {
	at := time.Unix(anchor, 0).UTC()

	testCases := []struct {
		input    string
		expected int64
	}{
		{"last week", at.AddDate(0, 0, -7).Unix()},
		{"last month", at.AddDate(0, -1, 0).Unix()},
		{"next year", at.AddDate(1, 0, 0).Unix()},
	}

	for _, tc := range testCases {
		got, err := Resolve(tc.input, anchor)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("Resolve(%q): expected %d, got %d", tc.input, tc.expected, got)
		}
	}
}

func TestResolveNormalizedExpressions(t *testing.T) {
	testCases := []struct {
		input string
		min   int64
		max   int64
	}{
		{"1d ago", anchor - 2*86400, anchor - 1},
		{"in 1d", anchor + 1, anchor + 2*86400},
		{"minus 1 day", anchor - 2*86400, anchor - 1},
		{"plus 2 hours", anchor + 1, anchor + 2*2*3600},
	}

	for _, tc := range testCases {
		got, err := Resolve(tc.input, anchor)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tc.input, err)
		}
		if got < tc.min || got > tc.max {
			t.Errorf("Resolve(%q): %d outside [%d, %d]", tc.input, got, tc.min, tc.max)
		}
	}
}

func TestResolveInvalid(t *testing.T) {
	for _, input := range []string{"invalid", "", "zzzzzz"} {
		_, err := Resolve(input, anchor)
		if err == nil {
			t.Fatalf("Resolve(%q): expected error", input)
		}
		if !strings.Contains(err.Error(), fmt.Sprintf("%q", input)) {
			t.Errorf("Resolve(%q): error does not echo input: %v", input, err)
		}

		var invalidErr *InvalidDatetimeFormatError
		if !errors.As(err, &invalidErr) {
			t.Errorf("Resolve(%q): expected InvalidDatetimeFormatError, got %T", input, err)
		}
	}
}

func TestResolveErrorEchoesOriginalInput(t *testing.T) {
	// The error carries the input exactly as passed, whitespace included.
	input := "  bogus value  "
	_, err := Resolve(input, anchor)
	if err == nil {
		t.Fatal("expected error")
	}

	var invalidErr *InvalidDatetimeFormatError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidDatetimeFormatError, got %T", err)
	}
	if invalidErr.Input != input {
		t.Errorf("expected original input %q, got %q", input, invalidErr.Input)
	}
	if !strings.Contains(err.Error(), "supported formats") {
		t.Errorf("error should mention supported formats: %v", err)
	}
}

func TestResolveUnknownUnitFallsThrough(t *testing.T) {
	// A shorthand-looking string with an unknown unit must not short-circuit
	// into failure at the shorthand tier; it reaches the natural-language
	// tier and only fails there.
	stub := &stubParser{}
	r := NewResolver(stub)

	_, err := r.Resolve("7q", anchor)
	if err == nil {
		t.Fatal("expected error for unknown unit")
	}
	if stub.lastPhrase != "7q" {
		t.Errorf("expected natural-language tier to see %q, got %q", "7q", stub.lastPhrase)
	}
}

type stubParser struct {
	lastPhrase string
	lastAnchor time.Time
	result     time.Time
	ok         bool
}

func (s *stubParser) Parse(phrase string, anchor time.Time) (time.Time, bool) {
	s.lastPhrase = phrase
	s.lastAnchor = anchor
	return s.result, s.ok
}

func TestResolverChainOrder(t *testing.T) {
	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubParser{result: fixed, ok: true}
	r := NewResolver(stub)

	// Earlier tiers never consult the fallback.
	for _, input := range []string{"123", "now", "-1d", "now+2h", "2024-01-02"} {
		stub.lastPhrase = ""
		if _, err := r.Resolve(input, anchor); err != nil {
			t.Fatalf("Resolve(%q) failed: %v", input, err)
		}
		if stub.lastPhrase != "" {
			t.Errorf("Resolve(%q): fallback consulted with %q", input, stub.lastPhrase)
		}
	}

	// Unmatched input reaches the fallback normalized and anchored at the
	// provided instant.
	got, err := r.Resolve("2h AGO", anchor)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != fixed.Unix() {
		t.Errorf("expected fallback result %d, got %d", fixed.Unix(), got)
	}
	if stub.lastPhrase != "2 hours ago" {
		t.Errorf("expected normalized phrase %q, got %q", "2 hours ago", stub.lastPhrase)
	}
	if stub.lastAnchor.Unix() != anchor {
		t.Errorf("expected anchor %d, got %d", anchor, stub.lastAnchor.Unix())
	}
	if stub.lastAnchor.Location() != time.UTC {
		t.Errorf("expected UTC anchor, got %v", stub.lastAnchor.Location())
	}
}

func TestResolveValue(t *testing.T) {
	testCases := []struct {
		value    any
		expected int64
	}{
		{int64(1700000001), 1700000001},
		{int(77), 77},
		{float64(1700000002), 1700000002},
		{float64(9.9), 9},
		{"now", anchor},
		{"0", 0},
	}

	for _, tc := range testCases {
		got, err := ResolveValue(tc.value, anchor)
		if err != nil {
			t.Fatalf("ResolveValue(%v) failed: %v", tc.value, err)
		}
		if got != tc.expected {
			t.Errorf("ResolveValue(%v): expected %d, got %d", tc.value, tc.expected, got)
		}
	}

	for _, value := range []any{nil, true, []string{"now"}} {
		if _, err := ResolveValue(value, anchor); err == nil {
			t.Errorf("ResolveValue(%v): expected error", value)
		}
	}
}

func TestResolveZeroIsNotAbsent(t *testing.T) {
	got, err := ResolveValue(float64(0), anchor)
	if err != nil {
		t.Fatalf("ResolveValue(0) failed: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
