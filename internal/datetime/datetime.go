package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Flexible time expression resolution for Datadog query tools.
//
// Every time-ish tool parameter (from, to, start, end) accepts the same set
// of dialects and resolves to epoch seconds through a single priority chain:
// numeric passthrough, "now", shorthand offsets, now+/-offset, and finally a
// normalized natural-language fallback. Anything else is an invalid format.

// SupportedFormats describes the accepted time expression dialects. Tool
// parameter descriptions reuse it so the request schema and the resolver
// never drift apart.
const SupportedFormats = `epoch seconds (e.g. 1700000000), "now", ` +
	`relative offsets ("-1h", "2d", "+30m"), "now-1h"/"now+2d" style offsets, ` +
	`natural language ("yesterday", "last week", "5 days ago", "next Monday"), ` +
	`or ISO 8601 ("2024-11-27T10:30:00+02:00")`

// InvalidDatetimeFormatError is the single failure kind of the resolver. It
// carries the original input exactly as the caller passed it.
type InvalidDatetimeFormatError struct {
	Input string
}

func (e *InvalidDatetimeFormatError) Error() string {
	return fmt.Sprintf("invalid datetime format %q: supported formats are %s", e.Input, SupportedFormats)
}

// NaturalLanguageParser resolves an English date phrase relative to an anchor
// instant. Implementations report ok=false when the phrase contains no
// recognizable date; they never decide error semantics for the resolver.
type NaturalLanguageParser interface {
	Parse(phrase string, anchor time.Time) (time.Time, bool)
}

// Resolver turns flexible datetime expressions into epoch seconds. It holds
// no clock state: the current instant is an explicit argument on every call.
type Resolver struct {
	nl NaturalLanguageParser
}

// NewResolver builds a resolver around the given natural-language fallback.
func NewResolver(nl NaturalLanguageParser) *Resolver {
	return &Resolver{nl: nl}
}

var (
	shorthandRe = regexp.MustCompile(`^([+-]?)(\d+)([a-z]+)$`)
	nowOffsetRe = regexp.MustCompile(`^now\s*([+-])\s*(\d+)\s*([a-z]+)$`)
)

// Seconds per unit for the shorthand and now+/- tiers. Month and year are
// fixed 30- and 365-day approximations; the natural-language tier keeps real
// calendar arithmetic instead. Callers depend on these exact values.
var unitSeconds = map[string]int64{
	"second": 1,
	"minute": 60,
	"hour":   3600,
	"day":    86400,
	"week":   604800,
	"month":  2592000,
	"year":   31536000,
}

// Resolve translates a datetime expression into epoch seconds, anchored at
// now (itself epoch seconds). Leading/trailing whitespace and letter case are
// insignificant. The priority chain is strict: the first matching tier wins
// and no tier reinterprets another tier's input.
func (r *Resolver) Resolve(input string, now int64) (int64, error) {
	trimmed := strings.TrimSpace(input)
	lowered := strings.ToLower(trimmed)

	// Already epoch seconds. Never reinterpreted, zero included.
	if sec, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return sec, nil
	}

	if lowered == "now" {
		return now, nil
	}

	// Shorthand offset: "-1d", "2h", "+1w". Bare and "-" mean past, "+"
	// means future. Unknown unit strings fall through so the natural-language
	// tier still gets a chance at them.
	if m := shorthandRe.FindStringSubmatch(lowered); m != nil {
		if unit, ok := canonicalUnit(m[3]); ok {
			value, err := strconv.ParseInt(m[2], 10, 64)
			if err == nil {
				offset := value * unitSeconds[unit]
				if m[1] == "+" {
					return now + offset, nil
				}
				return now - offset, nil
			}
		}
	}

	// "now-1h", "now + 2d". The sign is mandatory and directional here.
	if m := nowOffsetRe.FindStringSubmatch(lowered); m != nil {
		if unit, ok := canonicalUnit(m[3]); ok {
			value, err := strconv.ParseInt(m[2], 10, 64)
			if err == nil {
				offset := value * unitSeconds[unit]
				if m[1] == "+" {
					return now + offset, nil
				}
				return now - offset, nil
			}
		}
	}

	// Absolute ISO 8601 forms resolve independently of the anchor. Parsed
	// against the original casing since the layouts are case-sensitive.
	if t, ok := parseAbsolute(trimmed); ok {
		return t.Unix(), nil
	}

	// Natural-language fallback, fed the normalized phrase and anchored at
	// the provided instant. Unix() floors any sub-second component.
	if r.nl != nil {
		phrase := NormalizeTimeExpression(lowered)
		if t, ok := r.nl.Parse(phrase, time.Unix(now, 0).UTC()); ok {
			return t.Unix(), nil
		}
	}

	return 0, &InvalidDatetimeFormatError{Input: input}
}

// ResolveValue is Resolve for loosely typed tool arguments: numeric values
// pass through unchanged (floats floored to whole seconds), strings run the
// full chain.
func (r *Resolver) ResolveValue(value any, now int64) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return r.Resolve(v, now)
	case nil:
		return 0, &InvalidDatetimeFormatError{Input: ""}
	default:
		return 0, &InvalidDatetimeFormatError{Input: fmt.Sprint(value)}
	}
}

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseAbsolute tries the fixed ISO 8601 layouts. Layouts without an explicit
// offset are interpreted as UTC.
func parseAbsolute(s string) (time.Time, bool) {
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var defaultResolver = NewResolver(newWhenParser())

// Resolve runs the default resolver, whose natural-language fallback is the
// production when-based parser.
func Resolve(input string, now int64) (int64, error) {
	return defaultResolver.Resolve(input, now)
}

// ResolveValue runs the default resolver on a loosely typed argument.
func ResolveValue(value any, now int64) (int64, error) {
	return defaultResolver.ResolveValue(value, now)
}
