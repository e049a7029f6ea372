// Package selector resolves configured marker selectors into matchers the
// browser wait routine can run.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/chromedp/chromedp"
)

// Kind is the representation a selector value is written in
type Kind string

const (
	KindCSS   Kind = "css"
	KindXPath Kind = "xpath"
	KindID    Kind = "id"
)

var (
	ErrEmptySelector = errors.New("selector value is empty")
	ErrUnknownKind   = errors.New("unknown selector kind")
)

// ParseKind accepts the canonical kind names plus the upper-case tags used
// by older site tables (CSS_SELECTOR, XPATH, ID).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "css", "css_selector", "class":
		return KindCSS, nil
	case "xpath":
		return KindXPath, nil
	case "id":
		return KindID, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Selector is a (kind, value) pair as it appears in configuration
type Selector struct {
	Kind  Kind   `yaml:"kind" json:"kind"`
	Value string `yaml:"value" json:"value"`
}

// String renders the selector as kind:value
func (s Selector) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.Value)
}

// Matcher is a compiled marker selector.
type Matcher interface {
	// Kind is the representation the matcher was built from
	Kind() Kind
	// Expression is the selector string handed to the browser
	Expression() string
	// QueryOption is the chromedp query strategy for Expression
	QueryOption() chromedp.QueryOption
}

// Matcher validates the selector and returns the matcher for its kind
func (s Selector) Matcher() (Matcher, error) {
	value := strings.TrimSpace(s.Value)
	if value == "" {
		return nil, ErrEmptySelector
	}

	kind := s.Kind
	if kind == "" {
		kind = KindCSS
	}
	kind, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindCSS:
		if _, err := cascadia.Compile(value); err != nil {
			return nil, fmt.Errorf("invalid css selector %q: %w", value, err)
		}
		return cssMatcher(value), nil
	case KindXPath:
		if !strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "(") {
			return nil, fmt.Errorf("invalid xpath %q: must start with / or (", value)
		}
		return xpathMatcher(value), nil
	default:
		id := strings.TrimPrefix(value, "#")
		if id == "" || strings.ContainsAny(id, " \t\n") {
			return nil, fmt.Errorf("invalid element id %q", value)
		}
		m := idMatcher(id)
		if _, err := cascadia.Compile(m.Expression()); err != nil {
			return nil, fmt.Errorf("invalid element id %q: %w", value, err)
		}
		return m, nil
	}
}

type cssMatcher string

func (m cssMatcher) Kind() Kind                        { return KindCSS }
func (m cssMatcher) Expression() string                { return string(m) }
func (m cssMatcher) QueryOption() chromedp.QueryOption { return chromedp.ByQuery }

type xpathMatcher string

func (m xpathMatcher) Kind() Kind         { return KindXPath }
func (m xpathMatcher) Expression() string { return string(m) }

// BySearch runs DOM.performSearch, which understands XPath
func (m xpathMatcher) QueryOption() chromedp.QueryOption { return chromedp.BySearch }

// idMatcher queries by attribute so ids that are not CSS identifiers
// (1-catalog, a.b) still match
type idMatcher string

var cssStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (m idMatcher) Kind() Kind { return KindID }
func (m idMatcher) Expression() string {
	return `[id="` + cssStringEscaper.Replace(string(m)) + `"]`
}
func (m idMatcher) QueryOption() chromedp.QueryOption { return chromedp.ByQuery }
