package selector

import (
	"errors"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"css", KindCSS},
		{"CSS_SELECTOR", KindCSS},
		{"class", KindCSS},
		{"XPATH", KindXPath},
		{"xpath", KindXPath},
		{"ID", KindID},
		{" id ", KindID},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if err != nil {
				t.Fatalf("ParseKind(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseKind("LINK_TEXT"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}

func TestSelector_Matcher(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selector
		wantKind Kind
		wantExpr string
	}{
		{"css class", Selector{Kind: KindCSS, Value: ".parent-element-loi"}, KindCSS, ".parent-element-loi"},
		{"xpath by id", Selector{Kind: KindXPath, Value: `//*[@id="parent-element-covercompany"]`}, KindXPath, `//*[@id="parent-element-covercompany"]`},
		{"plain id", Selector{Kind: KindID, Value: "parent-element-amw"}, KindID, `[id="parent-element-amw"]`},
		{"hash id", Selector{Kind: KindID, Value: "#parent-element-amw"}, KindID, `[id="parent-element-amw"]`},
		{"id starting with digit", Selector{Kind: KindID, Value: "1-catalog"}, KindID, `[id="1-catalog"]`},
		{"id with quote", Selector{Kind: KindID, Value: `grid"x`}, KindID, `[id="grid\"x"]`},
		{"kind defaults to css", Selector{Value: "div.grid"}, KindCSS, "div.grid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.sel.Matcher()
			if err != nil {
				t.Fatalf("Matcher() failed: %v", err)
			}
			if m.Kind() != tt.wantKind {
				t.Errorf("Kind() = %q, want %q", m.Kind(), tt.wantKind)
			}
			if m.Expression() != tt.wantExpr {
				t.Errorf("Expression() = %q, want %q", m.Expression(), tt.wantExpr)
			}
			if m.QueryOption() == nil {
				t.Error("QueryOption() returned nil")
			}
		})
	}
}

func TestSelector_Matcher_Invalid(t *testing.T) {
	invalid := []Selector{
		{Kind: KindCSS, Value: ""},
		{Kind: KindCSS, Value: "div[["},
		{Kind: KindXPath, Value: "div[@id='x']"},
		{Kind: KindID, Value: "two words"},
		{Kind: KindID, Value: "#"},
		{Kind: "name", Value: "q"},
	}

	for _, sel := range invalid {
		t.Run(sel.String(), func(t *testing.T) {
			if _, err := sel.Matcher(); err == nil {
				t.Errorf("Expected error for %s", sel)
			}
		})
	}
}

func TestIDMatcher_MatchesAwkwardIDs(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body>
<div id="1-catalog"></div>
<div id="list.v2"></div>
<div id='say"hi'></div>
</body></html>`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for _, id := range []string{"1-catalog", "#list.v2", `say"hi`} {
		t.Run(id, func(t *testing.T) {
			m, err := Selector{Kind: KindID, Value: id}.Matcher()
			if err != nil {
				t.Fatalf("Matcher() failed: %v", err)
			}
			sel, err := cascadia.Compile(m.Expression())
			if err != nil {
				t.Fatalf("expression %q does not compile: %v", m.Expression(), err)
			}
			if sel.MatchFirst(doc) == nil {
				t.Errorf("Expected %q to match an element", m.Expression())
			}
		})
	}
}
