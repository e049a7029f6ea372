package headers

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	in := []string{"user-agent: Bot", "Accept:text/html", "X-Token: a:b"}
	out, err := Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]string{"User-Agent": "Bot", "Accept": "text/html", "X-Token": "a:b"}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected parse result: %#v", out)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, line := range []string{"BadHeader", ": value", "Bad Name: x"} {
		if _, err := Parse([]string{line}); err == nil {
			t.Errorf("expected error for %q", line)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	out, err := Parse(nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty map, got %#v, %v", out, err)
	}
}
