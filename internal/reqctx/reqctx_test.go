package reqctx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunAndPage(t *testing.T) {
	ctx := WithRun(context.Background())
	run := RunFrom(ctx)
	if len(run.RunID) != 16 {
		t.Errorf("Expected 16 hex chars, got %q", run.RunID)
	}

	pctx := WithPage(ctx, "loi", "https://shop.example.com/")
	p, ok := PageFrom(pctx)
	if !ok {
		t.Fatal("Expected page in context")
	}
	if p.Site != "loi" || p.URL != "https://shop.example.com/" {
		t.Errorf("Unexpected page %+v", p)
	}
	if RunFrom(pctx).RunID != run.RunID {
		t.Error("Expected run to be inherited by page context")
	}

	other, _ := PageFrom(WithPage(ctx, "loi", "https://shop.example.com/"))
	if other.PageID == p.PageID {
		t.Error("Expected distinct page IDs")
	}
}

func TestRunFrom_Missing(t *testing.T) {
	if got := RunFrom(context.Background()).RunID; got != "unknown" {
		t.Errorf("Expected placeholder run ID, got %q", got)
	}
	if _, ok := PageFrom(context.Background()); ok {
		t.Error("Expected no page in empty context")
	}
}

func TestNewRequestError(t *testing.T) {
	base := errors.New("navigation failed")

	if NewRequestError(context.Background(), nil) != nil {
		t.Error("Expected nil for nil error")
	}

	ctx := WithPage(WithRun(context.Background()), "amw", "https://a.example/")
	err := NewRequestError(ctx, base)

	if !errors.Is(err, base) {
		t.Error("Expected wrapped error to match base")
	}
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatal("Expected RequestError")
	}
	if re.PageID == "" || !strings.Contains(err.Error(), re.PageID) {
		t.Errorf("Expected page ID in message, got %q", err.Error())
	}

	runOnly := NewRequestError(WithRun(context.Background()), base)
	if strings.Contains(runOnly.Error(), "/") {
		t.Errorf("Expected run-only prefix, got %q", runOnly.Error())
	}
}
