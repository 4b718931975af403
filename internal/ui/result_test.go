package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestResult_RenderOrder(t *testing.T) {
	r := NewSuccessResult("Top-up completed", nil).
		AddDetail("Reference", "abc").
		AddDetail("Amount", "Rs. 500").
		SetWidth(80)

	out := r.Render()
	if !strings.Contains(out, "SUCCESS") || !strings.Contains(out, "Top-up completed") {
		t.Errorf("Render() missing title:\n%s", out)
	}
	if strings.Index(out, "Reference") > strings.Index(out, "Amount") {
		t.Errorf("details rendered out of order:\n%s", out)
	}
}

func TestResult_Failure(t *testing.T) {
	r := NewFailureResult("Top-up is invalid", errors.New("boom")).
		AddProblem("phone", "Phone number is required").
		SetWidth(80)

	out := r.Render()
	for _, want := range []string{"FAILED", "boom", "phone", "Phone number is required"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestHeader_Render(t *testing.T) {
	h := NewHeader(HeaderConfig{
		Title:   "Top-up check",
		Command: "pakrecharge check",
		Params:  []Detail{{Key: "Network", Value: "jazz"}, {Key: "Phone", Value: ""}},
	}).SetWidth(70)

	out := h.Render()
	if !strings.Contains(out, "TOP-UP CHECK") {
		t.Errorf("Render() missing uppercase title:\n%s", out)
	}
	if !strings.Contains(out, "jazz") {
		t.Errorf("Render() missing param value:\n%s", out)
	}
}

func TestPrinter_PrintJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	if err := p.PrintJSON(map[string]bool{"valid": true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"valid": true`) {
		t.Errorf("PrintJSON() = %q", buf.String())
	}
}
