package drafter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/apachepressure/chaser/internal/analysis"
	"github.com/apachepressure/chaser/internal/briefs"
)

func testBrief() briefs.Brief {
	return briefs.Brief{
		Vendor:      "Acme Corp",
		VendorEmail: "orders@acme.test",
		Summary:     briefs.Summary{DuePOs: 1},
		POs: []briefs.PO{
			{PONumber: "PO100", PODate: "2025-05-01", State: analysis.StateDue, EarliestDue: "2025-06-10"},
		},
	}
}

func TestDeterministicMatchesTemplate(t *testing.T) {
	sig := briefs.Signature{Name: "Pat Buyer", Company: "Apache Pressure Products"}
	d := NewDeterministic(sig)

	draft, err := d.Draft(context.Background(), testBrief())
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}

	wantSubject, wantBody := briefs.Compose(testBrief(), sig)
	if draft.Subject != wantSubject {
		t.Errorf("subject = %q, want %q", draft.Subject, wantSubject)
	}
	if draft.Body != wantBody {
		t.Errorf("body mismatch:\n%s", draft.Body)
	}
	if draft.Generated {
		t.Error("deterministic draft should not report Generated")
	}
}

func TestParseDraft(t *testing.T) {
	t.Run("direct json", func(t *testing.T) {
		resp, err := parseDraft(`{"subject": "Status on PO100", "body": "Hello"}`)
		if err != nil {
			t.Fatalf("parseDraft: %v", err)
		}
		if resp.Subject != "Status on PO100" || resp.Body != "Hello" {
			t.Errorf("parsed = %+v", resp)
		}
	})

	t.Run("fenced json", func(t *testing.T) {
		content := "Here is your email:\n```json\n{\"subject\": \"S\", \"body\": \"B\"}\n```"
		resp, err := parseDraft(content)
		if err != nil {
			t.Fatalf("parseDraft: %v", err)
		}
		if resp.Subject != "S" || resp.Body != "B" {
			t.Errorf("parsed = %+v", resp)
		}
	})

	t.Run("fence without language tag", func(t *testing.T) {
		content := "```\n{\"subject\": \"S\", \"body\": \"B\"}\n```"
		if _, err := parseDraft(content); err != nil {
			t.Fatalf("parseDraft: %v", err)
		}
	})

	t.Run("prose rejected", func(t *testing.T) {
		_, err := parseDraft("Sure! The subject should be Status Update.")
		if !errors.Is(err, ErrParseFailed) {
			t.Errorf("err = %v, want ErrParseFailed", err)
		}
	})

	t.Run("empty fields rejected", func(t *testing.T) {
		_, err := parseDraft(`{"subject": "", "body": "Hello"}`)
		if !errors.Is(err, ErrParseFailed) {
			t.Errorf("err = %v, want ErrParseFailed", err)
		}
	})
}

func TestBuildPromptCarriesBriefData(t *testing.T) {
	sig := briefs.Signature{Name: "Pat Buyer", Company: "Apache Pressure Products"}
	prompt, err := buildPrompt(testBrief(), sig)
	if err != nil {
		t.Fatalf("buildPrompt: %v", err)
	}

	for _, want := range []string{"PO100", "Acme Corp", "Pat Buyer", `"subject"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
