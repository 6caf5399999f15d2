package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

type staticCredential struct{ token string }

func (c staticCredential) GetToken(_ context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: c.token, ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing tenant", func(c *Config) { c.TenantID = "" }},
		{"missing secret", func(c *Config) { c.ClientSecret = "" }},
		{"missing from", func(c *Config) { c.FromAddress = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{TenantID: "t", ClientID: "c", ClientSecret: "s", FromAddress: "buyer@apache.test"}
			tc.mutate(&cfg)
			if _, err := NewGraph(cfg, testLogger()); err == nil {
				t.Error("NewGraph accepted invalid config")
			}
		})
	}
}

func TestCreateDraft(t *testing.T) {
	var gotAuth string
	var gotDraft graphDraft

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1.0/users/buyer@apache.test/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotDraft); err != nil {
			t.Errorf("decode draft: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "draft-123", "webLink": "https://outlook.test/draft-123"}`)
	}))
	defer srv.Close()

	g := newGraph(Config{
		TenantID: "t", ClientID: "c", ClientSecret: "s",
		FromAddress: "buyer@apache.test",
		CarbonCopy:  "manager@apache.test; backup@apache.test",
		BaseURL:     srv.URL,
	}, staticCredential{token: "tok"}, testLogger())

	receipt, err := g.CreateDraft(context.Background(), Message{
		To:      "orders@acme.test",
		Subject: "PO Status Confirmation - 1 Due Soon",
		Body:    "Hello Acme Corp,\n",
	})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	if receipt.DraftID != "draft-123" || receipt.WebLink != "https://outlook.test/draft-123" {
		t.Errorf("receipt = %+v", receipt)
	}
	if receipt.DryRun {
		t.Error("live draft should not report DryRun")
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	t.Run("recipients", func(t *testing.T) {
		if len(gotDraft.ToRecipients) != 1 || gotDraft.ToRecipients[0].EmailAddress.Address != "orders@acme.test" {
			t.Errorf("to = %+v", gotDraft.ToRecipients)
		}
		if len(gotDraft.CCRecipients) != 2 || gotDraft.CCRecipients[1].EmailAddress.Address != "backup@apache.test" {
			t.Errorf("cc = %+v", gotDraft.CCRecipients)
		}
	})

	t.Run("message cc overrides default", func(t *testing.T) {
		draft := buildDraft(Message{To: "a@b.test", CC: "only@b.test"}, "default@b.test")
		if len(draft.CCRecipients) != 1 || draft.CCRecipients[0].EmailAddress.Address != "only@b.test" {
			t.Errorf("cc = %+v", draft.CCRecipients)
		}
	})
}

func TestCreateDraftGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": "ErrorAccessDenied"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	g := newGraph(Config{
		TenantID: "t", ClientID: "c", ClientSecret: "s",
		FromAddress: "buyer@apache.test",
		BaseURL:     srv.URL,
	}, staticCredential{token: "tok"}, testLogger())

	if _, err := g.CreateDraft(context.Background(), Message{To: "a@b.test"}); err == nil {
		t.Error("CreateDraft should surface non-201 responses")
	}
}

func TestDryRun(t *testing.T) {
	d := NewDryRun(testLogger())
	receipt, err := d.CreateDraft(context.Background(), Message{To: "a@b.test", Subject: "s"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if !receipt.DryRun {
		t.Error("dry-run receipt should report DryRun")
	}
	if receipt.DraftID != "" {
		t.Error("dry-run receipt should carry no draft id")
	}
}
