package cmsgraph_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	cmsgraph "github.com/goliatone/go-cms-graph"
	"github.com/goliatone/go-cms-graph/internal/search"
)

const zeroSecret = "AAAAAAAAAAAAAAAAAAAAAA=="

func newConfig(gateway string) cmsgraph.Config {
	cfg := cmsgraph.DefaultConfig()
	cfg.Graph.GatewayBaseURL = gateway
	cfg.Graph.AppKey = "ak1"
	cfg.Graph.Secret = zeroSecret
	cfg.Logging.Provider = "console"
	cfg.Logging.Level = "error"
	cfg.I18N.Locales = []string{"en", "fr", "fr-CA"}
	cfg.I18N.Fallbacks = map[string]string{"fr-CA": "fr"}
	return cfg
}

func newModule(t *testing.T, gateway string) *cmsgraph.Module {
	t.Helper()
	module, err := cmsgraph.New(newConfig(gateway))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestNewRejectsInvalidCredentials(t *testing.T) {
	cfg := newConfig("https://cg.example.com")
	cfg.Graph.Secret = "not base64!"
	if _, err := cmsgraph.New(cfg); !errors.Is(err, cmsgraph.ErrGraphSecretInvalid) {
		t.Fatalf("expected ErrGraphSecretInvalid, got %v", err)
	}

	cfg = newConfig("https://cg.example.com")
	cfg.Graph.AppKey = " "
	if _, err := cmsgraph.New(cfg); !errors.Is(err, cmsgraph.ErrGraphAppKeyRequired) {
		t.Fatalf("expected ErrGraphAppKeyRequired, got %v", err)
	}
}

func TestLocaleConversions(t *testing.T) {
	if got := cmsgraph.ToBackendLocale("fr-ca"); got != "fr_CA" {
		t.Fatalf("ToBackendLocale = %q", got)
	}
	if got := cmsgraph.ToURLLocale("nb_NO"); got != "nb-NO" {
		t.Fatalf("ToURLLocale = %q", got)
	}
}

func TestModuleResolveLocale(t *testing.T) {
	module := newModule(t, "https://cg.example.com")

	info, err := module.Locale(context.Background(), "fr-ca")
	if err != nil {
		t.Fatalf("Locale returned error: %v", err)
	}
	if info.BackendCode != "fr_CA" || info.Fallback != "fr" {
		t.Fatalf("unexpected locale info %+v", info)
	}
	if !slices.Equal(info.Chain, []string{"fr-CA", "fr", "en"}) {
		t.Fatalf("unexpected chain %v", info.Chain)
	}

	got, err := module.ResolveLocale(context.Background(), "fr-CA", func(_ context.Context, locale string) (bool, error) {
		return locale == "en", nil
	})
	if err != nil || got != "en" {
		t.Fatalf("ResolveLocale = %q, %v", got, err)
	}

	if _, err := module.Locale(context.Background(), " "); !errors.Is(err, cmsgraph.ErrLocaleRequired) {
		t.Fatalf("expected ErrLocaleRequired, got %v", err)
	}
}

func TestModuleSearchContentSignsRequests(t *testing.T) {
	var authorization, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"Content":{"items":[{"_metadata":{"key":"k1","displayName":"Start","types":["StartPage"],"locale":"fr_CA"}}]}}}`))
	}))
	t.Cleanup(server.Close)

	module := newModule(t, server.URL)

	var items []search.Item
	err := module.SearchContent(context.Background(), cmsgraph.SearchContentCommand{
		Query:  "query { Content { items { _metadata { key } } } }",
		Locale: "fr-ca",
		ResultCallback: func(result cmsgraph.SearchResult) {
			items = result.Items
		},
	})
	if err != nil {
		t.Fatalf("SearchContent returned error: %v", err)
	}
	if !strings.HasPrefix(authorization, "epi-hmac ak1:") {
		t.Fatalf("expected epi-hmac header, got %q", authorization)
	}
	if !strings.Contains(body, `"locale":"fr_CA"`) {
		t.Fatalf("expected backend locale variable in body %s", body)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
}

func TestModuleRegisterAdmin(t *testing.T) {
	module := newModule(t, "https://cg.example.com")
	mux := http.NewServeMux()
	if err := module.RegisterAdmin(mux); err != nil {
		t.Fatalf("RegisterAdmin returned error: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/locales/fr-ca/fallbacks", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"backend_locale":"fr_CA"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestNilModule(t *testing.T) {
	var module *cmsgraph.Module
	if module.Client() != nil || module.FallbackTable() != nil {
		t.Fatal("expected nil accessors on nil module")
	}
	if err := module.RegisterAdmin(http.NewServeMux()); err == nil {
		t.Fatal("expected error from nil module")
	}
	if err := module.Close(); err != nil {
		t.Fatalf("Close on nil module returned %v", err)
	}
}
