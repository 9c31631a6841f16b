package graphclient_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-graph/internal/graphclient"
	"github.com/goliatone/go-cms-graph/internal/runtimeconfig"
	"github.com/goliatone/go-cms-graph/internal/signing"
)

// base64 of sixteen zero bytes
const zeroSecret = "AAAAAAAAAAAAAAAAAAAAAA=="

var headerGrammar = regexp.MustCompile(`^epi-hmac ([^:]+):(\d+):([0-9a-f]{32}):([A-Za-z0-9+/]+={0,2})$`)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type capturedRequest struct {
	Method      string
	RequestURI  string
	Body        []byte
	ContentType string
	Auth        string
}

// graphServer records every request and verifies its signature.
type graphServer struct {
	t        *testing.T
	signer   *signing.Signer
	server   *httptest.Server
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	body     string
}

func newGraphServer(t *testing.T, status int, body string) *graphServer {
	t.Helper()
	gs := &graphServer{t: t, status: status, body: body}
	gs.server = httptest.NewServer(http.HandlerFunc(gs.handle))
	t.Cleanup(gs.server.Close)

	signer, err := signing.NewSigner(runtimeconfig.GraphConfig{
		GatewayBaseURL: gs.server.URL,
		AppKey:         "ak1",
		Secret:         zeroSecret,
	})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	gs.signer = signer
	return gs
}

func (gs *graphServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	captured := capturedRequest{
		Method:      r.Method,
		RequestURI:  r.RequestURI,
		Body:        body,
		ContentType: r.Header.Get("Content-Type"),
		Auth:        r.Header.Get(graphclient.AuthorizationHeader),
	}
	gs.mu.Lock()
	gs.requests = append(gs.requests, captured)
	gs.mu.Unlock()

	if err := gs.signer.Verify(captured.Auth, r.Method, r.RequestURI, body); err != nil {
		gs.t.Errorf("signature did not verify for %s %s: %v", r.Method, r.RequestURI, err)
	}
	w.WriteHeader(gs.status)
	_, _ = io.WriteString(w, gs.body)
}

func (gs *graphServer) client(t *testing.T) *graphclient.Client {
	t.Helper()
	client, err := graphclient.NewClient(runtimeconfig.GraphConfig{
		GatewayBaseURL: gs.server.URL,
		AppKey:         "ak1",
		Secret:         zeroSecret,
	}, nil, graphclient.WithHTTPClient(gs.server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func (gs *graphServer) only(t *testing.T) capturedRequest {
	t.Helper()
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if len(gs.requests) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(gs.requests))
	}
	return gs.requests[0]
}

func (gs *graphServer) count() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return len(gs.requests)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := graphclient.NewClient(runtimeconfig.GraphConfig{GatewayBaseURL: "https://cg.example.com", Secret: zeroSecret}, nil)
	if err == nil {
		t.Fatal("expected missing app key to fail")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	_, err = graphclient.NewClient(runtimeconfig.GraphConfig{GatewayBaseURL: "https://cg.example.com", AppKey: "ak1", Secret: "not base64!"}, nil)
	if err == nil {
		t.Fatal("expected invalid secret to fail")
	}
}

func TestRequestSignsWireFormWithOrderedQuery(t *testing.T) {
	gs := newGraphServer(t, http.StatusAccepted, "ok")
	client := gs.client(t)

	resp, err := client.Request(context.Background(), "/api/things", graphclient.RequestOptions{
		Method: "post",
		Body:   []byte("payload"),
		Query: []graphclient.QueryParam{
			{Key: "z", Value: "last letter"},
			{Key: "a", Value: "x&y"},
		},
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected raw status 202, got %d", resp.StatusCode)
	}
	got := gs.only(t)
	if got.RequestURI != "/api/things?z=last+letter&a=x%26y" {
		t.Fatalf("unexpected request uri %q", got.RequestURI)
	}
	if got.Method != http.MethodPost || string(got.Body) != "payload" {
		t.Fatalf("unexpected method/body %s %q", got.Method, got.Body)
	}
	if got.ContentType != "text/plain" {
		t.Fatalf("expected default text/plain, got %q", got.ContentType)
	}
	if !headerGrammar.MatchString(got.Auth) {
		t.Fatalf("header %q does not match grammar", got.Auth)
	}
}

func TestRequestGetSendsNoBody(t *testing.T) {
	gs := newGraphServer(t, http.StatusOK, "")
	client := gs.client(t)

	resp, err := client.Request(context.Background(), "status", graphclient.RequestOptions{
		Body:    []byte("ignored"),
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	got := gs.only(t)
	if got.Method != http.MethodGet || len(got.Body) != 0 {
		t.Fatalf("GET must not carry a body, got %s %q", got.Method, got.Body)
	}
	if got.ContentType != "application/json" {
		t.Fatalf("caller header must override default, got %q", got.ContentType)
	}
	if got.RequestURI != "/status" {
		t.Fatalf("unexpected request uri %q", got.RequestURI)
	}
}

func TestRequestDoesNotInterpretStatus(t *testing.T) {
	gs := newGraphServer(t, http.StatusInternalServerError, "boom")
	resp, err := gs.client(t).Request(context.Background(), "/x", graphclient.RequestOptions{})
	if err != nil {
		t.Fatalf("non-2xx must not be an error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusInternalServerError || string(body) != "boom" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}
}

func TestRequestTransportFailure(t *testing.T) {
	failing := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})}
	client, err := graphclient.NewClient(runtimeconfig.GraphConfig{
		GatewayBaseURL: "https://cg.example.com",
		AppKey:         "ak1",
		Secret:         zeroSecret,
	}, nil, graphclient.WithHTTPClient(failing))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Request(context.Background(), "/x", graphclient.RequestOptions{})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", err)
	}
}

func TestRequestRejectsAbsoluteEndpoint(t *testing.T) {
	gs := newGraphServer(t, http.StatusOK, "")
	_, err := gs.client(t).Request(context.Background(), "https://elsewhere.example.com/x", graphclient.RequestOptions{})
	if err == nil {
		t.Fatal("expected absolute endpoint to be rejected")
	}
	if gs.count() != 0 {
		t.Fatal("no request should have been sent")
	}
}

func TestUploadSynonymsEndToEnd(t *testing.T) {
	cfg := runtimeconfig.GraphConfig{
		GatewayBaseURL: "https://cg.example.com",
		AppKey:         "ak1",
		Secret:         zeroSecret,
	}
	signer, err := signing.NewSigner(cfg)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	var captured *http.Request
	var body []byte
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
			Request:    req,
		}, nil
	})

	client, err := graphclient.NewClient(cfg, signer, graphclient.WithHTTPClient(&http.Client{Transport: transport}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result := client.UploadSynonyms(context.Background(), "laptop, computer, pc", graphclient.SynonymOptions{
		Slot:            "1",
		LanguageRouting: "en",
	})
	if !result.Success || result.Error != "" {
		t.Fatalf("expected success, got %+v", result)
	}
	if captured == nil {
		t.Fatal("no request captured")
	}
	if captured.Method != http.MethodPut {
		t.Fatalf("expected PUT, got %s", captured.Method)
	}
	if captured.URL.Host != "cg.example.com" {
		t.Fatalf("unexpected host %q", captured.URL.Host)
	}
	if uri := captured.URL.RequestURI(); uri != "/resources/synonyms?synonym_slot=1&language_routing=en" {
		t.Fatalf("unexpected request uri %q", uri)
	}
	if !bytes.Equal(body, []byte("laptop, computer, pc")) {
		t.Fatalf("unexpected body %q", body)
	}
	header := captured.Header.Get(graphclient.AuthorizationHeader)
	match := headerGrammar.FindStringSubmatch(header)
	if match == nil {
		t.Fatalf("header %q does not match grammar", header)
	}
	if match[1] != "ak1" {
		t.Fatalf("unexpected app key %q", match[1])
	}
	if err := signer.Verify(header, http.MethodPut, captured.URL.RequestURI(), body); err != nil {
		t.Fatalf("signature does not verify: %v", err)
	}
}
