package webclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raysh454/fraudeye/internal/testutil"
	"github.com/raysh454/fraudeye/internal/webclient"
)

func newNetHTTP(t *testing.T, httpClient *http.Client) webclient.WebClient {
	t.Helper()
	client, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &testutil.DummyLogger{}, httpClient)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNetHTTPClient_Get_ReturnsPage(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html><title>News</title></html>")
	}))
	defer ts.Close()

	resp, err := newNetHTTP(t, ts.Client()).Get(context.Background(), ts.URL+"/news/1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "<html><title>News</title></html>" {
		t.Errorf("unexpected body %q", resp.Body)
	}
	if resp.Headers.Get("Content-Type") != "text/html" {
		t.Errorf("content type not propagated: %q", resp.Headers.Get("Content-Type"))
	}
}

func TestNetHTTPClient_Do_PostsBodyAndHeaders(t *testing.T) {
	t.Parallel()
	var gotMethod, gotBody, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	hdrs := http.Header{}
	hdrs.Set("Authorization", "Bearer ext-token")
	resp, err := newNetHTTP(t, ts.Client()).Do(context.Background(), &webclient.Request{
		Method:  "post",
		URL:     ts.URL + "/api/scans",
		Headers: hdrs,
		Body:    []byte(`{"contentSnippet":"x"}`),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotMethod != http.MethodPost || gotAuth != "Bearer ext-token" || gotBody != `{"contentSnippet":"x"}` {
		t.Errorf("server saw method=%q auth=%q body=%q", gotMethod, gotAuth, gotBody)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

func TestNetHTTPClient_Do_NonSuccessIsNotAnError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	resp, err := newNetHTTP(t, ts.Client()).Get(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
}

func TestNetHTTPClient_Do_NilRequest(t *testing.T) {
	t.Parallel()
	if _, err := newNetHTTP(t, nil).Do(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}

func TestNetHTTPClient_Do_ContextCanceled(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newNetHTTP(t, ts.Client()).Get(ctx, ts.URL); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestNewJSONRequest(t *testing.T) {
	t.Parallel()
	req, err := webclient.NewJSONRequest(http.MethodPost, "http://backend/api/scans",
		map[string]string{"contentSnippet": "x"}, "ext-token")
	if err != nil {
		t.Fatalf("NewJSONRequest: %v", err)
	}
	if string(req.Body) != `{"contentSnippet":"x"}` {
		t.Errorf("body = %s", req.Body)
	}
	if got := req.Headers.Get("Authorization"); got != "Bearer ext-token" {
		t.Errorf("Authorization = %q", got)
	}
	if got := req.Headers.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}

	anon, err := webclient.NewJSONRequest(http.MethodPost, "http://backend/api/scans", struct{}{}, "")
	if err != nil {
		t.Fatalf("NewJSONRequest: %v", err)
	}
	if _, ok := anon.Headers["Authorization"]; ok {
		t.Error("anonymous request must not carry Authorization")
	}

	if _, err := webclient.NewJSONRequest(http.MethodPost, "u", make(chan int), ""); err == nil {
		t.Error("expected error for unencodable payload")
	}
}

func TestResponseSuccess(t *testing.T) {
	t.Parallel()
	for status, want := range map[int]bool{200: true, 201: true, 299: true, 199: false, 302: false, 400: false, 502: false} {
		if got := (&webclient.Response{StatusCode: status}).Success(); got != want {
			t.Errorf("Success() for %d = %v, want %v", status, got, want)
		}
	}
}

func TestNetHTTPClient_Do_DefaultUserAgent(t *testing.T) {
	t.Parallel()
	agents := make(chan string, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.UserAgent()
	}))
	defer ts.Close()

	client := newNetHTTP(t, ts.Client())
	if _, err := client.Get(context.Background(), ts.URL); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := <-agents; got != webclient.UserAgent {
		t.Errorf("default User-Agent = %q", got)
	}

	hdrs := http.Header{}
	hdrs.Set("User-Agent", "custom")
	if _, err := client.Do(context.Background(), &webclient.Request{URL: ts.URL, Headers: hdrs}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got := <-agents; got != "custom" {
		t.Errorf("explicit User-Agent = %q", got)
	}
}
