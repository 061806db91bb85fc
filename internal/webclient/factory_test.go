package webclient_test

import (
	"context"
	"strings"
	"testing"

	"github.com/raysh454/fraudeye/internal/testutil"
	"github.com/raysh454/fraudeye/internal/webclient"
)

func TestNewWebClient_DefaultsToNetHTTP(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{}, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("NewWebClient: %v", err)
	}
	defer client.Close()
	if _, ok := client.(*webclient.NetHTTPClient); !ok {
		t.Errorf("expected *NetHTTPClient, got %T", client)
	}
}

func TestNewWebClient_UnknownBackend(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{Client: "lynx"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if client != nil {
		t.Fatal("expected nil client for unknown backend")
	}
	if !strings.Contains(err.Error(), "nethttp") {
		t.Errorf("error should list available backends: %v", err)
	}
}

func TestListBackends(t *testing.T) {
	t.Parallel()
	got := webclient.ListBackends()
	want := map[string]bool{"chromedp": false, "nethttp": false}
	for _, b := range got {
		if _, ok := want[b]; ok {
			want[b] = true
		}
	}
	for b, seen := range want {
		if !seen {
			t.Errorf("backend %q not registered (have %v)", b, got)
		}
	}
}

// Constructing the chromedp backend does not launch Chrome, so this runs
// everywhere; the method check fails before a browser is needed.
func TestChromedpClient_RejectsNonGET(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{Client: webclient.ClientChromedp}, nil)
	if err != nil {
		t.Fatalf("NewWebClient: %v", err)
	}
	defer client.Close()

	_, err = client.Do(context.Background(), &webclient.Request{Method: "POST", URL: "http://example.com"})
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("expected not supported error, got %v", err)
	}
}
