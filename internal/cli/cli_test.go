package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raysh454/fraudeye/internal/demobackend"
	"github.com/raysh454/fraudeye/internal/testutil"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "fraudeye" {
		t.Errorf("expected use 'fraudeye', got %q", cmd.Use)
	}
	if !cmd.SilenceUsage || !cmd.SilenceErrors {
		t.Error("expected usage and errors to be silenced")
	}
	for _, name := range []string{"config", "log-level"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag %q", name)
		}
	}

	want := map[string]bool{
		"serve": false, "login": false, "register": false, "logout": false, "whoami": false,
		"scan": false, "history": false, "autoscan": false, "popup": false, "config": false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %q subcommand", name)
		}
	}
}

func TestSubcommandFlags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		flags map[string]string
	}{
		{"login", map[string]string{"email": "e", "password": "p"}},
		{"register", map[string]string{"name": "n", "email": "e", "password": "p"}},
		{"scan", map[string]string{"url": "u", "content": "c"}},
		{"history", map[string]string{"mine": "m", "format": "f"}},
		{"popup", map[string]string{"selection": "s", "snippet": "", "token": ""}},
		{"serve", map[string]string{"addr": ""}},
	}

	root := NewRootCmd()
	for _, tc := range cases {
		sub, _, err := root.Find([]string{tc.name})
		if err != nil || sub.Name() != tc.name {
			t.Fatalf("find %q: %v", tc.name, err)
		}
		for flag, short := range tc.flags {
			f := sub.Flags().Lookup(flag)
			if f == nil {
				t.Errorf("%s: expected flag %q", tc.name, flag)
				continue
			}
			if f.Shorthand != short {
				t.Errorf("%s: flag %q: expected shorthand %q, got %q", tc.name, flag, short, f.Shorthand)
			}
		}
	}

	if f := root.Commands(); len(f) == 0 {
		t.Fatal("no subcommands")
	}
	history, _, _ := root.Find([]string{"history"})
	if def := history.Flags().Lookup("format").DefValue; def != "text" {
		t.Errorf("expected history format default 'text', got %q", def)
	}
}

type cliHarness struct {
	backendURL string
	configPath string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()

	backend := httptest.NewServer(demobackend.NewServer(demobackend.DefaultConfig(), &testutil.DummyLogger{}))
	t.Cleanup(backend.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yml := "api:\n  base_url: " + backend.URL + "/api\n" +
		"storage:\n  path: " + filepath.Join(dir, "data", "fraudeye.db") + "\n" +
		"log:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliHarness{backendURL: backend.URL, configPath: cfgPath}
}

func (h *cliHarness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *cliHarness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	if err != nil {
		t.Fatalf("fraudeye %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestSessionPersistsAcrossInvocations(t *testing.T) {
	h := newCLIHarness(t)

	out := h.mustRun(t, "whoami")
	if !strings.Contains(out, "You are not signed in") {
		t.Errorf("whoami before register: %q", out)
	}

	out = h.mustRun(t, "register", "--name", "Alice", "--email", "alice@example.com", "--password", "hunter2")
	if !strings.Contains(out, "Signed in as: Alice <alice@example.com>") {
		t.Errorf("register output: %q", out)
	}

	out = h.mustRun(t, "whoami")
	if !strings.Contains(out, "Signed in as: Alice <alice@example.com>") {
		t.Errorf("whoami after register: %q", out)
	}

	if out = h.mustRun(t, "logout"); !strings.Contains(out, "Signed out.") {
		t.Errorf("logout output: %q", out)
	}
	if out = h.mustRun(t, "whoami"); !strings.Contains(out, "You are not signed in") {
		t.Errorf("whoami after logout: %q", out)
	}

	out = h.mustRun(t, "login", "-e", "alice@example.com", "-p", "hunter2")
	if !strings.Contains(out, "Signed in as: Alice") {
		t.Errorf("login output: %q", out)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newCLIHarness(t)

	_, err := h.run(t, "login", "--email", "nobody@example.com", "--password", "nope")
	if err == nil {
		t.Fatal("expected login error")
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestScanAndHistory(t *testing.T) {
	h := newCLIHarness(t)

	out := h.mustRun(t, "scan", "--url", "https://news.example/a",
		"--content", "Shocking miracle cure that doctors hate, click here now!")
	for _, want := range []string{"Label: ", "Score: ", "/ 100", "URL: https://news.example/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("scan output missing %q: %q", want, out)
		}
	}

	out = h.mustRun(t, "history")
	if !strings.Contains(out, "Scan History (latest 1 verifications)") {
		t.Errorf("history output: %q", out)
	}
	if !strings.Contains(out, "https://news.example/a") {
		t.Errorf("history missing scan URL: %q", out)
	}

	out = h.mustRun(t, "history", "--format", "markdown")
	if !strings.Contains(out, "# Scan History") {
		t.Errorf("markdown history output: %q", out)
	}
}

func TestScanRejectsEmptyContent(t *testing.T) {
	h := newCLIHarness(t)

	if _, err := h.run(t, "scan", "--content", "   "); err == nil {
		t.Fatal("expected validation error for blank content")
	}
}

func TestHistoryMineOnly(t *testing.T) {
	h := newCLIHarness(t)

	h.mustRun(t, "scan", "--content", "Anonymous scan about the weather office report.")
	h.mustRun(t, "register", "--name", "Bob", "--email", "bob@example.com", "--password", "pw")
	h.mustRun(t, "scan", "--url", "https://news.example/bob", "--content", "Bob's own scan of a study that shows rainfall rose.")

	out := h.mustRun(t, "history", "--mine")
	if !strings.Contains(out, "latest 1 verifications") || !strings.Contains(out, "https://news.example/bob") {
		t.Errorf("mine-only history: %q", out)
	}

	out = h.mustRun(t, "history")
	if !strings.Contains(out, "latest 2 verifications") {
		t.Errorf("full history: %q", out)
	}
}

func TestHistoryUnknownFormat(t *testing.T) {
	h := newCLIHarness(t)

	if _, err := h.run(t, "history", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestAutoscanArticle(t *testing.T) {
	h := newCLIHarness(t)

	out := h.mustRun(t, "autoscan", h.backendURL+"/demo/articles/miracle-cure")
	if !strings.Contains(out, "Label: ") {
		t.Errorf("autoscan output: %q", out)
	}

	out = h.mustRun(t, "history")
	if !strings.Contains(out, "Autoscan") {
		t.Errorf("expected autoscan source in history: %q", out)
	}
}

func TestAutoscanSkipsNonArticle(t *testing.T) {
	h := newCLIHarness(t)

	out := h.mustRun(t, "autoscan", h.backendURL+"/demo/articles")
	if !strings.Contains(out, "Skipped:") {
		t.Errorf("expected skip, got %q", out)
	}
}

func TestPopupAnalyzesSelection(t *testing.T) {
	h := newCLIHarness(t)

	out := h.mustRun(t, "popup", h.backendURL+"/demo/articles/rainfall-study",
		"--selection", "Researchers analysed records from more than three hundred monitoring stations.")
	for _, want := range []string{"Label: ", "Score: ", "Dashboard: "} {
		if !strings.Contains(out, want) {
			t.Errorf("popup output missing %q: %q", want, out)
		}
	}
}

func TestConfigCmdPrintsEffectiveConfig(t *testing.T) {
	h := newCLIHarness(t)

	out := h.mustRun(t, "config")
	if !strings.Contains(out, "base_url: "+h.backendURL+"/api") {
		t.Errorf("config output: %q", out)
	}
	if !strings.Contains(out, "level: error") {
		t.Errorf("config output missing log level: %q", out)
	}
}
