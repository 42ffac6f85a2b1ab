package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vietddude/crosspay/internal/core/session"
)

// =============================================================================
// Helpers
// =============================================================================

const (
	addrA = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	addrD = "1FeexV6bAHb8ybZjqQMjJrcCrHGW9sb6uF"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`storage:
  driver: sqlite
  path: %s
logging:
  level: error
`, filepath.Join(dir, "state.db"))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func run(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

// =============================================================================
// Tests
// =============================================================================

func TestSend_TrustedAddressNoPrompt(t *testing.T) {
	cfg := writeConfig(t)

	output, err := run(t, cfg, "", "send", strings.ToLower(addrA), "$25")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if strings.Contains(output, "Proceed anyway?") {
		t.Error("category A should not prompt")
	}
	if !strings.Contains(output, "Payment of $25.00 sent successfully! TX: tx_") {
		t.Errorf("missing success line:\n%s", output)
	}

	history, err := run(t, cfg, "", "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(history, strings.ToLower(addrA)) {
		t.Errorf("history should list the payment as entered:\n%s", history)
	}
}

func TestSend_RiskyAddressPrompts(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantSent  bool
		wantAsked bool
	}{
		{"declined", "n\n", nil, false, true},
		{"no answer", "", nil, false, true},
		{"accepted", "y\n", nil, true, true},
		{"yes flag", "", []string{"--yes"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeConfig(t)
			args := append([]string{"send", addrD, "10"}, tt.args...)

			output, err := run(t, cfg, tt.stdin, args...)
			if err != nil {
				t.Fatalf("send failed: %v", err)
			}
			if got := strings.Contains(output, "Proceed anyway?"); got != tt.wantAsked {
				t.Errorf("asked = %v, want %v", got, tt.wantAsked)
			}
			if !strings.Contains(output, "Security Warning") {
				t.Errorf("missing warning:\n%s", output)
			}
			if got := strings.Contains(output, "sent successfully"); got != tt.wantSent {
				t.Errorf("sent = %v, want %v:\n%s", got, tt.wantSent, output)
			}

			history, _ := run(t, cfg, "", "history")
			if got := strings.Contains(history, addrD); got != tt.wantSent {
				t.Errorf("recorded = %v, want %v", got, tt.wantSent)
			}
		})
	}
}

func TestSend_UnknownAddressIsD(t *testing.T) {
	cfg := writeConfig(t)

	output, err := run(t, cfg, "n\n", "send", "bc1qunknown", "5")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if !strings.Contains(output, "Unknown Address") {
		t.Errorf("expected unknown address notice:\n%s", output)
	}
	if !strings.Contains(output, "D - Not Safe") {
		t.Errorf("expected category D:\n%s", output)
	}
	if !strings.Contains(output, "Payment cancelled.") {
		t.Errorf("expected cancellation:\n%s", output)
	}
}

func TestSend_InvalidAmount(t *testing.T) {
	cfg := writeConfig(t)
	for _, amount := range []string{"0", "-3", "abc", "$"} {
		if _, err := run(t, cfg, "", "send", addrA, amount); err == nil {
			t.Errorf("amount %q: expected error", amount)
		}
	}
}

func TestHistory_Empty(t *testing.T) {
	output, err := run(t, writeConfig(t), "", "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(output, "No transactions yet.") {
		t.Errorf("expected empty message:\n%s", output)
	}
}

func TestAdmin_MutationsRequireLogin(t *testing.T) {
	cfg := writeConfig(t)

	output, err := run(t, cfg, "", "admin", "add", "bc1qnew", "B")
	if !errors.Is(err, session.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(output, "Admin login required") {
		t.Errorf("expected login hint:\n%s", output)
	}

	if _, err := run(t, cfg, "", "admin", "login", "-u", "admin", "-p", "wrong"); !errors.Is(err, errInvalidCredentials) {
		t.Fatalf("expected errInvalidCredentials, got %v", err)
	}
	if _, err := run(t, cfg, "", "admin", "login", "-u", "admin", "-p", "demo123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := run(t, cfg, "", "admin", "add", "bc1qnew", "b", "--note", "Friend"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	lookup, err := run(t, cfg, "", "lookup", "BC1QNEW")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !strings.Contains(lookup, "B - Good") || !strings.Contains(lookup, "Friend") {
		t.Errorf("lookup should show the new entry:\n%s", lookup)
	}

	if _, err := run(t, cfg, "", "admin", "update", "bc1qnew", "--category", "C"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	lookup, _ = run(t, cfg, "", "lookup", "bc1qnew")
	if !strings.Contains(lookup, "C - Suspicious") || !strings.Contains(lookup, "Friend") {
		t.Errorf("update should change category and keep note:\n%s", lookup)
	}

	if _, err := run(t, cfg, "", "admin", "remove", "bc1qnew"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	lookup, _ = run(t, cfg, "", "lookup", "bc1qnew")
	if !strings.Contains(lookup, "Unknown Address") {
		t.Errorf("removed address should be unknown:\n%s", lookup)
	}

	if _, err := run(t, cfg, "", "admin", "logout"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	status, _ := run(t, cfg, "", "admin", "status")
	if !strings.Contains(status, "Not logged in") {
		t.Errorf("expected logged out status:\n%s", status)
	}
}

func TestAdmin_ClearAll(t *testing.T) {
	cfg := writeConfig(t)
	if _, err := run(t, cfg, "", "send", addrA, "1"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, err := run(t, cfg, "", "admin", "login", "-u", "admin", "-p", "demo123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	output, err := run(t, cfg, "n\n", "admin", "clear")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !strings.Contains(output, "Nothing cleared.") {
		t.Errorf("declined clear should keep data:\n%s", output)
	}

	if _, err := run(t, cfg, "", "admin", "clear", "--yes"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	list, _ := run(t, cfg, "", "admin", "list")
	if !strings.Contains(list, "No addresses added yet.") {
		t.Errorf("registry should be empty:\n%s", list)
	}
	history, _ := run(t, cfg, "", "history")
	if !strings.Contains(history, "No transactions yet.") {
		t.Errorf("log should be empty:\n%s", history)
	}
	status, _ := run(t, cfg, "", "admin", "status")
	if !strings.Contains(status, "Logged in since") {
		t.Errorf("clear should keep the session:\n%s", status)
	}
}

func TestCategories(t *testing.T) {
	output, err := run(t, writeConfig(t), "", "categories")
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	for _, want := range []string{"Trustworthy", "Good", "Suspicious", "Not Safe", "80-100", "0-40"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q:\n%s", want, output)
		}
	}
}

func TestConsole_SharesStateAcrossLines(t *testing.T) {
	cfg := writeConfig(t)
	script := strings.Join([]string{
		"admin login -u admin -p demo123",
		`admin add bc1qfriend A --note "Old friend"`,
		"send bc1qfriend 12.5",
		"send " + addrD + " 3",
		"n",
		"history",
		"exit",
	}, "\n") + "\n"

	output, err := run(t, cfg, script, "console")
	if err != nil {
		t.Fatalf("console failed: %v", err)
	}
	if !strings.Contains(output, "Payment of $12.50 sent successfully!") {
		t.Errorf("expected payment to the new address:\n%s", output)
	}
	if !strings.Contains(output, "Payment cancelled.") {
		t.Errorf("expected the risky payment to be cancelled:\n%s", output)
	}
	if strings.Count(output, "bc1qfriend") < 2 {
		t.Errorf("history should include the payment:\n%s", output)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"send abc 10\n", []string{"send", "abc", "10"}, false},
		{`admin add x A --note "two words"`, []string{"admin", "add", "x", "A", "--note", "two words"}, false},
		{"  lookup   'a b'  ", []string{"lookup", "a b"}, false},
		{`note ""`, []string{"note", ""}, false},
		{"", nil, false},
		{`bad "quote`, nil, true},
	}

	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		if (err != nil) != tt.wantErr {
			t.Errorf("splitArgs(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
