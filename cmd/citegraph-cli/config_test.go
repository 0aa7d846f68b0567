package main

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores global flag state after each test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := struct{ url, key, fmt string }{flagURL, flagKey, flagFmt}
	t.Cleanup(func() {
		flagURL = orig.url
		flagKey = orig.key
		flagFmt = orig.fmt
	})
}

// setEnv temporarily sets an environment variable; t.Setenv restores it.
func setEnv(t *testing.T, key, val string) {
	t.Helper()
	t.Setenv(key, val)
}

// unsetEnv temporarily unsets an environment variable and restores it on cleanup.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func writeTestConfig(t *testing.T, home, body string) {
	t.Helper()
	dir := filepath.Join(home, ".citegraph")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolveConfigEnvURL(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "CITEGRAPH_API_KEY")
	setEnv(t, "CITEGRAPH_URL", "http://env-server:9090")
	setEnv(t, "HOME", t.TempDir())

	flagURL = defaultURL
	flagKey = ""
	resolveConfig()

	if flagURL != "http://env-server:9090" {
		t.Errorf("flagURL: got %q, want %q", flagURL, "http://env-server:9090")
	}
}

func TestResolveConfigEnvKey(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "CITEGRAPH_URL")
	setEnv(t, "CITEGRAPH_API_KEY", "secret-key-from-env")
	setEnv(t, "HOME", t.TempDir())

	flagURL = defaultURL
	flagKey = ""
	resolveConfig()

	if flagKey != "secret-key-from-env" {
		t.Errorf("flagKey: got %q, want %q", flagKey, "secret-key-from-env")
	}
}

func TestResolveConfigProfile(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "CITEGRAPH_URL")
	unsetEnv(t, "CITEGRAPH_API_KEY")
	home := t.TempDir()
	setEnv(t, "HOME", home)
	writeTestConfig(t, home, `
url: http://flat:1
api_key: flat-key
active_profile: staging
profiles:
  staging:
    url: http://staging:3040
`)

	flagURL = defaultURL
	flagKey = ""
	resolveConfig()

	if flagURL != "http://staging:3040" {
		t.Errorf("flagURL: got %q, want profile URL", flagURL)
	}
	// The profile has no key, so the flat key fills in.
	if flagKey != "flat-key" {
		t.Errorf("flagKey: got %q, want %q", flagKey, "flat-key")
	}
}

func TestResolveConfigFlagWins(t *testing.T) {
	resetFlags(t)
	setEnv(t, "CITEGRAPH_URL", "http://env:1")
	setEnv(t, "CITEGRAPH_API_KEY", "env-key")
	home := t.TempDir()
	setEnv(t, "HOME", home)
	writeTestConfig(t, home, "url: http://file:2\napi_key: file-key\n")

	flagURL = "http://flag:3"
	flagKey = "flag-key"
	resolveConfig()

	if flagURL != "http://flag:3" || flagKey != "flag-key" {
		t.Errorf("got (%q, %q), want flag values", flagURL, flagKey)
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	home := t.TempDir()
	setEnv(t, "HOME", home)

	path, err := writeConfig("http://srv:3040", "k1")
	if err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm: got %o, want 600", perm)
	}

	_, cfg, err := loadConfigFile()
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	url, key := cfg.settings()
	if url != "http://srv:3040" || key != "k1" {
		t.Errorf("settings: got (%q, %q)", url, key)
	}
}
