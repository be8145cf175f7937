package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "imposer")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "imposer") {
		t.Errorf("cacheDir() = %q, should honor XDG_CACHE_HOME", dir)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	want := []string{"impose", "preview", "plan", "layouts", "papers", "batch", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParsePaperSize(t *testing.T) {
	tests := []struct {
		input   string
		w, h    float64
		wantErr bool
	}{
		{input: "460x124", w: 460, h: 124},
		{input: "460X124", w: 460, h: 124},
		{input: "210.5 x 99", w: 210.5, h: 99},
		{input: "460", wantErr: true},
		{input: "ax124", wantErr: true},
		{input: "460xb", wantErr: true},
		{input: "0x124", wantErr: true},
		{input: "460x-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			w, h, err := parsePaperSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parsePaperSize(%q) = %g x %g, want %g x %g", tt.input, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestNewCacheFallsBackToNull(t *testing.T) {
	c := newCache(true)
	if c == nil {
		t.Fatal("newCache(true) returned nil")
	}
	defer c.Close()
}

func TestCompletionCommandValidArgs(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	cmd := c.completionCommand()
	if err := cmd.Args(cmd, []string{"bash"}); err != nil {
		t.Errorf("bash should be a valid arg: %v", err)
	}
	if err := cmd.Args(cmd, []string{"tcsh"}); err == nil {
		t.Error("tcsh should be rejected")
	}
	if !strings.Contains(cmd.Long, "imposer completion zsh") {
		t.Error("long help should mention zsh usage")
	}
}
