package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeWritesNamedComponentsToFile(t *testing.T) {
	saved := Logger
	defer func() {
		Logger = saved
		Sugar = saved.Sugar()
	}()

	path := filepath.Join(t.TempDir(), "power.log")
	if err := Initialize(Config{Level: "warn", Format: "json", Output: path}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Named("power").Info("dropped below level")
	Named("power").Warn("activity raised twice without lowering")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "dropped below level") {
		t.Errorf("Expected info to be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, `"logger":"power"`) || !strings.Contains(out, "raised twice") {
		t.Errorf("Expected the named warning in:\n%s", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !l.Core().Enabled(0) {
		t.Error("Expected info to be enabled")
	}
}
