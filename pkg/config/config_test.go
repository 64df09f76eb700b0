package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/wemcdonald/boxr/pkg/errors"
)

func writeParams(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxr.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	p := Default()

	if p.MinWeb != 3 {
		t.Errorf("MinWeb = %g, want 3", p.MinWeb)
	}
	if p.MountHoleD != 5.2 {
		t.Errorf("MountHoleD = %g, want 5.2", p.MountHoleD)
	}
	if p.MountStyle != MountStyleCounterbore {
		t.Errorf("MountStyle = %q, want counterbore", p.MountStyle)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default params should validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeParams(t, `
min_web = 4.5
mount_style = "countersink"
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if p.MinWeb != 4.5 {
		t.Errorf("MinWeb = %g, want 4.5", p.MinWeb)
	}
	if p.MountStyle != MountStyleCountersink {
		t.Errorf("MountStyle = %q, want countersink", p.MountStyle)
	}
	// Untouched keys keep defaults
	if p.HandleXPad != 6 {
		t.Errorf("HandleXPad = %g, want default 6", p.HandleXPad)
	}
	if p.BaseThickness != 12 {
		t.Errorf("BaseThickness = %g, want default 12", p.BaseThickness)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeParams(t, `handle_xpad = 6`) // typo

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Fatalf("want INVALID_PARAMS for unknown key, got %v", err)
	}
	if !strings.Contains(err.Error(), "handle_xpad") {
		t.Errorf("error should name the unknown key: %v", err)
	}
}

func TestLoadRejectsBadMountStyle(t *testing.T) {
	path := writeParams(t, `mount_style = "glue"`)

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Fatalf("want INVALID_PARAMS for bad mount style, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Fatalf("want INVALID_PARAMS for missing file, got %v", err)
	}
}

func TestValidateNonPositive(t *testing.T) {
	p := Default()
	p.MinWeb = 0
	if err := p.Validate(); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("zero min_web should be rejected, got %v", err)
	}

	p = Default()
	p.MountingWingDepth = -1
	if err := p.Validate(); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("negative wing depth should be rejected, got %v", err)
	}

	// Zero wing depth is legal: it reproduces a holder with no mounting wing.
	p = Default()
	p.MountingWingDepth = 0
	if err := p.Validate(); err != nil {
		t.Errorf("zero wing depth should be accepted: %v", err)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDefault(&buf); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	var p Params
	if err := toml.Unmarshal(buf.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal scaffold: %v", err)
	}
	if p != Default() {
		t.Errorf("scaffold round-trip = %+v, want defaults", p)
	}
}
