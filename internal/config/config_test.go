package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ShippedDefaults(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "smoke.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Endpoint == "" || c.Map == "" {
		t.Fatalf("incomplete config: %+v", c)
	}
	if c != Defaults() {
		t.Fatalf("shipped config should match Defaults(): %+v vs %+v", c, Defaults())
	}
}

func TestLoad_OverridesAndValidation(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "smoke.yaml")
	if err := os.WriteFile(path, []byte("endpoint: \"ws://sim:2000/v1/ws\"\nmap: \"Town03\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Endpoint != "ws://sim:2000/v1/ws" || c.Map != "Town03" {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.ClientName != "smoke" {
		t.Fatalf("missing fields should keep defaults: %+v", c)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("endpoint: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("empty endpoint accepted")
	}
}
