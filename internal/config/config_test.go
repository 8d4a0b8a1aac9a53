package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Fatalf("unexpected server addr: %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "data/shelf.db" {
		t.Fatalf("unexpected database path: %q", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTLMinutes != 30 {
		t.Fatalf("unexpected token ttl: %d", cfg.Auth.TokenTTLMinutes)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHELF_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("SHELF_AUTH_SECRETKEY", "env-secret")
	t.Setenv("SHELF_AUTH_TOKENTTLMINUTES", "5")
	t.Setenv("SHELF_BOOTSTRAP_SUPERUSEREMAIL", "admin@example.com")
	t.Setenv("SHELF_BOOTSTRAP_SUPERUSERPASSWORD", "admin-password")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9999" {
		t.Fatalf("unexpected server addr: %q", cfg.Server.Addr)
	}
	if cfg.Auth.SecretKey != "env-secret" || cfg.Auth.TokenTTLMinutes != 5 {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Bootstrap.SuperuserEmail != "admin@example.com" || cfg.Bootstrap.SuperuserPassword != "admin-password" {
		t.Fatalf("unexpected bootstrap config: %+v", cfg.Bootstrap)
	}
}
