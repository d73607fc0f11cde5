package config

import (
	"errors"
	"testing"
)

// mapBackend is an in-memory ConfigBackend for tests.
type mapBackend struct {
	data map[string]any
}

func (m mapBackend) GetString(key string) (string, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (m mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	return v.(int), true, nil
}

func (m mapBackend) SetString(key, val string) error { m.data[key] = val; return nil }
func (m mapBackend) SetInt(key string, val int) error { m.data[key] = val; return nil }
func (m mapBackend) Delete(key string) error         { delete(m.data, key); return nil }

// mockKeychain is a test double for the secret store.
type mockKeychain struct {
	value string
	err   error
}

func (m mockKeychain) Get(service, account string) (string, error) {
	return m.value, m.err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
		if s.altEnv != "" {
			t.Setenv(s.altEnv, "")
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadWith(mapBackend{data: map[string]any{}}, mockKeychain{err: errors.New("no store")})
	if err != nil {
		t.Fatalf("loadWith error: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.GenAI.Model != "gemini-1.5-flash" {
		t.Errorf("GenAI.Model = %q", cfg.GenAI.Model)
	}
	if cfg.GenAI.APIKey != "" {
		t.Errorf("GenAI.APIKey = %q, want empty without any source", cfg.GenAI.APIKey)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
}

func TestLoad_BackendValues(t *testing.T) {
	clearEnv(t)
	b := mapBackend{data: map[string]any{
		"server.port": 8080,
		"genai.model": "gemini-2.0-flash",
		"log.level":   "debug",
	}}
	cfg, err := loadWith(b, mockKeychain{err: errors.New("no store")})
	if err != nil {
		t.Fatalf("loadWith error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.GenAI.Model != "gemini-2.0-flash" {
		t.Errorf("GenAI.Model = %q", cfg.GenAI.Model)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_EnvOverridesBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDYFLOW_SERVER_PORT", "9000")
	t.Setenv("STUDYFLOW_LOG_LEVEL", "warn")

	b := mapBackend{data: map[string]any{"server.port": 8080, "log.level": "debug"}}
	cfg, err := loadWith(b, mockKeychain{err: errors.New("no store")})
	if err != nil {
		t.Fatalf("loadWith error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want env override 9000", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want env override warn", cfg.Log.Level)
	}
}

func TestLoad_APIKeySources(t *testing.T) {
	t.Run("gemini env var", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "from-env")
		cfg, err := loadWith(mapBackend{data: map[string]any{}}, mockKeychain{err: errors.New("no store")})
		if err != nil {
			t.Fatalf("loadWith error: %v", err)
		}
		if cfg.GenAI.APIKey != "from-env" {
			t.Errorf("APIKey = %q, want from-env", cfg.GenAI.APIKey)
		}
	})

	t.Run("studyflow env var wins over alt", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STUDYFLOW_GENAI_API_KEY", "primary")
		t.Setenv("GEMINI_API_KEY", "secondary")
		cfg, err := loadWith(mapBackend{data: map[string]any{}}, mockKeychain{})
		if err != nil {
			t.Fatalf("loadWith error: %v", err)
		}
		if cfg.GenAI.APIKey != "primary" {
			t.Errorf("APIKey = %q, want primary", cfg.GenAI.APIKey)
		}
	})

	t.Run("secret store fallback", func(t *testing.T) {
		clearEnv(t)
		cfg, err := loadWith(mapBackend{data: map[string]any{}}, mockKeychain{value: "from-keychain"})
		if err != nil {
			t.Fatalf("loadWith error: %v", err)
		}
		if cfg.GenAI.APIKey != "from-keychain" {
			t.Errorf("APIKey = %q, want from-keychain", cfg.GenAI.APIKey)
		}
	})
}

func TestShowAll_HidesSecrets(t *testing.T) {
	clearEnv(t)
	cfg := defaults()
	cfg.GenAI.APIKey = "super-secret"

	for _, info := range ShowAll(cfg) {
		if info.Key == "genai.api_key" {
			t.Error("ShowAll exposed the secret key")
		}
		if info.Value == "super-secret" {
			t.Errorf("ShowAll leaked the secret via %s", info.Key)
		}
	}
}

func TestValidKeys_ExcludesSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "genai.api_key" {
			t.Error("ValidKeys included the secret key")
		}
	}
}
