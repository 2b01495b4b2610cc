package fixture

import (
	"os"
	"strings"
	"testing"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.DefaultDir != "fixtures" {
		t.Errorf("DefaultDir = %q, want fixtures", cfg.DefaultDir)
	}
	if cfg.Teardown != TeardownRollback {
		t.Errorf("Teardown = %q, want rollback", cfg.Teardown)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid rollback", Config{DefaultDir: "fixtures", Teardown: TeardownRollback}, false},
		{"valid truncate", Config{DefaultDir: "f", Teardown: TeardownTruncate}, false},
		{"missing default dir", Config{Teardown: TeardownRollback}, true},
		{"bad strategy", Config{DefaultDir: "fixtures", Teardown: "drop"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfigSearchDirs(t *testing.T) {
	cfg := Config{DefaultDir: "fixtures", Dirs: []string{"testdata", "shared"}}
	dirs := cfg.SearchDirs()

	want := []string{"fixtures", "testdata", "shared"}
	if len(dirs) != len(want) {
		t.Fatalf("dirs = %v, want %v", dirs, want)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Errorf("dirs[%d] = %q, want %q", i, dirs[i], want[i])
		}
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("FIXTURES_DIRS", strings.Join([]string{"testdata", "shared"}, string(os.PathListSeparator)))
	t.Setenv("FIXTURES_TEARDOWN", "truncate")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.DefaultDir != "fixtures" {
		t.Errorf("DefaultDir = %q, want default", cfg.DefaultDir)
	}
	if len(cfg.Dirs) != 2 || cfg.Dirs[0] != "testdata" || cfg.Dirs[1] != "shared" {
		t.Errorf("Dirs = %v, want [testdata shared]", cfg.Dirs)
	}
	if cfg.Teardown != TeardownTruncate {
		t.Errorf("Teardown = %q, want truncate", cfg.Teardown)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FIXTURES_DIRS", "")
	t.Setenv("FIXTURES_TEARDOWN", "")
	t.Setenv("FIXTURES_DEFAULT_DIR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.DefaultDir != "fixtures" || cfg.Teardown != TeardownRollback || len(cfg.Dirs) != 0 {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigRejectsBadStrategy(t *testing.T) {
	t.Setenv("FIXTURES_TEARDOWN", "drop")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid FIXTURES_TEARDOWN")
	}
}
