package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()
	if cfg == nil {
		t.Fatal("New() returned nil")
	}
	if cfg.Env == nil {
		t.Fatal("New() did not initialize Env map")
	}
	if len(cfg.Env) != 0 {
		t.Errorf("New() Env map should be empty, got %d entries", len(cfg.Env))
	}
}

func TestLoadEnvFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        map[string]string
		wantErr     bool
	}{
		{
			name: "simple key-value pairs",
			fileContent: `DATA_PATH=/data/train.csv
KAGGLE_KERNEL_RUN_TYPE=Interactive`,
			want: map[string]string{
				"DATA_PATH":              "/data/train.csv",
				"KAGGLE_KERNEL_RUN_TYPE": "Interactive",
			},
			wantErr: false,
		},
		{
			name: "with comments and empty lines",
			fileContent: `# Local override
DATA_PATH=/data/train.csv

# Another comment
`,
			want: map[string]string{
				"DATA_PATH": "/data/train.csv",
			},
			wantErr: false,
		},
		{
			name: "with whitespace",
			fileContent: `  KEY1  =  value1
KEY2=value2`,
			want: map[string]string{
				"KEY1": "value1",
				"KEY2": "value2",
			},
			wantErr: false,
		},
		{
			name: "with variable expansion",
			fileContent: `DATA_ROOT=/mnt/data
DATA_PATH=${DATA_ROOT}/train.csv`,
			want: map[string]string{
				"DATA_ROOT": "/mnt/data",
				"DATA_PATH": "/mnt/data/train.csv",
			},
			wantErr: false,
		},
		{
			name: "quotes and export prefix",
			fileContent: `export DATA_PATH="/data/my file.csv"
HINT='my-dataset'`,
			want: map[string]string{
				"DATA_PATH": "/data/my file.csv",
				"HINT":      "my-dataset",
			},
			wantErr: false,
		},
		{
			name: "malformed lines are skipped",
			fileContent: `KEY1=value1
INVALID_LINE_NO_EQUALS
KEY2=value2`,
			want: map[string]string{
				"KEY1": "value1",
				"KEY2": "value2",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "test.env")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create temp file: %v", err)
			}

			cfg := New()
			err := cfg.LoadEnvFile(tmpFile)

			if (err != nil) != tt.wantErr {
				t.Errorf("LoadEnvFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			for key, expectedValue := range tt.want {
				if gotValue, exists := cfg.Env[key]; !exists {
					t.Errorf("Expected key %s not found in Env", key)
				} else if gotValue != expectedValue {
					t.Errorf("Key %s: got value %q, want %q", key, gotValue, expectedValue)
				}
			}

			// Check no unexpected keys
			for key := range cfg.Env {
				if _, expected := tt.want[key]; !expected {
					t.Errorf("Unexpected key %s in Env", key)
				}
			}
		})
	}
}

func TestLoadEnvFile_NonExistent(t *testing.T) {
	cfg := New()
	err := cfg.LoadEnvFile("/nonexistent/file.env")
	if err != nil {
		t.Errorf("LoadEnvFile() with non-existent file should return nil, got error: %v", err)
	}
}

func TestLoadEnvFile_Precedence(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.env")
	if err := os.WriteFile(tmpFile, []byte("DATA_PATH=from_file\nKEY2=also_from_file"), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	cfg := New()
	cfg.Env["DATA_PATH"] = "pre_existing"

	err := cfg.LoadEnvFile(tmpFile)
	if err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	// Env file must not override values from the environment or flags
	if cfg.Env["DATA_PATH"] != "pre_existing" {
		t.Errorf("LoadEnvFile should not override existing values, got %q", cfg.Env["DATA_PATH"])
	}
	if cfg.Env["KEY2"] != "also_from_file" {
		t.Errorf("LoadEnvFile should add new values, got %q, want 'also_from_file'", cfg.Env["KEY2"])
	}
}

func TestLoadEnvFile_EmptyEnvironmentValue(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(tmpFile, []byte("DATA_PATH=/data/train.csv\nKEEP=\n"), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Setenv("DATA_PATH", "")
	t.Setenv("KEEP", "from_env")

	cfg := New()
	cfg.LoadFromEnvironment()
	if err := cfg.LoadEnvFile(tmpFile); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	// An exported but empty variable must not hide the env file value
	if val, _ := cfg.Lookup("DATA_PATH"); val != "/data/train.csv" {
		t.Errorf("Lookup(DATA_PATH) = %q, want %q", val, "/data/train.csv")
	}
	// An empty env file value must not clear a value from the environment
	if val, _ := cfg.Lookup("KEEP"); val != "from_env" {
		t.Errorf("Lookup(KEEP) = %q, want %q", val, "from_env")
	}
}

func TestLoadEnvFile_SelfReferenceTerminates(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(tmpFile, []byte("B=${SELF_REF}/train.csv\n"), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Setenv("SELF_REF", "${SELF_REF}")

	cfg := New()
	cfg.LoadFromEnvironment()
	if err := cfg.LoadEnvFile(tmpFile); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	if val := cfg.Env["B"]; val != "${SELF_REF}/train.csv" {
		t.Errorf("Env[B] = %q, want %q", val, "${SELF_REF}/train.csv")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TEST_VAR_1", "value1")
	t.Setenv("TEST_VAR_2", "value2")

	cfg := New()
	cfg.LoadFromEnvironment()

	if val, exists := cfg.Env["TEST_VAR_1"]; !exists || val != "value1" {
		t.Errorf("LoadFromEnvironment() did not load TEST_VAR_1 correctly")
	}
	if val, exists := cfg.Env["TEST_VAR_2"]; !exists || val != "value2" {
		t.Errorf("LoadFromEnvironment() did not load TEST_VAR_2 correctly")
	}
}

func TestLoadFromEnvironment_Precedence(t *testing.T) {
	t.Setenv("TEST_VAR", "from_env")

	cfg := New()
	cfg.Env["TEST_VAR"] = "pre_existing"

	cfg.LoadFromEnvironment()

	// Pre-existing values should not be overwritten
	if cfg.Env["TEST_VAR"] != "pre_existing" {
		t.Errorf("LoadFromEnvironment should not override existing values, got %q", cfg.Env["TEST_VAR"])
	}
}

func TestSetFlag(t *testing.T) {
	cfg := New()
	cfg.Env["KEY1"] = "from_env"
	cfg.SetFlag("KEY1", "value1")
	cfg.SetFlag("KEY2", "")

	if val := cfg.Env["KEY1"]; val != "value1" {
		t.Errorf("SetFlag() KEY1 = %q, want 'value1'", val)
	}
	if val, exists := cfg.Env["KEY2"]; !exists || val != "" {
		t.Errorf("SetFlag() KEY2 = %q (exists %v), want set to empty string", val, exists)
	}
}

func TestLookup(t *testing.T) {
	cfg := New()
	cfg.Env["DATA_PATH"] = "/data/train.csv"
	cfg.Env["KAGGLE_KERNEL_RUN_TYPE"] = ""

	if val, ok := cfg.Lookup("DATA_PATH"); !ok || val != "/data/train.csv" {
		t.Errorf("Lookup(DATA_PATH) = %q, %v", val, ok)
	}
	if _, ok := cfg.Lookup("KAGGLE_KERNEL_RUN_TYPE"); !ok {
		t.Error("Lookup() should report keys set to empty values")
	}
	if _, ok := cfg.Lookup("MISSING"); ok {
		t.Error("Lookup(MISSING) reported a value")
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		name     string
		envSetup map[string]string
		input    string
		want     string
	}{
		{
			name:     "simple variable",
			envSetup: map[string]string{"VAR": "value"},
			input:    "${VAR}",
			want:     "value",
		},
		{
			name:     "variable in text",
			envSetup: map[string]string{"VAR": "value"},
			input:    "prefix_${VAR}_suffix",
			want:     "prefix_value_suffix",
		},
		{
			name:     "multiple variables",
			envSetup: map[string]string{"VAR1": "value1", "VAR2": "value2"},
			input:    "${VAR1} and ${VAR2}",
			want:     "value1 and value2",
		},
		{
			name:     "undefined variable",
			envSetup: map[string]string{},
			input:    "${UNDEFINED_DATAPATH_TEST_VAR}",
			want:     "",
		},
		{
			name:     "malformed variable (no closing brace)",
			envSetup: map[string]string{"VAR": "value"},
			input:    "${VAR",
			want:     "${VAR",
		},
		{
			name:     "substituted text is not rescanned",
			envSetup: map[string]string{"A": "${A}", "B": "${A}x"},
			input:    "${A}-${B}",
			want:     "${A}-${A}x",
		},
		{
			name:     "no variables",
			envSetup: map[string]string{},
			input:    "plain text",
			want:     "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			for k, v := range tt.envSetup {
				cfg.Env[k] = v
			}
			if got := cfg.expandVars(tt.input); got != tt.want {
				t.Errorf("expandVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		`"quoted"`:  "quoted",
		`'single'`:  "single",
		`"mixed'`:   `"mixed'`,
		`"`:         `"`,
		`plain`:     "plain",
		`""`:        "",
		`"a "b" c"`: `a "b" c`,
	}
	for in, want := range tests {
		if got := unquote(in); got != want {
			t.Errorf("unquote(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFile)
	content := `local_subdir = "data/processed"
sandbox_hint = "titanic"
override_var = "TITANIC_CSV"
sandbox_root = "/mnt/inputs"
candidates = ["fixtures/train.csv", "~/datasets/train.csv"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create project file: %v", err)
	}

	p, err := LoadProjectFrom(dir)
	if err != nil {
		t.Fatalf("LoadProjectFrom() error = %v", err)
	}
	if p.LocalSubdir != "data/processed" {
		t.Errorf("LocalSubdir = %q, want %q", p.LocalSubdir, "data/processed")
	}
	if p.SandboxHint != "titanic" {
		t.Errorf("SandboxHint = %q, want %q", p.SandboxHint, "titanic")
	}
	if p.OverrideVar != "TITANIC_CSV" {
		t.Errorf("OverrideVar = %q, want %q", p.OverrideVar, "TITANIC_CSV")
	}
	if p.SandboxRoot != "/mnt/inputs" {
		t.Errorf("SandboxRoot = %q, want %q", p.SandboxRoot, "/mnt/inputs")
	}
	if len(p.Candidates) != 2 || p.Candidates[0] != "fixtures/train.csv" {
		t.Errorf("Candidates = %v, want 2 entries starting with fixtures/train.csv", p.Candidates)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadProject_Missing(t *testing.T) {
	p, err := LoadProjectFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProjectFrom() on missing file error = %v", err)
	}
	if p == nil {
		t.Fatal("LoadProjectFrom() returned nil project")
	}
	if p.LocalSubdir != "" || len(p.Candidates) != 0 {
		t.Errorf("LoadProjectFrom() on missing file = %+v, want empty", p)
	}
}

func TestLoadProject_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "syntax error",
			content: "local_subdir = ",
			wantMsg: "failed to parse",
		},
		{
			name:    "wrong type",
			content: "candidates = \"not-a-list\"",
			wantMsg: "failed to parse",
		},
		{
			name:    "unknown key",
			content: "local_dir = \"data\"",
			wantMsg: "unknown key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ProjectFile)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to create project file: %v", err)
			}
			_, err := LoadProject(path)
			if err == nil {
				t.Fatal("LoadProject() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("LoadProject() error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestProject_Validate(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		wantErr bool
	}{
		{name: "empty", project: Project{}, wantErr: false},
		{name: "valid hint", project: Project{SandboxHint: "owner/dataset"}, wantErr: false},
		{name: "absolute hint", project: Project{SandboxHint: "/kaggle/input/x"}, wantErr: true},
		{name: "bad override var", project: Project{OverrideVar: "DATA-PATH"}, wantErr: true},
		{name: "empty candidate", project: Project{Candidates: []string{"a.csv", ""}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
