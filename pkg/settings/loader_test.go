package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akam1o/ifbridge/pkg/errors"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ifbridge.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeSettings(t, `filename: /tmp/interfaces
bridge_name: br-ex
primary_nic: bond0
primary_nic_bonded: true
apply:
  backup: true
  auto_rollback: false
  render_only: true
  create_bridge: false
`)

	s, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Filename != "/tmp/interfaces" {
		t.Errorf("Filename = %q, want /tmp/interfaces", s.Filename)
	}
	if s.BridgeName != "br-ex" {
		t.Errorf("BridgeName = %q, want br-ex", s.BridgeName)
	}
	if s.PrimaryNIC != "bond0" || !s.PrimaryNICBonded {
		t.Errorf("PrimaryNIC = %q bonded=%v, want bond0 bonded=true", s.PrimaryNIC, s.PrimaryNICBonded)
	}
	if s.Apply.AutoRollback || !s.Apply.RenderOnly || s.Apply.CreateBridge {
		t.Errorf("Apply = %+v", s.Apply)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := writeSettings(t, "bridge_name: br0\n")

	s, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Filename != DefaultFilename {
		t.Errorf("Filename = %q, want default %q", s.Filename, DefaultFilename)
	}
	if !s.Apply.Backup || !s.Apply.AutoRollback || !s.Apply.CreateBridge {
		t.Errorf("Apply defaults lost: %+v", s.Apply)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	s, err := Load(writeSettings(t, ""), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.BridgeName != DefaultBridgeName {
		t.Errorf("BridgeName = %q, want %q", s.BridgeName, DefaultBridgeName)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/ifbridge.yaml", nil)
	assertCode(t, err, errors.ErrCodeConfigNotFound)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeSettings(t, "bridge_nam: br0\n"), nil)
	assertCode(t, err, errors.ErrCodeConfigParseError)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeSettings(t, "bridge_name: \"br0\nfilename: [\n"), nil)
	assertCode(t, err, errors.ErrCodeConfigParseError)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeSettings(t, "bridge_name: a-very-long-bridge-name\n"), nil)
	assertCode(t, err, errors.ErrCodeConfigValidation)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr bool
		field   string
	}{
		{"defaults", func(s *Settings) {}, false, ""},
		{"with nic", func(s *Settings) { s.PrimaryNIC = "enp3s0f1" }, false, ""},
		{"empty filename", func(s *Settings) { s.Filename = "" }, true, "filename"},
		{"empty bridge", func(s *Settings) { s.BridgeName = "" }, true, "bridge_name"},
		{"bridge too long", func(s *Settings) { s.BridgeName = "sixteen-chars-xx" }, true, "bridge_name"},
		{"bridge with colon", func(s *Settings) { s.BridgeName = "br0:1" }, true, "bridge_name"},
		{"bridge with space", func(s *Settings) { s.BridgeName = "br 0" }, true, "bridge_name"},
		{"nic with slash", func(s *Settings) { s.PrimaryNIC = "eth/0" }, true, "primary_nic"},
		{"nic dotdot", func(s *Settings) { s.PrimaryNIC = ".." }, true, "primary_nic"},
		{"nic equals bridge", func(s *Settings) { s.PrimaryNIC = DefaultBridgeName }, true, "bridge_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var structured *errors.Error
	if !errors.As(err, &structured) {
		t.Fatalf("error type = %T, want *errors.Error", err)
	}
	if structured.Code != code {
		t.Errorf("Code = %q, want %q", structured.Code, code)
	}
}
