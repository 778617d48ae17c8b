package clipboard

import (
	"errors"
	"os/exec"
	"testing"
)

func lookPathFor(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      string
		wantErr   bool
	}{
		{"macOS", "darwin", []string{"pbcopy"}, "pbcopy", false},
		{"wayland preferred", "linux", []string{"xclip", "wl-copy"}, "wl-copy", false},
		{"xclip", "linux", []string{"xclip", "xsel"}, "xclip", false},
		{"xsel fallback", "linux", []string{"xsel"}, "xsel", false},
		{"linux without tools", "linux", nil, "", true},
		{"windows", "windows", []string{"clip.exe"}, "clip.exe", false},
		{"unsupported", "plan9", []string{"pbcopy"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := commandFor(tt.goos, lookPathFor(tt.installed...))
			if tt.wantErr {
				if !errors.Is(err, ErrClipboardUnavailable) {
					t.Errorf("commandFor() error = %v, want ErrClipboardUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("commandFor() error = %v", err)
			}
			if argv[0] != tt.want {
				t.Errorf("commandFor() = %v, want %s", argv, tt.want)
			}
		})
	}
}

func TestGetClipboardCommand(t *testing.T) {
	// Either a command or an error, never both
	cmd, err := getClipboardCommand()
	if err != nil {
		if cmd != nil {
			t.Error("getClipboardCommand returned both command and error")
		}
	} else if cmd == nil {
		t.Error("getClipboardCommand returned nil command with no error")
	}

	if IsAvailable() != (err == nil) {
		t.Errorf("IsAvailable() = %v disagrees with getClipboardCommand error %v", IsAvailable(), err)
	}
}

func TestCopy_Unavailable(t *testing.T) {
	if IsAvailable() {
		t.Skip("clipboard available on this system")
	}
	if err := Copy("[1] https://doi.org/10.1234/x"); !errors.Is(err, ErrClipboardUnavailable) {
		t.Errorf("Copy() error = %v, want ErrClipboardUnavailable", err)
	}
}
