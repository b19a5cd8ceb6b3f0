package version

import (
	"strings"
	"testing"
)

func TestPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Version should never be empty after init")
	}
	if Commit == "" {
		t.Error("Commit should never be empty after init")
	}
}

func TestLine(t *testing.T) {
	line := Line("premiere")
	if !strings.HasPrefix(line, "premiere ") {
		t.Errorf("Line() = %q, want program prefix", line)
	}
	if !strings.Contains(line, "(commit: "+Commit+")") {
		t.Errorf("Line() = %q, want commit", line)
	}
}
