package shared

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if first == "" || second == "" {
		t.Fatal("expected non-empty IDs")
	}
	if first == second {
		t.Error("consecutive IDs should differ")
	}
}

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(first))
	}
	if first == second {
		t.Error("consecutive state tokens should differ")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("Compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(string(out), "\n") {
			t.Errorf("compact output should be one line: %q", out)
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Errorf("pretty output should be indented: %q", out)
		}

		var decoded map[string]string
		if err := json.Unmarshal(out, &decoded); err != nil {
			t.Fatalf("pretty output is not valid JSON: %v", err)
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello", "key", "value")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output missing message: %q", buf.String())
	}

	child := WithLogger(logger, "component", "test")
	if child == nil {
		t.Fatal("expected a child logger")
	}
}
