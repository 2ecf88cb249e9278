package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/doeshing/clai/internal/domain"
)

func TestPrompterAccepts(t *testing.T) {
	var out bytes.Buffer
	prompter := NewPrompter(strings.NewReader("y\n"), &out)

	ok, err := prompter.Confirm(domain.SafetyYellow, "frobnicate", []string{"yellow: unknown command"})
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if !ok {
		t.Fatal("expected acceptance for 'y'")
	}
	if !strings.Contains(out.String(), "YELLOW") {
		t.Fatalf("prompt missing level: %q", out.String())
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Fatalf("prompt missing reasons: %q", out.String())
	}
}

func TestPrompterDeclines(t *testing.T) {
	for _, input := range []string{"n\n", "\n", "nope\n"} {
		prompter := NewPrompter(strings.NewReader(input), &bytes.Buffer{})
		ok, err := prompter.Confirm(domain.SafetyYellow, "frobnicate", nil)
		if err != nil {
			t.Fatalf("Confirm error: %v", err)
		}
		if ok {
			t.Fatalf("input %q should decline", input)
		}
	}
}

func TestPrompterAcceptsFullYes(t *testing.T) {
	prompter := NewPrompter(strings.NewReader("YES\n"), &bytes.Buffer{})
	ok, err := prompter.Confirm(domain.SafetyYellow, "frobnicate", nil)
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if !ok {
		t.Fatal("expected acceptance for 'YES'")
	}
}
