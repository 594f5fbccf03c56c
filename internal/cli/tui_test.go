package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pathprobe/pathprobe/pkg/lsdb"
)

func testSkipRecord() lsdb.SkippedLSA {
	return lsdb.SkippedLSA{
		Type:      "Router",
		StartLine: 12,
		EndLine:   15,
		Reason:    "missing router ID",
		Lines:     []string{"12: Router Link States (Area 0)", "13: garbage"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSkipPromptSkip(t *testing.T) {
	m := NewSkipPromptModel(testSkipRecord())

	updated, cmd := m.Update(keyMsg("s"))
	final := updated.(SkipPromptModel)

	if final.Decision != lsdb.SkipRecord {
		t.Errorf("decision = %v, want SkipRecord", final.Decision)
	}
	if cmd == nil {
		t.Error("answering should quit the program")
	}
}

func TestSkipPromptAbort(t *testing.T) {
	for _, key := range []string{"a", "q"} {
		m := NewSkipPromptModel(testSkipRecord())

		updated, cmd := m.Update(keyMsg(key))
		final := updated.(SkipPromptModel)

		if final.Decision != lsdb.AbortParse {
			t.Errorf("key %q: decision = %v, want AbortParse", key, final.Decision)
		}
		if cmd == nil {
			t.Errorf("key %q: answering should quit the program", key)
		}
	}
}

func TestSkipPromptIgnoresOtherKeys(t *testing.T) {
	m := NewSkipPromptModel(testSkipRecord())

	updated, cmd := m.Update(keyMsg("x"))
	final := updated.(SkipPromptModel)

	if cmd != nil {
		t.Error("unrelated key should not quit")
	}
	if final.answered {
		t.Error("unrelated key should not answer the prompt")
	}
}

func TestSkipPromptView(t *testing.T) {
	m := NewSkipPromptModel(testSkipRecord())
	view := m.View()

	for _, want := range []string{"Router", "lines 12-15", "missing router ID", "13: garbage", "[s]", "[a]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Answered prompts render nothing so the screen stays clean.
	updated, _ := m.Update(keyMsg("s"))
	if v := updated.(SkipPromptModel).View(); v != "" {
		t.Errorf("answered view should be empty, got %q", v)
	}
}
