package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/pathprobe/pathprobe/pkg/lsdb"
)

var (
	promptKeyStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	promptRecordStyle = lipgloss.NewStyle().Foreground(colorWhite)
	promptLineStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// SkipPromptModel is the bubbletea model for the interactive malformed-LSA
// prompt. It shows the offending record and asks whether to skip it or abort
// the whole parse.
type SkipPromptModel struct {
	Record   lsdb.SkippedLSA
	Decision lsdb.SkipDecision
	answered bool
}

// NewSkipPromptModel creates a prompt model for the given skipped record.
func NewSkipPromptModel(rec lsdb.SkippedLSA) SkipPromptModel {
	return SkipPromptModel{Record: rec, Decision: lsdb.SkipRecord}
}

func (m SkipPromptModel) Init() tea.Cmd {
	return nil
}

func (m SkipPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "s", "enter":
			m.Decision = lsdb.SkipRecord
			m.answered = true
			return m, tea.Quit
		case "a", "q", "ctrl+c", "esc":
			m.Decision = lsdb.AbortParse
			m.answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SkipPromptModel) View() string {
	if m.answered {
		return ""
	}

	var b strings.Builder

	b.WriteString(StyleWarning.Render(fmt.Sprintf("Malformed %s LSA", m.Record.Type)))
	b.WriteString(promptLineStyle.Render(fmt.Sprintf(" (lines %d-%d)", m.Record.StartLine, m.Record.EndLine)))
	b.WriteString("\n")
	b.WriteString(promptRecordStyle.Render("  " + m.Record.Reason))
	b.WriteString("\n")

	for _, line := range m.Record.Lines {
		b.WriteString(promptLineStyle.Render("  " + line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(promptKeyStyle.Render("[s]"))
	b.WriteString(" skip record  ")
	b.WriteString(promptKeyStyle.Render("[a]"))
	b.WriteString(" abort parse\n")

	return b.String()
}

// promptSkip runs the interactive prompt for one malformed record and
// returns the operator's decision. Without a terminal the prompt degrades
// to a plain stdin question; any TUI failure falls back to skipping,
// matching the non-interactive default.
func promptSkip(rec lsdb.SkippedLSA) lsdb.SkipDecision {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return promptSkipPlain(rec)
	}
	p := tea.NewProgram(NewSkipPromptModel(rec))
	final, err := p.Run()
	if err != nil {
		return lsdb.SkipRecord
	}
	if m, ok := final.(SkipPromptModel); ok {
		return m.Decision
	}
	return lsdb.SkipRecord
}

// promptSkipPlain asks the skip/abort question over plain stdin.
func promptSkipPlain(rec lsdb.SkippedLSA) lsdb.SkipDecision {
	fmt.Fprintf(os.Stderr, "malformed %s LSA (lines %d-%d): %s\n",
		rec.Type, rec.StartLine, rec.EndLine, rec.Reason)
	fmt.Fprint(os.Stderr, "[s]kip record or [a]bort parse? ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return lsdb.SkipRecord
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "a", "abort", "q":
		return lsdb.AbortParse
	}
	return lsdb.SkipRecord
}
