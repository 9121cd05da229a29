package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Raoof128/SCRVS/internal/model"
)

type uiModel struct {
	findings []model.Finding
	cursor   int
}

func initialModel(findings []model.Finding) uiModel { return uiModel{findings: findings} }

func (m uiModel) Init() tea.Cmd { return nil }

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.findings)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m uiModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Findings (%d), score %d/100\n\n", len(m.findings), model.Score(m.findings))
	for i, f := range m.findings {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s[%s] %s %s:%d\n", marker, f.Severity, f.Title, f.File, f.Line)
	}
	if len(m.findings) > 0 {
		f := m.findings[m.cursor]
		fmt.Fprintf(&b, "\n%s\n", f.Description)
		if f.Recommendation != "" {
			fmt.Fprintf(&b, "\nRecommendation: %s\n", f.Recommendation)
		}
	}
	b.WriteString("\n(up/down to navigate, q to quit)\n")
	return b.String()
}

// Run launches the findings browser
func Run(findings []model.Finding) error {
	p := tea.NewProgram(initialModel(findings))
	_, err := p.Run()
	return err
}
