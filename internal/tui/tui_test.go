package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raoof128/SCRVS/internal/model"
)

func sampleFindings() []model.Finding {
	return []model.Finding{
		{Severity: model.SeverityCritical, Title: "External Call Before State Update", File: "vault.sol", Line: 8, Description: "call before write"},
		{Severity: model.SeverityLow, Title: "Hardcoded Address", File: "vault.sol", Line: 3, Description: "fixed sink"},
	}
}

func TestViewListsFindings(t *testing.T) {
	m := initialModel(sampleFindings())
	view := m.View()
	assert.Contains(t, view, "Findings (2)")
	assert.Contains(t, view, "[CRITICAL] External Call Before State Update")
	assert.Contains(t, view, "> [CRITICAL]")
	assert.Contains(t, view, "call before write")
}

func TestCursorNavigation(t *testing.T) {
	m := initialModel(sampleFindings())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(uiModel)
	assert.Equal(t, 1, m.cursor)

	// cursor stops at the last finding
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(uiModel)
	assert.Equal(t, 1, m.cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(uiModel)
	assert.Equal(t, 0, m.cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(uiModel)
	assert.Equal(t, 0, m.cursor)
}

func TestQuitKeys(t *testing.T) {
	m := initialModel(sampleFindings())
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestViewEmpty(t *testing.T) {
	m := initialModel(nil)
	view := m.View()
	assert.Contains(t, view, "Findings (0)")
	assert.Contains(t, view, "q to quit")
}
