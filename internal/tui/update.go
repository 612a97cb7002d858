package tui

import (
	"strings"

	"ghkeys/internal/diag"
	"ghkeys/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgAccountsReady indicates that the directory scan has completed.
type MsgAccountsReady diag.Result

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 4 // minus footer/header
		return m, nil

	case MsgAccountsReady:
		m.Loading = false
		m.Result = diag.Result(msg)
		// Auto-populate filtered indices with all
		m.FilteredIndices = make([]int, len(m.Result.Accounts))
		for i := range m.Result.Accounts {
			m.FilteredIndices[i] = i
		}
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = 0
		}
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.performSearch()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.SearchActive = false
				m.InputBuffer.SetValue("")
				m.performSearch() // Reset filter to all
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.InputMode = false
				m.InputBuffer.Blur()
				m.SearchActive = false
				m.InputBuffer.SetValue("")
				m.performSearch()
				return m, nil
			}
			if m.ShowDiagnostics {
				m.ShowDiagnostics = false
				return m, nil
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
			}
		case "d":
			m.ShowDiagnostics = !m.ShowDiagnostics
		case "r":
			m.Loading = true
			return m, LoadAccountsCmd(m.Paths)
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

func (m *AppModel) performSearch() {
	term := strings.ToLower(m.InputBuffer.Value())
	if term == "" {
		m.SearchActive = false
		m.FilteredIndices = make([]int, len(m.Result.Accounts))
		for i := range m.Result.Accounts {
			m.FilteredIndices[i] = i
		}
	} else {
		m.SearchActive = true
		var result []int
		for i, rec := range m.Result.Accounts {
			if strings.Contains(strings.ToLower(rec.Name), term) ||
				strings.Contains(strings.ToLower(rec.Email), term) ||
				strings.Contains(strings.ToLower(rec.Alias), term) {
				result = append(result, i)
			}
		}
		m.FilteredIndices = result
	}

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

// LoadAccountsCmd scans the config files in the background.
func LoadAccountsCmd(p model.Paths) tea.Cmd {
	return func() tea.Msg {
		res, err := diag.Run(p)
		if err != nil {
			return MsgError(err)
		}
		return MsgAccountsReady(res)
	}
}
