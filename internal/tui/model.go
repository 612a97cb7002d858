package tui

import (
	"ghkeys/internal/diag"
	"ghkeys/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Paths   model.Paths
	Result  diag.Result
	Loading bool
	Err     error

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// View Modes
	ShowDiagnostics bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Accounts to show
	SearchActive    bool

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state.
func InitialModel(p model.Paths) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Account name..."
	ti.CharLimit = 64
	ti.Width = 20

	return AppModel{
		Paths:       p,
		Loading:     true,
		InputBuffer: ti,
		SelectedIdx: 0,
	}
}

func (m AppModel) Init() tea.Cmd {
	return LoadAccountsCmd(m.Paths)
}
