package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ghkeys/internal/diag"
	"ghkeys/internal/keys"
	"ghkeys/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")) // Sky Blue/Cyan
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Scanning SSH config... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}

	// Layout dimensions
	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2
	if interiorHeight < 2 {
		interiorHeight = 2
	}

	// Styles
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	borderColor := lipgloss.Color("63")

	// LEFT PANEL: Account list
	var leftView strings.Builder
	mode := "unified"
	if m.Result.SplitEnabled {
		mode = "split"
	}
	leftView.WriteString(headStyle.Render(fmt.Sprintf("Accounts (%s mode)", mode)))
	leftView.WriteString("\n\n")

	// Windowing
	visibleItems := interiorHeight - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - (visibleItems / 2)
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + visibleItems
	}

	for i := startIdx; i < endIdx; i++ {
		idx := m.FilteredIndices[i]
		rec := m.Result.Accounts[idx]

		icon := statusIcon(rec, m.Result)
		line := fmt.Sprintf("%s %-14s %-24s %s", icon, rec.Name, rec.Email, rec.Alias)
		if lipgloss.Width(line) > leftWidth-4 {
			line = truncate(line, leftWidth-4)
		}
		if i == m.SelectedIdx {
			leftView.WriteString(selectedStyle.Render("> " + line))
		} else {
			leftView.WriteString(normalStyle.Render("  " + line))
		}
		leftView.WriteString("\n")
	}
	if len(m.FilteredIndices) == 0 {
		leftView.WriteString(dimStyle.Render("  no accounts yet. try `ghkeys add <name> <email>`"))
		leftView.WriteString("\n")
	}

	// RIGHT PANEL: details or diagnostics
	var rightView strings.Builder
	if m.ShowDiagnostics {
		rightView.WriteString(headStyle.Render("Diagnostics"))
		rightView.WriteString("\n\n")
		for _, f := range m.Result.Findings {
			line := f.Message
			if f.Account != "" {
				line = f.Account + ": " + line
			}
			switch f.Level {
			case diag.Warn:
				rightView.WriteString(warnStyle.Render("! " + line))
			case diag.Info:
				rightView.WriteString(infoStyle.Render("- " + line))
			default:
				rightView.WriteString(dimStyle.Render("  " + line))
			}
			rightView.WriteString("\n")
		}
	} else {
		rightView.WriteString(headStyle.Render("Details"))
		rightView.WriteString("\n\n")
		if m.SelectedIdx < len(m.FilteredIndices) {
			rec := m.Result.Accounts[m.FilteredIndices[m.SelectedIdx]]
			rightView.WriteString(renderDetails(rec))
		} else {
			rightView.WriteString(dimStyle.Render("nothing selected"))
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Height(interiorHeight)

	leftBox := boxStyle.Width(leftWidth).Render(leftView.String())
	rightBox := boxStyle.Width(rightWidth).Render(rightView.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)

	// Footer
	var footer string
	if m.InputMode {
		footer = "Search: " + m.InputBuffer.View()
	} else {
		footer = dimStyle.Render("↑/↓ select · d diagnostics · / search · r reload · q quit")
	}

	title := titleStyle.Render("ghkeys " + model.Version)
	return fmt.Sprintf("%s\n%s\n%s\n", title, body, footer)
}

// statusIcon picks the most urgent condition to surface in the list.
func statusIcon(rec model.AccountRecord, res diag.Result) string {
	if rec.KeyPath == "" {
		return model.IconMissingKey
	}
	st := keys.CheckPerms(rec.KeyPath)
	switch {
	case !st.PrivateExists:
		return model.IconMissingKey
	case st.PrivateTooOpen():
		return model.IconBadPerms
	case !rec.Managed:
		return model.IconUnmanaged
	case rec.SourceMode == model.Split:
		return model.IconSplit
	}
	for _, f := range res.Findings {
		if f.Level == diag.Warn && f.Account == rec.Name {
			return model.IconDuplicate
		}
	}
	return model.IconOK
}

func renderDetails(rec model.AccountRecord) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Name", rec.Name)
	row("Email", rec.Email)
	row("Alias", rec.Alias)
	row("Source", rec.Source)
	row("Managed", fmt.Sprintf("%v", rec.Managed))
	if rec.KeyPath != "" {
		row("Key", model.ContractTilde(rec.KeyPath))
		if fp := keys.Fingerprint(rec.KeyPath + ".pub"); fp != "" {
			row("SHA256", fp)
		}
		st := keys.CheckPerms(rec.KeyPath)
		if st.PrivateExists {
			row("Perms", fmt.Sprintf("%04o", st.PrivateMode.Perm()))
		}
	}
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Clone with:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  git clone git@%s:owner/repo.git", rec.Alias))
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, w int) string {
	if w <= 1 {
		return "…"
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w-1]) + "…"
}

var _ tea.Model = AppModel{}
