package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jwulff/f1grid/internal/directory"
	"github.com/jwulff/f1grid/internal/openf1"
	"github.com/jwulff/f1grid/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.loader.State() == directory.StateLoading && len(m.drivers) == 0 {
		spinner := ui.SpinnerStyle.Render(spinnerFrames[m.spinFrame])
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			spinner+" Loading drivers...")
	}

	if m.detail != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.renderDetail(*m.detail))
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSearch())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderList())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("F1 GRID")
	session := ui.DimStyle.Render(fmt.Sprintf(" · session %d", m.loader.SessionKey()))

	var status string
	if m.loader.State() == directory.StateRefreshing {
		status = "  " + ui.SpinnerStyle.Render(spinnerFrames[m.spinFrame]+" refreshing")
	}
	return title + session + status
}

func (m Model) renderSearch() string {
	prompt := ui.SearchPromptStyle.Render("/ ")
	if m.query == "" && !m.searching {
		return prompt + ui.PlaceholderStyle.Render("Search driver or team...")
	}
	text := m.query
	if m.searching {
		text += "▌"
	}
	return prompt + text
}

func (m Model) renderList() string {
	height := m.listHeight()
	var lines []string

	switch {
	case len(m.drivers) == 0 && m.failed:
		lines = append(lines, "")
		lines = append(lines, ui.ErrorStyle.Render("  Could not load drivers."))
		lines = append(lines, ui.DimStyle.Render("  Press r to try again."))
	case len(m.drivers) == 0:
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  No drivers returned for this session."))
	case len(m.visible) == 0:
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("  No drivers match %q.", m.query)))
		if m.suggestion != "" {
			lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("  Did you mean %q?", m.suggestion)))
		}
	default:
		end := min(m.scroll+height, len(m.visible))
		for i := m.scroll; i < end; i++ {
			lines = append(lines, m.renderCard(m.visible[i], i == m.selected))
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// renderCard renders one driver row: team colour bar, name, team, acronym
// and country.
func (m Model) renderCard(d openf1.Driver, selected bool) string {
	color := directory.TeamColor(d.TeamColour)

	const nameW = 22
	const tailW = 9 // " VER  GB"
	teamW := max(8, m.width-2-2-5-nameW-tailW)

	marker := "  "
	if selected {
		marker = ui.SelectedStyle.Render("> ")
	}
	bar := ui.TeamStyle(color).Render("▌") + " "
	number := ui.DimStyle.Render(fmt.Sprintf("#%-3d ", d.DriverNumber))

	name := padRight(truncate(d.BroadcastName, nameW), nameW)
	if selected {
		name = ui.SelectedStyle.Render(name)
	} else {
		name = ui.BroadcastNameStyle.Render(name)
	}
	team := ui.TeamStyle(color).Render(padRight(truncate(strings.ToUpper(d.TeamName), teamW), teamW))
	acronym := ui.AcronymStyle.Render(fmt.Sprintf(" %-4s", d.NameAcronym))
	country := ui.DimStyle.Render(strings.ToUpper(directory.CountryISO2(d.CountryCode)))

	return marker + bar + number + name + team + acronym + country
}

func (m Model) renderDetail(d openf1.Driver) string {
	color := directory.TeamColor(d.TeamColour)
	width := max(30, min(56, m.width-6))

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		ui.AcronymStyle.Render(d.NameAcronym),
		strings.Repeat(" ", max(1, width-lipgloss.Width(d.NameAcronym)-lipgloss.Width(fmt.Sprintf("#%d", d.DriverNumber))-2)),
		ui.TeamBadgeStyle(color).Render(fmt.Sprintf("#%d", d.DriverNumber)),
	)

	photo := ui.DimStyle.Render("No photo")
	if h := d.Headshot(); h != "" {
		photo = ui.DimStyle.Render(truncate(h, width))
	}

	iso2 := directory.CountryISO2(d.CountryCode)
	flag := directory.FlagURL(m.flagURL, d.CountryCode)

	lines := []string{
		header,
		"",
		photo,
		"",
		ui.ModalNameStyle.Render(d.FullName),
		ui.TeamStyle(color).Render(d.TeamName),
		ui.DividerStyle.Render(strings.Repeat("─", width)),
		ui.StatLabelStyle.Render("COUNTRY  ") + ui.StatValueStyle.Render(strings.ToUpper(iso2)) +
			"  " + ui.DimStyle.Render(truncate(flag, max(10, width-13))),
		ui.StatLabelStyle.Render("NUMBER   ") + ui.StatValueStyle.Render(fmt.Sprintf("%d", d.DriverNumber)),
		"",
		ui.FooterKeyStyle.Render("esc") + ui.FooterDescStyle.Render(" Close"),
	}

	return ui.ModalStyle.
		BorderForeground(lipgloss.Color(color)).
		Width(width + 4).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(truncate(m.errorMessage, max(10, m.width-7)))
}

func (m Model) renderFooter() string {
	var parts []string

	if m.searching {
		parts = append(parts, ui.FooterKeyStyle.Render("Enter")+ui.FooterDescStyle.Render(" Done"))
		parts = append(parts, ui.FooterKeyStyle.Render("Esc")+ui.FooterDescStyle.Render(" Clear"))
	} else {
		parts = append(parts, ui.FooterKeyStyle.Render("/")+ui.FooterDescStyle.Render(" Search"))
		parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Nav"))
		parts = append(parts, ui.FooterKeyStyle.Render("Enter")+ui.FooterDescStyle.Render(" Details"))
		parts = append(parts, ui.FooterKeyStyle.Render("r")+ui.FooterDescStyle.Render(" Refresh"))
		parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))
	}

	status := fmt.Sprintf("%d/%d drivers", len(m.visible), len(m.drivers))
	if !m.loadedAt.IsZero() {
		status += " · updated " + humanize.RelTime(m.loadedAt, m.now(), "ago", "from now")
	}
	parts = append(parts, ui.DimStyle.Render(status))

	return strings.Join(parts, "  ")
}

// Helpers

func padRight(s string, width int) string {
	// Get visible length (ignoring ANSI codes)
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens unstyled s to width cells, marking the cut with "…".
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 || len(runes) == 0 {
		return "…"
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
