// Package tui is the interactive browser behind `watch404 ui`: the
// aggregate of one read-only scan, scrollable, searchable, with a
// per-path referrer drill-down.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vburojevic/watch404/internal/domain"
	"github.com/vburojevic/watch404/internal/report"
)

const timeFormat = "2006-01-02 15:04:05"

var (
	detailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Bold(true)
)

// Model represents the TUI state
type Model struct {
	agg         *domain.RunAggregate
	misses      []*domain.MissStats
	filtered    []*domain.MissStats
	selected    int
	viewport    viewport.Model
	textinput   textinput.Model
	width       int
	height      int
	ready       bool
	searching   bool
	searchQuery string
	showDetail  bool
}

// New creates a TUI model over a finished scan. The aggregate is static:
// the scan already ran, the model only navigates it.
func New(agg *domain.RunAggregate) Model {
	ti := textinput.New()
	ti.Placeholder = "Search paths..."
	ti.CharLimit = 200
	ti.Width = 40

	misses := report.SortMisses(agg.Misses)

	return Model{
		agg:       agg,
		misses:    misses,
		filtered:  misses,
		textinput: ti,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "esc":
				m.searching = false
				m.textinput.Blur()
				m.searchQuery = ""
				m.updateFilter()
			case "enter":
				m.searching = false
				m.textinput.Blur()
				m.searchQuery = m.textinput.Value()
				m.updateFilter()
			default:
				m.textinput, cmd = m.textinput.Update(msg)
				cmds = append(cmds, cmd)
			}
		} else {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "/":
				m.searching = true
				m.textinput.Focus()
				return m, textinput.Blink
			case "esc":
				switch {
				case m.showDetail:
					m.showDetail = false
					m.updateContent()
				case m.searchQuery != "":
					m.searchQuery = ""
					m.textinput.SetValue("")
					m.updateFilter()
				}
			case "enter", "d":
				if len(m.filtered) > 0 {
					m.showDetail = !m.showDetail
					m.updateContent()
				}
			case "j", "down":
				m.moveSelection(1)
			case "k", "up":
				m.moveSelection(-1)
			case "g", "home":
				m.moveSelection(-len(m.filtered))
			case "G", "end":
				m.moveSelection(len(m.filtered))
			case "ctrl+d", "pgdown":
				m.moveSelection(m.viewport.Height / 2)
			case "ctrl+u", "pgup":
				m.moveSelection(-m.viewport.Height / 2)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateContent()
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), m.viewport.View(), m.renderFooter())
}

func (m *Model) renderHeader() string {
	titleStyle := report.Styles.Title.Background(lipgloss.Color("236")).Width(m.width)

	title := fmt.Sprintf("watch404: %s", m.agg.Host)
	if m.showDetail && m.selectedMiss() != nil {
		title += " " + m.selectedMiss().Path
	}

	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(m.width)
	info := fmt.Sprintf("%s | %d paths, %d hits | window %d-%d",
		m.agg.LogPath, len(m.misses), m.agg.TotalHits(), m.agg.OffsetFrom, m.agg.OffsetTo)
	if m.searchQuery != "" {
		info += fmt.Sprintf(" | Search: %q (%d shown)", m.searchQuery, len(m.filtered))
	}

	return titleStyle.Render(title) + "\n" + infoStyle.Render(info)
}

func (m *Model) renderFooter() string {
	if m.searching {
		return m.textinput.View()
	}

	help := "q:quit j/k:move enter:referrers /:search g/G:top/bottom esc:back"
	if m.showDetail {
		help = "q:quit esc:back j/k:move"
	}
	return report.Styles.Help.Width(m.width).Render(help)
}

func (m *Model) selectedMiss() *domain.MissStats {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return nil
	}
	return m.filtered[m.selected]
}

func (m *Model) moveSelection(delta int) {
	if m.showDetail || len(m.filtered) == 0 {
		return
	}

	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.filtered) {
		m.selected = len(m.filtered) - 1
	}
	m.updateContent()
}

func (m *Model) updateFilter() {
	query := strings.ToLower(m.searchQuery)

	if query == "" {
		m.filtered = m.misses
	} else {
		filtered := make([]*domain.MissStats, 0, len(m.misses))
		for _, stats := range m.misses {
			if strings.Contains(strings.ToLower(stats.Path), query) {
				filtered = append(filtered, stats)
			}
		}
		m.filtered = filtered
	}

	m.selected = 0
	m.showDetail = false
	m.updateContent()
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}

	var content string
	if m.showDetail {
		content = m.renderDetail()
	} else {
		content = m.renderList()
	}

	m.viewport.SetContent(content)
	m.scrollToSelection()
}

func (m *Model) renderList() string {
	if len(m.filtered) == 0 {
		return detailStyle.Render("No recorded 404s.")
	}

	var b strings.Builder
	for i, stats := range m.filtered {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.formatMissLine(stats, i == m.selected))
	}
	return b.String()
}

// renderDetail shows one path with its full referrer breakdown.
func (m *Model) renderDetail() string {
	stats := m.selectedMiss()
	if stats == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(report.Styles.Path.Render(stats.Path) + "\n\n")
	b.WriteString(detailStyle.Render(fmt.Sprintf("%s, first seen %s, last seen %s",
		pluralHits(stats.Hits),
		stats.FirstSeen.UTC().Format(timeFormat),
		stats.LastSeen.UTC().Format(timeFormat))) + "\n\n")
	b.WriteString(detailStyle.Render("Referrers:") + "\n")

	for _, ref := range report.SortReferrers(stats.Referrers) {
		label := ref.URL
		if label == domain.DirectReferrer {
			label = "direct"
		}
		b.WriteString(fmt.Sprintf("  %4d  %s\n", ref.Count, report.Styles.Referrer.Render(label)))
	}

	return b.String()
}

func (m *Model) formatMissLine(stats *domain.MissStats, selected bool) string {
	hits := fmt.Sprintf("%5s", humanize.Comma(int64(stats.Hits)))
	lastSeen := stats.LastSeen.UTC().Format(timeFormat)

	path := stats.Path
	maxPathLen := m.width - 40
	if maxPathLen < 20 {
		maxPathLen = 20
	}
	if len(path) > maxPathLen {
		path = path[:maxPathLen-3] + "..."
	}
	if m.searchQuery != "" && !selected {
		path = highlight(path, m.searchQuery)
	}

	line := report.HitsStyle(stats.Hits).Render(hits) + "  " +
		report.Styles.Timestamp.Render(lastSeen) + "  " + path +
		detailStyle.Render("  ("+strconv.Itoa(len(stats.Referrers))+" referrers)")

	if selected {
		return report.Styles.Selected.Width(m.width).Render("> " + line)
	}
	return "  " + line
}

// scrollToSelection keeps the selected row inside the viewport.
func (m *Model) scrollToSelection() {
	if m.showDetail || !m.ready {
		return
	}

	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if m.selected < top {
		m.viewport.SetYOffset(m.selected)
	} else if m.selected > bottom {
		m.viewport.SetYOffset(m.selected - m.viewport.Height + 1)
	}
}

func pluralHits(n int) string {
	if n == 1 {
		return "1 hit"
	}
	return strconv.Itoa(n) + " hits"
}

func highlight(s, query string) string {
	if query == "" || s == "" {
		return s
	}
	qs := strings.ToLower(query)
	ls := strings.ToLower(s)
	var b strings.Builder
	for {
		idx := strings.Index(ls, qs)
		if idx < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:idx])
		b.WriteString(highlightStyle.Render(s[idx : idx+len(query)]))
		s = s[idx+len(query):]
		ls = ls[idx+len(query):]
	}
	return b.String()
}
