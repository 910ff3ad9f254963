package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Adithya151/DCF---racker/internal/greenops"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

// ViewState is the screen the interactive model is showing.
type ViewState int

const (
	// ViewStateList shows the ranking table.
	ViewStateList ViewState = iota
	// ViewStateDetail shows the selected entry.
	ViewStateDetail
	// ViewStateQuitting is terminal; View renders nothing.
	ViewStateQuitting
)

// Column widths for the leaderboard table.
const (
	colWidthRank  = 6
	colWidthUser  = 30
	colWidthTotal = 16
	// youMarker flags the current user's row.
	youMarker = " (you)"
)

// LeaderboardModel is the Bubble Tea model for the interactive leaderboard.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type LeaderboardModel struct {
	state       ViewState
	leaderboard *tracker.Leaderboard
	currentUser string
	carbon      greenops.CarbonFormat

	table    table.Model
	selected int

	width  int
	height int
}

// NewLeaderboardModel creates an interactive leaderboard. currentUser, when it
// appears in the entries, is marked in the table.
func NewLeaderboardModel(lb *tracker.Leaderboard, currentUser string, cf greenops.CarbonFormat) LeaderboardModel {
	if lb == nil {
		lb = &tracker.Leaderboard{}
	}
	m := LeaderboardModel{
		state:       ViewStateList,
		leaderboard: lb,
		currentUser: currentUser,
		carbon:      cf,
		width:       defaultWidth,
		height:      defaultHeight,
	}
	m.table = m.buildTable()
	return m
}

// Init initializes the model (Bubble Tea interface).
func (m LeaderboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.table.SetHeight(m.tableHeight())
		return m, nil
	}

	switch m.state {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m LeaderboardModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		m.selected = m.table.Cursor()
		if m.selected >= 0 && m.selected < len(m.leaderboard.Entries) {
			m.state = ViewStateDetail
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m LeaderboardModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc:
			m.state = ViewStateList
			m.table.Focus()
			return m, nil
		}
	}
	return m, nil
}

// View renders the current view (Bubble Tea interface).
func (m LeaderboardModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m LeaderboardModel) renderListView() string {
	title := HeaderStyle.Render(fmt.Sprintf("LEADERBOARD  (%d users)", m.leaderboard.TotalUsers))
	if len(m.leaderboard.Entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, InfoStyle.Render("No users ranked yet."),
			SubtleStyle.Render("q: quit"))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.table.View(),
		SubtleStyle.Render("↑/↓: navigate  enter: details  q: quit"),
	)
}

func (m LeaderboardModel) renderDetailView() string {
	e := m.leaderboard.Entries[m.selected]

	var content strings.Builder
	content.WriteString(HeaderStyle.Render("USER DETAIL"))
	content.WriteString("\n\n")
	content.WriteString(LabelStyle.Render("User:     "))
	content.WriteString(ValueStyle.Render(e.UserID))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Rank:     "))
	content.WriteString(ValueStyle.Render(fmt.Sprintf("#%d of %d", e.Rank, m.leaderboard.TotalUsers)))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Total:    "))
	content.WriteString(ValueStyle.Render(m.carbon.Format(e.TotalCO2Kg)))

	if out, err := greenops.Calculate(e.TotalCO2Kg); err == nil && !out.IsEmpty {
		content.WriteString("\n\n")
		content.WriteString(SubtleStyle.Render(out.DisplayText))
	}
	content.WriteString("\n\n")
	content.WriteString(SubtleStyle.Render("esc: back  q: quit"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

func (m LeaderboardModel) tableHeight() int {
	h := m.height - chromeHeight
	if h < 1 {
		return 1
	}
	return h
}

func (m LeaderboardModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: colWidthRank},
		{Title: "User", Width: colWidthUser},
		{Title: "Total CO2", Width: colWidthTotal},
	}

	rows := make([]table.Row, len(m.leaderboard.Entries))
	for i, e := range m.leaderboard.Entries {
		user := e.UserID
		if user == m.currentUser {
			user += youMarker
		}
		rows[i] = table.Row{
			strconv.Itoa(e.Rank),
			user,
			m.carbon.Format(e.TotalCO2Kg),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}
