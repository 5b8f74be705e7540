package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Config
const (
	daemonURL      = "http://localhost:8091"
	pollRate       = time.Second
	maxTx          = 20
	viewportHeight = 20
)

// Styles
var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// Layout styles
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			Width(100)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(100)

	// Transaction row styles
	txTimeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(20)
	txCategoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")) // Purple

	refundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // Green
	spendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // Blue
	cycleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
)

// API Types (mirrored from pkg/store and pkg/api to avoid CGO deps)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Transaction struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note"`
	TsPosted    time.Time `json:"ts_posted"`
}

type CycleReport struct {
	Groups    [][]int64 `json:"groups"`
	GoalCount int       `json:"goal_count"`
}

type tickMsg time.Time

type dataMsg struct {
	transactions []Transaction
	categories   map[int64]Category
	cycles       CycleReport
	err          error
}

type model struct {
	spinner      spinner.Model
	viewport     viewport.Model
	transactions []Transaction
	categories   map[int64]Category
	cycles       CycleReport
	err          error
	ready        bool
}

func initialModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner:      s,
		transactions: []Transaction{},
		categories:   make(map[int64]Category),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchData(),
		tick(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tickMsg:
		cmds = append(cmds, fetchData(), tick())

	case dataMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.transactions = msg.transactions
			m.categories = msg.categories
			m.cycles = msg.cycles
			m.updateViewportContent()
		}

		if !m.ready {
			m.ready = true
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.viewport.Style = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				PaddingRight(2)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) updateViewportContent() {
	var sb strings.Builder

	for _, tx := range m.transactions {
		ts := tx.TsPosted.Format("15:04:05")

		amount := fmt.Sprintf("%+d.%02d", tx.AmountCents/100, abs(tx.AmountCents%100))
		var amountStr string
		if tx.AmountCents < 0 {
			amountStr = refundStyle.Render(amount)
		} else {
			amountStr = spendStyle.Render(amount)
		}

		name := fmt.Sprintf("category %d", tx.CategoryID)
		if cat, ok := m.categories[tx.CategoryID]; ok {
			name = cat.Name
		}

		line := fmt.Sprintf("%s %s %s\n",
			txTimeStyle.Render(ts),
			amountStr,
			txCategoryStyle.Render(name),
		)
		sb.WriteString(line)
	}

	m.viewport.SetContent(sb.String())
}

func (m model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n%s Initializing...", m.spinner.View())
	}

	// Top Pane: goal dependency health
	var goalPane strings.Builder
	goalPane.WriteString(lipgloss.NewStyle().Bold(true).Underline(true).Render("Goal Dependencies") + "\n\n")

	if len(m.cycles.Groups) == 0 {
		goalPane.WriteString(okStyle.Render(fmt.Sprintf("✓ %d goals, no circular dependencies", m.cycles.GoalCount)))
	} else {
		goalPane.WriteString(cycleStyle.Render(fmt.Sprintf("✗ %d circular groups:", len(m.cycles.Groups))) + "\n")
		for _, group := range m.cycles.Groups {
			goalPane.WriteString(fmt.Sprintf("  • goals %v\n", group))
		}
	}

	topPane := paneStyle.Render(goalPane.String())

	// Bottom Pane: transaction stream
	header := headerStyle.Render(fmt.Sprintf("%s Recent Transactions", m.spinner.View()))
	bottomPane := m.viewport.View()

	// Status Footer
	var status string
	if m.err != nil {
		status = errorStyle.Render(fmt.Sprintf("Offline: %v", m.err))
	} else {
		status = okStyle.Render(fmt.Sprintf("Online • %d Transactions • %d Categories", len(m.transactions), len(m.categories)))
	}
	footer := subtleStyle.Render(fmt.Sprintf("\n%s\nPress q to quit", status))

	return lipgloss.JoinVertical(lipgloss.Left, topPane, header, bottomPane, footer)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Commands

func fetchData() tea.Cmd {
	return func() tea.Msg {
		transactions, err := getTransactions()
		if err != nil {
			return dataMsg{err: err}
		}

		categories, err := getCategories()
		if err != nil {
			return dataMsg{err: err}
		}

		cycles, err := getCycles()
		if err != nil {
			return dataMsg{err: err}
		}

		return dataMsg{
			transactions: transactions,
			categories:   categories,
			cycles:       cycles,
			err:          nil,
		}
	}
}

func getTransactions() ([]Transaction, error) {
	c := &http.Client{Timeout: 500 * time.Millisecond}
	resp, err := c.Get(fmt.Sprintf("%s/v1/transactions?limit=%d", daemonURL, maxTx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transactions status %d", resp.StatusCode)
	}

	var transactions []Transaction
	if err := json.NewDecoder(resp.Body).Decode(&transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func getCategories() (map[int64]Category, error) {
	c := &http.Client{Timeout: 500 * time.Millisecond}
	resp, err := c.Get(daemonURL + "/v1/categories")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("categories status %d", resp.StatusCode)
	}

	var list []Category
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}

	categories := make(map[int64]Category, len(list))
	for _, cat := range list {
		categories[cat.ID] = cat
	}
	return categories, nil
}

func getCycles() (CycleReport, error) {
	c := &http.Client{Timeout: 500 * time.Millisecond}
	resp, err := c.Get(daemonURL + "/v1/goals/cycles")
	if err != nil {
		return CycleReport{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CycleReport{}, fmt.Errorf("cycles status %d", resp.StatusCode)
	}

	var report CycleReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return CycleReport{}, err
	}
	return report, nil
}

func tick() tea.Cmd {
	return tea.Tick(pollRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
