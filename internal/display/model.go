package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/recipro/internal/domain"
)

// prompt is plain text so the textinput width math stays correct.
const prompt = "recipro> "

const (
	refreshEvery = 500 * time.Millisecond
	historyLimit = 100
)

type refreshMsg time.Time

// model is the Bubble Tea state: the prompt, its history and the last
// snapshot of the combination.
type model struct {
	status  StatusSource
	input   textinput.Model
	submit  func(string)
	onReady func()

	history []string
	cursor  int // index into history while browsing; len(history) when not

	recipes []domain.SelectedRecipe
	summary domain.CombinationSummary
	width   int
}

func newModel(status StatusSource, submit func(string)) model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = echoStyle
	ti.Cursor.Style = promptStyle
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()

	return model{status: status, input: ti, submit: submit}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, scheduleRefresh()}
	if m.onReady != nil {
		ready := m.onReady
		cmds = append(cmds, func() tea.Msg {
			ready()
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEsc:
			m.input.Reset()
			m.cursor = len(m.history)
			return m, nil
		case tea.KeyUp:
			m.browse(-1)
			return m, nil
		case tea.KeyDown:
			m.browse(1)
			return m, nil
		case tea.KeyEnter:
			cmd := m.enter()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt) - 1
		}
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, tea.Batch(scheduleRefresh(), tea.SetWindowTitle(m.titleStr()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// enter records the line and hands it off from a Cmd, so Update never
// blocks on a full input channel.
func (m *model) enter() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return nil
	}
	m.remember(line)
	if m.submit == nil {
		return nil
	}
	submit := m.submit
	return func() tea.Msg {
		submit(line)
		return nil
	}
}

func (m *model) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
		if len(m.history) > historyLimit {
			m.history = m.history[len(m.history)-historyLimit:]
		}
	}
	m.cursor = len(m.history)
}

// browse moves through history; stepping past the newest entry clears
// the prompt.
func (m *model) browse(step int) {
	next := m.cursor + step
	if next < 0 || next > len(m.history) {
		return
	}
	m.cursor = next
	if next == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[next])
	m.input.CursorEnd()
}

func (m *model) refresh() {
	if m.status == nil {
		return
	}
	m.recipes = m.status.Selection()
	m.summary = m.status.Summary()
}

func (m model) titleStr() string {
	if len(m.recipes) == 0 {
		return "Recipro"
	}
	return fmt.Sprintf("Recipro | %d recipes, %d ingredients", m.summary.TotalRecipes, m.summary.TotalIngredients)
}

func (m model) View() string {
	return m.renderBar() + "\n\n" + m.input.View()
}

func (m model) renderBar() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	if len(m.recipes) == 0 {
		return statusBar.Width(width).Render(" " + statusDim.Render("no recipes combined yet (try: list, add 1)"))
	}

	parts := make([]string, 0, len(m.recipes)+1)
	for _, r := range m.recipes {
		parts = append(parts, dishStyle.Render(SelectionLabel(r)))
	}
	parts = append(parts, countStyle.Render(fmt.Sprintf("%d ingredients", m.summary.TotalIngredients)))
	return statusBar.Width(width).Render(" " + strings.Join(parts, statusSep.Render(" · ")))
}
