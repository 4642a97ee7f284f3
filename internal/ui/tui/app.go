package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/precept-tool/precept/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenHooks
	screenRuns
	screenResult
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type model struct {
	theme Theme
	deps  Deps

	scr  screen
	menu list.Model

	repoFound bool
	repoRoot  string

	hooks []domain.HookRef
	runs  []domain.RunRef

	running  bool
	runnerCh chan runnerDoneMsg
	lastRun  domain.RunResult
	lastID   string

	toast string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{"Run hooks", "Run configured hooks against staged files"},
		menuItem{"Hooks", "Browse the hooks of .pre-commit-config.yaml"},
		menuItem{"Runs", "Browse saved run artifacts"},
		menuItem{"Quit", "Exit Precept"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Precept"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme: t,
		deps:  deps,
		scr:   screenHome,
		menu:  l,
	}
}

func (m model) Init() tea.Cmd { return cmdRefreshRepo(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		m.menu.SetSize(w-4, h-10)
		return m, nil

	case repoRefreshedMsg:
		m.repoFound = msg.found
		m.repoRoot = msg.root
		if msg.err != nil {
			m.toast = userMessage(msg.err)
		}
		return m, nil

	case hooksLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.scr = screenHome
			return m, nil
		}
		m.hooks = msg.refs
		m.scr = screenHooks
		return m, nil

	case runsLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.scr = screenHome
			return m, nil
		}
		m.runs = msg.refs
		m.scr = screenRuns
		return m, nil

	case runnerDoneMsg:
		m.running = false
		m.runnerCh = nil
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.scr = screenHome
			return m, nil
		}
		m.lastRun = msg.run
		m.lastID = msg.id
		m.scr = screenResult
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.scr == screenHome {
				return m, tea.Quit
			}
			m.scr = screenHome
			return m, nil

		case "enter":
			if m.scr == screenHome && !m.running {
				it, ok := m.menu.SelectedItem().(menuItem)
				if !ok {
					return m, nil
				}
				return m.openMenuItem(it)
			}

		case "esc", "b":
			if m.scr != screenHome {
				m.scr = screenHome
				return m, nil
			}
		}
	}

	if m.scr == screenHome {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) openMenuItem(it menuItem) (tea.Model, tea.Cmd) {
	switch {
	case strings.EqualFold(it.title, "Quit"):
		return m, tea.Quit

	case strings.EqualFold(it.title, "Run hooks"):
		if !m.repoFound {
			m.toast = "Not inside a git repository"
			return m, nil
		}
		m.running = true
		m.toast = ""
		ch, cmd := startRunAsync(m.repoRoot, domain.StagePreCommit, m.deps.Logger, m.deps.Debug)
		m.runnerCh = ch
		return m, cmd

	case strings.EqualFold(it.title, "Hooks"):
		if !m.repoFound {
			m.toast = "Not inside a git repository"
			return m, nil
		}
		return m, cmdLoadHooks(m.repoRoot)

	case strings.EqualFold(it.title, "Runs"):
		if !m.repoFound {
			m.toast = "Not inside a git repository"
			return m, nil
		}
		return m, cmdLoadRuns(m.repoRoot)
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("Precept") + "\n" +
		m.theme.Subtitle.Render("manage and run git pre-commit hooks") + "\n"

	var repoBanner string
	if m.repoFound {
		repoBanner = m.theme.Help.Render(fmt.Sprintf("Repository: %s", m.repoRoot))
	} else {
		repoBanner = m.theme.Card.Render(
			"⚠ No git repository found.\n\nRun precept from inside a repository.",
		)
	}

	if m.toast != "" {
		repoBanner += "\n" + m.theme.Fail.Render(m.toast)
	}

	switch m.scr {
	case screenHome:
		body := m.menu.View()
		if m.running {
			body = "Running hooks…"
		}
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		return wrap.Render(header + "\n" + repoBanner + "\n\n" + m.theme.Card.Render(body) + "\n" + help)

	case screenHooks:
		card := m.theme.Card.Render(
			m.theme.Title.Render("Configured hooks") + "\n\n" +
				renderHookList(m.hooks) + "\n" +
				m.theme.Help.Render("esc/b back • q home"),
		)
		return wrap.Render(header + "\n" + repoBanner + "\n\n" + card)

	case screenRuns:
		card := m.theme.Card.Render(
			m.theme.Title.Render("Saved runs") + "\n\n" +
				renderRunList(m.runs) + "\n" +
				m.theme.Help.Render("esc/b back • q home"),
		)
		return wrap.Render(header + "\n" + repoBanner + "\n\n" + card)

	case screenResult:
		card := m.theme.Card.Render(
			m.theme.Title.Render("Run result") + "\n\n" +
				renderRunSummary(m.theme, m.lastRun, m.lastID) + "\n" +
				m.theme.Help.Render("esc/b back • q home"),
		)
		return wrap.Render(header + "\n" + repoBanner + "\n\n" + card)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
