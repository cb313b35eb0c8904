// Package tui is the admin console: login, project list, project form
// with gallery editing. Views render from the project cache and invoke
// the action layer; every network call runs as a tea command while the
// triggering controls stay disabled.
package tui

import (
	"context"
	"errors"

	"folio/internal/app"
	"folio/internal/domain/models"
	galleryservice "folio/internal/services/gallery_service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenLogin screen = iota
	screenList
	screenForm
)

const (
	fiTitle = iota
	fiTitleEN
	fiDescription
	fiDescriptionEN
	fiTechs
	fiRepoURL
	fiLiveURL
	fiImagePath
	fiCount // one past the inputs: the gallery area
)

type (
	loginResultMsg  struct{ err error }
	projectsMsg     struct{ err error }
	deleteResultMsg struct{ err error }
	saveResultMsg   struct{ err error }
	uploadResultMsg struct{ err error }
)

// Model is the root console state.
type Model struct {
	app *app.App
	st  styles

	screen screen
	busy   bool
	status string
	errMsg string
	width  int
	height int
	lang   string

	// login screen
	loginInputs [2]textinput.Model
	loginFocus  int

	// project list screen
	projects      []models.Project
	cursor        int
	confirmDelete int64

	// project form screen
	editing       *models.Project
	inputs        []textinput.Model
	focus         int
	editor        *galleryservice.GalleryEditor
	galleryCursor int
}

// Run starts the console and blocks until it exits.
func Run(a *app.App) error {
	m := newModel(a)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(a *app.App) *Model {
	m := &Model{
		app:  a,
		st:   defaultStyles(),
		lang: a.Session.Language(context.Background()),
	}

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 100
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	m.loginInputs = [2]textinput.Model{username, password}

	if a.Session.IsAuthenticated() {
		m.screen = screenList
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	if m.screen == screenList {
		return m.loadProjectsCmd()
	}
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.teardown()
			return m, tea.Quit
		}

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "logged in"
		m.screen = screenList
		m.busy = true
		return m, m.loadProjectsCmd()

	case projectsMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.refreshProjects()
		return m, nil

	case deleteResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "project deleted"
		m.refreshProjects()
		return m, nil

	case saveResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.closeForm()
		m.status = "project saved"
		m.refreshProjects()
		return m, nil

	case uploadResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "images uploaded"
		return m, nil
	}

	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenList:
		return m.updateList(msg)
	case screenForm:
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.viewLogin()
	case screenList:
		return m.viewList()
	case screenForm:
		return m.viewForm()
	}
	return ""
}

// refreshProjects re-reads the cache snapshot, newest first, and keeps
// the cursor in range.
func (m *Model) refreshProjects() {
	m.projects = m.app.Projects.Projects()
	if m.cursor >= len(m.projects) {
		m.cursor = 0
	}
}

// teardown releases form resources before the program exits.
func (m *Model) teardown() {
	if m.editor != nil {
		m.editor.Close()
		m.editor = nil
	}
}

func (m *Model) loadProjectsCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Projects.List(context.Background())
		return projectsMsg{err: err}
	}
}

// userMessage strips the operation prefix chain down to the root cause
// for the status line.
func userMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
