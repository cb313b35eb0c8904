package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// a pending delete waits for an explicit confirmation
	if m.confirmDelete != 0 {
		if key.String() == "y" {
			id := m.confirmDelete
			m.confirmDelete = 0
			m.busy = true
			m.status = "deleting..."
			return m, m.deleteCmd(id)
		}
		m.confirmDelete = 0
		m.status = ""
		return m, nil
	}

	switch key.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}

	case "r":
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.status = "loading..."
		return m, m.loadProjectsCmd()

	case "n":
		if m.busy {
			return m, nil
		}
		m.openForm(nil)
		return m, nil

	case "enter", "e":
		if m.busy || len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.cursor]
		m.openForm(&p)
		return m, nil

	case "d":
		if m.busy || len(m.projects) == 0 {
			return m, nil
		}
		m.confirmDelete = m.projects[m.cursor].ID
		m.status = fmt.Sprintf("delete %q? press y to confirm", m.projects[m.cursor].Title)

	case "l":
		if m.lang == "en" {
			m.lang = "es"
		} else {
			m.lang = "en"
		}
		_ = m.app.Session.SetLanguage(context.Background(), m.lang)

	case "x":
		m.app.Session.Logout(context.Background())
		m.app.Projects.InvalidateView()
		m.projects = nil
		m.screen = screenLogin
		m.status = "logged out"
	}

	return m, nil
}

func (m *Model) viewList() string {
	var b strings.Builder

	b.WriteString(m.st.Title.Render("Projects"))
	if user := m.app.Session.User(); user != nil && user.Username != "" {
		b.WriteString(m.st.Subtle.Render("  —  " + user.Username))
	}
	b.WriteString(m.st.Subtle.Render(fmt.Sprintf("  [%s]", m.lang)))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		b.WriteString(m.st.Subtle.Render("no projects yet — press n to create the first one"))
		b.WriteString("\n")
	}

	for i, p := range m.projects {
		title, description := p.Localized(m.lang)

		prefix := "  "
		line := title
		if i == m.cursor {
			prefix = "> "
			line = m.st.Selected.Render(title)
		}
		b.WriteString(prefix + line)
		b.WriteString(m.st.Subtle.Render(fmt.Sprintf("  #%d", p.ID)))
		b.WriteString("\n")

		if i == m.cursor {
			b.WriteString("    " + m.st.Subtle.Render(truncate(description, 80)) + "\n")
			if len(p.Techs) > 0 {
				b.WriteString("    " + m.st.Tech.Render(strings.Join(p.Techs, " · ")) + "\n")
			}
			if main := p.MainImage(); main != "" {
				b.WriteString("    " + m.st.Subtle.Render(fmt.Sprintf("%d images, main: %s", len(p.Images), truncate(main, 60))) + "\n")
			}
		}
	}

	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(m.st.Error.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.st.Status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.st.Help.Render("n: new · enter: edit · d: delete · r: reload · l: language · x: logout · q: quit"))

	return b.String()
}

func (m *Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.app.Projects.Delete(context.Background(), id)
		return deleteResultMsg{err: err}
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
