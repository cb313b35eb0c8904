package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, tea.Quit

		case "tab", "shift+tab", "down", "up":
			m.loginFocus = (m.loginFocus + 1) % 2
			for i := range m.loginInputs {
				if i == m.loginFocus {
					m.loginInputs[i].Focus()
				} else {
					m.loginInputs[i].Blur()
				}
			}
			return m, textinput.Blink

		case "enter":
			if m.busy {
				return m, nil
			}
			username := strings.TrimSpace(m.loginInputs[0].Value())
			password := m.loginInputs[1].Value()
			if username == "" || password == "" {
				m.errMsg = "username and password are required"
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			m.status = "logging in..."
			return m, m.loginCmd(username, password)
		}
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m *Model) viewLogin() string {
	var b strings.Builder

	b.WriteString(m.st.Title.Render("folio admin"))
	b.WriteString("\n\n")

	labels := [2]string{"Username", "Password"}
	for i := range m.loginInputs {
		label := m.st.Label
		if i == m.loginFocus {
			label = m.st.LabelFocus
		}
		b.WriteString(label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.loginInputs[i].View())
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(m.st.Error.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.st.Status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.st.Help.Render("enter: log in · tab: next field · ctrl+c: quit"))

	return m.st.Box.Render(b.String())
}

func (m *Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Session.Login(context.Background(), username, password)
		return loginResultMsg{err: err}
	}
}
