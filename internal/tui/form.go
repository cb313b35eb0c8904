package tui

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/domain/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var formLabels = [fiCount]string{
	fiTitle:         "Title",
	fiTitleEN:       "Title (en)",
	fiDescription:   "Description",
	fiDescriptionEN: "Description (en)",
	fiTechs:         "Techs (comma separated)",
	fiRepoURL:       "Repository URL",
	fiLiveURL:       "Live URL",
	fiImagePath:     "Add image (path)",
}

func (m *Model) openForm(p *models.Project) {
	m.editing = p
	m.errMsg = ""
	m.status = ""
	m.galleryCursor = 0
	m.focus = fiTitle

	m.inputs = make([]textinput.Model, fiCount)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = formLabels[i]
		ti.CharLimit = 2000
		ti.Width = 60
		m.inputs[i] = ti
	}
	m.inputs[fiTitle].CharLimit = models.MaxTitleLen
	m.inputs[fiTitleEN].CharLimit = models.MaxTitleLen

	var images []string
	mainIndex := 0
	if p != nil {
		m.inputs[fiTitle].SetValue(p.Title)
		m.inputs[fiTitleEN].SetValue(p.TitleEN)
		m.inputs[fiDescription].SetValue(p.Description)
		m.inputs[fiDescriptionEN].SetValue(p.DescriptionEN)
		m.inputs[fiTechs].SetValue(strings.Join(p.Techs, ", "))
		m.inputs[fiRepoURL].SetValue(p.RepoURL)
		m.inputs[fiLiveURL].SetValue(p.LiveURL)
		images = p.Images
		mainIndex = p.MainImageIndex
	}

	m.editor = m.app.NewGalleryEditor(images, mainIndex)
	m.inputs[fiTitle].Focus()
	m.screen = screenForm
}

// closeForm is the mandatory teardown: outstanding previews are released
// no matter how the form exits.
func (m *Model) closeForm() {
	if m.editor != nil {
		m.editor.Close()
		m.editor = nil
	}
	m.editing = nil
	m.inputs = nil
	m.errMsg = ""
	m.screen = screenList
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.focus < fiCount {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		if m.busy {
			return m, nil
		}
		m.closeForm()
		m.status = "cancelled"
		return m, nil

	case "tab":
		return m, m.moveFocus(1)

	case "down":
		if m.focus == fiCount {
			return m.updateGallery(key)
		}
		return m, m.moveFocus(1)

	case "shift+tab", "up":
		if m.focus == fiCount {
			return m.updateGallery(key)
		}
		return m, m.moveFocus(-1)

	case "enter":
		switch m.focus {
		case fiImagePath:
			m.stageTypedPath()
			return m, nil
		case fiCount:
			return m.updateGallery(key)
		default:
			return m, m.moveFocus(1)
		}

	case "ctrl+u":
		if m.busy || m.editor == nil || len(m.editor.Staged()) == 0 {
			return m, nil
		}
		m.busy = true
		m.status = "uploading..."
		return m, m.uploadCmd()

	case "ctrl+s":
		if m.busy {
			return m, nil
		}
		if len(m.editor.Staged()) > 0 {
			m.errMsg = "staged images pending: upload them (ctrl+u) or remove them first"
			return m, nil
		}
		m.busy = true
		m.errMsg = ""
		m.status = "saving..."
		return m, m.saveCmd()
	}

	if m.focus == fiCount {
		return m.updateGallery(key)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// updateGallery handles keys while the gallery area is focused. The
// cursor runs over committed images first, then staged files.
func (m *Model) updateGallery(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	images := m.editor.Images()
	staged := m.editor.Staged()
	total := len(images) + len(staged)

	switch key.String() {
	case "up", "shift+tab":
		if m.galleryCursor > 0 {
			m.galleryCursor--
		} else {
			return m, m.moveFocus(-1)
		}

	case "down":
		if m.galleryCursor < total-1 {
			m.galleryCursor++
		}

	case "enter", "m":
		if m.galleryCursor < len(images) {
			if err := m.editor.SetMainImage(m.galleryCursor); err != nil {
				m.errMsg = userMessage(err)
			} else {
				m.status = "main image set"
			}
		}

	case "d", "backspace":
		if m.busy {
			return m, nil
		}
		if m.galleryCursor < len(images) {
			if err := m.editor.RemoveImage(m.galleryCursor); err != nil {
				m.errMsg = userMessage(err)
			}
		} else if idx := m.galleryCursor - len(images); idx < len(staged) {
			if err := m.editor.RemoveStaged(staged[idx].ID); err != nil {
				m.errMsg = userMessage(err)
			}
		}
		if m.galleryCursor > 0 {
			m.galleryCursor--
		}
	}

	return m, nil
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputsBlur()
	m.focus += delta
	if m.focus > fiCount {
		m.focus = fiTitle
	}
	if m.focus < fiTitle {
		m.focus = fiCount
	}
	if m.focus < fiCount {
		m.inputs[m.focus].Focus()
		return textinput.Blink
	}
	m.galleryCursor = 0
	return nil
}

func (m *Model) inputsBlur() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// stageTypedPath validates and stages the file named in the image-path
// input, reporting every rejection reason.
func (m *Model) stageTypedPath() {
	path := strings.TrimSpace(m.inputs[fiImagePath].Value())
	if path == "" {
		return
	}

	report, err := m.editor.SelectFiles([]string{path})
	if err != nil {
		m.errMsg = userMessage(err)
		return
	}

	if len(report.Rejected) > 0 {
		reasons := make([]string, 0, len(report.Rejected))
		for _, r := range report.Rejected {
			reasons = append(reasons, fmt.Sprintf("%s: %s", r.Name, r.Reason))
		}
		m.errMsg = strings.Join(reasons, "; ")
		return
	}

	m.errMsg = ""
	m.status = fmt.Sprintf("staged %s", path)
	m.inputs[fiImagePath].SetValue("")
}

func (m *Model) viewForm() string {
	var b strings.Builder

	header := "New project"
	if m.editing != nil {
		header = fmt.Sprintf("Edit project #%d", m.editing.ID)
	}
	b.WriteString(m.st.Title.Render(header))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := m.st.Label
		if i == m.focus {
			label = m.st.LabelFocus
		}
		b.WriteString(label.Render(formLabels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	galleryLabel := m.st.Label
	if m.focus == fiCount {
		galleryLabel = m.st.LabelFocus
	}
	b.WriteString(galleryLabel.Render("Gallery"))
	b.WriteString("\n")
	b.WriteString(m.viewGallery())

	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(m.st.Error.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.st.Status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.st.Help.Render("tab: next · enter on gallery: set main · d: remove · ctrl+u: upload staged · ctrl+s: save · esc: cancel"))

	return b.String()
}

func (m *Model) viewGallery() string {
	images := m.editor.Images()
	staged := m.editor.Staged()
	mainIndex := m.editor.MainIndex()

	if len(images) == 0 && len(staged) == 0 {
		return m.st.Subtle.Render("  no images") + "\n"
	}

	var b strings.Builder
	row := 0
	for i, url := range images {
		marker := "  "
		if m.focus == fiCount && row == m.galleryCursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d. %s", marker, i+1, truncate(url, 60))
		if i == mainIndex {
			line += "  " + m.st.Main.Render("[main]")
		}
		b.WriteString(line)
		b.WriteString("\n")
		row++
	}
	for _, f := range staged {
		marker := "  "
		if m.focus == fiCount && row == m.galleryCursor {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s+ %s (%s)", marker, f.Name, f.State))
		b.WriteString("\n")
		row++
	}
	return b.String()
}

func (m *Model) uploadCmd() tea.Cmd {
	editor := m.editor
	return func() tea.Msg {
		err := editor.ConfirmUpload(context.Background())
		return uploadResultMsg{err: err}
	}
}

func (m *Model) saveCmd() tea.Cmd {
	title := strings.TrimSpace(m.inputs[fiTitle].Value())
	titleEN := strings.TrimSpace(m.inputs[fiTitleEN].Value())
	description := strings.TrimSpace(m.inputs[fiDescription].Value())
	descriptionEN := strings.TrimSpace(m.inputs[fiDescriptionEN].Value())
	techs := models.SplitTechs(m.inputs[fiTechs].Value())
	repoURL := strings.TrimSpace(m.inputs[fiRepoURL].Value())
	liveURL := strings.TrimSpace(m.inputs[fiLiveURL].Value())
	images := m.editor.Images()
	mainIndex := m.editor.MainIndex()

	if m.editing == nil {
		in := models.ProjectInput{
			Title:          title,
			TitleEN:        titleEN,
			Description:    description,
			DescriptionEN:  descriptionEN,
			Techs:          techs,
			RepoURL:        repoURL,
			LiveURL:        liveURL,
			Images:         images,
			MainImageIndex: mainIndex,
		}
		return func() tea.Msg {
			_, err := m.app.Projects.Create(context.Background(), in)
			return saveResultMsg{err: err}
		}
	}

	id := m.editing.ID
	patch := models.ProjectPatch{
		Title:          &title,
		TitleEN:        &titleEN,
		Description:    &description,
		DescriptionEN:  &descriptionEN,
		Techs:          &techs,
		RepoURL:        &repoURL,
		LiveURL:        &liveURL,
		Images:         &images,
		MainImageIndex: &mainIndex,
	}
	return func() tea.Msg {
		_, err := m.app.Projects.Update(context.Background(), id, patch)
		return saveResultMsg{err: err}
	}
}
