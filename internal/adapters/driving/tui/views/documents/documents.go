// Package documents provides the document catalog view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/components/input"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/components/status"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/keymap"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/messages"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/styles"
	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driving"
)

// View is the document catalog view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	pathInput *input.QuestionInput

	catalog driving.CatalogService
	upload  driving.UploadService
	ctx     context.Context

	documents    []domain.Document
	selected     int
	scrollOffset int
	width        int
	height       int
	ready        bool
	loading      bool
	uploading    bool
	err          error
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, catalog driving.CatalogService, upload driving.UploadService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	pathInput := input.NewQuestionInput(s)
	pathInput.SetLabel("Upload: ")
	pathInput.SetPlaceholder("Path to a PDF file...")
	pathInput.Blur()

	bar := status.NewBar(s, km)
	bar.SetHints(km.DocumentsHelp())

	return &View{
		styles:    s,
		keymap:    km,
		statusbar: bar,
		pathInput: pathInput,
		catalog:   catalog,
		upload:    upload,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the catalog.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadCatalog()
}

// loadCatalog returns a command that refreshes the document list.
func (v *View) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		err := v.catalog.Refresh(v.ctx)
		if err != nil {
			return messages.CatalogLoaded{Err: err}
		}
		return messages.CatalogLoaded{Documents: v.catalog.Documents()}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.pathInput.Focused() {
			return v.handleUploadKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.CatalogLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.documents = msg.Documents
		if v.selected >= len(v.documents) {
			v.selected = 0
			v.scrollOffset = 0
		}
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("%d documents", len(v.documents)))
		return v, nil

	case messages.UploadCompleted:
		v.uploading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("Uploaded %q", msg.Document.Title))
		v.loading = true
		return v, v.loadCatalog()

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}

	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}

	case "enter":
		if len(v.documents) == 0 {
			return v, nil
		}
		doc := v.documents[v.selected]
		return v, v.openDocument(doc.ID)

	case "a":
		return v, v.openAllDocuments()

	case "u":
		v.pathInput.SetValue("")
		return v, v.pathInput.Focus()

	case "r":
		v.loading = true
		return v, v.loadCatalog()
	}

	return v, nil
}

// handleUploadKeyMsg handles key presses while the upload prompt is open.
func (v *View) handleUploadKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.pathInput.Blur()
		v.pathInput.SetValue("")
		return v, nil

	case tea.KeyEnter:
		path := strings.TrimSpace(v.pathInput.Value())
		if path == "" {
			return v, nil
		}
		v.pathInput.Blur()
		v.pathInput.SetValue("")
		v.uploading = true
		v.statusbar.SetState(status.StateUploading)
		return v, v.performUpload(path)
	}

	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

// openDocument returns a command that opens a document for questioning.
func (v *View) openDocument(documentID int64) tea.Cmd {
	return func() tea.Msg {
		doc, err := v.catalog.Select(v.ctx, documentID)
		return messages.DocumentOpened{Document: doc, Err: err}
	}
}

// openAllDocuments returns a command that enters the all-documents scope.
func (v *View) openAllDocuments() tea.Cmd {
	return func() tea.Msg {
		return messages.AllDocumentsOpened{Err: v.catalog.SelectAll(v.ctx)}
	}
}

// performUpload returns a command that uploads the file at path.
func (v *View) performUpload(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := v.upload.Submit(v.ctx, path, "")
		return messages.UploadCompleted{Document: doc, Err: err}
	}
}

// adjustScroll keeps the selected row visible.
func (v *View) adjustScroll() {
	visible := v.visibleRows()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	}
	if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleRows returns how many documents fit on screen.
func (v *View) visibleRows() int {
	// Header, spacing, upload prompt, status bar.
	rows := (v.height - 8) / 2
	if rows < 3 {
		rows = 3
	}
	return rows
}

// View renders the documents view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("DocuQuery"), "")

	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading documents..."))
	case len(v.documents) == 0:
		sections = append(sections,
			v.styles.Muted.Render("No documents yet. Press u to upload a PDF."))
	default:
		sections = append(sections, v.renderList())
	}

	if v.pathInput.Focused() {
		sections = append(sections, "", v.pathInput.View())
	}

	if v.err != nil {
		sections = append(sections, "", v.styles.Error.Render("Error: "+v.err.Error()))
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderList renders the visible slice of the catalog.
func (v *View) renderList() string {
	visible := v.visibleRows()
	end := v.scrollOffset + visible
	if end > len(v.documents) {
		end = len(v.documents)
	}

	lines := make([]string, 0, (end-v.scrollOffset)*2)
	for i := v.scrollOffset; i < end; i++ {
		doc := v.documents[i]

		title := doc.Title
		if title == "" {
			title = doc.Filename
		}

		line := fmt.Sprintf("  %s", title)
		if i == v.selected {
			line = v.styles.Selected.Render("> " + title)
		} else {
			line = v.styles.Normal.Render(line)
		}
		lines = append(lines, line)

		meta := fmt.Sprintf("    %s · %s", doc.Filename, doc.CreatedAt.Format("2006-01-02"))
		lines = append(lines, v.styles.Muted.Render(meta))
	}

	if end < len(v.documents) {
		lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("    ... %d more", len(v.documents)-end)))
	}

	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.pathInput.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Documents returns the currently listed documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// Selected returns the index of the highlighted document.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Uploading returns whether an upload is in progress.
func (v *View) Uploading() bool {
	return v.uploading
}

// PromptOpen returns whether the upload path prompt is accepting input.
func (v *View) PromptOpen() bool {
	return v.pathInput.Focused()
}
