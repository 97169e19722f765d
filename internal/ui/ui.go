package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor/internal/editor"
	"github.com/ironsheep/image-editor/internal/imaging"
)

const msgInvalidQuality = "Quality must be a number from 0.0 to 1.0."

type Option struct {
	// Session is the editor the terminal drives. It must not be used
	// elsewhere while the program runs.
	Session *editor.Session

	// Path is loaded on start when set.
	Path string

	// WatchSource reloads the loaded file when it changes on disk.
	WatchSource bool
}

func Start(opt *Option) error {
	m := newModel(opt)
	if opt.WatchSource {
		w, err := newSourceWatcher()
		if err != nil {
			return err
		}
		defer w.Close()
		m.watcher = w
	}
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

var _ tea.Model = &model{}

type field int

const (
	fieldPath field = iota
	fieldWidth
	fieldHeight
	fieldQuality
	fieldCount
)

type model struct {
	ctx    context.Context
	cancel context.CancelFunc

	session  *editor.Session
	renderer *asciiRenderer
	watcher  *sourceWatcher

	inputs  []textinput.Model
	focus   field
	format  imaging.Format
	spinner spinner.Model

	// busy is set while a session action runs. Every action key is ignored
	// until its result message arrives.
	busy          bool
	pendingReload bool
	listening     bool

	status     editor.Status
	loadedPath string
	original   image.Image
	processed  image.Image
	message    string
	failed     bool

	windowWidth  int
	windowHeight int
}

func newModel(opt *Option) *model {
	ctx, cancel := context.WithCancel(context.Background())
	s := opt.Session
	if s == nil {
		s = editor.New(editor.Config{})
	}
	opts := s.Options()

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 16
		in.Width = 10
		inputs[i] = in
	}
	inputs[fieldPath].Prompt = "File:    "
	inputs[fieldPath].Placeholder = "path/to/image.png"
	inputs[fieldPath].CharLimit = 4096
	inputs[fieldPath].Width = 48
	inputs[fieldPath].SetValue(opt.Path)
	inputs[fieldWidth].Prompt = "Width:   "
	inputs[fieldWidth].SetValue(strconv.Itoa(opts.Width))
	inputs[fieldHeight].Prompt = "Height:  "
	inputs[fieldHeight].SetValue(strconv.Itoa(opts.Height))
	inputs[fieldQuality].Prompt = "Quality: "
	inputs[fieldQuality].SetValue(strconv.FormatFloat(opts.Quality, 'f', -1, 64))
	inputs[fieldPath].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		ctx:      ctx,
		cancel:   cancel,
		session:  s,
		renderer: newASCIIRenderer(),
		inputs:   inputs,
		format:   opts.Format,
		spinner:  sp,
		status:   s.Status(),
	}
}

type errMsg struct {
	op  string
	err error
}

type loadedMsg struct {
	path     string
	status   editor.Status
	original image.Image
}

type appliedMsg struct {
	status    editor.Status
	processed image.Image
}

type downloadedMsg struct {
	status editor.Status
	export *editor.Export
}

type sourceChangedMsg struct{ path string }

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if path := strings.TrimSpace(m.inputs[fieldPath].Value()); path != "" {
		cmds = append(cmds, m.startAction(m.load(path)))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, m.quit()
		}
		if m.busy {
			return m, nil
		}
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.status = msg.status
		m.loadedPath = msg.path
		m.original = msg.original
		m.processed = nil
		m.inputs[fieldWidth].SetValue(strconv.Itoa(msg.status.Options.Width))
		m.inputs[fieldHeight].SetValue(strconv.Itoa(msg.status.Options.Height))
		m.setMessage(fmt.Sprintf("Loaded %s (%dx%d).", msg.status.FileName, msg.status.Options.Width, msg.status.Options.Height), false)
		var cmds []tea.Cmd
		if m.watcher != nil {
			if err := m.watcher.Watch(msg.path); err != nil {
				log.Warnf("Failed to watch source: %v", err)
			}
			if !m.listening {
				m.listening = true
				cmds = append(cmds, m.waitForChange())
			}
		}
		return m, tea.Batch(append(cmds, m.finishAction())...)

	case appliedMsg:
		m.status = msg.status
		m.processed = msg.processed
		m.setMessage(fmt.Sprintf("Resized to %dx%d.", msg.status.Result.Width, msg.status.Result.Height), false)
		return m, m.finishAction()

	case downloadedMsg:
		m.status = msg.status
		m.setMessage(fmt.Sprintf("Saved %s (%d bytes).", msg.export.Path, msg.export.Bytes), false)
		return m, m.finishAction()

	case errMsg:
		log.WithField("op", msg.op).Infof("action failed: %v", msg.err)
		m.setMessage(editor.UserMessage(msg.err), true)
		return m, m.finishAction()

	case sourceChangedMsg:
		if msg.path == "" {
			// Watcher closed.
			m.listening = false
			return m, nil
		}
		if m.busy {
			m.pendingReload = true
			return m, m.waitForChange()
		}
		return m, tea.Batch(m.startAction(m.load(msg.path)), m.waitForChange())
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return m.setFocus((m.focus + 1) % fieldCount)
	case tea.KeyShiftTab, tea.KeyUp:
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case tea.KeyEnter:
		if m.focus == fieldPath {
			path := strings.TrimSpace(m.inputs[fieldPath].Value())
			if path == "" {
				m.setMessage(editor.MsgNoImage, true)
				return nil
			}
			return m.startAction(m.load(path))
		}
		return m.setFocus((m.focus + 1) % fieldCount)
	case tea.KeyCtrlR:
		return m.applyResize()
	case tea.KeyCtrlS:
		return m.download()
	case tea.KeyCtrlF:
		if m.format == imaging.FormatPNG {
			m.format = imaging.FormatJPEG
		} else {
			m.format = imaging.FormatPNG
		}
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *model) setFocus(f field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m.inputs[m.focus].Focus()
}

func (m *model) setMessage(text string, failed bool) {
	m.message = text
	m.failed = failed
}

// startAction marks the model busy and runs cmd alongside the spinner.
func (m *model) startAction(cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.setMessage("", false)
	return tea.Batch(m.spinner.Tick, cmd)
}

// finishAction clears busy and runs a reload that arrived in the meantime.
func (m *model) finishAction() tea.Cmd {
	m.busy = false
	if m.pendingReload && m.loadedPath != "" {
		m.pendingReload = false
		return m.startAction(m.load(m.loadedPath))
	}
	m.pendingReload = false
	return nil
}

func (m *model) applyResize() tea.Cmd {
	if m.status.Source == nil {
		m.setMessage(editor.MsgNoImage, true)
		return nil
	}
	w, errW := strconv.Atoi(strings.TrimSpace(m.inputs[fieldWidth].Value()))
	h, errH := strconv.Atoi(strings.TrimSpace(m.inputs[fieldHeight].Value()))
	if errW != nil || errH != nil {
		m.setMessage(editor.MsgInvalidDimensions, true)
		return nil
	}
	return m.startAction(m.apply(w, h))
}

func (m *model) download() tea.Cmd {
	if m.status.Result == nil {
		m.setMessage(editor.MsgNoResult, true)
		return nil
	}
	q, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldQuality].Value()), 64)
	if err != nil || q < 0 || q > 1 {
		m.setMessage(msgInvalidQuality, true)
		return nil
	}
	return m.startAction(m.save(m.format, q))
}

func (m *model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

func (m *model) load(path string) tea.Cmd {
	s := m.session
	ctx := m.ctx
	return func() tea.Msg {
		if err := s.LoadFile(ctx, path); err != nil {
			return errMsg{"load", err}
		}
		var original image.Image
		if p := s.Preview(); p != nil {
			original = p.Image()
		}
		return loadedMsg{path: path, status: s.Status(), original: original}
	}
}

func (m *model) apply(width, height int) tea.Cmd {
	s := m.session
	ctx := m.ctx
	return func() tea.Msg {
		s.SetDimensions(width, height)
		if err := s.Apply(ctx); err != nil {
			return errMsg{"apply", err}
		}
		var processed image.Image
		if res := s.Result(); res != nil {
			h, err := imaging.Decode(ctx, bytes.NewReader(res.Data), nil)
			if err != nil {
				return errMsg{"apply", err}
			}
			processed = h.Image()
		}
		return appliedMsg{status: s.Status(), processed: processed}
	}
}

func (m *model) save(format imaging.Format, quality float64) tea.Cmd {
	s := m.session
	ctx := m.ctx
	return func() tea.Msg {
		if err := s.SetFormat(format); err != nil {
			return errMsg{"download", err}
		}
		s.SetQuality(quality)
		export, err := s.Download(ctx)
		if err != nil {
			return errMsg{"download", err}
		}
		return downloadedMsg{status: s.Status(), export: export}
	}
}

func (m *model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		path, ok := <-changes
		if !ok {
			return sourceChangedMsg{}
		}
		return sourceChangedMsg{path: path}
	}
}

func (m *model) View() string {
	b := new(strings.Builder)

	b.WriteString(color.New(color.Bold).Sprint("Image Editor"))
	b.WriteString("  ")
	b.WriteString(color.New(color.FgCyan).Sprint(m.status.State))
	if m.status.FileName != "" {
		fmt.Fprintf(b, "  %s", m.status.FileName)
	}
	b.WriteString("\n\n")

	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "Format:  %s\n\n", m.formatView())

	b.WriteString(m.previewView())
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.helpView())

	return b.String()
}

func (m *model) formatView() string {
	on := color.New(color.BgGreen, color.FgBlack)
	off := color.New(color.Faint)
	png, jpeg := off, off
	if m.format == imaging.FormatPNG {
		png = on
	} else {
		jpeg = on
	}
	return png.Sprint(" PNG ") + " " + jpeg.Sprint(" JPEG ")
}

// previewView draws the original and processed images side by side.
func (m *model) previewView() string {
	if m.original == nil || m.windowWidth <= 0 || m.windowHeight <= 0 {
		return ""
	}
	colWidth := (m.windowWidth - 3) / 2
	rowsAvail := m.windowHeight - 14
	if colWidth <= 0 || rowsAvail <= 0 {
		return ""
	}

	left, leftWidth := m.renderer.Render(m.original, colWidth, rowsAvail)
	right, _ := m.renderer.Render(m.processed, colWidth, rowsAvail)

	b := new(strings.Builder)
	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	for i := 0; i < rows; i++ {
		pad := colWidth
		if i < len(left) {
			b.WriteString(left[i])
			pad = colWidth - leftWidth
		}
		b.WriteString(strings.Repeat(" ", max(0, pad)+3))
		if i < len(right) {
			b.WriteString(right[i])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m *model) statusView() string {
	if m.busy {
		return m.spinner.View() + " Working..."
	}
	if m.message == "" {
		return ""
	}
	if m.failed {
		return color.New(color.FgRed).Sprint(m.message)
	}
	return color.New(color.FgGreen).Sprint(m.message)
}

func (m *model) helpView() string {
	return color.New(color.Faint).Sprint("tab: next field  enter: load  ctrl+r: resize  ctrl+s: download  ctrl+f: format  esc: quit")
}
