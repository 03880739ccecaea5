package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitaminmoo/thingy-tool/internal/api"
	"github.com/vitaminmoo/thingy-tool/internal/store"
	"github.com/vitaminmoo/thingy-tool/internal/thingy"
)

// View represents different screens in the TUI.
type View int

const (
	ViewMain View = iota
	ViewName
	ViewSound
	ViewSpeaker
	ViewPresets
)

// MenuItem represents a menu option.
type MenuItem struct {
	Title       string
	Description string
	View        View
}

// speakerItem is one entry of the Speaker screen.
type speakerItem struct {
	Title   string
	Command thingy.SpeakerCommand
}

// sampleCount is the number of sounds built into the Thingy firmware.
const sampleCount = 9

func defaultSpeakerItems() []speakerItem {
	items := []speakerItem{
		{"Beep", thingy.SpeakerCommand{Mode: thingy.SpeakerModeFrequency, Frequency: 440, Duration: 200, Volume: 50}},
		{"High beep", thingy.SpeakerCommand{Mode: thingy.SpeakerModeFrequency, Frequency: 1000, Duration: 200, Volume: 50}},
		{"Alarm", thingy.SpeakerCommand{Mode: thingy.SpeakerModeFrequency, Frequency: 2000, Duration: 1000, Volume: 100}},
	}
	for i := 0; i < sampleCount; i++ {
		items = append(items, speakerItem{
			Title:   fmt.Sprintf("Sample %d", i),
			Command: thingy.SpeakerCommand{Mode: thingy.SpeakerModeSample, Sample: i},
		})
	}
	return items
}

// DialFunc connects to a device and returns a client and its name.
type DialFunc func() (*api.Client, string, error)

// Model is the main Bubbletea model for the TUI.
type Model struct {
	// State
	view          View
	cursor        int
	cursorHistory map[View]int
	menuItems     []MenuItem
	speakerItems  []speakerItem
	width         int
	height        int

	// Connection
	dial       DialFunc
	client     *api.Client
	connected  bool
	connecting bool

	// Device data
	deviceName string
	sound      *thingy.SoundConfiguration
	busy       bool
	lastPlayed *speakerItem

	// Presets
	store       *store.Store
	presets     []store.IndexEntry
	presetCount int

	errorMsg  string
	statusMsg string

	// Components
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles
}

// --- Custom messages for async operations ---

// connectMsg signals connection attempt result.
type connectMsg struct {
	client *api.Client
	name   string
	err    error
}

// nameMsg delivers the device name.
type nameMsg struct {
	name string
	err  error
}

// soundMsg delivers the sound configuration.
type soundMsg struct {
	cfg thingy.SoundConfiguration
	err error
}

// playedMsg reports a finished speaker write.
type playedMsg struct {
	desc string
	err  error
}

// presetsMsg delivers the preset listing.
type presetsMsg struct {
	entries []store.IndexEntry
	err     error
}

// presetCountMsg delivers the number of stored presets.
type presetCountMsg struct {
	n   int
	err error
}

// NewModel creates a new TUI model. s may be nil, which disables presets.
func NewModel(dial DialFunc, s *store.Store) Model {
	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A9CE"))

	return Model{
		view:          ViewMain,
		connecting:    true,
		cursorHistory: make(map[View]int),
		menuItems: []MenuItem{
			{Title: "Name", Description: "Advertised device name", View: ViewName},
			{Title: "Sound", Description: "Speaker and microphone mode", View: ViewSound},
			{Title: "Speaker", Description: "Play tones and built-in samples", View: ViewSpeaker},
			{Title: "Presets", Description: "Play saved speaker presets", View: ViewPresets},
		},
		speakerItems: defaultSpeakerItems(),
		dial:         dial,
		store:        s,
		keys:         DefaultKeyMap(),
		help:         h,
		spinner:      sp,
		styles:       DefaultStyles(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(connectCmd(m.dial), countPresetsCmd(m.store), m.spinner.Tick)
}

// isTransientError checks if an error is a transient BLE error that shouldn't be displayed.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "In progress") ||
		strings.Contains(msg, "in progress") ||
		strings.Contains(msg, "busy")
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectMsg:
		m.connecting = false
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Connection failed: %v", msg.err)
			return m, nil
		}
		m.client = msg.client
		m.connected = true
		m.deviceName = msg.name
		m.errorMsg = ""
		m.statusMsg = "Connected"
		m.busy = true
		return m, fetchSoundCmd(m.client)

	case nameMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("Name error", msg.err)
			return m, nil
		}
		m.deviceName = msg.name
		return m, nil

	case soundMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("Sound error", msg.err)
			return m, nil
		}
		cfg := msg.cfg
		m.sound = &cfg
		return m, nil

	case playedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("Play error", msg.err)
			return m, nil
		}
		m.errorMsg = ""
		m.statusMsg = "Played " + msg.desc
		// Playing switches the speaker mode, so re-read it.
		if m.client != nil {
			return m, fetchSoundCmd(m.client)
		}
		return m, nil

	case presetsMsg:
		if msg.err != nil {
			m.setError("Preset error", msg.err)
			return m, nil
		}
		m.presets = msg.entries
		m.presetCount = len(msg.entries)
		if m.view == ViewPresets && m.cursor > m.maxCursor() {
			m.cursor = 0
		}
		return m, nil

	case presetCountMsg:
		if msg.err != nil {
			m.setError("Preset error", msg.err)
			return m, nil
		}
		m.presetCount = msg.n
		return m, nil
	}
	return m, nil
}

func (m *Model) setError(prefix string, err error) {
	if !isTransientError(err) {
		m.errorMsg = fmt.Sprintf("%s: %v", prefix, err)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.view == ViewMain || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.view = ViewMain
		m.cursor = m.cursorHistory[ViewMain]
		return m, nil

	case key.Matches(msg, m.keys.Back):
		return m.goBack()

	case key.Matches(msg, m.keys.Up):
		m.cursor--
		if m.cursor < 0 {
			m.cursor = m.maxCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursor++
		if m.cursor > m.maxCursor() {
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.view == ViewSound {
			return m.cycleSound(-1)
		}
		return m.goBack()

	case key.Matches(msg, m.keys.Right):
		if m.view == ViewSound {
			return m.cycleSound(1)
		}
		return m.handleSelect()

	case key.Matches(msg, m.keys.Select):
		return m.handleSelect()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()

	case key.Matches(msg, m.keys.Replay):
		if m.lastPlayed == nil {
			return m, nil
		}
		return m.play(m.lastPlayed.Command, m.lastPlayed.Title)

	case key.Matches(msg, m.keys.Connect):
		if !m.connected && !m.connecting {
			m.connecting = true
			m.errorMsg = ""
			m.statusMsg = "Searching..."
			return m, tea.Batch(connectCmd(m.dial), m.spinner.Tick)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) goBack() (tea.Model, tea.Cmd) {
	m.cursorHistory[m.view] = m.cursor
	if m.view == ViewMain {
		return m, tea.Quit
	}
	m.view = ViewMain
	m.cursor = m.cursorHistory[ViewMain]
	return m, nil
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{loadPresetsCmd(m.store)}
	if m.connected && m.client != nil && !m.busy {
		m.busy = true
		switch m.view {
		case ViewName:
			cmds = append(cmds, fetchNameCmd(m.client))
		default:
			cmds = append(cmds, fetchSoundCmd(m.client))
		}
	}
	m.statusMsg = "Refreshed"
	return m, tea.Batch(cmds...)
}

func (m Model) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewMain:
		if m.cursor >= len(m.menuItems) {
			return m, nil
		}
		m.cursorHistory[m.view] = m.cursor
		m.view = m.menuItems[m.cursor].View
		m.cursor = m.cursorHistory[m.view]
		if m.cursor > m.maxCursor() {
			m.cursor = 0
		}
		if m.view == ViewPresets {
			return m, loadPresetsCmd(m.store)
		}
		return m, nil

	case ViewSound:
		return m.cycleSound(1)

	case ViewSpeaker:
		if m.cursor < len(m.speakerItems) {
			item := m.speakerItems[m.cursor]
			return m.play(item.Command, item.Title)
		}

	case ViewPresets:
		if m.cursor < len(m.presets) && m.store != nil {
			entry := m.presets[m.cursor]
			p, err := m.store.Get(entry.Name)
			if err != nil {
				m.errorMsg = err.Error()
				return m, nil
			}
			return m.play(p.Command, "preset "+p.Name)
		}
	}
	return m, nil
}

func (m Model) play(cmd thingy.SpeakerCommand, desc string) (tea.Model, tea.Cmd) {
	if !m.connected || m.client == nil {
		m.errorMsg = "Not connected"
		return m, nil
	}
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.lastPlayed = &speakerItem{Title: desc, Command: cmd}
	m.statusMsg = "Playing " + desc + "..."
	return m, tea.Batch(playCmd(m.client, cmd, desc), m.spinner.Tick)
}

// cycleSound steps the mode under the cursor by delta and writes only that
// field, leaving the other mode as the device has it.
func (m Model) cycleSound(delta int) (tea.Model, tea.Cmd) {
	if !m.connected || m.client == nil || m.sound == nil || m.busy {
		return m, nil
	}
	var update thingy.SoundConfiguration
	switch m.cursor {
	case 0:
		update.SpeakerMode = thingy.SpeakerMode(cycle(int(m.sound.SpeakerMode), delta, 3))
	case 1:
		update.MicrophoneMode = thingy.MicrophoneMode(cycle(int(m.sound.MicrophoneMode), delta, 2))
	default:
		return m, nil
	}
	m.busy = true
	return m, tea.Batch(setSoundCmd(m.client, update), m.spinner.Tick)
}

// cycle steps v within 1..n, wrapping at both ends. Out-of-range values
// restart at 1.
func cycle(v, delta, n int) int {
	if v < 1 || v > n {
		return 1
	}
	return (v-1+delta%n+n)%n + 1
}

func (m Model) maxCursor() int {
	switch m.view {
	case ViewMain:
		return len(m.menuItems) - 1
	case ViewSound:
		return 1
	case ViewSpeaker:
		return len(m.speakerItems) - 1
	case ViewPresets:
		if len(m.presets) == 0 {
			return 0
		}
		return len(m.presets) - 1
	default:
		return 0
	}
}

// View renders the model.
func (m Model) View() string {
	var content string

	switch m.view {
	case ViewMain:
		content = m.viewMain()
	case ViewName:
		content = m.viewName()
	case ViewSound:
		content = m.viewSound()
	case ViewSpeaker:
		content = m.viewSpeaker()
	case ViewPresets:
		content = m.viewPresets()
	default:
		content = "Unknown view"
	}

	var footer strings.Builder
	if m.errorMsg != "" {
		footer.WriteString(m.styles.Error.Render(m.errorMsg))
		if !m.connected && !m.connecting {
			footer.WriteString("  ")
			footer.WriteString(m.styles.Muted.Render(fmt.Sprintf("['%s' to retry]", m.keys.Connect.Help().Key)))
		}
		footer.WriteString("\n")
	} else if m.statusMsg != "" {
		footer.WriteString(m.styles.Muted.Render(m.statusMsg))
		footer.WriteString("\n")
	}

	helpView := m.styles.Help.Render(m.help.View(m.keys))
	return m.styles.App.Render(content + "\n" + footer.String() + helpView)
}

// renderTitleBar renders a consistent title bar with connection status.
func (m Model) renderTitleBar(title string) string {
	parts := []string{m.styles.Title.Render(title)}

	switch {
	case m.connecting:
		parts = append(parts, m.spinner.View()+" "+m.styles.Warning.Render("Connecting..."))
	case m.connected:
		parts = append(parts, m.styles.StatusOnline.Render("●"))
		parts = append(parts, m.styles.Muted.Render(m.deviceName))
		if m.busy {
			parts = append(parts, m.spinner.View())
		}
	default:
		parts = append(parts, m.styles.StatusOffline.Render("○ Offline"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderMenuLine(i int, line string) string {
	if i == m.cursor {
		return m.styles.MenuItemSelected.Render("> "+line) + "\n"
	}
	return m.styles.MenuItem.Render("  "+line) + "\n"
}

func (m Model) renderField(label, value string) string {
	return m.styles.Label.Render(label+":") + " " + m.styles.Value.Render(value) + "\n"
}

func (m Model) viewMain() string {
	var b strings.Builder
	b.WriteString(m.renderTitleBar("Thingy"))
	b.WriteString("\n\n")

	for i, item := range m.menuItems {
		desc := item.Description
		if item.View == ViewPresets {
			desc = fmt.Sprintf("%s (%d saved)", desc, m.presetCount)
		}
		b.WriteString(m.renderMenuLine(i, item.Title))
		b.WriteString(m.styles.MenuItemDim.Render(desc))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m Model) viewName() string {
	var b strings.Builder
	b.WriteString(m.renderTitleBar("Name"))
	b.WriteString("\n\n")

	name := m.deviceName
	if name == "" {
		name = "-"
	}
	b.WriteString(m.renderField("Device name", name))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Rename with: thingy name set <name> (max %d characters)", thingy.MaxNameLength)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewSound() string {
	var b strings.Builder
	b.WriteString(m.renderTitleBar("Sound"))
	b.WriteString("\n\n")

	if m.sound == nil {
		b.WriteString(m.styles.Muted.Render("Sound configuration not loaded."))
		b.WriteString("\n")
		return b.String()
	}

	rows := []struct{ label, value string }{
		{"Speaker mode", fmt.Sprintf("%s (%d)", m.sound.SpeakerMode, m.sound.SpeakerMode)},
		{"Microphone mode", fmt.Sprintf("%s (%d)", m.sound.MicrophoneMode, m.sound.MicrophoneMode)},
	}
	for i, r := range rows {
		b.WriteString(m.renderMenuLine(i, fmt.Sprintf("%-16s ‹ %s ›", r.label, r.value)))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("←/→ to change"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewSpeaker() string {
	var b strings.Builder
	b.WriteString(m.renderTitleBar("Speaker"))
	b.WriteString("\n\n")

	for i, item := range m.speakerItems {
		b.WriteString(m.renderMenuLine(i, fmt.Sprintf("%-10s  %s", item.Title, m.styles.Muted.Render(store.Describe(item.Command)))))
	}
	return b.String()
}

func (m Model) viewPresets() string {
	var b strings.Builder
	b.WriteString(m.renderTitleBar("Presets"))
	b.WriteString("\n\n")

	if m.store == nil {
		b.WriteString(m.styles.Muted.Render("Preset store unavailable."))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.presets) == 0 {
		b.WriteString(m.styles.Muted.Render("No presets saved."))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Save one with: thingy preset save <name> --frequency 440"))
		b.WriteString("\n")
		return b.String()
	}

	for i, e := range m.presets {
		b.WriteString(m.renderMenuLine(i, fmt.Sprintf("%-16s  %s", truncate(e.Name, 16), e.Summary)))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// --- Async commands for BLE operations ---

// connectCmd scans for and connects to a Thingy.
func connectCmd(dial DialFunc) tea.Cmd {
	return func() tea.Msg {
		if dial == nil {
			return connectMsg{err: fmt.Errorf("no device configured")}
		}
		client, name, err := dial()
		return connectMsg{client: client, name: name, err: err}
	}
}

// fetchNameCmd reads the device name.
func fetchNameCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		name, err := client.Name(context.Background())
		return nameMsg{name: name, err: err}
	}
}

// fetchSoundCmd reads the sound configuration.
func fetchSoundCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		cfg, err := client.SoundConfig(context.Background())
		return soundMsg{cfg: cfg, err: err}
	}
}

// setSoundCmd writes a sound configuration update and reads back the result.
func setSoundCmd(client *api.Client, update thingy.SoundConfiguration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := client.SetSoundConfig(ctx, update); err != nil {
			return soundMsg{err: err}
		}
		cfg, err := client.SoundConfig(ctx)
		return soundMsg{cfg: cfg, err: err}
	}
}

// playCmd sends a speaker command.
func playCmd(client *api.Client, cmd thingy.SpeakerCommand, desc string) tea.Cmd {
	return func() tea.Msg {
		return playedMsg{desc: desc, err: client.Play(context.Background(), cmd)}
	}
}

// countPresetsCmd counts the presets for the main menu.
func countPresetsCmd(s *store.Store) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		n, err := s.Count()
		return presetCountMsg{n: n, err: err}
	}
}

// loadPresetsCmd lists the preset store.
func loadPresetsCmd(s *store.Store) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := s.List()
		return presetsMsg{entries: entries, err: err}
	}
}
