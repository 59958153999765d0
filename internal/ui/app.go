package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quoted/internal/category"
	"github.com/five82/quoted/internal/notify"
	"github.com/five82/quoted/internal/prefs"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/state"
	"github.com/five82/quoted/internal/syncer"
)

// Service is the application surface the UI drives.
type Service interface {
	Count() int
	Categories() []string
	Filter(ctx context.Context) string
	SetFilter(ctx context.Context, value string) error
	Next(ctx context.Context) (quote.Quote, bool)
	Current(ctx context.Context) (quote.Quote, bool)
	Add(ctx context.Context, text, category string) (quote.Quote, error)
	SyncNow(ctx context.Context) (syncer.Result, error)
	SyncState() string
}

// Options configures the UI.
type Options struct {
	Context       context.Context
	Service       Service
	Status        *state.Store
	Bus           *notify.Bus
	ThemeName     string
	PrefsPath     string
	ShowLog       bool
	LogPath       string
	BannerTimeout time.Duration
	RefreshTick   time.Duration
}

const (
	defaultRefreshTick = time.Second
	logPaneLines       = 8
	bannerBuffer       = 16
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	svc         Service
	status      *state.Store
	keys        keyMap
	help        help.Model
	prefsPath   string
	logPath     string
	refreshTick time.Duration

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal

	// Quote state
	current    quote.Quote
	hasQuote   bool
	filter     string
	categories []string
	count      int

	// Sync state
	snapshot  state.Snapshot
	syncState string
	syncing   bool

	// Notifications
	banner      notify.Banner
	bannerCh    chan notify.Message
	unsubscribe func()

	// Log pane
	showLog bool
	logView viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refreshTick := opts.RefreshTick
	if refreshTick <= 0 {
		refreshTick = defaultRefreshTick
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		svc:         opts.Service,
		status:      opts.Status,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		refreshTick: refreshTick,
		theme:       GetTheme(themeName),
		banner:      notify.Banner{Timeout: opts.BannerTimeout},
		showLog:     opts.ShowLog,
		logView:     viewport.New(0, logPaneLines),
		filter:      category.All,
		unsubscribe: func() {},
	}

	if opts.Bus != nil {
		ch := make(chan notify.Message, bannerBuffer)
		m.bannerCh = ch
		// Publishers must never block on the UI loop.
		m.unsubscribe = opts.Bus.Subscribe(func(msg notify.Message) {
			select {
			case ch <- msg:
			default:
			}
		})
	}

	if m.svc != nil {
		m.refreshQuotes()
		m.current, m.hasQuote = m.svc.Current(ctx)
	}
	return m
}

// Close releases the bus subscription.
func (m Model) Close() {
	m.unsubscribe()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.refreshTick),
	}
	if m.bannerCh != nil {
		cmds = append(cmds, waitForBanner(m.bannerCh))
	}
	if m.showLog {
		cmds = append(cmds, readLogCmd(m.logPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logView.Width = msg.Width
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case bannerMsg:
		cmd := m.showBanner(notify.Message(msg))
		return m, tea.Batch(cmd, waitForBanner(m.bannerCh))

	case bannerExpiredMsg:
		if m.banner.Expired(time.Time(msg)) {
			m.banner.Dismiss()
		}
		return m, nil

	case syncDoneMsg:
		return m.handleSyncDone(msg)

	case submitQuoteMsg:
		return m.handleSubmit(msg)

	case logLinesMsg:
		m.setLogLines(msg)
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		return m.updateModal(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.banner.Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.NextQuote):
		m.showNext()
		return m, nil

	case key.Matches(msg, m.keys.NextCategory):
		return m.applyFilter(m.cycleFilter(1))

	case key.Matches(msg, m.keys.PrevCategory):
		return m.applyFilter(m.cycleFilter(-1))

	case key.Matches(msg, m.keys.AllFilter):
		return m.applyFilter(category.All)

	case key.Matches(msg, m.keys.AddQuote):
		prefill := ""
		if m.filter != category.All {
			prefill = m.filter
		}
		m.modal = newAddForm(prefill)
		return m, nil

	case key.Matches(msg, m.keys.SyncNow):
		if m.syncing || m.svc == nil {
			return m, nil
		}
		m.syncing = true
		return m, syncCmd(m.ctx, m.svc)

	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		m.savePrefs()
		if m.showLog {
			return m, readLogCmd(m.logPath)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
	} else {
		m.modal = modal
	}
	return m, cmd
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.refreshTick)}

	if m.status != nil {
		m.snapshot = m.status.Snapshot()
	}
	if m.svc != nil {
		m.syncState = m.svc.SyncState()
		m.refreshQuotes()
	}
	if m.banner.Expired(now) {
		m.banner.Dismiss()
	}
	if m.showLog {
		cmds = append(cmds, readLogCmd(m.logPath))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSyncDone(msg syncDoneMsg) (tea.Model, tea.Cmd) {
	m.syncing = false
	if m.status != nil {
		m.snapshot = m.status.Snapshot()
	}
	m.refreshQuotes()
	switch {
	case msg.result.Skipped:
		return m, m.localBanner("Sync already in progress")
	case msg.err != nil:
		return m, m.localBanner("Sync failed; will retry on the next interval")
	case len(msg.result.Merged) == 0:
		return m, m.localBanner("Already up to date")
	}
	// Merges announce themselves on the bus.
	return m, nil
}

func (m Model) handleSubmit(msg submitQuoteMsg) (tea.Model, tea.Cmd) {
	if m.svc == nil {
		return m, nil
	}
	q, err := m.svc.Add(m.ctx, msg.text, msg.category)
	if err != nil && errors.Is(err, quote.ErrValidation) {
		m.modal = newAddForm(msg.category)
		return m, m.localBanner("Please enter both quote text and category.")
	}
	m.current, m.hasQuote = q, true
	m.refreshQuotes()
	if err != nil {
		return m, m.localBanner("Quote kept for this session, but saving to disk failed")
	}
	return m, m.localBanner("Quote added")
}

// refreshQuotes reloads the derived state shown in the header and chips.
func (m *Model) refreshQuotes() {
	m.categories = m.svc.Categories()
	m.filter = m.svc.Filter(m.ctx)
	m.count = m.svc.Count()
}

func (m *Model) showNext() {
	if m.svc == nil {
		return
	}
	m.current, m.hasQuote = m.svc.Next(m.ctx)
}

// cycleFilter returns the filter step positions away from the current one in
// the ring [all, categories...].
func (m Model) cycleFilter(step int) string {
	ring := append([]string{category.All}, m.categories...)
	idx := 0
	for i, v := range ring {
		if v == m.filter {
			idx = i
			break
		}
	}
	n := len(ring)
	return ring[((idx+step)%n+n)%n]
}

func (m Model) applyFilter(value string) (tea.Model, tea.Cmd) {
	if m.svc == nil {
		return m, nil
	}
	if err := m.svc.SetFilter(m.ctx, value); err != nil {
		return m, m.localBanner("Could not save the category filter")
	}
	m.refreshQuotes()
	m.current, m.hasQuote = m.svc.Next(m.ctx)
	return m, nil
}

func (m *Model) showBanner(msg notify.Message) tea.Cmd {
	m.banner.Show(msg)
	timeout := m.banner.Timeout
	if timeout <= 0 {
		timeout = notify.DefaultBannerTimeout
	}
	return tea.Tick(msg.At.Add(timeout).Sub(time.Now()), func(t time.Time) tea.Msg {
		return bannerExpiredMsg(t)
	})
}

func (m *Model) localBanner(text string) tea.Cmd {
	return m.showBanner(notify.Message{Text: text, At: time.Now()})
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ShowLog: m.showLog})
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBanner())
	b.WriteString("\n")
	b.WriteString(m.renderQuote())
	b.WriteString("\n")
	b.WriteString(m.renderCategories())
	if m.showLog {
		b.WriteString("\n")
		b.WriteString(m.renderLogPane())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// Messages

type tickMsg time.Time

type bannerMsg notify.Message

type bannerExpiredMsg time.Time

type syncDoneMsg struct {
	result syncer.Result
	err    error
}

type logLinesMsg []string

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForBanner(ch <-chan notify.Message) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return bannerMsg(<-ch)
	}
}

func syncCmd(ctx context.Context, svc Service) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.SyncNow(ctx)
		return syncDoneMsg{result: res, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
