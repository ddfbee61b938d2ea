package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"teamdeck/internal/api"
	"teamdeck/internal/credential"
	"teamdeck/internal/keys"
	"teamdeck/internal/model"
	"teamdeck/internal/notify"
	"teamdeck/internal/store"
	"teamdeck/internal/theme"
	"teamdeck/internal/ui"
	"teamdeck/internal/ui/dashboard"
	"teamdeck/internal/ui/helpview"
	"teamdeck/internal/ui/login"
	"teamdeck/internal/ui/notifications"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewNotifications
	viewHelp
)

// App is the root model. It routes messages to the active view and
// owns the API client and notification synchronizer.
type App struct {
	cfg   *model.AppConfig
	cache *store.SnapshotCache
	log   zerolog.Logger
	keys  keys.KeyMap

	client *api.Client
	sync   *notify.Synchronizer

	active   view
	previous view
	layout   ui.Layout

	loginView login.Model
	dash      dashboard.Model
	notifs    notifications.Model
	helpView  helpview.Model

	connState notify.ConnState
	unread    int
	statusMsg string
}

// New builds the application. When token is empty the app starts on
// the login form, otherwise it connects straight away.
func New(cfg *model.AppConfig, cache *store.SnapshotCache, token string, log zerolog.Logger) *App {
	a := &App{
		cfg:      cfg,
		cache:    cache,
		log:      log,
		keys:     keys.DefaultKeyMap(),
		active:   viewLogin,
		helpView: helpview.New(),
	}
	a.loginView = login.New(api.NewClient(cfg.Server.BaseURL, "", a.requestTimeout(), log), log)
	if token != "" {
		a.connect(token)
		a.active = viewDashboard
	}
	return a
}

func (a *App) requestTimeout() time.Duration {
	return time.Duration(a.cfg.Server.RequestTimeoutSec) * time.Second
}

// connect builds the authenticated client, dashboard and synchronizer.
func (a *App) connect(token string) {
	a.client = api.NewClient(a.cfg.Server.BaseURL, token, a.requestTimeout(), a.log)
	a.sync = notify.New(a.client, a.client.StreamURL(), a.client.SessionID(), a.cfg.Stream, a.log)
	a.dash = dashboard.New(a.client, a.cache, a.cfg.Server.WorkspaceID, a.cfg.Display.PageSize, a.log)
	a.notifs = notifications.New(a.sync, a.log)
	a.connState = notify.StateDisconnected
	a.unread = 0
}

func (a *App) Init() tea.Cmd {
	if a.active == viewLogin {
		return a.loginView.Init()
	}
	return tea.Batch(a.dash.Init(), a.sync.Start())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.layout = ui.Layout{Width: msg.Width, Height: msg.Height}
		a.resizeViews()
		return a, nil

	case login.DoneMsg:
		if err := credential.Set(credential.TokenKey, msg.Token); err != nil {
			a.log.Warn().Err(err).Msg("failed to store token")
		}
		a.connect(msg.Token)
		a.active = viewDashboard
		a.resizeViews()
		return a, tea.Batch(a.dash.Init(), a.sync.Start())

	case notify.StateChangedMsg:
		a.connState = msg.State
		return a, a.sync.WaitForNext()

	case notify.FeedUpdatedMsg:
		a.unread = msg.Unread
		a.notifs = a.notifs.Refresh()
		return a, a.sync.WaitForNext()

	case notify.SyncErrorMsg:
		if msg.Auth {
			return a, a.logout()
		}
		a.log.Warn().Err(msg.Err).Msg("notification sync error")
		a.statusMsg = "sync error: " + msg.Err.Error()
		return a, a.sync.WaitForNext()

	case dashboard.ErrMsg:
		if api.IsAuthError(msg.Err) {
			return a, a.logout()
		}

	case notifications.OpenLinkMsg:
		a.statusMsg = "open: " + msg.Link
		return a, nil

	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}
	}
	return a, a.routeToActive(msg)
}

// handleKey processes global bindings. View-local keys fall through.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if a.active == viewLogin {
		if key.Matches(msg, a.keys.Quit) && msg.String() == "ctrl+c" {
			return tea.Quit, true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.shutdown(), true
	case key.Matches(msg, a.keys.Dashboard):
		a.switchTo(viewDashboard)
		return nil, true
	case key.Matches(msg, a.keys.Notifications):
		a.switchTo(viewNotifications)
		return nil, true
	case key.Matches(msg, a.keys.Help):
		if a.active != viewHelp {
			a.switchTo(viewHelp)
		} else {
			a.switchTo(a.previous)
		}
		return nil, true
	case key.Matches(msg, a.keys.Back):
		if a.active == viewHelp {
			a.switchTo(a.previous)
			return nil, true
		}
		return nil, false
	}
	return nil, false
}

func (a *App) switchTo(v view) {
	if v == a.active {
		return
	}
	a.previous = a.active
	a.active = v
	a.statusMsg = ""
	if v == viewNotifications {
		a.notifs = a.notifs.Refresh()
	}
}

func (a *App) routeToActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.active {
	case viewLogin:
		a.loginView, cmd = a.loginView.Update(msg)
	case viewDashboard:
		a.dash, cmd = a.dash.Update(msg)
	case viewNotifications:
		a.notifs, cmd = a.notifs.Update(msg)
	case viewHelp:
		a.helpView, cmd = a.helpView.Update(msg)
	}
	return cmd
}

func (a *App) resizeViews() {
	w, h := a.layout.Width, a.layout.ContentHeight()
	a.loginView = a.loginView.SetSize(w, h)
	a.helpView = a.helpView.SetSize(w, h)
	if a.client != nil {
		a.dash = a.dash.SetSize(w, h)
		a.notifs = a.notifs.SetSize(w, h)
	}
}

// logout stops the synchronizer, drops the stored token and returns
// to the login form.
func (a *App) logout() tea.Cmd {
	a.log.Info().Msg("session expired, returning to login")
	if a.sync != nil {
		a.sync.Stop()
		a.sync = nil
	}
	if err := credential.Delete(credential.TokenKey); err != nil {
		a.log.Warn().Err(err).Msg("failed to clear stored token")
	}
	a.client = nil
	a.active = viewLogin
	a.statusMsg = "Session expired, please sign in again"
	a.loginView = login.New(api.NewClient(a.cfg.Server.BaseURL, "", a.requestTimeout(), a.log), a.log)
	a.resizeViews()
	return a.loginView.Init()
}

func (a *App) shutdown() tea.Cmd {
	if a.sync != nil {
		a.sync.Stop()
	}
	return tea.Quit
}

func (a *App) View() string {
	if a.active == viewLogin {
		body := a.loginView.View()
		if a.statusMsg != "" {
			body = lipgloss.JoinVertical(lipgloss.Left,
				theme.MutedStyle.Render(a.statusMsg), "", body)
		}
		return body
	}

	header := a.layout.RenderHeader(a.title(), a.connState, a.unread)
	body := lipgloss.NewStyle().Height(a.layout.ContentHeight()).Render(a.activeView())
	status := a.layout.RenderStatusBar(a.hints(), a.statusMsg)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (a *App) activeView() string {
	switch a.active {
	case viewDashboard:
		return a.dash.View()
	case viewNotifications:
		return a.notifs.View()
	case viewHelp:
		return a.helpView.View()
	}
	return ""
}

func (a *App) title() string {
	switch a.active {
	case viewNotifications:
		return "notifications"
	case viewHelp:
		return "help"
	default:
		return "dashboard"
	}
}

func (a *App) hints() string {
	switch a.active {
	case viewNotifications:
		return theme.HelpStyle.Render("m mark read · x delete · enter open · d dashboard · ? help · q quit")
	case viewHelp:
		return theme.HelpStyle.Render("esc back · q quit")
	default:
		return theme.HelpStyle.Render("n notifications · r refresh · ←/→ pages · ? help · q quit")
	}
}
