package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"teamdeck/internal/keys"
	"teamdeck/internal/metrics"
	"teamdeck/internal/model"
	"teamdeck/internal/theme"
)

// Backend fetches a fresh workspace snapshot from the server.
type Backend interface {
	WorkspaceStats(ctx context.Context, workspaceID string) (*model.WorkspaceSnapshot, error)
}

// Cache persists the last good snapshot for offline startup.
type Cache interface {
	Save(ctx context.Context, workspaceID string, snap *model.WorkspaceSnapshot) error
	Load(ctx context.Context, workspaceID string) (*model.WorkspaceSnapshot, time.Time, error)
}

// SnapshotMsg carries a loaded snapshot into the model.
type SnapshotMsg struct {
	Snapshot  *model.WorkspaceSnapshot
	FromCache bool
	FetchedAt time.Time
}

// ErrMsg carries a failed refresh.
type ErrMsg struct {
	Err error
}

// Model renders workspace metrics computed from the latest snapshot.
type Model struct {
	backend     Backend
	cache       Cache
	workspaceID string
	pageSize    int
	keys        keys.KeyMap
	log         zerolog.Logger

	snapshot  *model.WorkspaceSnapshot
	fromCache bool
	fetchedAt time.Time
	page      int
	loading   bool
	spin      spinner.Model
	err       error

	width  int
	height int
}

// New creates a dashboard for the given workspace.
func New(backend Backend, cache Cache, workspaceID string, pageSize int, log zerolog.Logger) Model {
	if pageSize < 1 {
		pageSize = 5
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		backend:     backend,
		cache:       cache,
		workspaceID: workspaceID,
		pageSize:    pageSize,
		keys:        keys.DefaultKeyMap(),
		log:         log,
		page:        1,
		loading:     true,
		spin:        sp,
	}
}

// Init loads the cached snapshot and kicks off a fresh fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCache(), m.fetch(), m.spin.Tick)
}

func (m Model) loadCache() tea.Cmd {
	return func() tea.Msg {
		if m.cache == nil {
			return nil
		}
		snap, fetchedAt, err := m.cache.Load(context.Background(), m.workspaceID)
		if err != nil {
			return nil
		}
		return SnapshotMsg{Snapshot: snap, FromCache: true, FetchedAt: fetchedAt}
	}
}

func (m Model) fetch() tea.Cmd {
	backend, cache, workspaceID := m.backend, m.cache, m.workspaceID
	log := m.log
	return func() tea.Msg {
		ctx := context.Background()
		snap, err := backend.WorkspaceStats(ctx, workspaceID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if cache != nil {
			if err := cache.Save(ctx, workspaceID, snap); err != nil {
				log.Warn().Err(err).Msg("failed to cache snapshot")
			}
		}
		return SnapshotMsg{Snapshot: snap, FetchedAt: time.Now()}
	}
}

// SetSize updates the available drawing area.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		// A cached snapshot never replaces one fetched from the server.
		if msg.FromCache && m.snapshot != nil && !m.fromCache {
			return m, nil
		}
		m.snapshot = msg.Snapshot
		m.fromCache = msg.FromCache
		m.fetchedAt = msg.FetchedAt
		if !msg.FromCache {
			m.loading = false
			m.err = nil
		}
		m.page = m.clampPage(m.page)
		return m, nil

	case ErrMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, tea.Batch(m.fetch(), m.spin.Tick)
		case key.Matches(msg, m.keys.NextPage):
			m.page = m.clampPage(m.page + 1)
			return m, nil
		case key.Matches(msg, m.keys.PrevPage):
			m.page = m.clampPage(m.page - 1)
			return m, nil
		}
	}
	return m, nil
}

func (m Model) clampPage(page int) int {
	total := 1
	if m.snapshot != nil {
		total = metrics.TotalPages(len(m.snapshot.RecentProjects), m.pageSize)
	}
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

func (m Model) View() string {
	if m.snapshot == nil {
		if m.err != nil {
			return theme.ErrorStyle.Render("Failed to load workspace: " + m.err.Error())
		}
		return m.spin.View() + theme.MutedStyle.Render(" Loading workspace…")
	}

	sections := []string{
		m.renderCards(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderDistributions(), m.renderProjectStacks(), m.renderTrends()),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderDueToday(), m.renderUpcoming()),
		m.renderRecentProjects(),
	}
	if m.fromCache {
		sections = append(sections, theme.MutedStyle.Render(
			fmt.Sprintf("Showing cached data from %s", m.fetchedAt.Format("Jan 2 15:04"))))
	}
	if m.err != nil {
		sections = append(sections, theme.ErrorStyle.Render("Refresh failed: "+m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderCards() string {
	snap := m.snapshot
	today := time.Now()
	cards := []struct {
		title string
		value string
	}{
		{"Total Projects", fmt.Sprintf("%d", snap.Stats.TotalProjects)},
		{"Active Projects", fmt.Sprintf("%d", metrics.ActiveProjects(snap.Stats))},
		{"Completed Tasks", fmt.Sprintf("%d", snap.Stats.TotalTaskCompleted)},
		{"Overdue Tasks", fmt.Sprintf("%d", metrics.OverdueTasks(snap.RecentProjects, today))},
		{"Workspace Health", fmt.Sprintf("%.1f%%", metrics.WorkspaceHealth(snap.RecentProjects)*100)},
		{"Avg Progress", fmt.Sprintf("%d%%", metrics.AvgProjectProgress(snap.RecentProjects))},
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		body := lipgloss.JoinVertical(lipgloss.Left,
			theme.CardTitleStyle.Render(c.title),
			theme.CardValueStyle.Render(c.value),
		)
		rendered = append(rendered, theme.CardStyle.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderDistributions() string {
	status := metrics.StatusDistribution(m.snapshot.RecentProjects)
	priority := metrics.PriorityDistribution(m.snapshot.RecentProjects)

	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Projects by status") + "\n")
	fmt.Fprintf(&b, "  completed    %d\n", status.Completed)
	fmt.Fprintf(&b, "  in progress  %d\n", status.InProgress)
	fmt.Fprintf(&b, "  planning     %d\n", status.Planning)
	fmt.Fprintf(&b, "  archived     %d\n", status.Archived)
	b.WriteString("\n" + theme.PanelTitleStyle.Render("Tasks by priority") + "\n")
	fmt.Fprintf(&b, "  high         %d\n", priority.High)
	fmt.Fprintf(&b, "  medium       %d\n", priority.Medium)
	fmt.Fprintf(&b, "  low          %d\n", priority.Low)
	fmt.Fprintf(&b, "  archived     %d", priority.Archived)
	return theme.PanelStyle.Render(b.String())
}

func (m Model) renderProjectStacks() string {
	stacks := metrics.TaskStatusPerProject(m.snapshot.RecentProjects)

	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Tasks per project") + "\n")
	if len(stacks) == 0 {
		b.WriteString(theme.MutedStyle.Render("  No projects yet"))
	}
	for _, s := range stacks {
		fmt.Fprintf(&b, "  %-18s %s%s%s\n",
			truncate(s.Title, 18),
			theme.TaskStatusStyle(model.TaskStatusDone).Render(strings.Repeat("▰", s.Done)),
			theme.TaskStatusStyle(model.TaskStatusInProgress).Render(strings.Repeat("▰", s.InProgress)),
			theme.TaskStatusStyle(model.TaskStatusTodo).Render(strings.Repeat("▰", s.ToDo)))
	}
	return theme.PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderTrends() string {
	trends := m.snapshot.TaskTrends
	totals := metrics.WeeklyTrendTotals(trends)
	velocity := metrics.VelocitySeries(trends)

	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Task trends (7 days)") + "\n")
	fmt.Fprintf(&b, "  completed %d  in progress %d  to do %d\n",
		totals.Completed, totals.InProgress, totals.ToDo)
	fmt.Fprintf(&b, "  completion rate %d%%\n", totals.CompletionRate)
	b.WriteString("\n" + theme.PanelTitleStyle.Render("Velocity") + "\n")
	for _, p := range velocity {
		fmt.Fprintf(&b, "  %-4s created %-3d completed %d\n", p.Name, p.Created, p.Completed)
	}
	b.WriteString("\n" + theme.MutedStyle.Render(metrics.WeeklySummary(trends)))
	return theme.PanelStyle.Render(b.String())
}

func (m Model) renderDueToday() string {
	due := metrics.TasksDueToday(m.snapshot.RecentProjects, time.Now())

	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Due today") + "\n")
	if len(due) == 0 {
		b.WriteString(theme.MutedStyle.Render("  Nothing due today"))
	}
	for _, t := range due {
		b.WriteString("  " + theme.PriorityStyle(t.Priority).Render("●") + " " + t.Title)
		b.WriteString(theme.MutedStyle.Render(" · "+t.ProjectTitle) + "\n")
	}
	return theme.PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderUpcoming() string {
	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Upcoming") + "\n")
	if len(m.snapshot.UpcomingTasks) == 0 {
		b.WriteString(theme.MutedStyle.Render("  No upcoming tasks"))
	}
	for _, t := range m.snapshot.UpcomingTasks {
		due := ""
		if t.DueDate != nil {
			due = theme.MutedStyle.Render(" · " + t.DueDate.Format("Jan 2"))
		}
		b.WriteString("  " + theme.TaskStatusStyle(t.Status).Render("●") + " " + t.Title + due + "\n")
	}
	return theme.PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderRecentProjects() string {
	projects := m.snapshot.RecentProjects
	totalPages := metrics.TotalPages(len(projects), m.pageSize)
	page := metrics.Paginate(projects, m.pageSize, m.page)

	var b strings.Builder
	title := "Recent projects"
	if totalPages > 1 {
		title = fmt.Sprintf("Recent projects (%d/%d)", m.page, totalPages)
	}
	b.WriteString(theme.PanelTitleStyle.Render(title) + "\n")
	if len(page) == 0 {
		b.WriteString(theme.MutedStyle.Render("  No projects yet"))
	}
	for _, p := range page {
		progress := metrics.ProjectProgress(p.Tasks)
		marker := theme.ProjectStatusStyle(p.Status, p.Archived).Render("●")
		fmt.Fprintf(&b, "  %s %-30s %3d%%  %s\n",
			marker, truncate(p.Title, 30), progress, renderBar(progress, 20))
	}
	return theme.PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return theme.CardValueStyle.Render(strings.Repeat("█", filled)) +
		theme.MutedStyle.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
