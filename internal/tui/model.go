// Package tui renders the status page in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/notifier"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/service"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/util"
)

var joinerSteps = []string{"Join", "Wait", "Your turn"}

// viewMsg carries a fresh snapshot of the page. Snapshots delivered by the
// change listener re-arm it.
type viewMsg struct {
	view     models.StatusView
	err      error
	listener bool
}

type mountedMsg struct {
	err error
}

type leaveResultMsg struct {
	err error
}

// clockTickMsg keeps the "last checked" age current.
type clockTickMsg time.Time

type Model struct {
	ctx   context.Context
	page  service.StatusPage
	turn  *service.TurnNotifier
	inbox *notifier.Inbox
	vis   *notifier.Visibility
	title string
	keys  KeyMap
	now   func() time.Time

	spinner  spinner.Model
	view     models.StatusView
	viewErr  error
	mountErr error
	loaded   bool
}

func NewModel(
	ctx context.Context,
	page service.StatusPage,
	turn *service.TurnNotifier,
	inbox *notifier.Inbox,
	vis *notifier.Visibility,
	title string,
) Model {
	return Model{
		ctx:     ctx,
		page:    page,
		turn:    turn,
		inbox:   inbox,
		vis:     vis,
		title:   title,
		keys:    DefaultKeyMap,
		now:     time.Now,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.mount(),
		listenForChanges(m.ctx, m.page),
		m.spinner.Tick,
		tickClock(),
	)
}

func (m Model) mount() tea.Cmd {
	return func() tea.Msg {
		return mountedMsg{err: m.page.Mount(m.ctx)}
	}
}

// listenForChanges blocks until the page signals a change, then delivers the
// new snapshot.
func listenForChanges(ctx context.Context, page service.StatusPage) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-page.Changes():
		case <-ctx.Done():
			return nil
		}
		v, err := page.View(ctx)
		return viewMsg{view: v, err: err, listener: true}
	}
}

func refresh(ctx context.Context, page service.StatusPage) tea.Cmd {
	return func() tea.Msg {
		v, err := page.View(ctx)
		return viewMsg{view: v, err: err}
	}
}

func tickClock() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.FocusMsg:
		m.vis.SetVisible()
		return m, nil

	case mountedMsg:
		m.mountErr = msg.err
		return m, refresh(m.ctx, m.page)

	case viewMsg:
		m.view, m.viewErr = msg.view, msg.err
		m.loaded = true
		if msg.listener {
			return m, listenForChanges(m.ctx, m.page)
		}
		return m, nil

	case leaveResultMsg:
		return m, nil

	case clockTickMsg:
		return m, tickClock()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.page.Unmount()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Notifications):
		if m.turn != nil {
			m.turn.SetEnabled(!m.turn.Enabled())
		}
		return m, nil

	case key.Matches(msg, m.keys.CheckStatus):
		if !m.view.ShowActions {
			return m, nil
		}
		page := m.page
		return m, func() tea.Msg {
			page.CheckStatus()
			return nil
		}

	case key.Matches(msg, m.keys.LeaveQueue):
		if !m.view.ShowActions {
			return m, nil
		}
		ctx, page := m.ctx, m.page
		return m, func() tea.Msg {
			_, err := page.LeaveQueue(ctx)
			return leaveResultMsg{err: err}
		}
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	header := m.title
	if m.view.QueueName != "" {
		header = fmt.Sprintf("%s · %s", m.title, m.view.QueueName)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.renderStepper())
	b.WriteString("\n")

	for _, n := range m.inbox.Active() {
		b.WriteString("\n")
		b.WriteString(bannerStyle.Render(fmt.Sprintf("%s: %s", n.Title, n.Options.Body)))
		b.WriteString("\n")
	}

	b.WriteString(m.renderBody())

	if m.view.TicketID != "" {
		b.WriteString(dimStyle.Render("Ticket " + m.view.TicketID))
		b.WriteString("\n")
	}
	if m.view.LastCheckedAt != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Last checked %s (%s)",
			util.FormatSince(m.now(), *m.view.LastCheckedAt),
			util.FormatClock(*m.view.LastCheckedAt),
		)))
		b.WriteString("\n")
	}

	if e := m.errorLine(); e != "" {
		b.WriteString(errorStyle.Render(e))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderStepper() string {
	parts := make([]string, len(joinerSteps))
	for i, s := range joinerSteps {
		switch {
		case i < m.view.JoinerStep:
			parts[i] = stepDoneStyle.Render("✓ " + s)
		case i == m.view.JoinerStep:
			parts[i] = stepActiveStyle.Render(s)
		default:
			parts[i] = stepInactiveStyle.Render(s)
		}
	}
	return strings.Join(parts, dimStyle.Render(" → "))
}

func (m Model) renderBody() string {
	if !m.loaded {
		return messageStyle.Render(m.spinner.View()+" Loading") + "\n"
	}

	switch m.view.State {
	case models.ViewStateBusy:
		return messageStyle.Render(m.spinner.View()) + "\n"
	case models.ViewStateRemoved:
		return removedStyle.Render(m.view.Message) + "\n"
	case models.ViewStateNotified:
		return notifiedStyle.Render(m.view.Message) + "\n"
	default:
		return messageStyle.Render(m.view.Message) + "\n"
	}
}

func (m Model) errorLine() string {
	switch {
	case m.mountErr != nil:
		return m.mountErr.Error()
	case m.viewErr != nil:
		return m.viewErr.Error()
	default:
		return m.view.LastError
	}
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{}
	if m.view.ShowActions {
		bindings = append(bindings, m.keys.CheckStatus, m.keys.LeaveQueue)
	}
	bindings = append(bindings, m.keys.Notifications, m.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}

	help := strings.Join(parts, " • ")
	if m.turn != nil && !m.turn.Enabled() {
		help += " (notifications off)"
	}
	return dimStyle.Render(help)
}
