// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lumenlab/optoctl/pkg/optoma"
)

var watchPollInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of projector state and unsolicited events",
	Long: `Watch the projector in a terminal UI.

The view polls power state and input source at a fixed interval and logs
every unsolicited event the projector announces (powering on, powering off,
powered off) as it arrives on the serial line. While a power or source
transition is in flight the status line shows a busy indicator instead of a
stale value.

Press q to quit.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchPollInterval, "interval", 5*time.Second, "Status poll interval")
	rootCmd.AddCommand(watchCmd)
}

// Messages
type projectorEventMsg string
type statusPollMsg struct {
	power  optoma.Result
	source optoma.Result
	busy   bool
}
type connLostMsg struct {
	err error
}

type eventLogEntry struct {
	timestamp time.Time
	message   string
}

// Styles
var (
	watchTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	watchLabelStyle  = lipgloss.NewStyle().Bold(true)
	watchBusyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	watchEventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	watchFaintStyle  = lipgloss.NewStyle().Faint(true)
	watchErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	watchBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

type watchModel struct {
	connInfo string
	power    string
	source   string
	busy     bool
	spinner  spinner.Model
	events   []eventLogEntry
	maxLog   int
	width    int
	height   int
	connLost bool
	connErr  error
	quitting bool
}

func initialWatchModel(connInfo string) watchModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return watchModel{
		connInfo: connInfo,
		power:    "unknown",
		source:   "unknown",
		spinner:  sp,
		events:   make([]eventLogEntry, 0),
		maxLog:   50,
		width:    80,
		height:   24,
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case projectorEventMsg:
		m.addEvent(string(msg))

	case statusPollMsg:
		m.busy = msg.busy
		if msg.power.Status == optoma.StatusOK {
			m.power = msg.power.Value
		}
		switch msg.source.Status {
		case optoma.StatusOK:
			m.source = msg.source.Value
		case optoma.StatusNoData:
			m.source = "none"
		}

	case connLostMsg:
		m.connLost = true
		m.connErr = msg.err
		m.addEvent("connection lost")
	}

	return m, nil
}

func (m *watchModel) addEvent(message string) {
	m.events = append(m.events, eventLogEntry{timestamp: time.Now(), message: message})
	if len(m.events) > m.maxLog {
		m.events = m.events[len(m.events)-m.maxLog:]
	}
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	title := watchTitleStyle.Render("Optoctl Watch") +
		watchFaintStyle.Render("  "+m.connInfo)

	power := m.power
	source := m.source
	if m.busy {
		indicator := m.spinner.View() + watchBusyStyle.Render("transition in flight")
		power = indicator
		source = indicator
	}
	status := fmt.Sprintf("%s %s\n%s %s",
		watchLabelStyle.Render("Power: "), power,
		watchLabelStyle.Render("Source:"), source)

	logLines := "no events yet"
	if len(m.events) > 0 {
		visible := m.events
		if limit := m.height - 10; limit > 0 && len(visible) > limit {
			visible = visible[len(visible)-limit:]
		}
		logLines = ""
		for i, e := range visible {
			if i > 0 {
				logLines += "\n"
			}
			logLines += watchFaintStyle.Render(e.timestamp.Format(time.TimeOnly)) +
				" " + watchEventStyle.Render(e.message)
		}
	}

	footer := watchFaintStyle.Render("q: quit")
	if m.connLost {
		footer = watchErrorStyle.Render(fmt.Sprintf("CONNECTION LOST: %v", m.connErr)) + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		watchBorderStyle.Render(status),
		watchBorderStyle.Render(logLines),
		footer,
	) + "\n"
}

func runWatch(cmd *cobra.Command, args []string) error {
	proj, connInfo, err := openProjector()
	if err != nil {
		return err
	}
	defer proj.Close()

	m := initialWatchModel(connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Unsolicited events are pushed straight into the TUI. The handlers run
	// on the reader goroutine, so they only forward.
	for event, label := range map[string]string{
		optoma.EventPoweredOff:  "projector powered off",
		optoma.EventPoweringOn:  "projector powering on",
		optoma.EventPoweringOff: "projector powering off",
	} {
		proj.Subscribe(event, func() {
			p.Send(projectorEventMsg(label))
		})
	}

	done := make(chan struct{})
	go pollStatus(proj, p, done)
	go func() {
		select {
		case <-proj.Done():
			p.Send(connLostMsg{err: proj.Err()})
		case <-done:
		}
	}()

	_, runErr := p.Run()
	close(done)
	return runErr
}

// pollStatus queries power and source at the configured interval and feeds
// the results to the TUI. While the projector is busy the queries are
// answered locally and no traffic hits the line.
func pollStatus(proj *optoma.Projector, p *tea.Program, done <-chan struct{}) {
	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	poll := func() {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()

		power, err := proj.GetProperty(ctx, optoma.CmdQueryPower)
		if err != nil {
			return
		}
		source, err := proj.GetProperty(ctx, optoma.CmdQuerySource)
		if err != nil {
			return
		}
		p.Send(statusPollMsg{power: power, source: source, busy: proj.Busy()})
	}

	poll()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			poll()
		}
	}
}
