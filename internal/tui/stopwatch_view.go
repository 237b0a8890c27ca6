package tui

import (
	"fmt"
	"strings"

	"github.com/oshokin/alarm-clock/internal/domain/stopwatch"
	"github.com/oshokin/alarm-clock/internal/service/shell"
)

// maxShownLaps bounds the lap list on screen.
const maxShownLaps = 10

// stopwatchPanel is the stopwatch view state.
type stopwatchPanel struct {
	session *shell.StopwatchSession
	last    shell.StopwatchSnapshot
	err     error
}

func newStopwatchPanel(session *shell.StopwatchSession) *stopwatchPanel {
	return &stopwatchPanel{
		session: session,
		last:    shell.StopwatchSnapshot{Display: stopwatch.FormatElapsed(0)},
	}
}

func (p *stopwatchPanel) view(st Styles) string {
	var b strings.Builder

	b.WriteString(st.Title.Render("Stopwatch"))
	b.WriteString("\n\n")
	b.WriteString(st.Clock.Render(p.last.Display))
	b.WriteString("\n")

	status := "paused"
	if p.last.Running {
		status = "running"
	}

	b.WriteString(st.Panel.Render(st.Muted.Render(status)))
	b.WriteString("\n\n")

	for i, lap := range p.last.Laps {
		if i == maxShownLaps {
			b.WriteString(st.Row.Render(st.Muted.Render(fmt.Sprintf("… %d more", len(p.last.Laps)-maxShownLaps))))
			b.WriteString("\n")

			break
		}

		line := fmt.Sprintf(
			"Lap %2d  %s  %s",
			lap.Number,
			stopwatch.FormatElapsed(lap.Split),
			st.Muted.Render(stopwatch.FormatElapsed(lap.Total)),
		)

		b.WriteString(st.Row.Render(line))
		b.WriteString("\n")
	}

	if p.err != nil {
		b.WriteString(st.Alert.Render(p.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}
