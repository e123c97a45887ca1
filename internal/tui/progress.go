package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schoolsynth/schoolsynth/internal/loader"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 100

const (
	nameWidth  = 18
	countWidth = 15
)

// TableStartedMsg announces that a table began loading.
type TableStartedMsg struct {
	Table string
	Total int
}

// RowsWrittenMsg reports rows written so far for a table.
type RowsWrittenMsg struct {
	Table   string
	Written int
	Total   int
}

// TableDoneMsg reports that every row of a table was written.
type TableDoneMsg struct {
	Table   string
	Written int
}

// LoadFinishedMsg ends the load. Err is nil on success.
type LoadFinishedMsg struct {
	Rows int
	Err  error
}

// EventMsg converts a loader event into the matching message.
func EventMsg(e loader.Event) tea.Msg {
	switch e.Kind {
	case loader.TableStarted:
		return TableStartedMsg{Table: e.Table, Total: e.Total}
	case loader.RowsWritten:
		return RowsWrittenMsg{Table: e.Table, Written: e.Written, Total: e.Total}
	case loader.TableDone:
		return TableDoneMsg{Table: e.Table, Written: e.Written}
	default:
		return LoadFinishedMsg{Rows: e.Written, Err: e.Err}
	}
}

// Reporter returns a loader.Reporter that forwards events to a running
// program.
func Reporter(p *tea.Program) loader.Reporter {
	return func(e loader.Event) {
		p.Send(EventMsg(e))
	}
}

type tableProgress struct {
	name    string
	written int
	total   int
	done    bool
}

// Progress is the Bubble Tea model for a load run. It quits by itself when
// the load finishes.
type Progress struct {
	theme *Theme
	keys  KeyMap
	width int

	tables []*tableProgress
	byName map[string]*tableProgress

	totalRows int
	rows      int
	finished  bool
	aborted   bool
	err       error
}

// NewProgress creates a progress model for a load of totalRows rows.
func NewProgress(theme *Theme, totalRows int) *Progress {
	return &Progress{
		theme:     theme,
		keys:      DefaultKeyMap(),
		width:     MaxContentWidth,
		byName:    make(map[string]*tableProgress),
		totalRows: totalRows,
	}
}

// Init implements tea.Model.
func (p *Progress) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.keys.Quit.Matches(msg) && !p.finished {
			p.aborted = true
			return p, tea.Quit
		}
		return p, nil

	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case TableStartedMsg:
		t := p.table(msg.Table)
		t.total = msg.Total
		return p, nil

	case RowsWrittenMsg:
		t := p.table(msg.Table)
		p.rows += msg.Written - t.written
		t.written = msg.Written
		t.total = msg.Total
		return p, nil

	case TableDoneMsg:
		t := p.table(msg.Table)
		p.rows += msg.Written - t.written
		t.written = msg.Written
		t.total = msg.Written
		t.done = true
		return p, nil

	case LoadFinishedMsg:
		p.finished = true
		p.rows = msg.Rows
		p.err = msg.Err
		return p, tea.Quit
	}

	return p, nil
}

func (p *Progress) table(name string) *tableProgress {
	if t, ok := p.byName[name]; ok {
		return t
	}
	t := &tableProgress{name: name}
	p.tables = append(p.tables, t)
	p.byName[name] = t
	return t
}

// View implements tea.Model.
func (p *Progress) View() string {
	width := ContentWidth(p.width, 40, MaxContentWidth)
	barWidth := width - nameWidth - countWidth - 4

	var b strings.Builder
	b.WriteString(p.theme.Header.Render("SCHOOLSYNTH LOAD"))
	b.WriteString("\n\n")

	for _, t := range p.tables {
		name := p.theme.Label.Render(PadRight(Truncate(t.name, nameWidth), nameWidth))
		bar := p.theme.ProgressBar(t.written, t.total, barWidth)
		count := p.theme.Value.Render(PadLeft(fmt.Sprintf("%d/%d", t.written, t.total), countWidth))
		b.WriteString(" " + name + " " + bar + " " + count + "\n")
	}

	b.WriteString("\n")
	b.WriteString(p.theme.Footer.Render(fmt.Sprintf("rows %d/%d", p.rows, p.totalRows)))
	b.WriteString("\n")

	switch {
	case p.finished && p.err != nil:
		b.WriteString(p.theme.Alert.Render(" LOAD FAILED: " + p.err.Error()))
	case p.finished:
		b.WriteString(p.theme.Success.Render(" LOAD COMPLETE"))
	case p.aborted:
		b.WriteString(p.theme.Alert.Render(" LOAD ABORTED"))
	default:
		b.WriteString(p.theme.Muted.Render(" " + p.keys.StatusBarHelp()))
	}
	b.WriteString("\n")

	return b.String()
}

// Rows returns the number of rows reported written.
func (p *Progress) Rows() int {
	return p.rows
}

// Err returns the error the load finished with, if any.
func (p *Progress) Err() error {
	return p.err
}

// Finished reports whether the load sent its final event.
func (p *Progress) Finished() bool {
	return p.finished
}

// Aborted reports whether the user quit before the load finished.
func (p *Progress) Aborted() bool {
	return p.aborted
}
