package tui

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schoolsynth/schoolsynth/internal/config"
	"github.com/schoolsynth/schoolsynth/internal/loader"
)

func newTestProgress(t *testing.T, total int) *Progress {
	t.Helper()
	return NewProgress(NewTheme(config.ColorSchemeGreenPhosphor), total)
}

// send applies msgs in order and returns the command from the last one.
func send(p *Progress, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = p.Update(m)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestEventMsg(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		event loader.Event
		want  tea.Msg
	}{
		{loader.Event{Kind: loader.TableStarted, Table: "students", Total: 30}, TableStartedMsg{Table: "students", Total: 30}},
		{loader.Event{Kind: loader.RowsWritten, Table: "students", Written: 10, Total: 30}, RowsWrittenMsg{Table: "students", Written: 10, Total: 30}},
		{loader.Event{Kind: loader.TableDone, Table: "students", Written: 30, Total: 30}, TableDoneMsg{Table: "students", Written: 30}},
		{loader.Event{Kind: loader.Finished, Written: 30, Total: 40, Err: boom}, LoadFinishedMsg{Rows: 30, Err: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.event.Kind.String(), func(t *testing.T) {
			if got := EventMsg(tt.event); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EventMsg() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestProgress_TracksRows(t *testing.T) {
	p := newTestProgress(t, 350)

	cmd := send(p,
		TableStartedMsg{Table: "subjects", Total: 24},
		TableDoneMsg{Table: "subjects", Written: 24},
		TableStartedMsg{Table: "assessments", Total: 326},
		RowsWrittenMsg{Table: "assessments", Written: 100, Total: 326},
		RowsWrittenMsg{Table: "assessments", Written: 200, Total: 326},
	)
	if cmd != nil {
		t.Error("expected no command while loading")
	}
	if p.Rows() != 224 {
		t.Errorf("Rows() = %d, want 224", p.Rows())
	}

	view := p.View()
	for _, want := range []string{"SCHOOLSYNTH LOAD", "subjects", "24/24", "assessments", "200/326", "rows 224/350", "q abort"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	if strings.Index(view, "subjects") > strings.Index(view, "assessments") {
		t.Error("tables not listed in the order they started")
	}
}

func TestProgress_FinishQuits(t *testing.T) {
	tests := []struct {
		name     string
		msg      LoadFinishedMsg
		wantText string
	}{
		{"success", LoadFinishedMsg{Rows: 10}, "LOAD COMPLETE"},
		{"failure", LoadFinishedMsg{Rows: 4, Err: errors.New("connection refused")}, "LOAD FAILED: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProgress(t, 10)
			cmd := send(p, TableStartedMsg{Table: "terms", Total: 10}, tt.msg)

			if !isQuit(cmd) {
				t.Error("expected quit command after LoadFinishedMsg")
			}
			if !p.Finished() || p.Rows() != tt.msg.Rows || !errors.Is(p.Err(), tt.msg.Err) {
				t.Errorf("state = finished %v rows %d err %v", p.Finished(), p.Rows(), p.Err())
			}
			if !strings.Contains(p.View(), tt.wantText) {
				t.Errorf("view missing %q:\n%s", tt.wantText, p.View())
			}
		})
	}
}

func TestProgress_QuitKeyAborts(t *testing.T) {
	p := newTestProgress(t, 10)

	if cmd := send(p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Error("unbound key should not produce a command")
	}

	cmd := send(p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) || !p.Aborted() {
		t.Fatalf("q did not abort: aborted=%v", p.Aborted())
	}
	if !strings.Contains(p.View(), "LOAD ABORTED") {
		t.Errorf("view missing abort notice:\n%s", p.View())
	}
}

func TestProgress_QuitKeyIgnoredAfterFinish(t *testing.T) {
	p := newTestProgress(t, 0)
	send(p, LoadFinishedMsg{})

	send(p, tea.KeyMsg{Type: tea.KeyCtrlC})
	if p.Aborted() {
		t.Error("finished load reported as aborted")
	}
}

func TestProgress_NarrowWindow(t *testing.T) {
	p := newTestProgress(t, 5)
	send(p,
		tea.WindowSizeMsg{Width: 20, Height: 10},
		TableStartedMsg{Table: "time_allocations", Total: 5},
	)

	for _, line := range strings.Split(p.View(), "\n") {
		if strings.Contains(line, "time_allocations") && !strings.Contains(line, "0/5") {
			t.Errorf("row lost its count at narrow width: %q", line)
		}
	}
}
