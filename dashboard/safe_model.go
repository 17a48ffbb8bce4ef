package dashboard

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"sales-dashboard/utils"
)

// safeModel keeps a panic in one update from tearing down the terminal.
type safeModel struct {
	m   model
	log *utils.Logger
}

func wrapSafe(m model, log *utils.Logger) safeModel {
	if log == nil {
		log = utils.Discard()
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("[dashboard] panic in update: %s\n%s", fmt.Sprint(r), debug.Stack())
			s.m.status = "Unexpected error (see logs)"
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.m.Update(msg)

	if mm, ok := inner.(model); ok {
		s.m = mm
	} else if sm, ok := inner.(safeModel); ok {
		s = sm
	}

	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("[dashboard] panic in view: %s\n%s", fmt.Sprint(r), debug.Stack())
			out = "Unexpected error (see logs)"
		}
	}()
	return s.m.View()
}

var _ tea.Model = (*safeModel)(nil)
