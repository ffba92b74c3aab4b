package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/png2svg/pkg/pipeline"
)

// progressBarWidth is the width of the bar in cells.
const progressBarWidth = 32

// recentFiles is how many finished files stay on screen.
const recentFiles = 5

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Messages
// =============================================================================

// fileDoneMsg reports one finished file.
type fileDoneMsg struct {
	res pipeline.FileResult
}

// batchDoneMsg reports that every file has been handled.
type batchDoneMsg struct{}

// =============================================================================
// BatchModel - live batch progress
// =============================================================================

// BatchModel is the bubbletea model for the convert --progress view.
type BatchModel struct {
	Total    int
	Done     int
	Failed   int
	Cached   int
	Regions  int
	Recent   []pipeline.FileResult
	Aborted  bool
	Finished bool

	cancel func()
}

// NewBatchModel creates a progress model for total files. cancel is called
// when the user aborts.
func NewBatchModel(total int, cancel func()) BatchModel {
	return BatchModel{Total: total, cancel: cancel}
}

func newProgressProgram(total int, cancel func()) *tea.Program {
	return tea.NewProgram(NewBatchModel(total, cancel))
}

func (m BatchModel) Init() tea.Cmd {
	return nil
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case fileDoneMsg:
		m.Done++
		if msg.res.Err != nil {
			m.Failed++
		} else {
			m.Regions += msg.res.Stats.Regions
			if msg.res.CacheHit {
				m.Cached++
			}
		}
		m.Recent = append(m.Recent, msg.res)
		if len(m.Recent) > recentFiles {
			m.Recent = m.Recent[len(m.Recent)-recentFiles:]
		}
	case batchDoneMsg:
		m.Finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m BatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Converting"))
	b.WriteString(" ")
	b.WriteString(renderBar(m.Done, m.Total, progressBarWidth))
	b.WriteString(fmt.Sprintf(" %d/%d\n", m.Done, m.Total))

	for _, res := range m.Recent {
		icon := styleIconSuccess.Render(iconSuccess)
		if res.Err != nil {
			icon = styleIconError.Render(iconError)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", icon, StyleDim.Render(filepath.Base(res.Input))))
	}

	stats := fmt.Sprintf("%d regions · %d cached · %d failed", m.Regions, m.Cached, m.Failed)
	b.WriteString(StyleDim.Render(stats))
	b.WriteString("\n")
	if !m.Finished && !m.Aborted {
		b.WriteString(StyleDim.Render("q to abort"))
		b.WriteString("\n")
	}
	return b.String()
}

// renderBar draws a done/total bar width cells wide.
func renderBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}
