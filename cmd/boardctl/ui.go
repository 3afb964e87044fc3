package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/board"
)

// inputMode says what the text input at the bottom of the screen collects.
type inputMode int

const (
	inputNone inputMode = iota
	inputWorkerID
	inputContractorID
	inputTemplateID
	inputColumnLabel
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(24)

	columnTitleStyle = lipgloss.NewStyle().Bold(true)

	selectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	draggingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	statusBarStyle = lipgloss.NewStyle().Faint(true)

	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type snapshotMsg struct {
	snapshot board.Snapshot
	err      error
}

type mutationDoneMsg struct {
	err error
}

// App is the bubbletea model for the board client. All screen state lives
// here; the protocol state lives in the wrapped board.Board.
type App struct {
	client *Client
	board  *board.Board

	columns   []domain.ColumnKey
	colCursor int
	rowCursor int

	input     textinput.Model
	inputMode inputMode

	loading bool
	lastErr string
}

func NewApp(client *Client) *App {
	input := textinput.New()
	input.CharLimit = 64
	input.Width = 40

	return &App{
		client:  client,
		board:   board.New(board.Snapshot{}),
		columns: domain.ColumnKeys(),
		input:   input,
		loading: true,
	}
}

func (a *App) Init() tea.Cmd {
	return a.fetchSnapshot()
}

func (a *App) fetchSnapshot() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		snapshot, err := a.client.FetchSnapshot(ctx)
		return snapshotMsg{snapshot: snapshot, err: err}
	}
}

// applyIntents issues the reducer's mutations and then refetches. Failures
// are reported but never rolled back locally; the refetch reconciles the
// board to whatever the server actually holds.
func (a *App) applyIntents(intents []board.Intent) tea.Cmd {
	if len(intents) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, intent := range intents {
			if err := a.client.Apply(ctx, intent); err != nil {
				return mutationDoneMsg{err: err}
			}
		}
		return mutationDoneMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		a.loading = false
		if msg.err != nil {
			a.lastErr = msg.err.Error()
			return a, nil
		}
		a.lastErr = ""
		a.board.Reconcile(msg.snapshot)
		a.clampCursor()
		return a, nil

	case mutationDoneMsg:
		if msg.err != nil {
			a.lastErr = msg.err.Error()
		}
		// Refetch either way; the overlay is discarded on reconcile.
		return a, a.fetchSnapshot()

	case tea.KeyMsg:
		if a.inputMode != inputNone {
			return a.updateInput(msg)
		}
		return a.updateBoard(msg)
	}

	return a, nil
}

func (a *App) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "left", "h":
		if a.colCursor > 0 {
			a.colCursor--
			a.clampCursor()
		}

	case "right", "l":
		if a.colCursor < len(a.columns)-1 {
			a.colCursor++
			a.clampCursor()
		}

	case "up", "k":
		if a.rowCursor > 0 {
			a.rowCursor--
		}

	case "down", "j":
		if a.rowCursor < len(a.selectedColumnCards())-1 {
			a.rowCursor++
		}

	case " ", "enter":
		return a.pickUpOrDrop()

	case "esc":
		a.board.Handle(board.CancelDrag{})

	case "w":
		return a.beginInput(inputWorkerID, "worker id")

	case "c":
		return a.beginInput(inputContractorID, "contractor id")

	case "t":
		return a.beginInput(inputTemplateID, "checklist template id")

	case "e":
		intents := a.board.Handle(board.BeginColumnEdit{Column: a.columns[a.colCursor]})
		if a.board.State().Phase == board.PhaseEditingColumn {
			cmd := a.beginInputCmd(inputColumnLabel, "new column label")
			return a, cmd
		}
		return a, a.applyIntents(intents)

	case "r":
		a.loading = true
		return a, a.fetchSnapshot()
	}

	return a, nil
}

// pickUpOrDrop toggles between picking up the selected card and dropping
// whatever is held onto the selected column or card.
func (a *App) pickUpOrDrop() (tea.Model, tea.Cmd) {
	state := a.board.State()

	if state.Phase == board.PhaseIdle {
		cards := a.selectedColumnCards()
		if a.rowCursor < len(cards) {
			a.board.Handle(board.PickUpCard{JobID: cards[a.rowCursor].JobID})
		}
		return a, nil
	}

	if state.Phase != board.PhaseDragging {
		return a, nil
	}

	var intents []board.Intent
	if state.Drag.Kind == board.DragCard {
		intents = a.board.Handle(board.DropOnColumn{Column: a.columns[a.colCursor]})
	} else {
		cards := a.selectedColumnCards()
		if a.rowCursor >= len(cards) {
			a.board.Handle(board.CancelDrag{})
			return a, nil
		}
		intents = a.board.Handle(board.DropOnCard{JobID: cards[a.rowCursor].JobID})
	}

	return a, a.applyIntents(intents)
}

func (a *App) beginInput(mode inputMode, placeholder string) (tea.Model, tea.Cmd) {
	return a, a.beginInputCmd(mode, placeholder)
}

func (a *App) beginInputCmd(mode inputMode, placeholder string) tea.Cmd {
	a.inputMode = mode
	a.input.Placeholder = placeholder
	a.input.SetValue("")
	a.input.Focus()
	return textinput.Blink
}

func (a *App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		mode := a.inputMode
		a.inputMode = inputNone
		a.input.Blur()
		if mode == inputColumnLabel {
			a.board.Handle(board.CancelColumnEdit{})
		}
		return a, nil

	case "enter":
		value := strings.TrimSpace(a.input.Value())
		mode := a.inputMode
		a.inputMode = inputNone
		a.input.Blur()
		return a.commitInput(mode, value)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) commitInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	switch mode {
	case inputColumnLabel:
		intents := a.board.Handle(board.CommitColumnLabel{Label: value})
		return a, a.applyIntents(intents)

	case inputWorkerID:
		if value != "" {
			a.board.Handle(board.PickUpWorker{WorkerID: value})
		}
	case inputContractorID:
		if value != "" {
			a.board.Handle(board.PickUpContractor{ContractorID: value})
		}
	case inputTemplateID:
		if value != "" {
			a.board.Handle(board.PickUpChecklist{TemplateID: value})
		}
	}
	return a, nil
}

func (a *App) selectedColumnCards() []board.Card {
	return a.board.View()[a.columns[a.colCursor]]
}

func (a *App) clampCursor() {
	cards := a.selectedColumnCards()
	if a.rowCursor >= len(cards) {
		a.rowCursor = len(cards) - 1
	}
	if a.rowCursor < 0 {
		a.rowCursor = 0
	}
}

func (a *App) View() string {
	if a.loading {
		return "Loading board...\n"
	}

	view := a.board.View()
	snapshot := a.board.Snapshot()

	rendered := make([]string, 0, len(a.columns))
	for ci, key := range a.columns {
		var b strings.Builder
		title := snapshot.Label(key)
		if ci == a.colCursor {
			title = "» " + title
		}
		b.WriteString(columnTitleStyle.Render(title))
		b.WriteString("\n\n")

		for ri, card := range view[key] {
			line := card.Title
			if len(card.Assignments) > 0 {
				line += fmt.Sprintf(" (%d)", len(card.Assignments))
			}
			if ci == a.colCursor && ri == a.rowCursor {
				line = selectedCardStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

		rendered = append(rendered, columnStyle.Render(b.String()))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	out += "\n" + a.statusBar()

	if a.inputMode != inputNone {
		out += "\n" + a.input.View()
	}
	if a.lastErr != "" {
		out += "\n" + errStyle.Render("error: "+a.lastErr)
	}

	return out
}

func (a *App) statusBar() string {
	state := a.board.State()

	var status string
	switch state.Phase {
	case board.PhaseDragging:
		status = draggingStyle.Render(fmt.Sprintf("holding %s %s (space drops, esc cancels)", state.Drag.Kind, state.Drag.ID))
	case board.PhaseEditingColumn:
		status = fmt.Sprintf("renaming column %s", state.EditingColumn)
	default:
		status = "space: pick up/drop · w/c/t: drag resource · e: rename column · r: refresh · q: quit"
	}

	return statusBarStyle.Render(status)
}
