package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/dispatch"
	"github.com/grovetools/palette/pkg/fuzzy"
	"github.com/grovetools/palette/pkg/keymap"
	"github.com/grovetools/palette/pkg/resolver"
)

// activateMsg is sent when the activation chord fires.
type activateMsg struct{}

// dispatchedMsg reports the outcome of running a selected action.
type dispatchedMsg struct {
	action resolver.UnitAction
	err    error
}

// registryMsg is sent after the definitions were rebuilt.
type registryMsg struct {
	apps int
	err  error
}

// paletteOptions configures a paletteModel.
type paletteOptions struct {
	Scorer     fuzzy.Scorer
	MaxResults int
	// Actions returns the actions for the current context. It is called
	// every time the palette opens.
	Actions func() []resolver.UnitAction
	// Dispatch runs an action's effect.
	Dispatch func(context.Context, resolver.UnitAction) error
	// Resident palettes hide on dismiss and reopen on activateMsg instead of
	// quitting.
	Resident   bool
	Activation string
}

// paletteModel is the terminal palette: a query line above at most
// MaxResults ranked actions.
type paletteModel struct {
	opts  paletteOptions
	keys  keymap.PaletteKeyMap
	input textinput.Model
	help  help.Model

	actions []resolver.UnitAction
	results []fuzzy.Ranked[resolver.UnitAction]
	cursor  int
	hidden  bool

	status    string
	statusErr bool
	width     int
}

func newPaletteModel(opts paletteOptions) paletteModel {
	if opts.Scorer == nil {
		opts.Scorer = fuzzy.Subsequence
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 8
	}

	ti := textinput.New()
	ti.Placeholder = "Type to search actions..."
	ti.Prompt = "> "
	ti.Focus()

	m := paletteModel{
		opts:   opts,
		keys:   keymap.NewPaletteKeyMap(),
		input:  ti,
		help:   help.New(),
		hidden: opts.Resident,
	}
	if !m.hidden {
		m = m.open()
	}
	return m
}

// runPaletteTUI opens the palette once for the context given by the root
// command's window flags.
func runPaletteTUI(cmd *cobra.Command) error {
	if !stdoutIsTerminal() {
		return errors.New("the palette needs a terminal; use 'palette search' for scripted queries")
	}

	ctx := cmd.Context()
	reg := buildRegistry()
	dispatcher := dispatch.New(nil)

	m := newPaletteModel(paletteOptions{
		Scorer:     appConfig.ScorerImpl(),
		MaxResults: appConfig.MaxResults,
		Actions: func() []resolver.UnitAction {
			root, err := windowContext(ctx, rootWindows)
			if err != nil {
				return nil
			}
			return resolver.Resolve(reg, root)
		},
		Dispatch: dispatcher.Dispatch,
	})

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(paletteModel); ok && fm.status != "" {
		fmt.Fprintln(cmd.OutOrStdout(), fm.status)
	}
	return nil
}

// open resets the query and loads the actions for the current context.
func (m paletteModel) open() paletteModel {
	m.hidden = false
	m.input.Reset()
	m.input.Focus()
	m.actions = nil
	if m.opts.Actions != nil {
		m.actions = m.opts.Actions()
	}
	return m.rerank()
}

func (m paletteModel) rerank() paletteModel {
	m.results = rankActions(m.opts.Scorer, m.input.Value(), m.actions, m.opts.MaxResults)
	if m.cursor >= len(m.results) {
		m.cursor = max(len(m.results)-1, 0)
	}
	return m
}

func (m paletteModel) dispatch(a resolver.UnitAction) tea.Cmd {
	run := m.opts.Dispatch
	return func() tea.Msg {
		if run == nil {
			return dispatchedMsg{action: a, err: dispatch.ErrNoInjector}
		}
		return dispatchedMsg{action: a, err: run(context.Background(), a)}
	}
}

func (m paletteModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m paletteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case activateMsg:
		m.cursor = 0
		m.status = ""
		return m.open(), textinput.Blink

	case registryMsg:
		if msg.err != nil {
			m.status, m.statusErr = fmt.Sprintf("reload failed: %v", msg.err), true
		} else {
			m.status, m.statusErr = fmt.Sprintf("definitions reloaded (%d applications)", msg.apps), false
		}
		return m, nil

	case dispatchedMsg:
		m.status, m.statusErr = describeDispatch(msg), msg.err != nil && !errors.Is(msg.err, dispatch.ErrNoInjector)
		if !m.opts.Resident {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.hidden {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Dismiss):
			if !m.opts.Resident {
				return m, tea.Quit
			}
			m.hidden = true
			m.input.Blur()
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.input.SetValue("")
			m.cursor = 0
			return m.rerank(), nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if len(m.results) == 0 {
				return m, nil
			}
			selected := m.results[m.cursor].Item
			if m.opts.Resident {
				m.hidden = true
				m.input.Blur()
			}
			return m, m.dispatch(selected)
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor = 0
		m = m.rerank()
	}
	return m, cmd
}

// describeDispatch renders a dispatch outcome for the status line. Chord
// effects without an injector tell the user which chord to press.
func describeDispatch(msg dispatchedMsg) string {
	label := msg.action.Label()
	switch {
	case errors.Is(msg.err, dispatch.ErrNoInjector):
		return fmt.Sprintf("%s: press %s", label, msg.action.Chord)
	case msg.err != nil:
		return fmt.Sprintf("%s: %v", label, msg.err)
	}
	return fmt.Sprintf("%s %s", iconSuccess, label)
}

func (m paletteModel) View() string {
	if m.hidden {
		var b strings.Builder
		b.WriteString(faintStyle.Render(fmt.Sprintf("Palette hidden. Press %s to open, ctrl+c to quit.", m.opts.Activation)))
		if m.status != "" {
			b.WriteString("\n" + m.statusLine())
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.results) == 0 {
		b.WriteString(faintStyle.Render("  no matching actions"))
		b.WriteString("\n")
	}
	for i, r := range m.results {
		label := highlightMatches(r.Item.Label(), r.Match.Positions, matchStyle)
		chord := chordStyle.Render(r.Item.Chord.String())
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ ") + label + "  " + chord)
		} else {
			b.WriteString("  " + label + "  " + chord)
		}
		b.WriteString("\n")
	}

	out := paletteStyle.Render(strings.TrimRight(b.String(), "\n"))
	if m.status != "" {
		out += "\n" + m.statusLine()
	}
	return out + "\n" + m.help.View(m.keys) + "\n"
}

func (m paletteModel) statusLine() string {
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return faintStyle.Render(m.status)
}
