// Package tui renders the game in the terminal. It drives the
// adventure exclusively through its public operations and never touches
// player state directly.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"hashquest/internal/adventure"
	"hashquest/internal/content"
	"hashquest/internal/cracker"
	"hashquest/internal/narrator"
	"hashquest/internal/save"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateGameOver
	stateComplete
)

// Deps is everything the TUI needs wired in. Narrator and Worker may
// be nil; the related commands just report themselves unavailable.
type Deps struct {
	Adventure *adventure.Adventure
	Store     *save.Store
	Worker    *cracker.Worker
	Narrator  *narrator.Narrator
	Wordlist  string
	Log       zerolog.Logger
}

type model struct {
	state sessionState
	deps  Deps

	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	width     int
	height    int

	options    []adventure.RecoveryOption
	crackToken string
	notes      *[]string
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	unlockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)
)

// NewModel builds the initial TUI model and wires event notes so that
// checkpoint and chapter events show up in the narrative log.
func NewModel(deps Deps) model {
	ti := textinput.New()
	ti.Placeholder = "Your answer..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	notes := &[]string{}
	deps.Adventure.Events().Subscribe(adventure.EventCheckpointReached, func(p adventure.Payload) {
		*notes = append(*notes, "A waystone flares to life. Checkpoint reached.")
	})
	deps.Adventure.Events().Subscribe(adventure.EventChapterCompleted, func(p adventure.Payload) {
		*notes = append(*notes, "Chapter complete.")
	})

	m := model{
		state:     statePlaying,
		deps:      deps,
		textInput: ti,
		notes:     notes,
	}
	m.gameLog = m.renderEncounterIntro()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type narrationMsg struct{ text string }

type crackTickMsg struct{}

func crackTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return crackTickMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.saveQuietly()
			return m, tea.Quit

		case tea.KeyEnter:
			return m.handleEnter()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logWidth := int(float64(msg.Width) * 0.72)
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(logWidth, msg.Height-6)
		} else {
			m.viewport.Width = logWidth
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.gameLog)
		m.viewport.GotoBottom()

	case narrationMsg:
		if msg.text != "" {
			m.appendLog(helpStyle.Render(msg.text))
		}
		return m, nil

	case crackTickMsg:
		if m.crackToken == "" {
			return m, nil
		}
		res := m.deps.Worker.Poll(m.crackToken)
		if res == nil {
			return m, crackTick()
		}
		m.crackToken = ""
		switch {
		case res.Err != nil:
			m.appendLog(helpStyle.Render("Your familiar returns empty-handed (the ritual failed)."))
			m.deps.Log.Warn().Err(res.Err).Msg("crack attempt failed")
		case res.Found:
			m.appendLog(unlockStyle.Render(fmt.Sprintf("Your familiar whispers the answer: %q", res.Plaintext)))
		default:
			m.appendLog(helpStyle.Render("Your familiar searched every tome and found nothing."))
		}
		return m, nil
	}

	if m.state == statePlaying || m.state == stateGameOver {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())
	m.textInput.Reset()

	switch m.state {
	case stateGameOver:
		return m.handleRecovery(input)
	case statePlaying:
		return m.handleTurn(input)
	case stateComplete:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleTurn(input string) (tea.Model, tea.Cmd) {
	if input == "" {
		return m, nil
	}
	adv := m.deps.Adventure
	enc := adv.CurrentEncounter()

	switch input {
	case "/quit":
		m.saveQuietly()
		return m, tea.Quit
	case "/save":
		if err := m.deps.Store.Save(adv.State()); err != nil {
			m.appendLog(dangerStyle.Render("Saving failed; the journey continues unrecorded."))
			m.deps.Log.Error().Err(err).Msg("save failed")
		} else {
			m.appendLog(helpStyle.Render("Progress saved."))
		}
		return m, nil
	case "/skip":
		res := adv.RecordOutcome(adventure.Skip)
		return m.applyResult(res, enc)
	case "/hint":
		hint := adv.UseHint()
		if hint == "" {
			m.appendLog(helpStyle.Render("No hint is written for this trial."))
		} else {
			m.appendLog(helpStyle.Render("Hint: " + hint))
		}
		return m, nil
	case "/crack":
		return m.startCrack(enc)
	case "/progress":
		m.appendLog(m.renderProgressLine())
		return m, nil
	case "/achievements":
		m.appendLog(m.renderAchievements())
		return m, nil
	}

	m.appendLog(userStyle.Render("> " + input))

	if enc.IsFork() {
		return m.handleFork(input, enc)
	}

	if adv.ValidateAnswer(input) {
		res := adv.RecordOutcome(adventure.Success)
		return m.applyResult(res, enc)
	}
	res := adv.RecordOutcome(adventure.Failure)
	return m.applyResult(res, enc)
}

func (m model) handleFork(input string, enc *content.Encounter) (tea.Model, tea.Cmd) {
	choiceID := input
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(enc.Choices) {
		choiceID = enc.Choices[n-1].ID
	}
	res := m.deps.Adventure.MakeChoice(choiceID)
	return m.applyResult(res, enc)
}

func (m model) handleRecovery(input string) (tea.Model, tea.Cmd) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(m.options) {
		m.appendLog(helpStyle.Render("Pick one of the numbered paths."))
		return m, nil
	}

	adv := m.deps.Adventure
	var res adventure.Result
	switch m.options[n-1] {
	case adventure.OptionRetryCheckpoint:
		res = adv.RetryFromCheckpoint()
	case adventure.OptionRetryFork:
		res = adv.RetryFromFork()
	case adventure.OptionStartOver:
		res = adv.StartOver()
	case adventure.OptionLeave:
		m.saveQuietly()
		return m, tea.Quit
	}

	if res.Action == adventure.ActionError {
		m.appendLog(dangerStyle.Render(res.ErrorMessage))
		return m, nil
	}
	m.state = statePlaying
	m.options = nil
	m.textInput.Placeholder = "Your answer..."
	m.appendLog(m.renderEncounterIntro())
	m.saveQuietly()
	return m, nil
}

func (m model) startCrack(enc *content.Encounter) (tea.Model, tea.Cmd) {
	if m.deps.Worker == nil || m.deps.Wordlist == "" {
		m.appendLog(helpStyle.Render("No familiar is bound to you (no wordlist configured)."))
		return m, nil
	}
	if enc.Hash == "" {
		m.appendLog(helpStyle.Render("There is no sealed rune here to crack."))
		return m, nil
	}
	if m.crackToken != "" {
		m.appendLog(helpStyle.Render("Your familiar is already searching."))
		return m, nil
	}
	m.crackToken = m.deps.Worker.Start(enc.Hash, enc.Algo, m.deps.Wordlist, 30*time.Second)
	m.appendLog(helpStyle.Render("Your familiar slips away to search the old tomes..."))
	return m, crackTick()
}

// applyResult folds a transition result into the view: narrative,
// unlock toasts, event notes, recovery menus, completion screens.
func (m model) applyResult(res adventure.Result, enc *content.Encounter) (tea.Model, tea.Cmd) {
	if res.Action == adventure.ActionError {
		m.appendLog(dangerStyle.Render(res.ErrorMessage))
		return m, nil
	}

	if res.Narrative != "" {
		m.appendLog(gameStyle.Render(res.Narrative))
	}
	if res.XP > 0 {
		m.appendLog(helpStyle.Render(fmt.Sprintf("+%d XP", res.XP)))
	}
	for _, ach := range res.Unlocked {
		m.appendLog(unlockStyle.Render(fmt.Sprintf("Achievement unlocked: %s — %s", ach.Title, ach.Description)))
	}
	m.drainNotes()

	var cmds []tea.Cmd
	if m.deps.Narrator != nil {
		succeeded := res.Action != adventure.ActionGameOver
		cmds = append(cmds, m.narrate(enc, succeeded))
	}

	switch res.Action {
	case adventure.ActionGameOver:
		m.state = stateGameOver
		m.options = res.Options
		m.textInput.Placeholder = "Choose a path (number)..."
		m.appendLog(dangerStyle.Render("You have fallen.") + "\n" + m.renderOptions())
	case adventure.ActionCampaignComplete:
		m.state = stateComplete
		if err := m.deps.Store.Delete(m.deps.Adventure.State().CampaignID, m.deps.Adventure.State().Player); err != nil {
			m.deps.Log.Warn().Err(err).Msg("removing finished save failed")
		}
		m.appendLog(titleStyle.Render("THE CAMPAIGN IS COMPLETE"))
	default:
		m.appendLog(m.renderEncounterIntro())
		m.saveQuietly()
	}

	return m, tea.Batch(cmds...)
}

func (m *model) drainNotes() {
	for _, note := range *m.notes {
		m.appendLog(helpStyle.Render(note))
	}
	*m.notes = (*m.notes)[:0]
}

func (m *model) saveQuietly() {
	if m.state == stateComplete {
		return
	}
	if err := m.deps.Store.Save(m.deps.Adventure.State()); err != nil {
		m.deps.Log.Error().Err(err).Msg("autosave failed")
	}
}

func (m *model) appendLog(s string) {
	m.gameLog += "\n\n" + s
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) narrate(enc *content.Encounter, succeeded bool) tea.Cmd {
	return func() tea.Msg {
		text, err := m.deps.Narrator.NarrateOutcome(context.Background(), enc, succeeded)
		if err != nil {
			m.deps.Log.Warn().Err(err).Msg("narration failed")
			return narrationMsg{}
		}
		return narrationMsg{text: text}
	}
}

func (m model) renderEncounterIntro() string {
	enc := m.deps.Adventure.CurrentEncounter()
	ch := m.deps.Adventure.CurrentChapter()

	s := titleStyle.Render(fmt.Sprintf("%s — %s", ch.Title, enc.Title)) + "\n\n"
	s += gameStyle.Render(enc.Intro) + "\n\n"
	s += gameStyle.Bold(true).Render("Objective: ") + gameStyle.Render(enc.Objective)
	if enc.IsFork() {
		s += "\n"
		for i, opt := range enc.Choices {
			s += fmt.Sprintf("\n  %d. %s", i+1, opt.Label)
		}
	}
	return s
}

func (m model) renderOptions() string {
	labels := map[adventure.RecoveryOption]string{
		adventure.OptionRetryCheckpoint: "Return to the last waystone (checkpoint)",
		adventure.OptionRetryFork:       "Return to the last crossroads (fork)",
		adventure.OptionStartOver:       "Start the chapter over",
		adventure.OptionLeave:           "Leave the dungeon (quit)",
	}
	var s string
	for i, opt := range m.options {
		s += fmt.Sprintf("\n  %d. %s", i+1, labels[opt])
	}
	return s
}

func (m model) renderProgressLine() string {
	p := m.deps.Adventure.Progress()
	return helpStyle.Render(fmt.Sprintf(
		"Progress: %d/%d encounters · %d XP this run · %d XP lifetime · %d deaths · %d achievements",
		p.Completed, p.Total, p.SessionXP, p.TotalXP, p.Deaths, p.Achievements))
}

func (m model) renderAchievements() string {
	adv := m.deps.Adventure
	earned := map[string]bool{}
	for _, id := range adv.State().Unlocked {
		earned[id] = true
	}

	s := titleStyle.Render("ACHIEVEMENTS")
	for _, a := range adv.Achievements() {
		mark := " "
		if earned[a.ID] {
			mark = "*"
		}
		s += fmt.Sprintf("\n  [%s] %s — %s (%d pts)", mark, a.Title, a.Description, a.Points)
	}
	return s
}

func (m model) renderStatus() string {
	adv := m.deps.Adventure
	p := adv.Progress()
	enc := adv.CurrentEncounter()

	s := titleStyle.Render("QUEST") + "\n"
	s += fmt.Sprintf("%s\nTier %d\n\n", enc.Title, enc.Tier)
	s += titleStyle.Render("PROGRESS") + "\n"
	s += fmt.Sprintf("Encounters: %d/%d\n", p.Completed, p.Total)
	s += fmt.Sprintf("XP: %d (%d lifetime)\n", p.SessionXP, p.TotalXP)
	s += fmt.Sprintf("Deaths: %d\n", p.Deaths)
	s += fmt.Sprintf("Achievements: %d\n", p.Achievements)
	if st := adv.State(); st.LastCheckpoint != "" {
		s += "\n" + titleStyle.Render("WAYSTONE") + "\n" + st.LastCheckpoint + "\n"
	}

	stateWidth := int(float64(m.width) * 0.24)
	return statusStyle.Width(stateWidth).Height(m.viewport.Height).Render(s)
}

func (m model) View() string {
	var s string

	switch m.state {
	case statePlaying, stateGameOver:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderStatus(),
		)
		help := helpStyle.Render("Commands: /hint /crack /skip /save /progress /achievements /quit")
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)

	case stateComplete:
		p := m.deps.Adventure.Progress()
		s = fmt.Sprintf(
			"\n%s\n\nEncounters: %d/%d\nLifetime XP: %d\nAchievements: %d\n\nPress Enter to leave the dungeon.\n",
			titleStyle.Render("Your legend is complete."),
			p.Completed, p.Total, p.TotalXP, p.Achievements,
		)
	}

	return "\n" + s + "\n"
}

// Run starts the TUI over an already-wired game.
func Run(deps Deps) error {
	p := tea.NewProgram(NewModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
