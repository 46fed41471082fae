// Package ui is a Bubbletea terminal client for one Karata room:
// create a room, toggle ready and start the game from the lobby (the
// lobby has no join action), then watch the pile and your hand
// update live and respond to turn/card-request/last-card prompts.
package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sixpeteunder/Karata/internal/karata"
	"github.com/sixpeteunder/Karata/pkg/client"
	"github.com/sixpeteunder/Karata/pkg/rpc/karatarpc"
)

type screenState int

const (
	stateLobby screenState = iota
	stateGame
)

// promptKind names the inline prompt, if any, currently awaiting a
// reply from the local player.
type promptKind int

const (
	promptNone promptKind = iota
	promptCard
	promptLastCard
)

// Model is the Bubbletea model driving one Karata session.
type Model struct {
	ctx context.Context
	c   *client.Client

	state  screenState
	roomID string
	err    error

	ready         bool
	started       bool
	hand          []karata.Card
	opponentHands map[string]uint
	selected      map[int]bool
	pileTop       string
	turn          int
	messages      []string
	prompt        promptKind
	promptMsg     string
	input         string
}

// New creates the initial lobby-screen model for c.
func New(ctx context.Context, c *client.Client) Model {
	return Model{
		ctx:           ctx,
		c:             c,
		state:         stateLobby,
		selected:      make(map[int]bool),
		opponentHands: make(map[string]uint),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// eventMsg wraps one received karatarpc.GameEvent for Bubbletea's Update.
type eventMsg *karatarpc.GameEvent

type errMsg error

func waitForEvent(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-c.Events:
			return eventMsg(ev)
		case err := <-c.Errors:
			return errMsg(err)
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case eventMsg:
		m.applyEvent(msg)
		return m, waitForEvent(m.c)
	case errMsg:
		m.err = msg
		return m, nil
	}
	return m, nil
}

func (m *Model) applyEvent(ev *karatarpc.GameEvent) {
	switch karata.EventType(ev.Type) {
	case karata.EventAddCardRangeToHand:
		var cards []karata.Card
		if json.Unmarshal(ev.Payload, &cards) == nil {
			m.hand = append(m.hand, cards...)
		}
	case karata.EventRemoveCardRangeFromHand:
		var cards []karata.Card
		if json.Unmarshal(ev.Payload, &cards) == nil {
			m.removeFromHand(cards)
		}
	case karata.EventAddCardsToPlayerHand:
		var p karata.AddCardsToPlayerHandPayload
		if json.Unmarshal(ev.Payload, &p) == nil {
			m.opponentHands[p.PlayerID] += p.Count
		}
	case karata.EventRemoveCardsFromPlayerHand:
		var p karata.RemoveCardsFromPlayerHandPayload
		if json.Unmarshal(ev.Payload, &p) == nil {
			if m.opponentHands[p.PlayerID] > p.Count {
				m.opponentHands[p.PlayerID] -= p.Count
			} else {
				m.opponentHands[p.PlayerID] = 0
			}
		}
	case karata.EventAddCardRangeToPile:
		var cards []karata.Card
		if json.Unmarshal(ev.Payload, &cards) == nil && len(cards) > 0 {
			m.pileTop = cards[len(cards)-1].String()
		}
	case karata.EventUpdateTurn:
		var turn int
		if json.Unmarshal(ev.Payload, &turn) == nil {
			m.turn = turn
		}
	case karata.EventUpdateGameStatus:
		m.started = true
		m.state = stateGame
	case karata.EventPromptCardRequest:
		m.prompt = promptCard
		m.promptMsg = "server is asking you to name a suit or card"
	case karata.EventPromptLastCardRequest:
		m.prompt = promptLastCard
		m.promptMsg = "declare last card? (y/n)"
	case karata.EventSystemMessage:
		var p karata.SystemMessagePayload
		if json.Unmarshal(ev.Payload, &p) == nil {
			m.messages = append(m.messages, fmt.Sprintf("[%s] %s", p.Severity, p.Text))
		}
	case karata.EventEndGame:
		var p karata.EndGamePayload
		if json.Unmarshal(ev.Payload, &p) == nil {
			winner := "no winner"
			if p.Winner != nil {
				winner = *p.Winner + " won"
			}
			m.messages = append(m.messages, fmt.Sprintf("game ended: %s (%s)", p.Reason, winner))
		}
	}
}

func (m *Model) removeFromHand(cards []karata.Card) {
	for _, c := range cards {
		for i, h := range m.hand {
			if h == c {
				m.hand = append(m.hand[:i], m.hand[i+1:]...)
				break
			}
		}
	}
	m.selected = make(map[int]bool)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateLobby:
		return m.handleLobbyKey(msg)
	case stateGame:
		return m.handleGameKey(msg)
	}
	return m, nil
}

func (m Model) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "c":
		id, err := m.c.CreateRoom(m.ctx, 2, 4)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.roomID = id
		if err := m.c.Subscribe(m.ctx); err != nil {
			m.err = err
			return m, nil
		}
		return m, waitForEvent(m.c)
	case "r":
		if err := m.c.SetReady(m.ctx, !m.ready); err != nil {
			m.err = err
			return m, nil
		}
		m.ready = !m.ready
		return m, nil
	case "s":
		if err := m.c.StartGame(m.ctx); err != nil {
			m.err = err
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		var cards []karatarpc.CardMsg
		for i, sel := range m.selected {
			if sel && i < len(m.hand) {
				c := m.hand[i]
				cards = append(cards, karatarpc.CardMsg{Suit: int32(c.Suit), Face: int32(c.Face)})
			}
		}
		if err := m.c.PerformTurn(m.ctx, cards); err != nil {
			m.err = err
			return m, nil
		}
		m.selected = make(map[int]bool)
		return m, nil
	default:
		if idx, err := strconv.Atoi(msg.String()); err == nil && idx >= 0 && idx < len(m.hand) {
			m.selected[idx] = !m.selected[idx]
		}
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input)
		m.input = ""
		switch m.prompt {
		case promptLastCard:
			answer := strings.EqualFold(text, "y") || strings.EqualFold(text, "yes")
			if err := m.c.SetLastCardStatus(m.ctx, answer); err != nil {
				m.err = err
			}
			m.prompt = promptNone
		case promptCard:
			card, ok := parseCard(text)
			if !ok {
				m.messages = append(m.messages, "unrecognized card, try e.g. \"Hearts King\"")
				return m, nil
			}
			if err := m.c.RequestCard(m.ctx, karatarpc.CardMsg{Suit: int32(card.Suit), Face: int32(card.Face)}); err != nil {
				m.err = err
			}
			m.prompt = promptNone
		}
		return m, nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func parseCard(text string) (karata.Card, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return karata.Card{}, false
	}
	suits := map[string]karata.Suit{"spades": karata.Spades, "hearts": karata.Hearts, "diamonds": karata.Diamonds, "clubs": karata.Clubs}
	faces := map[string]karata.Face{
		"ace": karata.Ace, "two": karata.Two, "three": karata.Three, "four": karata.Four,
		"five": karata.Five, "six": karata.Six, "seven": karata.Seven, "eight": karata.Eight,
		"nine": karata.Nine, "ten": karata.Ten, "jack": karata.Jack, "queen": karata.Queen, "king": karata.King,
	}
	suit, ok := suits[strings.ToLower(fields[0])]
	if !ok {
		return karata.Card{}, false
	}
	face, ok := faces[strings.ToLower(fields[1])]
	if !ok {
		return karata.Card{}, false
	}
	return karata.Card{Suit: suit, Face: face}, true
}

func (m Model) View() string {
	var b strings.Builder
	switch m.state {
	case stateLobby:
		b.WriteString(titleStyle.Render("Karata"))
		b.WriteString("\n\n")
		if m.roomID != "" {
			fmt.Fprintf(&b, "room: %s\n", m.roomID)
		}
		fmt.Fprintf(&b, "ready: %v\n\n", m.ready)
		b.WriteString(helpStyle.Render("c: create room   r: toggle ready   s: start game   q: quit"))
	case stateGame:
		b.WriteString(turnStyle.Render(fmt.Sprintf(" turn: player %d ", m.turn)))
		b.WriteString("\n")
		b.WriteString(pileStyle.Render("pile top: " + m.pileTop))
		b.WriteString("\n\nyour hand:\n")
		for i, c := range m.hand {
			style := blackCardStyle
			if c.Suit == karata.Hearts || c.Suit == karata.Diamonds {
				style = redCardStyle
			}
			if m.selected[i] {
				style = selectedCardStyle
			}
			fmt.Fprintf(&b, "%s ", style.Render(fmt.Sprintf("%d:%s", i, c.String())))
		}
		b.WriteString("\n\n")
		for id, n := range m.opponentHands {
			if id == m.c.PlayerID {
				continue
			}
			fmt.Fprintf(&b, "%s: %d cards\n", id, n)
		}
		if m.prompt != promptNone {
			b.WriteString(warnStyle.Render(m.promptMsg))
			fmt.Fprintf(&b, "\n> %s\n", m.input)
		}
		for _, msg := range lastN(m.messages, 5) {
			b.WriteString(infoStyle.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("0-9: toggle card   enter: play selected   q: quit"))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	return b.String()
}

func lastN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
