package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobportal/jobportal-tui/internal/api"
	"github.com/jobportal/jobportal-tui/internal/model"
)

type chatSender int

const (
	senderAI chatSender = iota
	senderUser
)

// chatMessage is one bubble in the conversation
type chatMessage struct {
	sender chatSender
	text   string
	intent model.Intent
	data   string
}

type chatReplyMsg struct {
	reply *model.ChatReply
	err   error
}

type chatScreen struct {
	env
	messages []chatMessage
	input    textinput.Model
	viewport viewport.Model
	waiting  bool
}

func newChatScreen(e env) *chatScreen {
	ti := textinput.New()
	ti.Placeholder = "Ask about jobs, salaries, skills or your applications…"
	ti.Prompt = "› "
	ti.PromptStyle = InputPromptStyle
	ti.CharLimit = 500
	return &chatScreen{
		env:      e,
		input:    ti,
		viewport: viewport.New(80, 10),
		messages: []chatMessage{{sender: senderAI, text: chatGreeting, intent: model.IntentGeneralChat}},
	}
}

func (s *chatScreen) title() string { return "Assistant" }
func (s *chatScreen) modal() bool  { return false }

func (s *chatScreen) init() tea.Cmd {
	s.refresh()
	return tea.Batch(textinput.Blink, s.input.Focus())
}

func (s *chatScreen) send() tea.Cmd {
	text := strings.TrimSpace(s.input.Value())
	if text == "" || s.waiting {
		return nil
	}
	s.messages = append(s.messages, chatMessage{sender: senderUser, text: text})
	s.input.SetValue("")
	s.waiting = true
	s.refresh()

	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		reply, err := client.Chat(ctx, text)
		return chatReplyMsg{reply: reply, err: err}
	}
}

// answer appends the assistant side of an exchange
func (s *chatScreen) answer(msg chatReplyMsg) {
	s.waiting = false
	switch {
	case msg.err == nil && msg.reply != nil:
		s.messages = append(s.messages, chatMessage{
			sender: senderAI,
			text:   msg.reply.Message,
			intent: msg.reply.Intent,
			data:   renderIntentData(msg.reply.Intent, msg.reply.Data),
		})
	case api.KindOf(msg.err) == api.KindRateLimited:
		s.messages = append(s.messages, chatMessage{sender: senderAI, text: chatSlowDown, intent: model.IntentError})
	default:
		if s.logger != nil {
			s.logger.Warn("chat request failed", "error", msg.err)
		}
		s.messages = append(s.messages, chatMessage{sender: senderAI, text: chatUnavailable, intent: model.IntentError})
	}
	s.refresh()
}

func (s *chatScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.viewport.Width = msg.Width
		s.viewport.Height = max(msg.Height-4, 3)
		s.input.Width = max(msg.Width-4, 10)
		s.refresh()
		return s, nil

	case chatReplyMsg:
		if quiet(msg.err) {
			return s, nil
		}
		s.answer(msg)
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Enter):
			return s, s.send()
		case msg.String() == "pgup", msg.String() == "pgdown", msg.String() == "up", msg.String() == "down":
			var cmd tea.Cmd
			s.viewport, cmd = s.viewport.Update(msg)
			return s, cmd
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *chatScreen) refresh() {
	width := s.viewport.Width
	if width <= 0 {
		width = 80
	}
	bubbleWidth := max(width*3/4, 20)

	var b strings.Builder
	for _, m := range s.messages {
		b.WriteString(renderChatMessage(m, bubbleWidth, width))
		b.WriteString("\n")
	}
	if s.waiting {
		b.WriteString(DimStyle.Render("Antigravity AI is typing…"))
	}
	s.viewport.SetContent(b.String())
	s.viewport.GotoBottom()
}

func renderChatMessage(m chatMessage, bubbleWidth, width int) string {
	switch {
	case m.sender == senderUser:
		bubble := UserBubbleStyle.Width(bubbleWidth).Render(m.text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	case m.intent == model.IntentError:
		return ErrorBubbleStyle.Width(bubbleWidth).Render(m.text)
	default:
		body := m.text
		if m.data != "" {
			body += "\n\n" + m.data
		}
		return AssistantBubbleStyle.Width(bubbleWidth).Render(body)
	}
}

func (s *chatScreen) view(width, height int) string {
	return s.viewport.View() + "\n" + s.input.View() + "\n" + hints("enter", "send", "pgup/pgdn", "scroll")
}
