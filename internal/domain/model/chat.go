package model

// Message roles as used by chat-completion providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatChannel tags a message with the persona exchange it belongs to.
// The channel controls visibility, not the identity of the sender.
type ChatChannel string

const (
	ChannelCoach   ChatChannel = "coach"
	ChannelPartner ChatChannel = "partner"
)

// ChatMessage is one entry in a conversation log. Immutable once created.
type ChatMessage struct {
	Role    string
	Content string
	Channel ChatChannel
}

// ChatHistory is an append-only, chronological log of tagged messages.
// Entries are never removed or reordered; a correction is a new entry.
type ChatHistory struct {
	log []ChatMessage
}

func NewChatHistory() *ChatHistory {
	return &ChatHistory{log: make([]ChatMessage, 0, 16)}
}

// Add appends a message. Role and content are recorded as given.
func (h *ChatHistory) Add(role, content string, channel ChatChannel) {
	h.log = append(h.log, ChatMessage{Role: role, Content: content, Channel: channel})
}

// Full returns every message in insertion order. The coach persona sees this.
func (h *ChatHistory) Full() []ChatMessage {
	out := make([]ChatMessage, len(h.log))
	copy(out, h.log)
	return out
}

// PartnerView returns only PARTNER-tagged messages, in insertion order.
// Coach-directed turns never appear here: the partner persona must not be
// able to observe coaching.
func (h *ChatHistory) PartnerView() []ChatMessage {
	out := make([]ChatMessage, 0, len(h.log))
	for _, m := range h.log {
		if m.Channel == ChannelPartner {
			out = append(out, m)
		}
	}
	return out
}

// Len reports the total number of messages across both channels.
func (h *ChatHistory) Len() int { return len(h.log) }
