package categorizer

import (
	"strings"

	"github.com/poelog/poelog-go/pkg/poelog/event"
)

// Markers that identify chat and trade entries anywhere in the text.
const (
	whisperMarker   = "@From "
	tradeAccepted   = "Trade accepted"
	tradeCancelled  = "Trade cancelled"
	guildSystemHead = "&: "
	speechSeparator = ": "
)

// MessageBody returns the part of text after the last "] ", which strips the
// "[INFO Client 123] " level prefix. Text without a "] " is returned as is.
func MessageBody(text string) string {
	if i := strings.LastIndex(text, "] "); i >= 0 {
		return text[i+2:]
	}
	return text
}

// DetectChannel returns the chat channel of text, or "" if text is not a
// chat, whisper or trade message.
func DetectChannel(text string) event.Channel {
	if strings.Contains(text, whisperMarker) {
		return event.ChannelWhisper
	}
	if strings.Contains(text, tradeAccepted) || strings.Contains(text, tradeCancelled) {
		return event.ChannelTrade
	}

	body := MessageBody(text)
	switch {
	case strings.HasPrefix(body, guildSystemHead):
		return event.ChannelGuildSystem
	case strings.HasPrefix(body, "$") && strings.Contains(body, speechSeparator):
		return event.ChannelGlobal
	case strings.HasPrefix(body, "#") && strings.Contains(body, speechSeparator):
		return event.ChannelLocal
	case strings.HasPrefix(body, "&") && strings.Contains(body, speechSeparator):
		return event.ChannelGuild
	}
	return ""
}

// IsChat reports whether text is a chat, whisper or trade message.
func IsChat(text string) bool {
	return DetectChannel(text) != ""
}

// ChatInfo extracts the sender and channel of a chat message. The sender is
// empty for trade results, guild announcements and unnamed whispers.
// ok is false when text is not a chat message or a sigil channel has an
// empty sender ("$: text").
func ChatInfo(text string) (sender string, channel event.Channel, ok bool) {
	if i := strings.Index(text, whisperMarker); i >= 0 {
		rest := text[i+len(whisperMarker):]
		if j := strings.IndexByte(rest, ':'); j > 0 {
			return rest[:j], event.ChannelWhisper, true
		}
		return "", event.ChannelWhisper, true
	}

	if strings.Contains(text, tradeAccepted) || strings.Contains(text, tradeCancelled) {
		return "", event.ChannelTrade, true
	}

	body := MessageBody(text)
	if strings.HasPrefix(body, guildSystemHead) {
		return "", event.ChannelGuildSystem, true
	}

	var ch event.Channel
	switch {
	case strings.HasPrefix(body, "$"):
		ch = event.ChannelGlobal
	case strings.HasPrefix(body, "#"):
		ch = event.ChannelLocal
	case strings.HasPrefix(body, "&"):
		ch = event.ChannelGuild
	default:
		return "", "", false
	}

	j := strings.Index(body, speechSeparator)
	if j <= 1 {
		return "", "", false
	}
	return body[1:j], ch, true
}
