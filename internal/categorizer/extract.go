package categorizer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/poelog/poelog-go/pkg/poelog/event"
)

const (
	slainSuffix   = " has been slain"
	levelUpMarker = ") is now level "
)

// DeathInfo extracts the player name from ": <name> has been slain".
// The name must be non-empty and consist of letters, digits and underscores.
func DeathInfo(text string) (name string, ok bool) {
	content := announcement(text)
	name, _, found := strings.Cut(content, slainSuffix)
	if !found || name == "" {
		return "", false
	}
	for _, r := range name {
		if !isNameRune(r) {
			return "", false
		}
	}
	return name, true
}

// LevelUpInfo extracts the character name, class and level from
// ": <name> (<class>) is now level <digits>".
func LevelUpInfo(text string) (name, class string, level int, ok bool) {
	content := announcement(text)

	open := strings.Index(content, " (")
	closing := strings.Index(content, levelUpMarker)
	if open <= 0 || closing < open+2 {
		return "", "", 0, false
	}
	name = content[:open]
	class = content[open+2 : closing]
	if class == "" {
		return "", "", 0, false
	}

	rest := content[closing+len(levelUpMarker):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	level, err := strconv.Atoi(rest[:end])
	if err != nil {
		return "", "", 0, false
	}
	return name, class, level, true
}

// Annotate fills the structured fields of ev that apply to its category.
// Fields whose pattern does not match are left unset.
func Annotate(ev *event.Event) {
	switch ev.Category {
	case event.Death:
		if name, ok := DeathInfo(ev.Message); ok {
			ev.PlayerName = name
		}
	case event.LevelUp:
		if name, class, level, ok := LevelUpInfo(ev.Message); ok {
			ev.PlayerName = name
			ev.CharacterClass = class
			ev.Level = &level
		}
	case event.Trade, event.Guild:
		if sender, ch, ok := ChatInfo(ev.Message); ok {
			ev.ChatSender = sender
			ev.ChatChannel = ch
		}
	}
}

// announcement returns the message body with the leading ": " that the
// client prints before system announcements removed.
func announcement(text string) string {
	return strings.TrimPrefix(MessageBody(text), speechSeparator)
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
