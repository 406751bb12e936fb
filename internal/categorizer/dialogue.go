package categorizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Defaults applied when a rule file leaves the dialogue length limits unset.
const (
	defaultSpeakerMaxLen = 100
	defaultSpeechMinLen  = 3
	speechMinLetters     = 2
)

// chatSigils are the leading characters of chat bodies. A body starting with
// one of them is never NPC dialogue.
const chatSigils = "$#&@:"

// Dialogue holds the deny-lists used to tell NPC speech ("Speaker: text")
// apart from system lines that share the same shape.
type Dialogue struct {
	SpeakerMaxLen              int
	ForbiddenSpeakerPrefixes   []string
	ForbiddenSpeakerSubstrings []string
	SpeechMinLen               int
	ForbiddenSpeechSubstrings  []string
}

// Matches reports whether text looks like NPC dialogue.
func (d Dialogue) Matches(text string) bool {
	body := MessageBody(text)
	if body == "" || strings.ContainsRune(chatSigils, rune(body[0])) {
		return false
	}

	speaker, speech, found := strings.Cut(body, speechSeparator)
	if !found {
		return false
	}
	return d.ValidSpeaker(speaker) && d.ValidSpeech(speech)
}

// ValidSpeaker reports whether name looks like a character or NPC name such
// as "The Bloated Miller", "O'Brien" or "Siora, Blade of the Mists".
func (d Dialogue) ValidSpeaker(name string) bool {
	name = strings.TrimSpace(name)

	maxLen := d.SpeakerMaxLen
	if maxLen <= 0 {
		maxLen = defaultSpeakerMaxLen
	}
	if name == "" || utf8.RuneCountInString(name) > maxLen {
		return false
	}

	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return false
	}

	if hasAnyPrefix(name, d.ForbiddenSpeakerPrefixes) {
		return false
	}
	if containsAny(name, d.ForbiddenSpeakerSubstrings) {
		return false
	}

	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsSpace(r):
		case r == '\'', r == '-', r == ',':
		default:
			return false
		}
	}
	return true
}

// ValidSpeech reports whether text looks like spoken content rather than a
// key/value dump or a bracketed system payload.
func (d Dialogue) ValidSpeech(text string) bool {
	text = strings.TrimSpace(text)

	minLen := d.SpeechMinLen
	if minLen <= 0 {
		minLen = defaultSpeechMinLen
	}
	if utf8.RuneCountInString(text) < minLen {
		return false
	}

	if strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{") {
		return false
	}

	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < speechMinLetters {
		return false
	}

	return !containsAny(text, d.ForbiddenSpeechSubstrings)
}
