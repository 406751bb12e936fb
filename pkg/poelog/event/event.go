// Package event defines the categorized Event type produced from Path of
// Exile 2 client logs.
//
// This package is separated from the main poelog package so that the
// internal categorizer can share the Category and Channel types without an
// import cycle.
package event

import (
	"sort"
	"strings"
	"time"
)

// Category is the semantic label assigned to a log entry.
type Category string

const (
	// Warnings marks entries carrying a WARN, CRIT or ERROR level tag.
	Warnings Category = "Warnings"

	// Trade marks chat messages, whispers and trade window results.
	Trade Category = "Trade"

	// Death marks "has been slain" announcements.
	Death Category = "Death"

	// LevelUp marks "is now level" announcements.
	LevelUp Category = "Level Up"

	// Skill marks skill gem and passive point grants.
	Skill Category = "Skill"

	// Gameplay marks rejected actions and insufficient resources.
	Gameplay Category = "Gameplay"

	// Guild marks guild membership and guild update announcements.
	Guild Category = "Guild"

	ItemFilter Category = "Item Filter"
	Graphics   Category = "Graphics"
	Engine     Category = "Engine"
	Audio      Category = "Audio"
	Network    Category = "Network"

	// Dialogue marks NPC speech ("Speaker: text").
	Dialogue Category = "Dialogue"
)

// allCategories is the canonical list of built-in categories.
// Rule files may introduce additional names; these are the ones the
// CLI knows how to complete and filter on.
var allCategories = []Category{
	Warnings, Trade, Death, LevelUp, Skill, Gameplay, Guild,
	ItemFilter, Graphics, Engine, Audio, Network, Dialogue,
}

// Slug returns the lowercase, underscore-separated form of the category
// name, e.g. "level_up" for LevelUp.
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "_")
}

// Categories returns all built-in categories in declaration order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// CategoryNames returns a sorted list of the slugs of all built-in categories.
func CategoryNames() []string {
	names := make([]string, len(allCategories))
	for i, c := range allCategories {
		names[i] = c.Slug()
	}
	sort.Strings(names)
	return names
}

// categoryBySlug maps slugs to Category for efficient lookup.
var categoryBySlug = func() map[string]Category {
	m := make(map[string]Category, len(allCategories))
	for _, c := range allCategories {
		m[c.Slug()] = c
	}
	return m
}()

// ParseCategory converts a string to a built-in Category.
// It is case-insensitive, trims surrounding whitespace and treats spaces,
// hyphens and underscores as equivalent ("Level Up", "level-up", "LEVEL_UP").
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	c, ok := categoryBySlug[name]
	return c, ok
}

// Channel identifies the chat channel of a Trade or Guild entry.
type Channel string

const (
	ChannelGlobal      Channel = "global"       // $Sender: text
	ChannelLocal       Channel = "local"        // #Sender: text
	ChannelGuild       Channel = "guild"        // &Sender: text
	ChannelGuildSystem Channel = "guild_system" // &: ANNOUNCEMENT
	ChannelWhisper     Channel = "whisper"      // @From Sender: text
	ChannelTrade       Channel = "trade"        // Trade accepted / Trade cancelled
)

// TimestampLayout is the layout of the timestamp prefix of a client log line.
const TimestampLayout = "2006/01/02 15:04:05"

// Event is one categorized log entry.
type Event struct {
	// Timestamp is the first 19 characters of the entry's primary line
	// (YYYY/MM/DD HH:MM:SS), or empty when the line is too short.
	Timestamp string `json:"timestamp" msgpack:"timestamp"`

	// Category is the label assigned by the categorizer.
	Category Category `json:"category" msgpack:"category"`

	// Message is the full entry text, lines joined with "\n".
	Message string `json:"message" msgpack:"message"`

	// PlayerName is the slain player (Death) or the character that
	// levelled up (Level Up).
	PlayerName string `json:"player_name,omitempty" msgpack:"player_name,omitempty"`

	// CharacterClass is the class shown in a level-up announcement.
	CharacterClass string `json:"character_class,omitempty" msgpack:"character_class,omitempty"`

	// Level is the new character level (Level Up only).
	Level *int `json:"level,omitempty" msgpack:"level,omitempty"`

	// ChatSender is the sender of a chat message or whisper, if named.
	ChatSender string `json:"chat_sender,omitempty" msgpack:"chat_sender,omitempty"`

	// ChatChannel is the channel of a Trade or Guild entry.
	ChatChannel Channel `json:"chat_channel,omitempty" msgpack:"chat_channel,omitempty"`
}

// Time parses Timestamp as local time.
// The second result is false when the timestamp is empty or malformed.
func (e Event) Time() (time.Time, bool) {
	if e.Timestamp == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampLayout, e.Timestamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
