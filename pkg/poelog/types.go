package poelog

import "github.com/poelog/poelog-go/pkg/poelog/event"

// Re-export event types for convenience.
// Users can import just "github.com/poelog/poelog-go/pkg/poelog"
// and use poelog.Event, poelog.CategoryTrade, etc.

// Event is one categorized log entry.
type Event = event.Event

// Category is the label assigned to an entry.
type Category = event.Category

// Channel is the chat channel of a Trade or Guild entry.
type Channel = event.Channel

// Category constants.
const (
	CategoryWarnings   = event.Warnings
	CategoryTrade      = event.Trade
	CategoryDeath      = event.Death
	CategoryLevelUp    = event.LevelUp
	CategorySkill      = event.Skill
	CategoryGameplay   = event.Gameplay
	CategoryGuild      = event.Guild
	CategoryItemFilter = event.ItemFilter
	CategoryGraphics   = event.Graphics
	CategoryEngine     = event.Engine
	CategoryAudio      = event.Audio
	CategoryNetwork    = event.Network
	CategoryDialogue   = event.Dialogue
)

// Channel constants.
const (
	ChannelGlobal      = event.ChannelGlobal
	ChannelLocal       = event.ChannelLocal
	ChannelGuild       = event.ChannelGuild
	ChannelGuildSystem = event.ChannelGuildSystem
	ChannelWhisper     = event.ChannelWhisper
	ChannelTrade       = event.ChannelTrade
)

// TimestampLayout is the time layout of Event.Timestamp.
const TimestampLayout = event.TimestampLayout
