package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/poelog/poelog-go/pkg/poelog"
)

// ValidFormats lists the accepted --format values.
var ValidFormats = map[string]bool{
	"jsonl":   true,
	"pretty":  true,
	"msgpack": true,
}

// formatNames is used in flag help and error messages.
const formatNames = "jsonl, pretty, msgpack"

// Adaptive colors for category badges.
var (
	colorDim     = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorWhite   = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed     = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow  = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange  = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan    = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorMagenta = lipgloss.AdaptiveColor{Light: "127", Dark: "213"}
)

var (
	styleTime    = lipgloss.NewStyle().Foreground(colorDim)
	styleText    = lipgloss.NewStyle().Foreground(colorWhite)
	styleDefault = lipgloss.NewStyle().Foreground(colorDim)
)

// categoryStyles colors the badge of each built-in category. Categories
// from a custom rule file use styleDefault.
var categoryStyles = map[poelog.Category]lipgloss.Style{
	poelog.CategoryWarnings: lipgloss.NewStyle().Bold(true).Foreground(colorYellow),
	poelog.CategoryTrade:    lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
	poelog.CategoryDeath:    lipgloss.NewStyle().Bold(true).Foreground(colorRed),
	poelog.CategoryLevelUp:  lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
	poelog.CategorySkill:    lipgloss.NewStyle().Foreground(colorCyan),
	poelog.CategoryGameplay: lipgloss.NewStyle().Foreground(colorOrange),
	poelog.CategoryGuild:    lipgloss.NewStyle().Foreground(colorGreen),
	poelog.CategoryDialogue: lipgloss.NewStyle().Foreground(colorMagenta),
}

// OutputEvent writes ev to w in the given format.
func OutputEvent(format string, ev poelog.Event, w io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(ev, w)
	case "pretty":
		return OutputPretty(ev, w)
	case "msgpack":
		return OutputMsgpack(ev, w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes ev as one line of JSON.
func OutputJSON(ev poelog.Event, w io.Writer) error {
	return json.NewEncoder(w).Encode(ev)
}

// OutputMsgpack appends ev to a stream of msgpack-encoded maps.
func OutputMsgpack(ev poelog.Event, w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(ev)
}

// OutputPretty writes ev as a human-readable line.
func OutputPretty(ev poelog.Event, w io.Writer) error {
	style, ok := categoryStyles[ev.Category]
	if !ok {
		style = styleDefault
	}

	ts := ev.Timestamp
	if ts == "" {
		ts = strings.Repeat(" ", len(poelog.TimestampLayout))
	}
	_, err := fmt.Fprintf(w, "%s %s %s\n",
		styleTime.Render(ts),
		style.Render(fmt.Sprintf("%-11s", ev.Category)),
		styleText.Render(summary(ev)),
	)
	return err
}

// summary renders the interesting part of ev for pretty output.
func summary(ev poelog.Event) string {
	switch {
	case ev.Category == poelog.CategoryDeath && ev.PlayerName != "":
		return ev.PlayerName + " has been slain"
	case ev.Category == poelog.CategoryLevelUp && ev.PlayerName != "" && ev.Level != nil:
		return fmt.Sprintf("%s (%s) reached level %d", ev.PlayerName, ev.CharacterClass, *ev.Level)
	}

	lines := strings.Split(ev.Message, "\n")
	body := lines[0]
	// Drop the "... [INFO Client 1234] " head.
	if i := strings.Index(body, "] "); i >= 0 {
		body = body[i+2:]
	}
	if ev.ChatChannel != "" {
		body = fmt.Sprintf("[%s] %s", ev.ChatChannel, body)
	}
	if extra := len(lines) - 1; extra > 0 {
		body += fmt.Sprintf(" (+%d lines)", extra)
	}
	return body
}
