package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	timesTableFirst = 2
	timesTableLast  = 12
)

var (
	timesTableTrigger = regexp.MustCompile(`(?i)(?:ask|give|test).*?(\d{1,2})\s*(?:times|x)\s*table`)
	timesTableStop    = regexp.MustCompile(`(?i)\b(stop|cancel|quit|exit|something else)\b`)
)

// Drill replies.
const (
	DrillStoppedReply = "Okay, we've stopped the quiz. Let me know if you want to do another one!"
	DrillCorrectReply = "✅ That's right! Great job!"
	DrillWrongReply   = "❌ Oops, not quite. Try again!"
)

// TimesTableDrill asks "table × n" for n from 2 to 12.
type TimesTableDrill struct {
	Table   int
	Current int
}

// ParseTimesTableRequest extracts the table from a drill request such as
// "ask me the 7 times table". ok is false when the message is not a request
// or the table is outside 1..12.
func ParseTimesTableRequest(message string) (table int, ok bool) {
	m := timesTableTrigger.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	table, err := strconv.Atoi(m[1])
	if err != nil || table < 1 || table > timesTableLast {
		return 0, false
	}
	return table, true
}

// IsDrillStop reports whether a message ends a running drill.
func IsDrillStop(message string) bool {
	return timesTableStop.MatchString(message)
}

// NewTimesTableDrill starts a drill at table × 2.
func NewTimesTableDrill(table int) *TimesTableDrill {
	return &TimesTableDrill{Table: table, Current: timesTableFirst}
}

// Opening is the first question of the drill.
func (d *TimesTableDrill) Opening() string {
	return fmt.Sprintf("Here we go! What is %d times %d?", d.Table, d.Current)
}

// Answer checks a learner's answer. done is true once the last question has
// been answered correctly.
func (d *TimesTableDrill) Answer(message string) (reply string, done bool) {
	n, err := leadingInt(message)
	if err != nil || n != d.Table*d.Current {
		return DrillWrongReply, false
	}

	d.Current++
	if d.Current <= timesTableLast {
		return DrillCorrectReply + "\n" + fmt.Sprintf("Next one: What is %d times %d?", d.Table, d.Current), false
	}
	return DrillCorrectReply + "\n" + fmt.Sprintf("🎉 You've completed the %d times table quiz! Well done!", d.Table), true
}

// leadingInt parses the integer at the start of s, ignoring trailing text.
func leadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	return strconv.Atoi(s[:end])
}
