// Package knowledge builds the topic-tagged fact corpus and ranks it against
// learner queries.
package knowledge

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Flatten walks a JSON document in document order and returns one
// "path.key: value" fact per leaf. Array elements are keyed by index.
// Invalid JSON and scalar documents yield no facts.
func Flatten(doc []byte) []string {
	if !gjson.ValidBytes(doc) {
		return nil
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() && !root.IsArray() {
		return nil
	}
	var facts []string
	flattenInto(&facts, root, "")
	return facts
}

func flattenInto(facts *[]string, node gjson.Result, prefix string) {
	index := 0
	node.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if node.IsArray() {
			name = strconv.Itoa(index)
		}
		index++

		if value.IsObject() || value.IsArray() {
			flattenInto(facts, value, prefix+name+".")
			return true
		}
		*facts = append(*facts, prefix+name+": "+leafString(value))
		return true
	})
}

func leafString(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return v.String()
	}
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// ParseLines splits plain text into trimmed, non-blank lines.
func ParseLines(text string) []string {
	var lines []string
	for _, line := range lineBreak.Split(text, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
