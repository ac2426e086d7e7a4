package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	maxSlotRunes = 200
	dataFence    = "DATA"
)

// BuildPrompt renders the instruction for one recommendation. The four data
// slots are sanitized and quoted so user text cannot change the instructions.
func BuildPrompt(info UserHealthInfo, loc Locale) string {
	age := loc.NotProvided
	if info.Age > 0 {
		age = strconv.Itoa(info.Age)
	}

	return fmt.Sprintf(loc.promptTemplate,
		quoteSlot(info.Symptom),
		quoteSlot(info.Gender),
		quoteSlot(age),
		quoteSlot(info.OtherConditions),
	)
}

// BuildMessages returns the system and user messages sent to the model.
func BuildMessages(info UserHealthInfo, loc Locale) []Message {
	return []Message{
		{Role: "system", Content: loc.systemMessage},
		{Role: "user", Content: BuildPrompt(info, loc)},
	}
}

// sanitizeSlot flattens a value onto one line, drops words equal to the fence
// marker and caps its length.
func sanitizeSlot(value string) string {
	value = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '\u2028' || r == '\u2029' {
			return ' '
		}
		return r
	}, value)
	words := strings.Fields(value)
	kept := words[:0]
	for _, w := range words {
		if w != dataFence {
			kept = append(kept, w)
		}
	}
	value = strings.Join(kept, " ")

	if runes := []rune(value); len(runes) > maxSlotRunes {
		value = string(runes[:maxSlotRunes])
	}
	return value
}

// quoteSlot renders a sanitized value as a JSON string literal.
func quoteSlot(value string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sanitizeSlot(value)); err != nil {
		return strconv.Quote(sanitizeSlot(value))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
