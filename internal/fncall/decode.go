// Package fncall extracts and decodes the {name, arguments} function-call
// payload emitted by the remote model.
//
// Streamed arguments are frequently cut mid-token by provider-side
// buffering. When a direct parse fails, a single repair pass restores
// brace/bracket/quote balance and strips trailing commas, then parsing is
// retried once. Values are never guessed: only structural balance is
// restored, so a repair can make a payload parseable but cannot invent
// numbers, booleans, or string content.
package fncall

import (
	"encoding/json"
	"fmt"

	"daybook/internal/logging"
)

// ParsedFunctionCall is a decoded function call. RawArguments is preserved
// for diagnostics even when decoding fails.
type ParsedFunctionCall struct {
	Name         string
	RawArguments string
	Arguments    map[string]interface{}
}

// DecodeError reports an argument payload that could not be decoded, even
// after repair. The raw payload is carried for the caller to surface.
type DecodeError struct {
	Raw string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("function call arguments could not be decoded (%d bytes)", len(e.Raw))
}

// Parse decodes a function call's arguments. On failure it returns a
// *DecodeError; it never panics on malformed input.
func Parse(name, rawArguments string) (*ParsedFunctionCall, error) {
	args, ok := Decode(rawArguments)
	if !ok {
		logging.DecodeWarn("undecodable arguments for %q: %d bytes", name, len(rawArguments))
		return nil, &DecodeError{Raw: rawArguments}
	}
	return &ParsedFunctionCall{
		Name:         name,
		RawArguments: rawArguments,
		Arguments:    args,
	}, nil
}

// Decode parses a raw JSON arguments string into a map. The direct parse is
// always attempted first; repair runs only when it fails, and the repaired
// string is parsed exactly once more.
func Decode(raw string) (map[string]interface{}, bool) {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err == nil {
		return args, true
	}

	repaired := repair(raw)
	if err := json.Unmarshal([]byte(repaired), &args); err != nil {
		return nil, false
	}
	logging.Decode("repaired truncated arguments: %d -> %d bytes", len(raw), len(repaired))
	return args, true
}

// repair scans the payload once, tracking string state and the stack of open
// braces/brackets, and emits a structurally balanced copy:
//
//   - trailing commas before '}' or ']' are dropped
//   - an unterminated string is closed (a dangling escape is dropped first)
//   - missing closers are appended in reverse open order
//
// The scanner is byte-oriented; JSON structural characters are all ASCII, so
// multi-byte runes inside strings pass through untouched.
func repair(raw string) string {
	out := make([]byte, 0, len(raw)+8)
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		ch := raw[i]

		if inString {
			out = append(out, ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out = append(out, ch)
		case '{':
			stack = append(stack, '}')
			out = append(out, ch)
		case '[':
			stack = append(stack, ']')
			out = append(out, ch)
		case '}', ']':
			out = trimTrailingComma(out)
			if len(stack) > 0 && stack[len(stack)-1] == ch {
				stack = stack[:len(stack)-1]
			}
			out = append(out, ch)
		default:
			out = append(out, ch)
		}
	}

	if inString {
		if escaped {
			out = out[:len(out)-1] // drop the dangling backslash
		}
		out = append(out, '"')
	}
	out = trimTrailingComma(out)
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i])
	}
	return string(out)
}

// trimTrailingComma removes a comma (plus any whitespace after it) hanging
// at the end of out.
func trimTrailingComma(out []byte) []byte {
	i := len(out)
	for i > 0 && isSpace(out[i-1]) {
		i--
	}
	if i > 0 && out[i-1] == ',' {
		return out[:i-1]
	}
	return out
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
