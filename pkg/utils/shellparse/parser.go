// Package shellparse splits and joins argument strings using POSIX shell
// quoting rules.
package shellparse

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrUnclosedQuote is returned when a quoted string is not properly closed
	ErrUnclosedQuote = errors.New("unclosed quote in argument string")

	// ErrTrailingEscape is returned when a backslash appears at the end of input
	ErrTrailingEscape = errors.New("trailing escape character at end of argument string")
)

type quoteState int

const (
	unquoted quoteState = iota
	single
	double
)

// Split parses an argument string into words.
//
//	Split(`--server "gc on" -x\ y`) => ["--server", "gc on", "-x y"]
//	Split(`a '' b`)                  => ["a", "", "b"]
//
// Single quotes are literal, double quotes honour \" \\ \$ and \`, and a
// backslash outside quotes escapes any character. An empty quoted pair yields
// an empty word.
func Split(input string) ([]string, error) {
	words := []string{}
	var word strings.Builder
	inWord := false
	state := unquoted

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch state {
		case single:
			if ch == '\'' {
				state = unquoted
			} else {
				word.WriteRune(ch)
			}
			continue
		case double:
			switch ch {
			case '"':
				state = unquoted
			case '\\':
				if i+1 >= len(runes) {
					return nil, ErrTrailingEscape
				}
				i++
				if !strings.ContainsRune("\"\\$`", runes[i]) {
					word.WriteRune('\\')
				}
				word.WriteRune(runes[i])
			default:
				word.WriteRune(ch)
			}
			continue
		}

		switch {
		case unicode.IsSpace(ch):
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		case ch == '\\':
			if i+1 >= len(runes) {
				return nil, ErrTrailingEscape
			}
			i++
			word.WriteRune(runes[i])
			inWord = true
		case ch == '\'':
			state = single
			inWord = true
		case ch == '"':
			state = double
			inWord = true
		default:
			word.WriteRune(ch)
			inWord = true
		}
	}

	switch state {
	case single:
		return nil, fmt.Errorf("%w: single", ErrUnclosedQuote)
	case double:
		return nil, fmt.Errorf("%w: double", ErrUnclosedQuote)
	}

	if inWord {
		words = append(words, word.String())
	}
	return words, nil
}

// Join quotes each argument as needed and joins them with spaces, such that
// Split(Join(args)) returns args.
func Join(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quote(arg)
	}
	return strings.Join(quoted, " ")
}

func quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsFunc(arg, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("'\"\\$`", r)
	}) {
		return arg
	}
	if !strings.Contains(arg, "'") {
		return "'" + arg + "'"
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, r := range arg {
		if strings.ContainsRune("\"\\$`", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
