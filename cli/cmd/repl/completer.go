package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/jamal/lang"
)

// commandPrefix introduces a session command rather than source text.
const commandPrefix = ":"

// commands are the available session commands, without their prefix.
var commands = []string{"ast", "clear", "edit", "help", "quit", "reset", "vars"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, operators, grouping and statement punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '{', '}',
		'+', '-', '*', '/', '%', '^',
		'=', '!', '&', '|', ';', ':',
		'"', '\'':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// isCommandWord reports whether the word starting at wordStart is the name of
// a session command, i.e., it directly follows a leading command prefix.
func isCommandWord(input string, wordStart int) bool {
	return strings.TrimSpace(input[:wordStart]) == commandPrefix
}

// inString reports whether offset lies inside a string literal of input.
func inString(input string, offset int) bool {
	var quote byte

	for i := 0; i < offset && i < len(input); i++ {
		switch c := input[i]; {
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		case quote != 0 && c == '\\':
			i++
		case c == quote:
			quote = 0
		}
	}

	return quote != 0
}

// candidates returns the names that are valid completions at wordStart: the
// session commands after a command prefix, and otherwise every name visible
// in scope followed by the keywords.
func candidates(scope lang.Scope, input string, wordStart int) []string {
	if isCommandWord(input, wordStart) {
		return commands
	}

	if inString(input, wordStart) {
		return nil
	}

	return append(scope.Names(), lang.Keywords()...)
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first) and the word boundaries. When the
// current word is empty, it returns nil matches so the hint text stays
// visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, wordStart, wordEnd
	}

	names := candidates(m.in.Scope(), input, wordStart)
	if len(names) == 0 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, names), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}
