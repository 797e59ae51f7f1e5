package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commandPrefix introduces a REPL command.
const commandPrefix = ":"

// commands are the available REPL commands.
var commands = []string{"help", "list", "where", "reload", "clear", "quit"}

// wordBounds returns the item of a comma-separated key list under the cursor
// and its byte boundaries within input. Leading blanks are not part of the
// item. For a command line, the item is the command name.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	if rest, ok := strings.CutPrefix(input, commandPrefix); ok {
		end = len(commandPrefix) + strings.IndexFunc(rest+" ", isBlank)
		if cursor > end {
			return "", cursor, cursor
		}

		return input[len(commandPrefix):end], len(commandPrefix), end
	}

	start = strings.LastIndexByte(input[:cursor], ',') + 1
	for start < cursor && isBlank(rune(input[start])) {
		start++
	}

	end = cursor
	if i := strings.IndexByte(input[cursor:], ','); i >= 0 {
		end += i
	} else {
		end = len(input)
	}

	end = max(start, len(strings.TrimRight(input[:end], " \t")))

	return input[start:end], start, end
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' }

// computeMatches returns fuzzy matches of the word under the cursor.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" && !strings.HasPrefix(input, commandPrefix) {
		return nil, wordStart, wordEnd
	}

	candidates := m.keys
	if strings.HasPrefix(input, commandPrefix) {
		// Only the command name completes, not its argument.
		if wordStart != len(commandPrefix) || wordEnd < len(input) {
			return nil, wordStart, wordEnd
		}

		candidates = commands
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style.
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
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		reserve := 0
		if i < len(matches)-1 {
			reserve = sepWidth + ellipsisWidth
		}

		if i > 0 && used+entryWidth+reserve > width {
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
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
