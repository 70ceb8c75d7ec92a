// Package quiz extracts multiple-choice questions from free-form model output.
package quiz

import (
	"fmt"
	"regexp"
	"strings"

	"ai-language-tutor-service/internal/models"
)

// OptionsPerQuestion is the number of options a block must carry to be accepted.
const OptionsPerQuestion = 4

var (
	blockSplit   = regexp.MustCompile(`\n[ \t]*\d+\.`)
	leadingIndex = regexp.MustCompile(`^\d+\.\s*`)
	optionLine   = regexp.MustCompile(`^([A-D])\)\s*(.+)$`)
	answerLine   = regexp.MustCompile(`(?i)^(?:correct\s+)?answer\s*[:\-]\s*\(?([A-D])\)?`)
)

var correctMarkers = []string{"(correct)", "✓", "*"}

// Result is the outcome of one parse. Skipped counts blocks that looked like
// questions but were dropped.
type Result struct {
	Questions []models.QuizQuestion
	Skipped   int
}

// Parse splits text on numbered-list markers, indented or not, and reads one
// question per block.
// A block is accepted when it has a prompt line and exactly four options A-D.
// Parse never fails: unusable input yields fewer or zero questions.
func Parse(text string) Result {
	var res Result
	text = strings.ReplaceAll(text, "\r\n", "\n")

	for i, block := range blockSplit.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		q, ok := parseBlock(block)
		if ok {
			res.Questions = append(res.Questions, q)
			continue
		}
		// Unnumbered text ahead of the first marker is a preamble, not a question.
		if i == 0 && !leadingIndex.MatchString(block) && !hasOption(block) {
			continue
		}
		res.Skipped++
	}
	return res
}

func parseBlock(block string) (models.QuizQuestion, bool) {
	var q models.QuizQuestion
	seen := make(map[string]bool, OptionsPerQuestion)
	answer := ""

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if q.PromptText == "" && len(q.Options) == 0 {
			if optionLine.MatchString(line) {
				return q, false
			}
			q.PromptText = strings.TrimSpace(leadingIndex.ReplaceAllString(line, ""))
			continue
		}
		if m := optionLine.FindStringSubmatch(line); m != nil {
			letter := m[1]
			if seen[letter] {
				return q, false
			}
			seen[letter] = true
			text, correct := stripMarker(m[2])
			if text == "" {
				return q, false
			}
			q.Options = append(q.Options, models.Option{Letter: letter, Text: text, Correct: correct})
			continue
		}
		if m := answerLine.FindStringSubmatch(line); m != nil {
			answer = strings.ToUpper(m[1])
		}
	}

	if q.PromptText == "" || len(q.Options) != OptionsPerQuestion {
		return q, false
	}
	if answer != "" {
		for i := range q.Options {
			q.Options[i].Correct = q.Options[i].Letter == answer
		}
	}
	if flagged(q.Options) > 1 {
		for i := range q.Options {
			q.Options[i].Correct = false
		}
	}
	return q, true
}

func stripMarker(text string) (string, bool) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	// Markdown emphasis is not a marker.
	if strings.HasSuffix(lower, "**") {
		return text, false
	}
	for _, m := range correctMarkers {
		if strings.HasSuffix(lower, m) {
			return strings.TrimSpace(text[:len(text)-len(m)]), true
		}
	}
	return text, false
}

func flagged(options []models.Option) int {
	n := 0
	for _, o := range options {
		if o.Correct {
			n++
		}
	}
	return n
}

func hasOption(block string) bool {
	for _, line := range strings.Split(block, "\n") {
		if optionLine.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// Format renders questions as a numbered text block that Parse reads back.
func Format(questions []models.QuizQuestion) string {
	var b strings.Builder
	for i, q := range questions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, q.PromptText)
		for _, o := range q.Options {
			fmt.Fprintf(&b, "\n%s) %s", o.Letter, o.Text)
			if o.Correct {
				b.WriteString(" *")
			}
		}
	}
	return b.String()
}
