package models

// Option is a single answer option of a quiz question.
type Option struct {
	Letter  string `json:"letter"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// QuizQuestion is one multiple-choice question extracted from model output.
type QuizQuestion struct {
	PromptText string   `json:"promptText"`
	Options    []Option `json:"options"`
}

// CorrectIndex returns the index of the flagged option, or -1.
func (q QuizQuestion) CorrectIndex() int {
	for i, o := range q.Options {
		if o.Correct {
			return i
		}
	}
	return -1
}

// OptionTexts returns the option texts in listed order.
func (q QuizQuestion) OptionTexts() []string {
	texts := make([]string, len(q.Options))
	for i, o := range q.Options {
		texts[i] = o.Text
	}
	return texts
}
