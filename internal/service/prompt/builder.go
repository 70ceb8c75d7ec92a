// Package prompt builds the instructions sent to the generation collaborator and
// holds the catalog of supported languages. Builders are pure string constructors.
package prompt

import (
	"fmt"

	"ai-language-tutor-service/internal/models"
)

// QuizQuestions is how many questions a quiz instruction asks for.
const QuizQuestions = 3

// persona opens every conversational instruction.
func persona(language string) string {
	return fmt.Sprintf("You are a friendly native %s-speaking teacher having a relaxed conversation with a student.", language)
}

func register(level models.Level) string {
	switch level {
	case "":
		return "Adapt your language to the student's level."
	case models.LevelA1, models.LevelA2:
		return fmt.Sprintf("The student is at CEFR level %s: use very simple words, short sentences and the present tense.", level)
	case models.LevelB1, models.LevelB2:
		return fmt.Sprintf("The student is at CEFR level %s: use everyday vocabulary and natural sentences of moderate length.", level)
	default:
		return fmt.Sprintf("The student is at CEFR level %s: speak naturally, including idioms and complex structures.", level)
	}
}

// OpeningGreeting asks for the first message of a conversation.
func OpeningGreeting(language string, level models.Level) string {
	return fmt.Sprintf("%s %s Respond only in %s. Greet the student warmly, introduce yourself in one sentence and ask one simple question to start the conversation.",
		persona(language), register(level), language)
}

// TurnReply asks for the reply to one learner utterance.
func TurnReply(language string, level models.Level) string {
	return fmt.Sprintf("%s %s You must reply exclusively in %s. If the student made mistakes, gently correct them by repeating the corrected phrase. Keep your answer short and end with a short follow-up question.",
		persona(language), register(level), language)
}

// Quiz asks for a numbered multiple-choice quiz the quiz parser can read.
func Quiz(language string, level models.Level) string {
	return fmt.Sprintf("Create exactly %d multiple-choice questions to practice %s at CEFR level %s. "+
		"Number the questions \"1.\", \"2.\", \"3.\" and put the question on the line with its number. "+
		"Give exactly 4 options per question on separate lines formatted \"A) ...\", \"B) ...\", \"C) ...\", \"D) ...\". "+
		"Mark the single correct option with a trailing \" *\". Do not add explanations.",
		QuizQuestions, language, level)
}

// Translation asks for a friendly translation of the next user message.
func Translation(from, to string) string {
	return fmt.Sprintf("You are a friendly translator. Translate the following text from %s to %s. "+
		"Reply with the translation and, if useful, one short note about a word or phrase in it.",
		from, to)
}

// DailyChallenge asks for one short exercise written entirely in the learning language.
func DailyChallenge(language string, level models.Level) string {
	return fmt.Sprintf("%s %s Create one short daily challenge exercise that takes 5 to 10 minutes, written entirely in %s. "+
		"Explain the task in two or three sentences and ask the student to send their answer as the next message.",
		persona(language), register(level), language)
}

// ChallengeFeedback asks for an evaluation of the learner's challenge answer.
func ChallengeFeedback(language string, level models.Level) string {
	return fmt.Sprintf("%s %s The student is answering the daily challenge you gave. Reply exclusively in %s: "+
		"praise what is good, gently correct mistakes and end with a short follow-up question.",
		persona(language), register(level), language)
}
