package router

import "strings"

// Texts holds the user-facing strings of one UI locale.
type Texts struct {
	Welcome             string
	Resume              string
	PleaseStart         string
	UnknownLanguage     string
	ChooseLevel         string // %s is the chosen language
	UnknownLevel        string
	ChooseLanguageFirst string
	Restart             string
	NotNow              string
	AnswerFirst         string
	Apology             string
	ChallengeAck        string
	QuizIntro           string
	QuizUnavailable     string
	TranslateUsage      string
	VoiceOn             string
	VoiceOff            string
	VoiceUsage          string
	VoiceTooLarge       string
	VoiceEmpty          string
	TextOnly            string
	Goodbye             string
	UnknownCommand      string
	Help                string
}

// DefaultLocale is used for locales without a translation.
const DefaultLocale = "en"

var texts = map[string]Texts{
	"en": {
		Welcome:             "🎉 Welcome! Which language would you like to learn?",
		Resume:              "Welcome back! Let's continue where we left off.",
		PleaseStart:         "Please send /start to begin.",
		UnknownLanguage:     "I don't know that language yet. Please choose one from the list.",
		ChooseLevel:         "Great, %s! What is your level?",
		UnknownLevel:        "Please choose a level from A1 to C2.",
		ChooseLanguageFirst: "Please choose a language first.",
		Restart:             "Something is wrong with your session. Please send /restart.",
		NotNow:              "That's not available yet. Please finish choosing your language and level first.",
		AnswerFirst:         "Please answer the daily challenge first, then we can continue.",
		Apology:             "Sorry, something went wrong. Please try again in a moment.",
		ChallengeAck:        "Thanks for your answer! Here is my feedback:",
		QuizIntro:           "Here is your quiz:",
		QuizUnavailable:     "I couldn't put a quiz together this time. Please try /quiz again.",
		TranslateUsage:      "Usage: /translate <text>",
		VoiceOn:             "Voice replies are on.",
		VoiceOff:            "Voice replies are off.",
		VoiceUsage:          "Usage: /voice on or /voice off",
		VoiceTooLarge:       "That voice message is too long. Please send a shorter one.",
		VoiceEmpty:          "I couldn't hear anything in that voice message.",
		TextOnly:            "Please send me a text or a voice message.",
		Goodbye:             "Bye! Send /start whenever you want to practice again.",
		UnknownCommand:      "I don't know that command. Send /help for the list.",
		Help: "/start - begin\n/restart - choose a new language\n/quiz - get a short quiz\n" +
			"/translate <text> - translate into your language\n/challenge - daily challenge\n" +
			"/voice on|off - spoken replies\n/stop - end the session",
	},
	"de": {
		Welcome:             "🎉 Willkommen! Welche Sprache möchtest du lernen?",
		Resume:              "Willkommen zurück! Machen wir weiter.",
		PleaseStart:         "Bitte sende /start, um zu beginnen.",
		UnknownLanguage:     "Diese Sprache kenne ich noch nicht. Bitte wähle eine aus der Liste.",
		ChooseLevel:         "Super, %s! Welches Niveau hast du?",
		UnknownLevel:        "Bitte wähle ein Niveau von A1 bis C2.",
		ChooseLanguageFirst: "Bitte wähle zuerst eine Sprache.",
		Restart:             "Mit deiner Sitzung stimmt etwas nicht. Bitte sende /restart.",
		NotNow:              "Das geht noch nicht. Bitte wähle zuerst Sprache und Niveau.",
		AnswerFirst:         "Bitte beantworte zuerst die Tagesaufgabe, dann machen wir weiter.",
		Apology:             "Entschuldigung, etwas ist schiefgelaufen. Bitte versuche es gleich noch einmal.",
		ChallengeAck:        "Danke für deine Antwort! Hier ist mein Feedback:",
		QuizIntro:           "Hier ist dein Quiz:",
		QuizUnavailable:     "Diesmal konnte ich kein Quiz erstellen. Bitte versuche /quiz noch einmal.",
		TranslateUsage:      "Verwendung: /translate <Text>",
		VoiceOn:             "Sprachantworten sind an.",
		VoiceOff:            "Sprachantworten sind aus.",
		VoiceUsage:          "Verwendung: /voice on oder /voice off",
		VoiceTooLarge:       "Die Sprachnachricht ist zu lang. Bitte sende eine kürzere.",
		VoiceEmpty:          "In dieser Sprachnachricht konnte ich nichts hören.",
		TextOnly:            "Bitte sende mir einen Text oder eine Sprachnachricht.",
		Goodbye:             "Tschüss! Sende /start, wann immer du wieder üben möchtest.",
		UnknownCommand:      "Diesen Befehl kenne ich nicht. Sende /help für die Liste.",
		Help: "/start - beginnen\n/restart - neue Sprache wählen\n/quiz - kurzes Quiz\n" +
			"/translate <Text> - in deine Sprache übersetzen\n/challenge - tägliche Aufgabe\n" +
			"/voice on|off - Sprachantworten\n/stop - Sitzung beenden",
	},
	"es": {
		Welcome:             "🎉 ¡Bienvenido! ¿Qué idioma quieres aprender?",
		Resume:              "¡Bienvenido de nuevo! Sigamos donde lo dejamos.",
		PleaseStart:         "Envía /start para empezar.",
		UnknownLanguage:     "Todavía no conozco ese idioma. Elige uno de la lista.",
		ChooseLevel:         "¡Genial, %s! ¿Cuál es tu nivel?",
		UnknownLevel:        "Elige un nivel de A1 a C2.",
		ChooseLanguageFirst: "Primero elige un idioma.",
		Restart:             "Algo anda mal con tu sesión. Envía /restart.",
		NotNow:              "Eso aún no está disponible. Primero elige tu idioma y nivel.",
		AnswerFirst:         "Primero responde al reto del día y luego seguimos.",
		Apology:             "Lo siento, algo salió mal. Inténtalo de nuevo en un momento.",
		ChallengeAck:        "¡Gracias por tu respuesta! Aquí tienes mis comentarios:",
		QuizIntro:           "Aquí tienes tu cuestionario:",
		QuizUnavailable:     "Esta vez no pude preparar un cuestionario. Prueba /quiz de nuevo.",
		TranslateUsage:      "Uso: /translate <texto>",
		VoiceOn:             "Las respuestas de voz están activadas.",
		VoiceOff:            "Las respuestas de voz están desactivadas.",
		VoiceUsage:          "Uso: /voice on o /voice off",
		VoiceTooLarge:       "Ese mensaje de voz es demasiado largo. Envía uno más corto.",
		VoiceEmpty:          "No pude oír nada en ese mensaje de voz.",
		TextOnly:            "Envíame un texto o un mensaje de voz.",
		Goodbye:             "¡Adiós! Envía /start cuando quieras practicar de nuevo.",
		UnknownCommand:      "No conozco ese comando. Envía /help para ver la lista.",
		Help: "/start - empezar\n/restart - elegir otro idioma\n/quiz - cuestionario corto\n" +
			"/translate <texto> - traducir a tu idioma\n/challenge - reto diario\n" +
			"/voice on|off - respuestas de voz\n/stop - terminar la sesión",
	},
	"fr": {
		Welcome:             "🎉 Bienvenue ! Quelle langue veux-tu apprendre ?",
		Resume:              "Bon retour ! Reprenons là où nous nous sommes arrêtés.",
		PleaseStart:         "Envoie /start pour commencer.",
		UnknownLanguage:     "Je ne connais pas encore cette langue. Choisis-en une dans la liste.",
		ChooseLevel:         "Super, %s ! Quel est ton niveau ?",
		UnknownLevel:        "Choisis un niveau de A1 à C2.",
		ChooseLanguageFirst: "Choisis d'abord une langue.",
		Restart:             "Il y a un problème avec ta session. Envoie /restart.",
		NotNow:              "Ce n'est pas encore disponible. Choisis d'abord ta langue et ton niveau.",
		AnswerFirst:         "Réponds d'abord au défi du jour, ensuite on continue.",
		Apology:             "Désolé, un problème est survenu. Réessaie dans un instant.",
		ChallengeAck:        "Merci pour ta réponse ! Voici mon retour :",
		QuizIntro:           "Voici ton quiz :",
		QuizUnavailable:     "Je n'ai pas pu préparer de quiz cette fois. Réessaie /quiz.",
		TranslateUsage:      "Utilisation : /translate <texte>",
		VoiceOn:             "Les réponses vocales sont activées.",
		VoiceOff:            "Les réponses vocales sont désactivées.",
		VoiceUsage:          "Utilisation : /voice on ou /voice off",
		VoiceTooLarge:       "Ce message vocal est trop long. Envoie-en un plus court.",
		VoiceEmpty:          "Je n'ai rien entendu dans ce message vocal.",
		TextOnly:            "Envoie-moi un texte ou un message vocal.",
		Goodbye:             "Au revoir ! Envoie /start quand tu veux t'entraîner à nouveau.",
		UnknownCommand:      "Je ne connais pas cette commande. Envoie /help pour la liste.",
		Help: "/start - commencer\n/restart - choisir une autre langue\n/quiz - petit quiz\n" +
			"/translate <texte> - traduire dans ta langue\n/challenge - défi du jour\n" +
			"/voice on|off - réponses vocales\n/stop - terminer la session",
	},
	"ru": {
		Welcome:             "🎉 Добро пожаловать! Какой язык ты хочешь изучать?",
		Resume:              "С возвращением! Продолжим с того места, где остановились.",
		PleaseStart:         "Отправь /start, чтобы начать.",
		UnknownLanguage:     "Я пока не знаю этот язык. Выбери язык из списка.",
		ChooseLevel:         "Отлично, %s! Какой у тебя уровень?",
		UnknownLevel:        "Выбери уровень от A1 до C2.",
		ChooseLanguageFirst: "Сначала выбери язык.",
		Restart:             "С твоей сессией что-то не так. Отправь /restart.",
		NotNow:              "Это пока недоступно. Сначала выбери язык и уровень.",
		AnswerFirst:         "Сначала ответь на задание дня, потом продолжим.",
		Apology:             "Извини, что-то пошло не так. Попробуй ещё раз чуть позже.",
		ChallengeAck:        "Спасибо за ответ! Вот мой отзыв:",
		QuizIntro:           "Вот твой тест:",
		QuizUnavailable:     "На этот раз не получилось составить тест. Попробуй /quiz ещё раз.",
		TranslateUsage:      "Использование: /translate <текст>",
		VoiceOn:             "Голосовые ответы включены.",
		VoiceOff:            "Голосовые ответы выключены.",
		VoiceUsage:          "Использование: /voice on или /voice off",
		VoiceTooLarge:       "Это голосовое сообщение слишком длинное. Отправь покороче.",
		VoiceEmpty:          "В этом голосовом сообщении ничего не слышно.",
		TextOnly:            "Отправь мне текст или голосовое сообщение.",
		Goodbye:             "Пока! Отправь /start, когда захочешь снова позаниматься.",
		UnknownCommand:      "Я не знаю эту команду. Отправь /help, чтобы увидеть список.",
		Help: "/start - начать\n/restart - выбрать другой язык\n/quiz - короткий тест\n" +
			"/translate <текст> - перевести на твой язык\n/challenge - ежедневное задание\n" +
			"/voice on|off - голосовые ответы\n/stop - завершить сессию",
	},
}

// NormalizeLocale reduces a locale hint such as "de-DE" or "pt_BR" to its
// lowercase primary subtag. An empty hint yields DefaultLocale.
func NormalizeLocale(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if i := strings.IndexAny(hint, "-_"); i >= 0 {
		hint = hint[:i]
	}
	if hint == "" {
		return DefaultLocale
	}
	return hint
}

// TextsFor returns the UI strings for a locale, falling back to English.
func TextsFor(locale string) Texts {
	if t, ok := texts[NormalizeLocale(locale)]; ok {
		return t
	}
	return texts[DefaultLocale]
}
