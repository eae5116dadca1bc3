package i18n

import "strings"

// Translator retrieves localized messages by key. data fills `{name}`
// placeholders in the message.
type Translator interface {
	Message(key string, data map[string]string) string
}

// Message keys used by the game and the CLI.
const (
	AnswerYes       = "answer_yes"
	AnswerNo        = "answer_no"
	AskQuestion     = "ask_question"
	AskLeaf         = "ask_leaf"
	Guessed         = "guessed"
	WrongAnswer     = "wrong_answer"
	AskWho          = "ask_who"
	AskDifference   = "ask_difference"
	Learned         = "learned"
	DescribeWho     = "describe_who"
	DescribeIntro   = "describe_intro"
	Trait           = "trait"
	NotTrait        = "not_trait"
	CompareWho      = "compare_who"
	CompareWith     = "compare_with"
	CompareCommon   = "compare_common"
	CompareBesides  = "compare_besides"
	NothingInCommon = "nothing_in_common"
	NotFound        = "not_found"
	EmptyTree       = "empty_tree"
)

var dictionaries = map[string]map[string]string{
	"en": {
		AnswerYes:       "yes",
		AnswerNo:        "no",
		AskQuestion:     "Is it {question}?",
		AskLeaf:         "It's {name}! Right?",
		Guessed:         "Hooray, I guessed it!",
		WrongAnswer:     "Wrong answer! Please answer {yes} or {no}.",
		AskWho:          "I don't know who that is. Who is it?",
		AskDifference:   "What does {name} have that {other} does not?",
		Learned:         "Got it, I will remember {name}.",
		DescribeWho:     "Whom do you want described?",
		DescribeIntro:   "Okay! {name}:",
		Trait:           "- {trait}",
		NotTrait:        "- not {trait}",
		CompareWho:      "Whom do you want to compare?",
		CompareWith:     "And with whom?",
		CompareCommon:   "Both {a} and {b}:",
		CompareBesides:  "Besides that, {name}:",
		NothingInCommon: "{a} and {b} have nothing in common.",
		NotFound:        "I don't know {name}.",
		EmptyTree:       "The tree is empty.",

		"boundary_guard_violation":  "boundary guard overwritten",
		"control_checksum_mismatch": "control block checksum mismatch",
		"element_checksum_mismatch": "element checksum mismatch",
		"use_after_destroy":         "stack used after destroy",
		"uninitialized_use":         "stack used before construction",
	},
	"ru": {
		AnswerYes:       "да",
		AnswerNo:        "нет",
		AskQuestion:     "Оно {question}?",
		AskLeaf:         "Это же {name}! Да?",
		Guessed:         "Ура, я угадал!",
		WrongAnswer:     "Неправильный ответ! Ответьте {yes} или {no}.",
		AskWho:          "Хз кто это. Кто это?",
		AskDifference:   "Как {name} отличается от {other}?",
		Learned:         "Понял, запомню {name}.",
		DescribeWho:     "Кого хочешь описать?",
		DescribeIntro:   "Окей! {name}:",
		Trait:           "-{trait}",
		NotTrait:        "-Не {trait}",
		CompareWho:      "Кого хочешь сравнить?",
		CompareWith:     "И с кем?",
		CompareCommon:   "И {a}, и {b}:",
		CompareBesides:  "Помимо этого, {name}:",
		NothingInCommon: "У {a} и {b} нет ничего общего.",
		NotFound:        "Я не знаю {name}.",
		EmptyTree:       "Дерево пустое.",

		"boundary_guard_violation":  "затёрт граничный страж",
		"control_checksum_mismatch": "не совпала контрольная сумма управляющего блока",
		"element_checksum_mismatch": "не совпала контрольная сумма элементов",
		"use_after_destroy":         "стек использован после уничтожения",
		"uninitialized_use":         "стек использован до создания",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(key string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][key]
	if !ok {
		if msg, ok = dictionaries["en"][key]; !ok {
			return key
		}
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Lang returns the built-in Translator for lang ("en"/"ru"). Unknown
// languages fall back to English.
func Lang(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

// Languages lists the built-in languages.
func Languages() []string { return []string{"en", "ru"} }

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ru").
func SetLanguage(lang string) { currentTranslator = Lang(lang) }

// Current returns the Translator installed by SetLanguage.
func Current() Translator { return currentTranslator }
