package validator

import (
	"github.com/faix-chatbot/engine/internal/engine/lexicon"
	"github.com/faix-chatbot/engine/internal/engine/model"
)

// ruleTemplates are curated last-resort answers. They only exist for intents
// where a canned sentence is genuinely correct; factual intents have no
// template and fall through to the failure text instead.
var ruleTemplates = map[string]map[model.Intent]string{
	lexicon.LangEnglish: {
		model.IntentGreeting:     "Hello! I'm the FAIX faculty assistant. Ask me about programmes, courses, admission, fees, schedules or staff contacts.",
		model.IntentFarewell:     "You're welcome! Feel free to come back whenever you have questions about the faculty.",
		model.IntentUnknown:      "I can help with FAIX faculty matters: programmes, courses, admission, fees, academic schedules and staff contacts. Could you rephrase your question around one of those?",
		model.IntentStaffContact: "You can reach the FAIX general office at +60 6-270 1000 or faix@university.edu.my, Monday to Friday 9:00 am to 5:00 pm.",
	},
	lexicon.LangMalay: {
		model.IntentGreeting:     "Hai! Saya pembantu fakulti FAIX. Tanya saya tentang program, kursus, kemasukan, yuran, jadual atau kakitangan.",
		model.IntentFarewell:     "Sama-sama! Sila kembali jika ada soalan lain tentang fakulti.",
		model.IntentUnknown:      "Saya boleh membantu dengan hal fakulti FAIX: program, kursus, kemasukan, yuran, jadual akademik dan kakitangan. Boleh ulang soalan anda?",
		model.IntentStaffContact: "Anda boleh menghubungi pejabat am FAIX di +60 6-270 1000 atau faix@university.edu.my, Isnin hingga Jumaat 9:00 pagi hingga 5:00 petang.",
	},
	lexicon.LangChinese: {
		model.IntentGreeting:     "你好！我是FAIX学院助理。欢迎咨询课程、入学、学费、时间表或职员联系方式。",
		model.IntentFarewell:     "不客气！如果还有关于学院的问题，随时回来咨询。",
		model.IntentUnknown:      "我可以帮助解答FAIX学院相关问题：课程、入学、学费、学年时间表和职员联系方式。请换个方式再问一次好吗？",
		model.IntentStaffContact: "您可以联系FAIX学院办公室：+60 6-270 1000 或 faix@university.edu.my，周一至周五上午9点至下午5点。",
	},
}

// failureTexts are the fixed honest answers returned when every source in
// the chain has been exhausted. They state the limitation plainly and are
// never passed through validation.
var failureTexts = map[string]string{
	lexicon.LangEnglish: "I'm sorry, I wasn't able to give you a reliable answer to that right now. Please try rephrasing your question, or contact the FAIX general office at +60 6-270 1000.",
	lexicon.LangMalay:   "Maaf, saya tidak dapat memberikan jawapan yang boleh dipercayai buat masa ini. Sila ubah soalan anda, atau hubungi pejabat am FAIX di +60 6-270 1000.",
	lexicon.LangChinese: "抱歉，我目前无法为您提供可靠的答案。请换个方式提问，或联系FAIX学院办公室：+60 6-270 1000。",
}

// RuleTemplate returns the canned answer for the intent in the given
// language, falling back to English templates for unsupported languages.
func RuleTemplate(intent model.Intent, lang string) (string, bool) {
	table, ok := ruleTemplates[lang]
	if !ok {
		table = ruleTemplates[lexicon.LangEnglish]
	}
	text, ok := table[intent]
	if !ok {
		// a template in the user's language may be missing; English is
		// better than failing
		text, ok = ruleTemplates[lexicon.LangEnglish][intent]
	}
	return text, ok
}

// FailureText returns the fixed exhaustion answer for the language.
func FailureText(lang string) string {
	if t, ok := failureTexts[lang]; ok {
		return t
	}
	return failureTexts[lexicon.LangEnglish]
}
