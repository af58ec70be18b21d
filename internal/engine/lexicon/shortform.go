package lexicon

import "strings"

// shortForms maps student short forms and slang to their full forms, per
// language. English and Malay entries match whole tokens after punctuation is
// trimmed; Chinese entries match as substrings since the text is not
// word-segmented. Expansion runs before detection scoring, priority patterns
// and keyword matching, all of which need exact tokens.
var shortForms = map[string]map[string]string{
	LangEnglish: {
		"u":    "you",
		"ur":   "your",
		"r":    "are",
		"pls":  "please",
		"plz":  "please",
		"thx":  "thanks",
		"ty":   "thank you",
		"idk":  "i don't know",
		"tbh":  "to be honest",
		"btw":  "by the way",
		"asap": "as soon as possible",
		"b4":   "before",
		"bc":   "because",
		"cuz":  "because",
		"coz":  "because",
		"w/":   "with",
		"w/o":  "without",

		"prof":  "professor",
		"lect":  "lecturer",
		"reg":   "registration",
		"enrl":  "enrollment",
		"enrol": "enrollment",
		"sem":   "semester",
		"tut":   "tutorial",
		"lec":   "lecture",
		"asgmt": "assignment",
		"hw":    "homework",
		"cw":    "coursework",
		"uni":   "university",
		"dept":  "department",
		"fac":   "faculty",

		"wut":   "what",
		"wat":   "what",
		"wanna": "want to",
		"gonna": "going to",
		"gotta": "got to",
		"lemme": "let me",
		"gimme": "give me",
		"dunno": "don't know",
		"kinda": "kind of",
		"howz":  "how is",
		"whatz": "what is",
		"whenz": "when is",
		"whoz":  "who is",

		"2day":  "today",
		"2moro": "tomorrow",
		"gr8":   "great",
		"l8r":   "later",
		"w8":    "wait",
	},
	LangMalay: {
		"sbb":  "sebab",
		"tp":   "tapi",
		"tgk":  "tengok",
		"skrg": "sekarang",
		"tdk":  "tidak",
		"tak":  "tidak",
		"x":    "tidak",
		"lg":   "lagi",
		"dlm":  "dalam",
		"dgn":  "dengan",
		"utk":  "untuk",
		"bkn":  "bukan",
		"byk":  "banyak",
		"yg":   "yang",
		"drpd": "daripada",
		"pd":   "pada",
		"bg":   "bagi",
		"bgmn": "bagaimana",
		"kpd":  "kepada",

		"univ":   "universiti",
		"uni":    "universiti",
		"krs":    "kursus",
		"prog":   "program",
		"fak":    "fakulti",
		"pns":    "pensyarah",
		"daftar": "pendaftaran",
		"sem":    "semester",
		"kul":    "kuliah",
		"pep":    "peperiksaan",

		"ape":   "apa",
		"mne":   "mana",
		"siape": "siapa",
		"knpe":  "kenapa",
		"camne": "bagaimana",
		"bile":  "bila",
		"bape":  "berapa",
		"brp":   "berapa",
	},
}

// chineseShortForms are checked in order, longest phrase first, so a longer
// slang form is never shadowed by one of its substrings.
var chineseShortForms = []struct {
	Slang string
	Full  string
}{
	{"有木有", "有没有"},
	{"酱紫", "这样子"},
	{"肿么", "怎么"},
	{"为毛", "为什么"},
	{"为啥", "为什么"},
	{"神马", "什么"},
	{"木有", "没有"},
	{"灰常", "非常"},
	{"炒鸡", "超级"},
	{"不造", "不知道"},
	{"造吗", "知道吗"},
	{"好哒", "好的"},
	{"好滴", "好的"},
	{"阔以", "可以"},
	{"何时", "什么时候"},
	{"几点", "什么时候"},
	{"啥", "什么"},
	{"咋", "怎么"},
}

// ExpandShortForms rewrites short forms and slang to their full forms so the
// exact-token layers see the same text a careful writer would have typed.
// Unknown languages use the English table; text without short forms comes back
// unchanged apart from whitespace normalization.
func ExpandShortForms(text, lang string) string {
	if lang == LangChinese {
		for _, sf := range chineseShortForms {
			text = strings.ReplaceAll(text, sf.Slang, sf.Full)
		}
		return text
	}

	table, ok := shortForms[lang]
	if !ok {
		table = shortForms[LangEnglish]
	}
	fields := strings.Fields(text)
	for i, f := range fields {
		key := strings.Trim(strings.ToLower(f), ".,!?;:\"'()[]")
		if full, ok := table[key]; ok {
			fields[i] = full
		}
	}
	return strings.Join(fields, " ")
}
