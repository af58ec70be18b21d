// Package lexicon is the engine's pattern store: per-intent keyword lists,
// priority exact-phrase patterns and language-specific token sets. Pure data,
// compiled in and validated once at startup so an unknown intent string cannot
// exist at request time.
package lexicon

import (
	"fmt"
	"strings"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

// Supported language codes. Detection degrades to English tables for anything
// else.
const (
	LangEnglish = "en"
	LangMalay   = "ms"
	LangChinese = "zh"
)

// SupportedLanguages lists the closed language set in a stable order.
var SupportedLanguages = []string{LangEnglish, LangMalay, LangChinese}

// keywords maps language -> intent -> keyword list. Multi-word entries match
// as substrings; single words match on token boundaries.
var keywords = map[string]map[model.Intent][]string{
	LangEnglish: {
		model.IntentAboutFAIX:        {"faix", "faculty", "dean", "vision", "mission", "history", "established", "about"},
		model.IntentProgramInfo:      {"program", "programme", "degree", "major", "bachelor", "master", "bcsai", "bcscs"},
		model.IntentCourseInfo:       {"course", "subject", "module", "curriculum", "coursework", "syllabus", "lecture"},
		model.IntentRegistration:     {"register", "enroll", "enrollment", "registration", "add course", "drop course", "sign up"},
		model.IntentAdmission:        {"admission", "entry requirements", "apply", "application", "cgpa", "muet", "eligibility"},
		model.IntentAcademicSchedule: {"schedule", "timetable", "calendar", "semester", "deadline", "exam", "start date", "when"},
		model.IntentStaffContact:     {"contact", "email", "phone", "professor", "lecturer", "staff", "office", "reach"},
		model.IntentFacilityInfo:     {"library", "lab", "laboratory", "facility", "facilities", "building", "campus", "room", "wifi"},
		model.IntentFees:             {"fee", "fees", "tuition", "cost", "payment", "price", "scholarship", "how much"},
		model.IntentResearch:         {"research", "publication", "project", "supervisor", "postgraduate research"},
		model.IntentCareer:           {"career", "internship", "job", "employment", "placement", "industry"},
		model.IntentGreeting:         {"hi", "hello", "hey", "good morning", "good afternoon", "greetings"},
		model.IntentFarewell:         {"bye", "goodbye", "thanks", "thank you", "see you", "that's all"},
	},
	LangMalay: {
		model.IntentAboutFAIX:        {"faix", "fakulti", "dekan", "visi", "misi", "sejarah", "ditubuhkan"},
		model.IntentProgramInfo:      {"program", "ijazah", "pengajian", "sarjana", "sarjana muda"},
		model.IntentCourseInfo:       {"kursus", "subjek", "modul", "kurikulum", "silibus"},
		model.IntentRegistration:     {"daftar", "mendaftar", "pendaftaran", "tambah kursus", "gugur kursus"},
		model.IntentAdmission:        {"kemasukan", "syarat kemasukan", "memohon", "permohonan", "kelayakan"},
		model.IntentAcademicSchedule: {"jadual", "kalendar", "semester", "tarikh mula", "peperiksaan", "bila"},
		model.IntentStaffContact:     {"hubungi", "emel", "telefon", "profesor", "pensyarah", "kakitangan", "pejabat"},
		model.IntentFacilityInfo:     {"perpustakaan", "makmal", "kemudahan", "bangunan", "kampus", "bilik"},
		model.IntentFees:             {"yuran", "bayaran", "kos", "harga", "biasiswa", "berapa"},
		model.IntentResearch:         {"penyelidikan", "kajian", "projek", "penyelia"},
		model.IntentCareer:           {"kerjaya", "latihan industri", "pekerjaan", "penempatan"},
		model.IntentGreeting:         {"hai", "helo", "selamat pagi", "selamat petang"},
		model.IntentFarewell:         {"selamat tinggal", "terima kasih", "jumpa lagi"},
	},
	LangChinese: {
		model.IntentAboutFAIX:        {"学院", "院长", "愿景", "使命", "历史", "成立"},
		model.IntentProgramInfo:      {"课程", "专业", "学位", "学士", "硕士"},
		model.IntentCourseInfo:       {"科目", "模块", "课程大纲", "教学大纲"},
		model.IntentRegistration:     {"注册", "报名", "选课", "退课"},
		model.IntentAdmission:        {"入学", "入学要求", "申请", "资格"},
		model.IntentAcademicSchedule: {"时间表", "日历", "学期", "开学", "考试", "什么时候"},
		model.IntentStaffContact:     {"联系", "电邮", "电话", "教授", "讲师", "职员", "办公室"},
		model.IntentFacilityInfo:     {"图书馆", "实验室", "设施", "校园", "房间"},
		model.IntentFees:             {"学费", "费用", "付款", "价格", "奖学金", "多少钱"},
		model.IntentResearch:         {"研究", "科研", "项目", "导师"},
		model.IntentCareer:           {"职业", "实习", "工作", "就业"},
		model.IntentGreeting:         {"你好", "您好", "早上好"},
		model.IntentFarewell:         {"再见", "谢谢", "拜拜"},
	},
}

// PriorityPattern binds an intent to phrase templates that bypass the
// classifier entirely. Short, extremely common questions must not be subject
// to classifier noise.
type PriorityPattern struct {
	Intent  model.Intent
	Phrases []string
}

// priorityPatterns are checked in order; more specific intents come first.
var priorityPatterns = []PriorityPattern{
	{
		Intent: model.IntentAboutFAIX,
		Phrases: []string{
			"when was faix established", "when was faix founded", "when was faix",
			"when was the faculty", "history of faix", "what is faix",
			"who is the dean", "who is dean", "head of faculty",
			"what is the vision", "what is the mission", "faix vision", "faix mission",
		},
	},
	{
		Intent: model.IntentProgramInfo,
		Phrases: []string{
			"what programs does", "what programmes does", "what programs are",
			"what programs", "what programmes", "programs available",
			"programmes available", "what degrees",
		},
	},
	{
		Intent: model.IntentStaffContact,
		Phrases: []string{
			"who can i contact", "who should i contact", "who should i email",
			"how do i contact", "contact information", "staff email",
			"staff phone", "get in touch",
		},
	},
	{
		Intent: model.IntentAcademicSchedule,
		Phrases: []string{
			"academic calendar", "when does the semester", "when is the semester",
			"when does semester start", "semester start date", "semester dates",
			"important dates", "when are classes",
		},
	},
	{
		Intent: model.IntentAdmission,
		Phrases: []string{
			"admission requirements", "entry requirements", "admission criteria",
			"how to apply", "how do i apply",
		},
	},
	{
		Intent: model.IntentFacilityInfo,
		Phrases: []string{
			"what facilities", "what labs", "what laboratories", "facilities available",
		},
	},
	{
		Intent: model.IntentResearch,
		Phrases: []string{
			"what research areas", "research areas", "research focus", "what research",
		},
	},
}

// stopwords per language, used by detection scoring and keyword extraction.
var stopwords = map[string][]string{
	LangEnglish: {"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by", "is", "are", "was", "were", "do", "does", "can", "could", "would", "should", "what", "how"},
	LangMalay:   {"yang", "dan", "atau", "di", "dalam", "pada", "ke", "untuk", "dari", "dengan", "adalah", "akan", "telah", "boleh", "dapat", "apa", "bagaimana", "itu", "ini"},
	LangChinese: {"的", "了", "和", "在", "是", "我", "有", "就", "不", "也", "很", "吗", "呢", "可以", "能", "会", "要"},
}

// markers are short function words that identify a language when no domain
// keyword matches.
var markers = map[string][]string{
	LangMalay:   {"apa", "bagaimana", "untuk", "dengan", "adalah", "saya", "bila", "berapa"},
	LangChinese: {"什么", "如何", "吗", "呢", "的", "怎么"},
}

// CourseCodePrefixes are the faculty's programme codes; the entity extractor
// matches them bare or followed by a section number.
var CourseCodePrefixes = []string{"BAXI", "BAXZ", "BITZ", "BAXS"}

// StaffNames is the directory lexicon used for person_name extraction and for
// exact-match document keys in retrieval. Lookup is case-insensitive.
var StaffNames = []string{
	"Aniza Othman",
	"Burairah Hussin",
	"Cheng Wai Khuen",
	"Halizah Basiron",
	"Lim Kian Long",
	"Mohd Fairuz Iskandar Othman",
	"Noraswaliza Abdullah",
	"Nurul Akmar Emran",
	"Sazilah Salam",
	"Zeratul Izzah Mohd Yusoh",
}

// Keywords returns the keyword list for an intent in the given language,
// falling back to the English table when the language has no entry.
func Keywords(lang string, intent model.Intent) []string {
	table, ok := keywords[lang]
	if !ok {
		table = keywords[LangEnglish]
	}
	kws, ok := table[intent]
	if !ok {
		return keywords[LangEnglish][intent]
	}
	return kws
}

// Intents returns every intent that has keywords in the given language.
func Intents(lang string) []model.Intent {
	table, ok := keywords[lang]
	if !ok {
		table = keywords[LangEnglish]
	}
	out := make([]model.Intent, 0, len(table))
	for _, it := range model.AllIntents {
		if _, ok := table[it]; ok {
			out = append(out, it)
		}
	}
	return out
}

// PriorityPatterns returns the ordered pattern list.
func PriorityPatterns() []PriorityPattern { return priorityPatterns }

// Stopwords returns the stopword list for a language (English when unknown).
func Stopwords(lang string) []string {
	if sw, ok := stopwords[lang]; ok {
		return sw
	}
	return stopwords[LangEnglish]
}

// Markers returns the language's identifying function words.
func Markers(lang string) []string { return markers[lang] }

// Tokenize lower-cases and splits on whitespace, trimming common punctuation.
// Chinese text is not word-segmented; callers match Chinese keywords as
// substrings instead.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks every table against the closed intent enumeration. Called
// once at startup; a failure here is a programming error, not a runtime
// condition.
func Validate() error {
	for lang, table := range keywords {
		for intent := range table {
			if _, err := model.ParseIntent(string(intent)); err != nil {
				return fmt.Errorf("lexicon %s: %w", lang, err)
			}
		}
	}
	for _, pp := range priorityPatterns {
		if _, err := model.ParseIntent(string(pp.Intent)); err != nil {
			return fmt.Errorf("priority pattern: %w", err)
		}
		if len(pp.Phrases) == 0 {
			return fmt.Errorf("priority pattern for %s has no phrases", pp.Intent)
		}
	}
	return nil
}
