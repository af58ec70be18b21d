package model

import "fmt"

// Intent is the closed set of categories the engine can assign to an
// utterance. Unknown strings are rejected at configuration load time; request
// handling never sees an intent outside this enumeration.
type Intent string

const (
	IntentAboutFAIX        Intent = "about_faix"
	IntentProgramInfo      Intent = "program_info"
	IntentCourseInfo       Intent = "course_info"
	IntentRegistration     Intent = "registration"
	IntentAdmission        Intent = "admission"
	IntentAcademicSchedule Intent = "academic_schedule"
	IntentStaffContact     Intent = "staff_contact"
	IntentFacilityInfo     Intent = "facility_info"
	IntentFees             Intent = "fees"
	IntentResearch         Intent = "research"
	IntentCareer           Intent = "career"
	IntentGreeting         Intent = "greeting"
	IntentFarewell         Intent = "farewell"
	IntentUnknown          Intent = "unknown"
)

// AllIntents lists every configured intent in a stable order.
var AllIntents = []Intent{
	IntentAboutFAIX,
	IntentProgramInfo,
	IntentCourseInfo,
	IntentRegistration,
	IntentAdmission,
	IntentAcademicSchedule,
	IntentStaffContact,
	IntentFacilityInfo,
	IntentFees,
	IntentResearch,
	IntentCareer,
	IntentGreeting,
	IntentFarewell,
	IntentUnknown,
}

// IntentDescriptions are the natural-language hypotheses handed to the
// zero-shot classifier, one per classifiable intent.
var IntentDescriptions = map[Intent]string{
	IntentAboutFAIX:        "General information about the FAIX faculty, its history, dean, vision and mission",
	IntentProgramInfo:      "Questions about academic programmes, degrees, requirements or programme details",
	IntentCourseInfo:       "Questions about specific courses, subjects, modules or curriculum content",
	IntentRegistration:     "Questions about course registration, enrollment, application process or deadlines",
	IntentAdmission:        "Questions about admission requirements, entry criteria or how to apply",
	IntentAcademicSchedule: "Questions about the academic calendar, semester dates, class schedules or timetables",
	IntentStaffContact:     "Questions about contacting staff members, faculty, professors or getting contact information",
	IntentFacilityInfo:     "Questions about campus facilities, laboratories, buildings or equipment",
	IntentFees:             "Questions about tuition fees, costs, payments or financial matters",
	IntentResearch:         "Questions about research areas, research focus or faculty research projects",
	IntentCareer:           "Questions about career prospects, internships, jobs or employment",
	IntentGreeting:         "Greetings or conversation openers from the user",
	IntentFarewell:         "Farewells, thanks or conversation closers from the user",
}

// ParseIntent validates a raw string against the closed enumeration.
func ParseIntent(s string) (Intent, error) {
	for _, it := range AllIntents {
		if Intent(s) == it {
			return it, nil
		}
	}
	return IntentUnknown, fmt.Errorf("unknown intent %q", s)
}

// searchStyleIntents are the intents whose answers legitimately report "not
// found" when a directory or catalog has no matching entry. A no-answer
// signature in a response for any other intent is treated as agent bleed.
var searchStyleIntents = map[Intent]struct{}{
	IntentStaffContact: {},
	IntentCourseInfo:   {},
}

// IsSearchStyle reports whether a "couldn't find" answer is plausible for the
// intent rather than a sign of a mismatched agent.
func (i Intent) IsSearchStyle() bool {
	_, ok := searchStyleIntents[i]
	return ok
}

func (i Intent) String() string { return string(i) }

// ConfidenceBand buckets a classifier confidence for routing and validation
// decisions.
type ConfidenceBand int

const (
	BandVeryLow ConfidenceBand = iota // <0.3: route to the catch-all agent
	BandLow                           // 0.3–0.5: validator becomes stricter
	BandMedium                        // 0.5–0.8: retrieval widens its net
	BandHigh                          // >=0.8: direct routing
)

// Band maps a confidence score onto its routing band.
func Band(confidence float64) ConfidenceBand {
	switch {
	case confidence >= 0.8:
		return BandHigh
	case confidence >= 0.5:
		return BandMedium
	case confidence >= 0.3:
		return BandLow
	default:
		return BandVeryLow
	}
}

func (b ConfidenceBand) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	case BandLow:
		return "low"
	default:
		return "very_low"
	}
}
