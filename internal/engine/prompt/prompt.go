// Package prompt assembles the message list sent to the response model: the
// agent's persona as system message, a delimited context block, bounded
// history, then the user turn.
package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/faix-chatbot/engine/internal/engine/lexicon"
	"github.com/faix-chatbot/engine/internal/engine/model"
)

//go:embed template/faq_persona.txt
var faqPersona string

//go:embed template/schedule_persona.txt
var schedulePersona string

//go:embed template/staff_persona.txt
var staffPersona string

//go:embed template/catchall_persona.txt
var catchallPersona string

// DefaultMaxChars bounds the assembled prompt. Gemini context windows are far
// larger; this bound keeps latency and cost predictable.
const DefaultMaxChars = 24000

var personas = map[model.AgentID]string{
	model.AgentFAQ:      faqPersona,
	model.AgentSchedule: schedulePersona,
	model.AgentStaff:    staffPersona,
	model.AgentCatchall: catchallPersona,
}

var languageNames = map[string]string{
	lexicon.LangEnglish: "English",
	lexicon.LangMalay:   "Malay",
	lexicon.LangChinese: "Chinese",
}

type Assembler struct {
	maxChars int
}

func NewAssembler(maxChars int) *Assembler {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Assembler{maxChars: maxChars}
}

// Assemble builds the model input. When the result exceeds the budget it
// drops the oldest history turn first, then the lowest-scored context
// document; the persona and the current user turn are never dropped.
func (a *Assembler) Assemble(ctx context.Context, agentID model.AgentID, language string, docs []model.ContextDocument, history []*schema.Message, userText string) ([]*schema.Message, error) {
	persona, ok := personas[agentID]
	if !ok {
		return nil, fmt.Errorf("no persona for agent %q", agentID)
	}
	langName, ok := languageNames[language]
	if !ok {
		langName = languageNames[lexicon.LangEnglish]
	}

	tpl := einoprompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(persona),
	)
	msgs, err := tpl.Format(ctx, map[string]any{"Language": langName})
	if err != nil {
		return nil, fmt.Errorf("persona render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("persona render: empty result")
	}
	system := msgs[0]

	for {
		out := make([]*schema.Message, 0, len(history)+3)
		out = append(out, system)
		if block := contextBlock(docs); block != "" {
			out = append(out, schema.SystemMessage(block))
		}
		out = append(out, history...)
		out = append(out, schema.UserMessage(userText))

		if totalChars(out) <= a.maxChars {
			return out, nil
		}
		switch {
		case len(history) > 0:
			history = history[1:]
		case len(docs) > 0:
			docs = docs[:len(docs)-1]
		default:
			// only persona and user turn remain; send as is
			return out, nil
		}
	}
}

// contextBlock renders the retrieved documents between fixed delimiters with
// a document count header, best document first.
func contextBlock(docs []model.ContextDocument) string {
	if len(docs) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- CONTEXT (%d documents) ---\n", len(docs))
	for i, d := range docs {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, d.Text)
	}
	b.WriteString("--- END CONTEXT ---")
	return b.String()
}

func totalChars(msgs []*schema.Message) int {
	n := 0
	for _, m := range msgs {
		n += len(m.Content)
	}
	return n
}
