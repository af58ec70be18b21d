package classifier

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	errx "github.com/faix-chatbot/engine/internal/core/error"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

const (
	recDelim = "##"
	tupDelim = "<||>"
	endDelim = "<|COMPLETE|>"
)

// basic safety limits to avoid pathological model outputs
const (
	maxContentLen = 64 * 1024
	maxRecords    = 100
	maxTupleLen   = 1024
	maxErrSnippet = 200
)

type labelScore struct {
	Label      string
	Confidence float64
}

// parseLabelScores parses the scorer's delimiter-tuple output. Malformed
// records are skipped rather than failing the whole response; only a panic or
// a response with zero usable records is an error.
func parseLabelScores(content string) (scores []labelScore, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "zeroshot_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("zeroshot parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			scores = nil
		}
	}()

	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "zeroshot_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}
	if idx := strings.Index(content, endDelim); idx >= 0 {
		content = content[:idx]
	}

	records := strings.Split(content, recDelim)
	processed := 0
	for _, rec := range records {
		if processed >= maxRecords {
			logx.Warn().
				Str("component", "zeroshot_parser").
				Int("max_records", maxRecords).
				Msg("record processing capped")
			break
		}
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		processed++

		ls, perr := parseLabelTuple(rec)
		if perr != nil {
			logx.Debug().Str("component", "zeroshot_parser").Msgf("bad record: %s", safeSnippet(rec))
			continue
		}
		scores = append(scores, *ls)
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("no usable label records")
	}
	return scores, nil
}

func parseLabelTuple(s string) (*labelScore, error) {
	if len(s) > maxTupleLen {
		return nil, fmt.Errorf("tuple too large")
	}
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("invalid tuple parens")
	}
	parts := strings.SplitN(s[1:len(s)-1], tupDelim, 3)
	if len(parts) != 3 || strings.TrimSpace(parts[0]) != "label" {
		return nil, fmt.Errorf("invalid tuple parts")
	}
	name := strings.TrimSpace(parts[1])
	if name == "" || !utf8.ValidString(name) {
		return nil, fmt.Errorf("invalid label name")
	}
	conf, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("confidence parse: %w", err)
	}
	if math.IsNaN(conf) || math.IsInf(conf, 0) || conf < 0 || conf > 1 {
		return nil, fmt.Errorf("confidence out of range")
	}
	return &labelScore{Label: name, Confidence: conf}, nil
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
