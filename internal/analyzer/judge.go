package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/probelab/brandprobe/internal/llm"
	"github.com/probelab/brandprobe/internal/model"
)

// JudgeAnalyzer extracts visibility signals by asking a secondary LLM — the
// "judge" — to read the raw answer and emit strict JSON. The judge call goes
// through the same adapter contract as primary calls, so it inherits the
// task's deadline and the provider's rate limit.
//
// The judge is best-effort: any failure (call error, unparseable output)
// degrades to the deterministic rules and records the error on the
// Extraction. Decoding temperature is 0 in every adapter, which keeps the
// judge as deterministic as the vendor allows.
type JudgeAnalyzer struct {
	registry *llm.Registry
	provider string
	model    string
	rules    *RuleAnalyzer
	logger   *zap.Logger
}

// NewJudgeAnalyzer creates a judge-backed analyzer that falls back to rules.
func NewJudgeAnalyzer(registry *llm.Registry, provider string, model string, logger *zap.Logger) *JudgeAnalyzer {
	return &JudgeAnalyzer{
		registry: registry,
		provider: provider,
		model:    model,
		rules:    NewRuleAnalyzer(),
		logger:   logger,
	}
}

func (j *JudgeAnalyzer) Extract(ctx context.Context, rawText string, brand string, competitors []string, followUps []string) (*model.Extraction, error) {
	ext, err := j.judge(ctx, rawText, brand, competitors, followUps)
	if err == nil {
		return ext, nil
	}

	j.logger.Warn("judge pass failed, using rule extraction",
		zap.String("judge_provider", j.provider),
		zap.Error(err),
	)

	fallback, _ := j.rules.Extract(ctx, rawText, brand, competitors, followUps)
	fallback.JudgeError = err.Error()
	return fallback, nil
}

func (j *JudgeAnalyzer) judge(ctx context.Context, rawText string, brand string, competitors []string, followUps []string) (*model.Extraction, error) {
	prompt := buildJudgePrompt(rawText, brand, competitors, followUps)

	completion, err := j.registry.Complete(ctx, j.provider, prompt, j.model)
	if err != nil {
		return nil, fmt.Errorf("judge call: %w", err)
	}

	return parseJudgeOutput(completion.Text, competitors, followUps)
}

// parseJudgeOutput reads the judge's JSON tolerantly with gjson: models often
// wrap JSON in code fences or surrounding prose, so we parse the outermost
// {...} slice rather than demanding a clean document.
func parseJudgeOutput(text string, competitors []string, followUps []string) (*model.Extraction, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in judge output")
	}
	doc := text[start : end+1]

	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("malformed JSON in judge output")
	}

	root := gjson.Parse(doc)
	if !root.Get("brand_mentioned").Exists() {
		return nil, fmt.Errorf("judge output missing brand_mentioned")
	}

	ext := &model.Extraction{
		BrandMentioned: root.Get("brand_mentioned").Bool(),
		Ranking:        int(root.Get("ranking").Int()),
		Sentiment:      normalizeSentiment(root.Get("sentiment").String()),
	}

	// Keep only competitor names we were asked about, in the caller's
	// input order — the judge is not allowed to invent tracked names.
	reported := make(map[string]bool)
	root.Get("competitors_mentioned").ForEach(func(_, value gjson.Result) bool {
		reported[strings.ToLower(strings.TrimSpace(value.String()))] = true
		return true
	})
	for _, comp := range competitors {
		if reported[strings.ToLower(comp)] {
			ext.CompetitorsMentioned = append(ext.CompetitorsMentioned, comp)
		}
	}
	if ext.CompetitorsMentioned == nil {
		ext.CompetitorsMentioned = []string{}
	}

	if len(followUps) > 0 {
		ext.FollowUpAnswers = make([]string, len(followUps))
		answers := root.Get("follow_up_answers").Array()
		for i := range followUps {
			if i < len(answers) {
				ext.FollowUpAnswers[i] = strings.TrimSpace(answers[i].String())
			}
		}
	}

	return ext, nil
}

func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return "positive"
	case "negative":
		return "negative"
	default:
		return "neutral"
	}
}

func buildJudgePrompt(rawText string, brand string, competitors []string, followUps []string) string {
	var sb strings.Builder

	sb.WriteString("You are a brand visibility analyst. Read the ANSWER below and report, as strict JSON, how visible the brand is.\n\n")
	fmt.Fprintf(&sb, "Brand: %s\n", brand)
	fmt.Fprintf(&sb, "Competitors: %s\n", strings.Join(competitors, ", "))

	if len(followUps) > 0 {
		sb.WriteString("Follow-up questions (answer each from the ANSWER text only):\n")
		for i, q := range followUps {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
		}
	}

	sb.WriteString(`
Respond with ONLY a JSON object, no code fences, in this exact shape:
{
  "brand_mentioned": true or false,
  "ranking": <1-based position of the brand among all brands the ANSWER enumerates, 0 if the brand is absent or no ordering is given>,
  "competitors_mentioned": [<competitor names from the list above that appear in the ANSWER>],
  "sentiment": "positive" | "negative" | "neutral" <framing of the brand in the ANSWER>,
  "follow_up_answers": [<one short answer string per follow-up question, "" when the ANSWER does not say>]
}

ANSWER:
`)
	sb.WriteString(rawText)

	return sb.String()
}
