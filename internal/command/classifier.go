package command

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

// Intent is the classifier's raw verdict on one utterance. Action and
// Target are untrusted phrases straight from the model; normalization
// and resolution happen downstream.
type Intent struct {
	IsCommand bool   `json:"is_command"`
	Action    string `json:"command"`
	Target    string `json:"target"`
}

// Classifier decides whether an utterance is a device command. Tests
// inject fakes; the daemon uses OpenAIClassifier.
type Classifier interface {
	Classify(ctx context.Context, text string) (Intent, error)
}

const classifierPrompt = `You are an NLP command parser for smart-home style requests.
Return only JSON with this exact schema:
{"is_command": boolean, "command": string|null, "target": string|null}
Allowed command values: %s
Decide is_command=true only when the user is asking to control a device/action.
For normal questions, explanations, or chitchat, set is_command=false and use null values.
Map paraphrases to canonical commands using meaning (for example, enable/power up -> turn_on).
target should be the controlled object phrase only (for example: living room lights).
Do not include extra keys or any text outside JSON.`

// OpenAIClassifier asks a chat model for the command/not-command
// judgment. Exactly one completion call per Classify.
type OpenAIClassifier struct {
	client openai.Client
	model  openai.ChatModel
	system string
}

// NewOpenAIClassifier builds a classifier whose system prompt embeds
// the canonical action list and the known-device context from cat.
func NewOpenAIClassifier(client openai.Client, model openai.ChatModel, cat *Catalog) *OpenAIClassifier {
	allowed := make([]string, len(Actions))
	for i, a := range Actions {
		allowed[i] = string(a)
	}
	system := fmt.Sprintf(classifierPrompt, strings.Join(allowed, ", "))
	system += "\nKnown devices:\n" + cat.Context()
	system += "Prefer canonical device names from this list when possible."

	return &OpenAIClassifier{client: client, model: model, system: system}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (Intent, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.system),
			openai.UserMessage(fmt.Sprintf("User input: %q\nReturn only JSON.", text)),
		},
		Model: c.model,
	})
	if err != nil {
		return Intent{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Intent{}, fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	log.Debug("classifier raw output", "content", content)

	intent, ok := ParseIntent(content)
	if !ok {
		// Unparseable model output is not an error: the utterance just
		// is not a command we can act on.
		return Intent{}, nil
	}
	return intent, nil
}

// ParseIntent extracts an Intent from untrusted model output. Returns
// ok=false when no JSON object with a boolean is_command can be found;
// the caller degrades that to "not a command".
func ParseIntent(content string) (Intent, bool) {
	obj, ok := extractJSONObject(content)
	if !ok {
		return Intent{}, false
	}

	rawIs, present := obj["is_command"]
	if !present {
		return Intent{}, false
	}
	isCommand, isBool := rawIs.(bool)
	if !isBool {
		return Intent{}, false
	}
	if !isCommand {
		return Intent{}, true
	}

	intent := Intent{IsCommand: true}
	if s, isStr := obj["command"].(string); isStr {
		intent.Action = strings.TrimSpace(s)
	}
	if s, isStr := obj["target"].(string); isStr {
		intent.Target = strings.TrimSpace(s)
	}
	return intent, true
}

// extractJSONObject finds the first JSON object in free text. Models
// routinely wrap their JSON in prose or code fences.
func extractJSONObject(content string) (map[string]any, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		return obj, true
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
