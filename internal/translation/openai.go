package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// OpenAI translates with a chat completion model.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI translator. Extra options are passed to the
// client, e.g. option.WithBaseURL for a compatible server.
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(1)}, opts...)
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// languageName returns the English name of a language code, or the code
// itself when it is unknown.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

func translationPrompt(source, target string) string {
	return fmt.Sprintf("You translate website content for a motorcycle club from %s to %s. "+
		"Return only the translation, without quotes or explanations. "+
		"Keep HTML tags, URLs and proper names unchanged.",
		languageName(source), languageName(target))
}

// Translate implements Translator.
func (o *OpenAI) Translate(ctx context.Context, text, source, target string) (string, error) {
	if !needsTranslation(text) {
		return text, nil
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(translationPrompt(source, target)),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("openai: empty translation")
	}
	return out, nil
}
