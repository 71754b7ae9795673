package groq

import (
	"context"
	"fmt"
	"strings"
)

const translateMaxTokens = 400

// Translator turns Indonesian post text into English through the completion endpoint.
type Translator struct {
	client *Client
}

func NewTranslator(client *Client) *Translator {
	return &Translator{client: client}
}

func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	out, err := t.client.complete(ctx, "translate", buildTranslatePrompt(text), translateMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(out), `"`), nil
}

func buildTranslatePrompt(text string) string {
	return fmt.Sprintf(`Translate the following Indonesian social media text into English.
Keep the meaning and tone. Respond ONLY with the translation.

TEXT: %s

TRANSLATION:`, text)
}
