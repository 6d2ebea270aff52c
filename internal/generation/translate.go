package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/agri-advisor/internal/prompt"
)

// #region translator
// Translator rewrites text into a target language through a Generator.
type Translator struct {
	gen Generator
}

// NewTranslator builds a Translator on top of gen.
func NewTranslator(gen Generator) *Translator {
	return &Translator{gen: gen}
}

// TranslatePrompt builds the translate-and-replace instruction.
func TranslatePrompt(text, language string) string {
	return fmt.Sprintf("Translate the following text to %s. Maintain the agricultural context and technical terms. "+
		"Respond with only the translated text.\n\nText: \"%s\"", prompt.LanguageName(language), text)
}

// Translate returns text in language. Unsupported languages return text unchanged.
func (t *Translator) Translate(ctx context.Context, text, language string) (string, error) {
	if !prompt.Supported(language) {
		return text, nil
	}
	res, err := t.gen.Generate(ctx, Request{Prompt: TranslatePrompt(text, language), Language: language})
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", language, err)
	}
	return strings.Trim(strings.TrimSpace(res.Text), `"`), nil
}

// #endregion translator
