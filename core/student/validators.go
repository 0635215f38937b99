package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/uniwayhq/uniway/core"
)

func clean(s string) string      { return core.CleanString(s) }
func cleanLower(s string) string { return core.CleanString(s, true /* lower */) }

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	core.RegisterCustomTranslation(validate, translator, tag, text)
}
