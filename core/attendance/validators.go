package attendance

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ericardos/chamada-escolar/core"
)

var (
	// custom validation tags & texts
	statusTag  = "attstatus"
	statusText = "must be one of Presente, Falta or Justificada"

	dateTag  = "attdate"
	dateText = "must be a date in YYYY-MM-DD format"
)

// InitValidators registers the attendance-specific validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(dateTag, dateValidation)
	core.RegisterCustomTranslation(validate, translator, dateTag, dateText)
}

// statusValidation only allows explicitly recordable statuses.
func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Writable()
}

// dateValidation allows "YYYY-MM-DD" calendar dates; empty means today and
// is allowed where omitempty is combined with the tag.
func dateValidation(fl validator.FieldLevel) bool {
	return ValidDate(fl.Field().String())
}
