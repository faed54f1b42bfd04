package docreq

import (
	"github.com/go-playground/validator/v10"

	"github.com/academia-hq/academia/core"
)

var (
	docTypeTag  = "doctype"
	docTypeText = "invalid document type"
)

func init() {
	_ = core.Validate.RegisterValidation(docTypeTag, docTypeValidation)
	core.RegisterCustomTranslation(docTypeTag, docTypeText)
}

// docTypeValidation checks that the value is one of Types.
func docTypeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, typ := range Types {
		if val == typ {
			return true
		}
	}
	return false
}
