package school

import (
	"github.com/go-playground/validator/v10"

	"github.com/academia-hq/academia/core"
)

var (
	attStatusTag  = "attstatus"
	attStatusText = "invalid attendance status"
)

func init() {
	_ = core.Validate.RegisterValidation(attStatusTag, attStatusValidation)
	core.RegisterCustomTranslation(attStatusTag, attStatusText)
}

// attStatusValidation checks that the value is one of AttendanceStatuses.
func attStatusValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, status := range AttendanceStatuses {
		if val == status {
			return true
		}
	}
	return false
}
