package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations wires the project-specific rules into the
// validator instance used by echo.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("equipment_serial", isEquipmentSerial); err != nil {
		return err
	}
	if err := v.RegisterValidation("checklist_result", isChecklistResult); err != nil {
		return err
	}
	return nil
}

var serialRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]{1,119}$`)

func isEquipmentSerial(fl validator.FieldLevel) bool {
	return serialRegex.MatchString(fl.Field().String())
}

func isChecklistResult(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "normal" || s == "abnormal"
}
