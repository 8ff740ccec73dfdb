package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateCmd 只返回第一个不通过的字段
func validateCmd(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			return InvalidInput(fmt.Sprintf("%s is required", field))
		case "email":
			return InvalidInput(fmt.Sprintf("%s must be a valid email", field))
		case "min":
			return InvalidInput(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			return InvalidInput(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		}
		return InvalidInput(fmt.Sprintf("%s is invalid", field))
	}
	return InvalidInput(err.Error())
}
