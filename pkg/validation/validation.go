package validation

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsHHMM 判断字符串是否为 24 小时制 "HH:MM"
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// Register 向 gin 默认校验器注册自定义规则
//   - hhmm: 24 小时制时刻，如 "08:30"
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin 校验引擎不是 validator/v10")
	}
	return RegisterOn(v)
}

// RegisterOn 在指定校验器上注册自定义规则
func RegisterOn(v *validator.Validate) error {
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsHHMM(fl.Field().String())
	})
}
