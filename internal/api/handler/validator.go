package handler

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yuktaemrith12/ConnectEd/internal/scheduling"
)

var registerOnce sync.Once

// RegisterValidators 向 Gin 的校验引擎注册自定义 binding 标签
//   - clock: "HH:MM" 格式的时刻
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("binding 校验引擎不是 validator/v10")
			return
		}
		err = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, perr := scheduling.ParseClock(fl.Field().String())
			return perr == nil
		})
	})
	return err
}
