package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Выбор карты в форме: пусто (гость), "new" или индекс сохраненной карты
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("cardchoice", func(fl validator.FieldLevel) bool {
		choice := fl.Field().String()
		if choice == "new" {
			return true
		}
		idx, err := strconv.Atoi(choice)
		return err == nil && idx >= 0
	})
}
