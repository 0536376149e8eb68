package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/pkg/validation"
)

// RegisterBindingRules adds the application's custom tags to gin's binding
// validator so `binding:"..."` tags can use them too.
func RegisterBindingRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return validation.Register(v)
}

// BindJSON decodes the request body into obj. On failure it writes a 400
// response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		message := "Invalid request format"
		if errors.As(err, &verrs) {
			message = validation.Describe(verrs)
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
		c.JSON(http.StatusBadRequest, dto.NewFailure(errorDetail))
		return false
	}
	return true
}
