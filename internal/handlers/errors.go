package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/middleware"
	"taskclinic/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Binding errors name fields by their JSON key.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondError renders err as {"error": code, "message": text}. Server
// errors are logged and rendered generically.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindServer {
		log.Printf("❌ %s %s failed: %v", c.Request.Method, c.FullPath(), appErr.Err)
	}

	body := gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), body)
}

// bindJSON decodes and validates the request body. Enum, syntax and
// binding tag failures all answer 400 validation_error; tag failures list
// one detail per field.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var enumErr *models.EnumError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &enumErr):
		respondError(c, apperrors.Validation(enumErr.Error()))
	case errors.As(err, &fieldErrs):
		details := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, fieldProblem(fe))
		}
		respondError(c, apperrors.Validation("validation failed", details...))
	default:
		respondError(c, apperrors.Validation("invalid request body", err.Error()))
	}
	return false
}

func fieldProblem(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		respondError(c, apperrors.Validation("invalid query parameters", err.Error()))
		return false
	}
	return true
}

// currentCaller returns the authenticated identity. A route mounted without
// the auth middleware answers 401.
func currentCaller(c *gin.Context) (models.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		respondError(c, apperrors.Authentication("missing_token", "Authorization header is required"))
	}
	return caller, ok
}
