package middleware

import (
	stderrors "errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/inventory-core/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var customValidators = map[string]validator.Func{
	"setting_category": validateSettingCategory,
	"safe_string":      validateSafeString,
	"seq_id":           validateSequentialID,
	"party_type":       validatePartyType,
}

func registerValidators(v *validator.Validate) {
	for tag, fn := range customValidators {
		_ = v.RegisterValidation(tag, fn)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// InitValidator registers the custom tags on gin's binding validator and on a
// standalone instance used by ValidateStruct
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		registerValidators(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerValidators(v)
		}
	})

	return validate
}

var (
	sequentialIDRegex = regexp.MustCompile(`^[A-Za-z]+-\d{4,}$`)
	safeStringRegex   = regexp.MustCompile(`^[^\x00-\x08\x0B\x0C\x0E-\x1F\x7F<>]*$`)
)

var settingCategories = map[string]bool{"measure_unit": true, "brand": true, "category": true}

func validateSettingCategory(fl validator.FieldLevel) bool {
	return settingCategories[strings.ToLower(fl.Field().String())]
}

func validatePartyType(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "supplier", "client":
		return true
	}
	return false
}

func validateSequentialID(fl validator.FieldLevel) bool {
	return sequentialIDRegex.MatchString(fl.Field().String())
}

func validateSafeString(fl validator.FieldLevel) bool {
	return safeStringRegex.MatchString(fl.Field().String())
}

// ValidationErrorFormatter formats validation errors into a map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fields[e.Field()] = formatValidationError(e)
		}
	}

	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "email":
		return "must be a valid email address"
	case "setting_category":
		return "must be one of: measure_unit, brand, category"
	case "party_type":
		return "must be one of: supplier, client"
	case "seq_id":
		return "must be a document id (format: PREFIX-0001)"
	case "safe_string":
		return "contains invalid characters"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// BindAndValidate binds request body and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrors validator.ValidationErrors
		if stderrors.As(err, &validationErrors) {
			return errors.ErrValidationWithFields("validation failed", ValidationErrorFormatter(validationErrors))
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(obj interface{}) *errors.AppError {
	if err := InitValidator().Struct(obj); err != nil {
		var validationErrors validator.ValidationErrors
		if stderrors.As(err, &validationErrors) {
			return errors.ErrValidationWithFields("validation failed", ValidationErrorFormatter(validationErrors))
		}
		return errors.ErrBadRequest("validation failed: " + err.Error())
	}
	return nil
}

// SanitizeString removes null bytes and surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

// InputSanitizer middleware sanitizes query parameters
func InputSanitizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		for key, values := range query {
			for i, v := range values {
				values[i] = SanitizeString(v)
			}
			query[key] = values
		}
		c.Request.URL.RawQuery = query.Encode()

		c.Next()
	}
}

// ContentType rejects bodies that are neither JSON nor a multipart upload
func ContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "POST", "PUT", "PATCH":
			contentType := c.GetHeader("Content-Type")
			allowed := strings.HasPrefix(contentType, "application/json") ||
				strings.HasPrefix(contentType, "multipart/form-data")
			if !allowed && c.Request.ContentLength > 0 {
				AbortWithAppError(c, errors.NewAppError("INVALID_CONTENT_TYPE",
					"Content-Type must be application/json or multipart/form-data", 415))
				return
			}
		}
		c.Next()
	}
}
