package validator

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	unsafeChars   = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	allowedImages = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
)

const (
	maxPasswordLength = 128
	minPasswordLength = 8
	maxEmailLength    = 254
	MaxTitleLength    = 120
)

func init() {
	validate = validator.New()
	// report fields by their form names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// FieldErrors indexes the result by field for form re-rendering.
func (r ValidationResult) FieldErrors() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		out[e.Field] = e.Message
	}
	return out
}

// PostForm is the submitted shape of a post, before the image upload.
type PostForm struct {
	Title       string `form:"title" validate:"required,max=120"`
	Content     string `form:"content" validate:"required"`
	PublishDate string `form:"publish_date" validate:"required,datetime=2006-01-02"`
	Draft       bool   `form:"draft"`
}

// Normalize trims the free-text fields so whitespace alone never passes
// "required".
func (f PostForm) Normalize() PostForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	f.PublishDate = strings.TrimSpace(f.PublishDate)
	return f
}

func Validate(s any) error {
	return validate.Struct(s)
}

func ValidatePost(form PostForm) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []ValidationError{}}

	err := Validate(form)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Field: "form", Message: err.Error()})
		return result
	}

	result.Valid = false
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, ValidationError{Field: fe.Field(), Message: message(fe)})
	}
	return result
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email too long (max %d characters)", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must have at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password too long (max %d characters)", maxPasswordLength)
	}
	return nil
}

func ValidateCredentials(email, password string) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []ValidationError{}}

	if err := ValidateEmail(email); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Field: "email", Message: err.Error()})
	}

	if err := ValidatePassword(password); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Field: "password", Message: err.Error()})
	}

	return result
}

func ValidateUpload(filename string, contentType string, maxSize, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if !allowedImages[ext] {
		return fmt.Errorf("file type not allowed, use: jpg, jpeg, png, gif, webp")
	}
	if size > maxSize {
		return fmt.Errorf("file exceeds the %dMB limit", maxSize/1024/1024)
	}

	allowedContentTypes := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	if !allowedContentTypes[contentType] {
		return fmt.Errorf("content type not allowed")
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType != contentType && !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("extension does not match the file type")
	}

	return nil
}

func SanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	name = unsafeChars.ReplaceAllString(name, "_")

	if len(name) > 50 {
		name = name[:50]
	}

	return name + ext
}
