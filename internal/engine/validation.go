// Package engine holds the pure evaluation rules of a survey-taking session:
// answer validation, skip-logic visibility, randomized ordering and quiz scoring.
// Nothing in this package performs I/O or mutates its inputs.
package engine

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// Validation result codes
const (
	CodeRequired  = "required"
	CodeMinLength = "min_length"
	CodeMaxLength = "max_length"
	CodePattern   = "pattern"
	CodeMin       = "min"
	CodeMax       = "max"
	CodeEmail     = "email"
	CodeURL       = "url"
	CodeFileSize  = "file_size"
	CodeFileCount = "file_count"
	CodeFileType  = "file_type"
)

// Validation messages shown to respondents
const (
	MsgRequired       = "This question is required"
	MsgInvalidFormat  = "Invalid format"
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgInvalidURL     = "Please enter a valid URL"
	msgMinLength      = "Minimum length is %d characters"
	msgMaxLength      = "Maximum length is %d characters"
	msgMinValue       = "Minimum value is %s"
	msgMaxValue       = "Maximum value is %s"
	msgFileTooLarge   = "Some files exceed the maximum size of %dMB"
	msgTooManyFiles   = "Maximum %d files allowed"
	msgFileNotAllowed = "File type not allowed: %s"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationResult is the outcome of checking one answer
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Valid is the passing result
var Valid = ValidationResult{Valid: true}

func invalid(code, message string) ValidationResult {
	return ValidationResult{Valid: false, Code: code, Message: message}
}

// Err converts a failing result into a *models.ValidationError for the question
func (r ValidationResult) Err(questionID string) error {
	if r.Valid {
		return nil
	}
	return &models.ValidationError{QuestionID: questionID, Code: r.Code, Message: r.Message}
}

// Validate checks one answer against the question's required flag and rule bag.
// Constraints run in a fixed order and the first failure is returned.
// An empty answer to an optional question is always valid.
func Validate(q *models.Question, value models.AnswerValue) ValidationResult {
	if value.IsEmpty() {
		if q.Required {
			return invalid(CodeRequired, MsgRequired)
		}
		return Valid
	}

	rules := q.Validation
	if value.IsScalar() {
		length := utf8.RuneCountInString(value.Text)
		if rules.MinLength != nil && length < *rules.MinLength {
			return invalid(CodeMinLength, fmt.Sprintf(msgMinLength, *rules.MinLength))
		}
		if rules.MaxLength != nil && length > *rules.MaxLength {
			return invalid(CodeMaxLength, fmt.Sprintf(msgMaxLength, *rules.MaxLength))
		}
		if rules.Pattern != "" && !matchesPattern(rules.Pattern, value.Text) {
			msg := rules.Message
			if msg == "" {
				msg = MsgInvalidFormat
			}
			return invalid(CodePattern, msg)
		}
	}

	if rules.Min != nil || rules.Max != nil {
		n, ok := value.Float()
		if rules.Min != nil && (!ok || n < *rules.Min) {
			return invalid(CodeMin, fmt.Sprintf(msgMinValue, formatNumber(*rules.Min)))
		}
		if rules.Max != nil && (!ok || n > *rules.Max) {
			return invalid(CodeMax, fmt.Sprintf(msgMaxValue, formatNumber(*rules.Max)))
		}
	}

	// Format rules only apply to string answers
	switch rules.Type {
	case models.ValidationFormatEmail:
		if value.IsScalar() && !emailPattern.MatchString(value.Text) {
			return invalid(CodeEmail, MsgInvalidEmail)
		}
	case models.ValidationFormatURL:
		if value.IsScalar() && !isURL(value.Text) {
			return invalid(CodeURL, MsgInvalidURL)
		}
	}

	return Valid
}

// matchesPattern reports false for patterns that do not compile
func matchesPattern(pattern, s string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func isURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FileLimits bounds the files a file question accepts
type FileLimits struct {
	MaxFileSizeMB int
	MaxFiles      int
	AllowedTypes  []string
}

// DefaultAllowedFileTypes applies when a survey does not list its own
var DefaultAllowedFileTypes = []string{"image/*", "application/pdf", ".doc", ".docx"}

// ValidateFiles checks count, per-file size and type of a file answer
func ValidateFiles(files []models.FileDescriptor, limits FileLimits) ValidationResult {
	if limits.MaxFiles > 0 && len(files) > limits.MaxFiles {
		return invalid(CodeFileCount, fmt.Sprintf(msgTooManyFiles, limits.MaxFiles))
	}
	maxBytes := int64(limits.MaxFileSizeMB) * 1024 * 1024
	for _, f := range files {
		if maxBytes > 0 && f.Size > maxBytes {
			return invalid(CodeFileSize, fmt.Sprintf(msgFileTooLarge, limits.MaxFileSizeMB))
		}
		if len(limits.AllowedTypes) > 0 && !fileTypeAllowed(f, limits.AllowedTypes) {
			return invalid(CodeFileType, fmt.Sprintf(msgFileNotAllowed, f.Name))
		}
	}
	return Valid
}

// fileTypeAllowed matches an accept list of exact MIME types, type/* wildcards
// and .ext suffixes
func fileTypeAllowed(f models.FileDescriptor, allowed []string) bool {
	mime := strings.ToLower(f.Type)
	ext := strings.ToLower(path.Ext(f.Name))
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		switch {
		case strings.HasPrefix(a, "."):
			if ext == a {
				return true
			}
		case strings.HasSuffix(a, "/*"):
			if strings.HasPrefix(mime, strings.TrimSuffix(a, "*")) {
				return true
			}
		case a == mime:
			return true
		}
	}
	return false
}
