package models

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

// occasion labels are lowercase slugs such as "business-meeting"
var occasionPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NormalizeOccasion lowercases and trims a client-supplied occasion label
// and folds underscores into hyphens, so "formal_dinner" is "formal-dinner".
func NormalizeOccasion(occasion string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(occasion)), "_", "-")
}

func ValidateOccasion(fl validator.FieldLevel) bool {
	return ValidateOccasionRaw(fl.Field().String())
}

func ValidateOccasionRaw(value string) bool {
	return occasionPattern.MatchString(NormalizeOccasion(value))
}
