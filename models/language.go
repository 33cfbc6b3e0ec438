package models

import (
	"database/sql/driver"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

type Language string

const (
	TR Language = "tr"
	EN Language = "en"
)

var languagePattern = regexp.MustCompile("^(tr|en)$")

func (l *Language) Scan(value interface{}) error {
	s, _ := value.(string)
	*l = Language(s)
	return nil
}

func (l Language) Value() (driver.Value, error) {
	return string(l), nil
}

// Normalize lowercases and trims a client-supplied language code.
func (l Language) Normalize() Language {
	return Language(strings.ToLower(strings.TrimSpace(string(l))))
}

func (l Language) OrDefault() Language {
	if n := l.Normalize(); ValidateLanguageRaw(string(n)) {
		return n
	}
	return EN
}

func ValidateLanguage(fl validator.FieldLevel) bool {
	return ValidateLanguageRaw(fl.Field().String())
}

func ValidateLanguageRaw(value string) bool {
	return languagePattern.MatchString(string(Language(value).Normalize()))
}
