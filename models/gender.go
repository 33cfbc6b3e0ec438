package models

import (
	"database/sql/driver"
	"fmt"
	"regexp"

	"github.com/go-playground/validator"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

var genderPattern = regexp.MustCompile("^(male|female|unisex)$")

func (g *Gender) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*g = Gender(v)
	case []byte:
		*g = Gender(v)
	case nil:
		*g = ""
	default:
		return fmt.Errorf("cannot scan %T into Gender", value)
	}
	return nil
}

func (g Gender) Value() (driver.Value, error) {
	return string(g), nil
}

// ResolveGender picks the first non-empty gender, falling back to unisex.
func ResolveGender(candidates ...Gender) Gender {
	for _, g := range candidates {
		if g != "" {
			return g
		}
	}
	return GenderUnisex
}

func ValidateGender(fl validator.FieldLevel) bool {
	return genderPattern.MatchString(fl.Field().String())
}

func ValidateGenderRaw(value string) bool {
	return genderPattern.MatchString(value)
}
