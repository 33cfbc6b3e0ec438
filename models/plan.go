package models

import (
	"database/sql/driver"
	"fmt"
	"regexp"

	"github.com/go-playground/validator"
)

type Plan string

const (
	PlanAnonymous Plan = "anonymous"
	PlanFree      Plan = "free"     // basic
	PlanStandard  Plan = "standard" // ad-free, more suggestions
	PlanPremium   Plan = "premium"  // unlimited + search links
)

var planPattern = regexp.MustCompile("^(free|standard|premium)$")

// DailyLimit returns the base number of suggestions per calendar day.
// Unknown plans get the free allowance.
func (p Plan) DailyLimit() (limit int, unlimited bool) {
	switch p {
	case PlanPremium:
		return 0, true
	case PlanStandard:
		return 10, false
	case PlanAnonymous:
		return 1, false
	default:
		return 2, false
	}
}

func (p Plan) IsPremium() bool {
	return p == PlanPremium
}

func (p Plan) OrDefault() Plan {
	if p == "" {
		return PlanFree
	}
	return p
}

func (p *Plan) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*p = Plan(v)
	case []byte:
		*p = Plan(v)
	case nil:
		*p = ""
	default:
		return fmt.Errorf("cannot scan %T into Plan", value)
	}
	return nil
}

func (p Plan) Value() (driver.Value, error) {
	return string(p), nil
}

// ValidatePlan accepts the plans a client may ask for. anonymous is assigned, never requested.
func ValidatePlan(fl validator.FieldLevel) bool {
	return planPattern.MatchString(fl.Field().String())
}

func ValidatePlanRaw(value string) bool {
	return planPattern.MatchString(value)
}
