package validate

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/cloudchaser/dashboard/internal/model"
)

// PasswordSpecials is the set of characters that satisfy the
// special-character requirement of the password policy.
const PasswordSpecials = `!@#$%^&*(),.?":{}|<>`

func registerRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("validate: register " + tag + ": " + err.Error())
		}
	}
	mustRegister("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	mustRegister("date", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	})
	// notbefore=OtherField: this date is not earlier than OtherField.
	// Unparseable dates are left to the date rule.
	mustRegister("notbefore", func(fl validator.FieldLevel) bool {
		other := fl.Parent().FieldByName(fl.Param())
		if !other.IsValid() {
			return false
		}
		end, err1 := model.ParseDate(fl.Field().String())
		start, err2 := model.ParseDate(other.String())
		if err1 != nil || err2 != nil {
			return true
		}
		return !end.Before(start.Time)
	})
	mustRegister("campaign_status", func(fl validator.FieldLevel) bool {
		return model.CampaignStatus(fl.Field().String()).Valid()
	})
	mustRegister("role", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseRole(fl.Field().String())
		return ok
	})
	mustRegister("money", func(fl validator.FieldLevel) bool {
		m, err := model.ParseMoney(fl.Field().String())
		return err == nil && m >= 0
	})
}

// StrongPassword reports whether p has at least 8 characters, one
// uppercase letter, one digit and one character from PasswordSpecials.
func StrongPassword(p string) bool {
	if len([]rune(p)) < 8 {
		return false
	}
	var upper, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	return upper && digit && special
}

// PasswordHint describes the password policy next to password fields.
const PasswordHint = "At least 8 characters, with an uppercase letter, a digit and one of " + PasswordSpecials
