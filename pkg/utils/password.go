package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// PasswordStrength is the result of evaluating a candidate password.
// Valid reflects only the hard requirements (length, letter, digit);
// the score and feedback cover advisory complexity checks as well.
type PasswordStrength struct {
	Valid    bool     `json:"valid"`
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
}

func EvaluatePassword(password string) PasswordStrength {
	result := PasswordStrength{Valid: true, Score: 0}

	if len(password) < MinPasswordLength {
		result.Feedback = append(result.Feedback, "Password must be at least 8 characters long")
		result.Valid = false
	} else {
		result.Score += 20
		if len(password) >= 12 {
			result.Score += 10
		}
		if len(password) >= 16 {
			result.Score += 10
		}
	}

	var hasLetter, hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
			hasUpper = true
		case unicode.IsLower(r):
			hasLetter = true
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasLetter {
		result.Feedback = append(result.Feedback, "Password must contain at least one letter")
		result.Valid = false
	} else {
		result.Score += 15
	}

	if !hasDigit {
		result.Feedback = append(result.Feedback, "Password must contain at least one number")
		result.Valid = false
	} else {
		result.Score += 15
	}

	// Advisory complexity checks: affect score and feedback only.
	if hasUpper {
		result.Score += 10
	} else {
		result.Feedback = append(result.Feedback, "Consider adding uppercase letters for a stronger password")
	}
	if hasLower {
		result.Score += 10
	} else {
		result.Feedback = append(result.Feedback, "Consider adding lowercase letters for a stronger password")
	}
	if hasSpecial {
		result.Score += 20
	} else {
		result.Feedback = append(result.Feedback, "Consider adding special characters (!@#$%^&*) for a stronger password")
	}

	lower := strings.ToLower(password)
	for _, check := range patternChecks {
		if check.match(lower) {
			result.Feedback = append(result.Feedback, check.message)
			result.Score -= 15
		}
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}

	if result.Valid && len(result.Feedback) == 0 {
		switch {
		case result.Score >= 70:
			result.Feedback = []string{"Strong password!"}
		case result.Score >= 50:
			result.Feedback = []string{"Good password"}
		default:
			result.Feedback = []string{"Password meets minimum requirements"}
		}
	}

	return result
}

func StrengthLabel(score int) string {
	switch {
	case score >= 70:
		return "strong"
	case score >= 50:
		return "medium"
	default:
		return "weak"
	}
}

var patternChecks = []struct {
	match   func(string) bool
	message string
}{
	{hasRepeatedRun, "Avoid repeating characters (e.g., 'aaa')"},
	{containsAny("12345", "23456", "34567"), "Avoid sequential numbers"},
	{containsAny("abcde", "bcdef", "cdefg"), "Avoid sequential letters"},
	{containsAny("password", "qwerty", "admin"), "Avoid common words like 'password' or 'admin'"},
}

// hasRepeatedRun reports whether the string contains the same character
// three or more times in a row.
func hasRepeatedRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= 3 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func containsAny(needles ...string) func(string) bool {
	return func(s string) bool {
		for _, n := range needles {
			if strings.Contains(s, n) {
				return true
			}
		}
		return false
	}
}
