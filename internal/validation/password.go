package validation

import (
	"fmt"
	"unicode"
)

// ValidatePassword проверяет пароль на соответствие требованиям безопасности:
// минимум 8 символов, хотя бы одна буква и хотя бы одна цифра.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен быть не менее 8 символов")
	}

	hasLetter := false
	hasNumber := false

	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("пароль должен содержать хотя бы одну букву")
	}
	if !hasNumber {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}

	return nil
}
