// Package validation содержит функции валидации входных данных.
package validation

import (
	"strings"
	"unicode"
)

// IsBlank проверяет, что строка пуста или состоит из пробельных символов.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidPhone проверяет телефонный номер: допускаются цифры, ведущий «+»
// и разделители-пробелы, всего от 9 до 11 цифр.
func IsValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}

	digits := 0
	for i, ch := range phone {
		if ch == '+' && i == 0 {
			continue
		}
		if ch == ' ' || ch == '-' {
			continue
		}
		if !unicode.IsDigit(ch) {
			return false
		}
		digits++
	}

	return digits >= 9 && digits <= 11
}

// IsValidEmail выполняет поверхностную проверку адреса электронной почты.
// Настоящая проверка — на стороне сервера; здесь отсекается очевидный мусор.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
