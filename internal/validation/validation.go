package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern определяет допустимый формат email
// Упрощенная проверка: непустая локальная часть, @, домен с точкой
var EmailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxNameLen максимальная длина отображаемого имени
	MaxNameLen = 128
)

// FieldError описывает ошибку валидации одного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors представляет набор ошибок валидации по полям
type Errors []FieldError

// Error implements the error interface
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// OrNil возвращает nil если ошибок нет
// Позволяет возвращать e напрямую из функций валидации
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidateName проверяет отображаемое имя пользователя
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return FieldError{Field: "name", Message: "Name is required"}
	}
	if len(name) > MaxNameLen {
		return FieldError{Field: "name", Message: fmt.Sprintf("Name must not exceed %d characters", MaxNameLen)}
	}
	return nil
}

// ValidateEmail проверяет синтаксис email
func ValidateEmail(email string) error {
	if email == "" {
		return FieldError{Field: "email", Message: "Email is required"}
	}
	if !EmailPattern.MatchString(email) {
		return FieldError{Field: "email", Message: "Please include a valid email"}
	}
	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
// Минимум 8 символов
func ValidatePassword(password string) error {
	if password == "" {
		return FieldError{Field: "password", Message: "Password is required"}
	}
	if len(password) < MinPasswordLen {
		return FieldError{
			Field:   "password",
			Message: fmt.Sprintf("Please enter a password with %d or more characters", MinPasswordLen),
		}
	}
	return nil
}

// ValidateRegistration проверяет все поля регистрации и собирает
// ошибки по каждому полю отдельно
func ValidateRegistration(name, email, password string) Errors {
	var errs Errors
	if err := ValidateName(name); err != nil {
		errs = append(errs, err.(FieldError))
	}
	if err := ValidateEmail(email); err != nil {
		errs = append(errs, err.(FieldError))
	}
	if err := ValidatePassword(password); err != nil {
		errs = append(errs, err.(FieldError))
	}
	return errs
}

// NormalizeEmail приводит email к каноническому виду для хранения и поиска
// Email уникален без учета регистра
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
