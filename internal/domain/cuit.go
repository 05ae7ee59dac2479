package domain

import (
	"errors"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

// Ошибки валидации CUIT
var (
	// ErrCUITLength после удаления нецифровых символов должно остаться ровно 11 цифр
	ErrCUITLength = errors.New("cuit must contain exactly 11 digits")

	// ErrCUITCheckDigit контрольная цифра не совпадает с вычисленной
	ErrCUITCheckDigit = errors.New("cuit check digit mismatch")
)

// Веса для вычисления контрольной цифры CUIT
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// NormalizeCUIT удаляет из строки все символы кроме ASCII-цифр
func NormalizeCUIT(s string) string {
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	return string(digits)
}

// ValidateCUIT проверяет CUIT: 11 цифр и контрольная цифра по модулю 11.
// Чистая функция без состояния, пригодна для переиспользования вне сервиса.
func ValidateCUIT(s string) error {
	digits := NormalizeCUIT(s)
	if len(digits) != 11 {
		return ErrCUITLength
	}

	sum := 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * cuitWeights[i]
	}

	remainder := 11 - sum%11

	var check int
	switch remainder {
	case 11:
		check = 0
	case 10:
		check = 9
	default:
		check = remainder
	}

	if check != int(digits[10]-'0') {
		return ErrCUITCheckDigit
	}

	return nil
}

// CUITValidator валидатор тега "cuit" для gin/validator
func CUITValidator(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return ValidateCUIT(s) == nil
}

// BeforeTodayValidator валидатор тега "beforetoday": дата строго раньше текущей
func BeforeTodayValidator(fl validator.FieldLevel) bool {
	var t time.Time

	switch v := fl.Field().Interface().(type) {
	case Date:
		t = v.Time
	case time.Time:
		t = v
	default:
		return false
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return t.Before(today)
}

// RegisterValidations регистрирует кастомные теги валидации на движке validator
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("cuit", CUITValidator); err != nil {
		return err
	}
	if err := v.RegisterValidation("beforetoday", BeforeTodayValidator); err != nil {
		return err
	}

	// Позволяет валидатору смотреть на Date как на time.Time (required и т.п.)
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}
		return nil
	}, Date{})

	return nil
}
