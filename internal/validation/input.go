package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	MinNameLength        = 2
	MaxNameLength        = 100
	MaxHazardTypeLength  = 50
	MaxDescriptionLength = 500
	MaxCommentLength     = 500

	MinRadiusKM = 0.0
	MaxRadiusKM = 500.0
)

// ValidateCoordinate проверяет, что широта и долгота лежат в допустимых диапазонах.
func ValidateCoordinate(lat, lng float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return fmt.Errorf("широта должна быть в диапазоне от %.0f до %.0f", MinLatitude, MaxLatitude)
	}
	if lng < MinLongitude || lng > MaxLongitude {
		return fmt.Errorf("долгота должна быть в диапазоне от %.0f до %.0f", MinLongitude, MaxLongitude)
	}
	return nil
}

// ValidateHazardType проверяет категорию опасности.
func ValidateHazardType(hazardType string) error {
	hazardType = strings.TrimSpace(hazardType)
	if hazardType == "" {
		return fmt.Errorf("категория опасности обязательна")
	}
	if utf8.RuneCountInString(hazardType) > MaxHazardTypeLength {
		return fmt.Errorf("категория опасности должна быть не более %d символов", MaxHazardTypeLength)
	}
	return nil
}

// ValidateDescription проверяет необязательное описание.
func ValidateDescription(description *string) error {
	if description == nil || *description == "" {
		return nil
	}
	if utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return fmt.Errorf("описание должно быть не более %d символов", MaxDescriptionLength)
	}
	return nil
}

// ValidateCommentText проверяет текст комментария.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("текст комментария обязателен")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return fmt.Errorf("комментарий должен быть не более %d символов", MaxCommentLength)
	}
	return nil
}

// ValidateRadius проверяет радиус запроса близости.
func ValidateRadius(radiusKM float64) error {
	if radiusKM <= MinRadiusKM {
		return fmt.Errorf("радиус должен быть положительным")
	}
	if radiusKM > MaxRadiusKM {
		return fmt.Errorf("радиус не может превышать %.0f км", MaxRadiusKM)
	}
	return nil
}

// ValidateName проверяет имя пользователя.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя обязательно")
	}
	if err := validateLength("имя", name, MinNameLength, MaxNameLength); err != nil {
		return err
	}
	return nil
}

// validateLength проверяет длину строки.
func validateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должно быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должно быть не более %d символов", fieldName, max)
	}
	return nil
}
