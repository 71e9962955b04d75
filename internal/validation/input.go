package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

// Константы валидации
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 150
	MinOfferTitleLength  = 3
	MaxOfferTitleLength  = 255
	MaxDescriptionLength = 5000
	MaxFeatureLength     = 255
	MaxFeaturesCount     = 50
	MinRating            = 1
	MaxRating            = 5
	MaxPrice             = 100000000.0 // 100 миллионов
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateProfileType проверяет тип профиля.
func ValidateProfileType(profileType string) error {
	if _, ok := models.ValidProfileTypes[profileType]; !ok {
		return fmt.Errorf("тип профиля должен быть customer или business")
	}
	return nil
}

// ValidateRating проверяет рейтинг отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("рейтинг должен быть от %d до %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateOfferTitle проверяет заголовок оффера.
func ValidateOfferTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("заголовок оффера обязателен")
	}
	return ValidateLength("заголовок оффера", strings.TrimSpace(title), MinOfferTitleLength, MaxOfferTitleLength)
}

// ValidateOfferDetail проверяет поля тарифа оффера.
func ValidateOfferDetail(detail *models.OfferDetail) error {
	if strings.TrimSpace(detail.Title) == "" {
		return fmt.Errorf("заголовок тарифа обязателен")
	}
	if _, ok := models.ValidOfferTypes[detail.OfferType]; !ok {
		return fmt.Errorf("тип тарифа должен быть basic, standard или premium")
	}
	if detail.Revisions < 0 {
		return fmt.Errorf("количество правок не может быть отрицательным")
	}
	if detail.DeliveryTimeInDays <= 0 {
		return fmt.Errorf("срок выполнения должен быть положительным числом дней")
	}
	if detail.Price <= 0 {
		return fmt.Errorf("цена тарифа должна быть положительной")
	}
	if detail.Price > MaxPrice {
		return fmt.Errorf("цена тарифа не может превышать %.0f", MaxPrice)
	}
	return ValidateFeatures(detail.Features)
}

// ValidateFeatures проверяет список опций тарифа.
func ValidateFeatures(features []string) error {
	if len(features) > MaxFeaturesCount {
		return fmt.Errorf("количество опций не может превышать %d", MaxFeaturesCount)
	}
	for _, feature := range features {
		if strings.TrimSpace(feature) == "" {
			return fmt.Errorf("опция тарифа не может быть пустой")
		}
		if utf8.RuneCountInString(feature) > MaxFeatureLength {
			return fmt.Errorf("опция тарифа не может быть длиннее %d символов", MaxFeatureLength)
		}
	}
	return nil
}

// ValidateOrderStatus проверяет статус заказа.
func ValidateOrderStatus(status string) error {
	if _, ok := models.ValidOrderStatuses[status]; !ok {
		return fmt.Errorf("статус должен быть in_progress, completed или cancelled")
	}
	return nil
}
