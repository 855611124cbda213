// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength ограничивает длину имени питомца в символах.
const MaxNameLength = 24

var (
	// ErrEmptyName возвращается для пустого имени.
	ErrEmptyName = errors.New("name is required")
	// ErrNameTooLong возвращается для слишком длинного имени.
	ErrNameTooLong = errors.New("name is too long")
	// ErrInvalidName возвращается, если имя содержит недопустимые символы.
	ErrInvalidName = errors.New("name contains invalid characters")
	// ErrUnknownSpecies возвращается для неизвестного вида питомца.
	ErrUnknownSpecies = errors.New("unknown species")
)

// Species перечисляет допустимые виды питомцев.
var Species = []string{"cat", "dog", "bunny", "dragon", "axolotl"}

// PetName проверяет имя питомца и возвращает его без крайних пробелов.
// Допускаются буквы, цифры, пробел, дефис и апостроф.
func PetName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case ' ', '-', '\'':
			continue
		}
		return "", ErrInvalidName
	}
	return name, nil
}

// PetSpecies проверяет вид питомца. Пустое значение означает кошку.
func PetSpecies(species string) (string, error) {
	species = strings.ToLower(strings.TrimSpace(species))
	if species == "" {
		return Species[0], nil
	}
	for _, s := range Species {
		if s == species {
			return s, nil
		}
	}
	return "", ErrUnknownSpecies
}
