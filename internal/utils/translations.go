package utils

import (
	"bufio"
	"os"
	"strings"
)

// Translations maps catalog genre names into the display language
type Translations struct {
	terms map[string]string
}

// DefaultGenreTranslations is the built-in English to Spanish genre table
func DefaultGenreTranslations() map[string]string {
	return map[string]string{
		"Fiction":                   "Ficción",
		"Nonfiction":                "No ficción",
		"Science":                   "Ciencia",
		"Biography & Autobiography": "Biografía y autobiografía",
		"History":                   "Historia",
		"Fantasy":                   "Fantasía",
		"Horror":                    "Terror",
		"Mystery":                   "Misterio",
		"Romance":                   "Romance",
		"Science Fiction":           "Ciencia ficción",
		"Thrillers":                 "Thrillers",
		"Poetry":                    "Poesía",
		"Drama":                     "Drama",
		"Self-Help":                 "Autoayuda",
		"Young Adult Fiction":       "Juvenil",
		"Juvenile Fiction":          "Infantil",
		"Comics & Graphic Novels":   "Cómics y novelas gráficas",
		"Business & Economics":      "Negocios y economía",
		"Philosophy":                "Filosofía",
		"Psychology":                "Psicología",
	}
}

// NewTranslations builds a table from a map
func NewTranslations(terms map[string]string) *Translations {
	t := &Translations{terms: make(map[string]string, len(terms))}
	for k, v := range terms {
		t.terms[strings.ToLower(k)] = v
	}
	return t
}

// LoadTranslations starts from defaults and applies "Source = Target" lines from path.
// Blank lines and lines starting with # are ignored. A missing file is not an error.
func LoadTranslations(path string, defaults map[string]string) (*Translations, error) {
	t := NewTranslations(defaults)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return t, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		source, target, ok := strings.Cut(line, "=")
		source, target = strings.TrimSpace(source), strings.TrimSpace(target)
		if !ok || source == "" || target == "" {
			continue
		}
		t.terms[strings.ToLower(source)] = target
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return t, nil
}

// Translate returns the display name for term, or term itself when unmapped
func (t *Translations) Translate(term string) string {
	if t == nil {
		return term
	}
	if v, ok := t.terms[strings.ToLower(strings.TrimSpace(term))]; ok {
		return v
	}
	return term
}

// Len returns the number of mapped terms
func (t *Translations) Len() int {
	if t == nil {
		return 0
	}
	return len(t.terms)
}
