package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("provider", "tmdb").Info("hello")
	assert.Contains(t, buf.String(), `"provider":"tmdb"`)

	fallback := newLogger(&buf, "nonsense", "text")
	assert.Equal(t, logrus.InfoLevel, fallback.GetLevel())
}

func TestFoldAndMatchScore(t *testing.T) {
	assert.Equal(t, "jose perez", Fold("  José Pérez "))
	assert.Equal(t, 0, MatchScore("jose", "José"))
	assert.Equal(t, 1, MatchScore("ana", "Ana María"))
	assert.Equal(t, 2, MatchScore("mar", "Ana María"))
	assert.Greater(t, MatchScore("zzz", "Ana"), 2)
}

func TestRankByRelevance(t *testing.T) {
	type user struct{ name, username string }
	users := []user{
		{"Mariana", "mari"},
		{"Ana", "ana"},
		{"Juana", "juanita"},
		{"Anabel", "bel"},
	}

	ranked := RankByRelevance("ana", users, func(u user) []string { return []string{u.name, u.username} })
	require.Len(t, ranked, 4)
	assert.Equal(t, "Ana", ranked[0].name)
	assert.Equal(t, "Anabel", ranked[1].name)
	// substring matches keep input order
	assert.Equal(t, "Mariana", ranked[2].name)
	assert.Equal(t, "Juana", ranked[3].name)
}

func TestLoadTranslations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.txt")
	content := "# overrides\nFiction = Novela\n\nCooking=Cocina\nbroken line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tr, err := LoadTranslations(path, DefaultGenreTranslations())
	require.NoError(t, err)

	assert.Equal(t, "Novela", tr.Translate("Fiction"))
	assert.Equal(t, "Cocina", tr.Translate("cooking"))
	assert.Equal(t, "Historia", tr.Translate("History"))
	assert.Equal(t, "Travel", tr.Translate("Travel"))
}

func TestLoadTranslationsMissingFile(t *testing.T) {
	tr, err := LoadTranslations(filepath.Join(t.TempDir(), "absent.txt"), map[string]string{"Horror": "Terror"})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, "Terror", tr.Translate("Horror"))

	var nilTable *Translations
	assert.Equal(t, "Horror", nilTable.Translate("Horror"))
}
