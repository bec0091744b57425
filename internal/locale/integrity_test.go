package locale_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-insights/internal/config"
)

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in every locale file, and that no file carries unknown keys.
func TestI18nIntegrity(t *testing.T) {
	definedKeys := map[string]bool{
		config.TKeyAgeSummary:      false,
		config.TKeyAgeYears:        true,
		config.TKeyAgeMonths:       true,
		config.TKeyAgeDays:         true,
		config.TKeyDayOfLife:       false,
		config.TKeyTotalDays:       true,
		config.TKeyTotalHours:      true,
		config.TKeyTotalMinutes:    true,
		config.TKeyTotalSeconds:    true,
		config.TKeyCelebration:     true,
		config.TKeyZodiacLine:      false,
		config.TKeyEvtSummary:      false,
		config.TKeyEvtSummaryAge:   false,
		config.TKeyEvtSummaryBirth: false,
		config.TKeyEvtMilestone:    false,
	}

	files, err := filepath.Glob(filepath.Join(config.LocaleDir, config.LocalePrefix+"*"+config.LocaleSuffix))
	require.NoError(t, err)
	require.Len(t, files, len(config.SupportedLanguages))

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			content, err := os.ReadFile(path)
			require.NoError(t, err)

			var jsonMap map[string]any
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key, plural := range definedKeys {
				value, exists := jsonMap[key]
				if !assert.Truef(t, exists, "Key '%s' defined in config.go is missing", key) {
					continue
				}
				if plural {
					forms, ok := value.(map[string]any)
					require.Truef(t, ok, "Key '%s' must have plural forms", key)
					assert.Contains(t, forms, "one")
					assert.Contains(t, forms, "other")
				}
			}

			for jsonKey := range jsonMap {
				_, known := definedKeys[jsonKey]
				assert.Truef(t, known, "Key '%s' exists in JSON but not in config.go", jsonKey)
			}
		})
	}
}
