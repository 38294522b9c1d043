package i18n

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleRoundTrip(t *testing.T) {
	start := Japanese
	original := For(start)

	once := Toggle(start)
	assert.Equal(t, English, once)
	assert.NotEqual(t, original.RunBtn, For(once).RunBtn)

	twice := Toggle(once)
	assert.Equal(t, Japanese, twice)
	assert.Equal(t, original, For(twice))
}

func TestToggleNeverLeavesTheTwoLanguages(t *testing.T) {
	assert.Equal(t, English, Toggle(Lang("fr")))
	assert.Equal(t, Japanese, Toggle(English))
}

func TestEveryStringIsFilled(t *testing.T) {
	for _, l := range []Lang{Japanese, English} {
		s := For(l)
		v := reflect.ValueOf(s)
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			name := v.Type().Field(i).Name
			switch f.Kind() {
			case reflect.String:
				assert.NotEmpty(t, f.String(), "%s.%s", l, name)
			case reflect.Slice:
				assert.Equal(t, 3, f.Len(), "%s.%s", l, name)
			}
		}
	}
}

func TestForUnknownFallsBackToJapanese(t *testing.T) {
	assert.Equal(t, For(Japanese), For(Lang("de")))
}

func TestParse(t *testing.T) {
	l, err := Parse("en")
	require.NoError(t, err)
	assert.Equal(t, English, l)

	_, err = Parse("EN")
	assert.Error(t, err)
}

func TestLoadRejectsMissingLanguage(t *testing.T) {
	_, err := load([]byte("ja:\n  runBtn: x\n"))
	assert.Error(t, err)
}
