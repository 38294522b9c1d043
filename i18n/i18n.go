// Package i18n holds the wizard's two-language string table.
package i18n

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Lang is a UI language. Only Japanese and English exist.
type Lang string

const (
	Japanese Lang = "ja"
	English  Lang = "en"
)

// Toggle flips between the two languages. Anything that is not English
// is treated as Japanese, so the result is always one of the two.
func Toggle(l Lang) Lang {
	if l == English {
		return Japanese
	}
	return English
}

// Parse maps "ja"/"en" to a Lang.
func Parse(s string) (Lang, error) {
	switch Lang(s) {
	case Japanese, English:
		return Lang(s), nil
	}
	return "", fmt.Errorf("i18n: unsupported language %q", s)
}

// Strings is every user-facing label for one language.
type Strings struct {
	LangName         string   `yaml:"langName"`
	Subtitle         string   `yaml:"subtitle"`
	Status           string   `yaml:"status"`
	StartAudit       string   `yaml:"startAudit"`
	Placeholder      string   `yaml:"placeholder"`
	RunBtn           string   `yaml:"runBtn"`
	Analyzing        string   `yaml:"analyzing"`
	Features         []string `yaml:"features"`
	AuditConfig      string   `yaml:"auditConfig"`
	Generate         string   `yaml:"generate"`
	PropDetails      string   `yaml:"propDetails"`
	Price            string   `yaml:"price"`
	Area             string   `yaml:"area"`
	SafetyRating     string   `yaml:"safetyRating"`
	Back             string   `yaml:"back"`
	ReportTitle      string   `yaml:"reportTitle"`
	ClientType       string   `yaml:"clientType"`
	Findings         string   `yaml:"findings"`
	Recommended      string   `yaml:"recommended"`
	AuthBy           string   `yaml:"authBy"`
	SavePdf          string   `yaml:"savePdf"`
	AuditFailed      string   `yaml:"auditFailed"`
	ForensicsFinding string   `yaml:"forensicsFinding"`
	LandlordFinding  string   `yaml:"landlordFinding"`
}

//go:embed strings.yaml
var rawTable []byte

var table = mustLoad(rawTable)

func mustLoad(raw []byte) map[Lang]Strings {
	t, err := load(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func load(raw []byte) (map[Lang]Strings, error) {
	var t map[Lang]Strings
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("i18n: parse string table: %w", err)
	}
	for _, l := range []Lang{Japanese, English} {
		if _, ok := t[l]; !ok {
			return nil, fmt.Errorf("i18n: string table has no %q entry", l)
		}
	}
	return t, nil
}

// For returns the strings for l. Unknown languages get Japanese.
func For(l Lang) Strings {
	if s, ok := table[l]; ok {
		return s
	}
	return table[Japanese]
}
