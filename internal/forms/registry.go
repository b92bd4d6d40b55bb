package forms

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed languages.yaml
var languagesYAML []byte

type languageRule struct {
	Codes    []string `yaml:"codes"`
	NPlurals uint     `yaml:"nplurals"`
	Plural   string   `yaml:"plural"`
}

type languageTable struct {
	Languages []languageRule `yaml:"languages"`
}

var (
	registryOnce sync.Once
	registry     map[string]*PluralForms
)

func loadRegistry() {
	var table languageTable
	if err := yaml.Unmarshal(languagesYAML, &table); err != nil {
		panic(fmt.Sprintf("broken language table: %v", err))
	}

	registry = make(map[string]*PluralForms, len(table.Languages))
	for _, rule := range table.Languages {
		pf, err := Parse(fmt.Sprintf("nplurals=%d; plural=%s;", rule.NPlurals, rule.Plural))
		if err != nil {
			panic(fmt.Sprintf("broken language table for %v: %v", rule.Codes, err))
		}
		for _, code := range rule.Codes {
			registry[code] = pf
		}
	}
}

// ForLanguage looks up the plural rule for a language tag such as "ru",
// "pt_BR" or "de_DE.UTF-8". Encoding and modifier suffixes are ignored,
// and an unknown language-territory pair falls back to the bare
// language.
func ForLanguage(tag string) (*PluralForms, bool) {
	registryOnce.Do(loadRegistry)

	tag, _, _ = strings.Cut(tag, ".")
	tag, _, _ = strings.Cut(tag, "@")
	if pf, ok := registry[tag]; ok {
		return pf, true
	}
	if lang, _, found := strings.Cut(tag, "_"); found {
		if pf, ok := registry[lang]; ok {
			return pf, true
		}
	}
	return nil, false
}
