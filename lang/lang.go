// Package lang holds the localized message tables used for model errors,
// plausibility warnings and the check report.
package lang

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed translations/*.json
var translationsFS embed.FS

// Default is the language used when nothing better matches.
const Default = "en"

var (
	loadOnce sync.Once
	loadErr  error
	tables   map[string]map[string]any
	tags     []language.Tag
	names    []string
	matcher  language.Matcher
)

func load() {
	tables = make(map[string]map[string]any)
	loadErr = fs.WalkDir(translationsFS, "translations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		content, err := translationsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read translation file %s: %w", path, err)
		}
		var table map[string]any
		if err := json.Unmarshal(content, &table); err != nil {
			return fmt.Errorf("failed to parse translation file %s: %w", path, err)
		}
		tables[strings.TrimSuffix(filepath.Base(path), ".json")] = table
		return nil
	})

	// The default language goes first so the matcher falls back to it.
	names = []string{Default}
	for name := range tables {
		if name != Default {
			names = append(names, name)
		}
	}
	for _, name := range names {
		tags = append(tags, language.Make(name))
	}
	matcher = language.NewMatcher(tags)
}

// Err reports a failure to load the embedded translation tables.
func Err() error {
	loadOnce.Do(load)
	return loadErr
}

// Supported returns the available language codes, default first.
func Supported() []string {
	loadOnce.Do(load)
	return append([]string(nil), names...)
}

// Translator formats messages for one language. The zero value is not
// usable; obtain one with For.
type Translator struct {
	lang string
}

// For returns the translator best matching the given BCP 47 language names
// (for example "de-AT" or an Accept-Language style list). Empty input
// selects the default language.
func For(preferred ...string) *Translator {
	loadOnce.Do(load)
	var wanted []language.Tag
	for _, p := range preferred {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		wanted = append(wanted, parsed...)
	}
	if len(wanted) == 0 {
		return &Translator{lang: Default}
	}
	_, idx, confidence := matcher.Match(wanted...)
	if confidence == language.No {
		return &Translator{lang: Default}
	}
	return &Translator{lang: names[idx]}
}

// Lang returns the selected language code.
func (t *Translator) Lang() string {
	return t.lang
}

// T looks up a dot separated key and formats it with args. Missing keys
// fall back to the default language, then to the key itself.
func (t *Translator) T(key string, args ...any) string {
	value, ok := lookup(tables[t.lang], key)
	if !ok && t.lang != Default {
		value, ok = lookup(tables[Default], key)
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(value, args...)
	}
	return value
}

func lookup(table map[string]any, key string) (string, bool) {
	var current any = table
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		if current, ok = m[part]; !ok {
			return "", false
		}
	}
	s, ok := current.(string)
	return s, ok
}
