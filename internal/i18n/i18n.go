// Package i18n localizes the messages and stage names the CLI prints.
package i18n

import (
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Printer formats messages in one language.
type Printer struct {
	tag   language.Tag
	p     *message.Printer
	upper cases.Caser
	lower cases.Caser
}

var (
	cat     = newCatalog()
	langs   = cat.Languages()
	matcher = language.NewMatcher(langs)
)

// New returns a printer for lang, a BCP 47 tag or POSIX locale such as
// "fr_FR.UTF-8". An empty lang falls back to LC_ALL, LC_MESSAGES, then LANG.
// Unsupported languages get English.
func New(lang string) *Printer {
	if lang == "" {
		lang = envLocale()
	}
	tag := Match(lang)
	return &Printer{
		tag:   tag,
		p:     message.NewPrinter(tag, message.Catalog(cat)),
		upper: cases.Upper(tag),
		lower: cases.Lower(tag),
	}
}

// Match returns the supported language closest to lang.
func Match(lang string) language.Tag {
	t, err := language.Parse(posixToBCP47(lang))
	if err != nil {
		return language.English
	}
	_, i, conf := matcher.Match(t)
	if conf == language.No {
		return language.English
	}
	return langs[i]
}

// Languages returns the languages messages are translated to.
func Languages() []language.Tag {
	return slices.Clone(langs)
}

// Tag returns the printer's language.
func (p *Printer) Tag() language.Tag { return p.tag }

// Sprintf formats a message key, translating it when a translation exists.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Stage returns the localized name of a stage.
func (p *Printer) Stage(name string) string {
	return p.p.Sprintf(name)
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func (p *Printer) Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return p.upper.String(s[:size]) + p.lower.String(s[size:])
}

func envLocale() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// posixToBCP47 turns "pt_BR.UTF-8@euro" into "pt-BR". "C" and "POSIX" mean
// no preference.
func posixToBCP47(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return "en"
	}
	return strings.ReplaceAll(s, "_", "-")
}

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, tr := range translations {
		for key, msg := range tr.messages {
			// Keys and messages are static; SetString only fails on
			// malformed format strings.
			if err := b.SetString(tr.tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}
