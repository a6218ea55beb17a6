// Package normalize canonicalizes free-text liturgical names so that Ordo,
// calendar and Lectionary spellings of the same day compare equal.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxPasses bounds the fixpoint loop in Name.
const maxPasses = 8

// ordinalWords maps spelled ordinals to their numbers, longest spelling first.
var ordinalWords = []struct {
	word string
	n    string
}{
	{"THIRTY-FOURTH", "34"}, {"THIRTY-THIRD", "33"}, {"THIRTY-SECOND", "32"}, {"THIRTY-FIRST", "31"},
	{"TWENTY-SEVENTH", "27"}, {"TWENTY-EIGHTH", "28"}, {"TWENTY-SECOND", "22"}, {"TWENTY-FOURTH", "24"},
	{"TWENTY-NINTH", "29"}, {"TWENTY-FIRST", "21"}, {"TWENTY-THIRD", "23"}, {"TWENTY-FIFTH", "25"},
	{"TWENTY-SIXTH", "26"}, {"SEVENTEENTH", "17"}, {"FOURTEENTH", "14"}, {"EIGHTEENTH", "18"},
	{"NINETEENTH", "19"}, {"THIRTEENTH", "13"}, {"FIFTEENTH", "15"}, {"SIXTEENTH", "16"},
	{"TWENTIETH", "20"}, {"THIRTIETH", "30"}, {"SEVENTH", "7"}, {"ELEVENTH", "11"},
	{"TWELFTH", "12"}, {"SECOND", "2"}, {"FOURTH", "4"}, {"EIGHTH", "8"},
	{"FIRST", "1"}, {"THIRD", "3"}, {"FIFTH", "5"}, {"SIXTH", "6"},
	{"NINTH", "9"}, {"TENTH", "10"},
}

// synonyms are applied in order after ordinal replacement.
var synonyms = []struct {
	from string
	to   string
}{
	{"OUR LORD JESUS CHRIST", "CHRIST THE KING"},
	{"THE MOST HOLY BODY AND BLOOD OF CHRIST", "THE BODY AND BLOOD OF CHRIST"},
	{"THE MOST SACRED HEART OF JESUS", "SACRED HEART OF JESUS"},
	{"THE ASCENSION OF THE LORD", "ASCENSION"},
	{"PASSION SUNDAY (PALM SUNDAY)", "PALM SUNDAY"},
	{"THE HOLY FAMILY", "HOLY FAMILY"},
	{"THE MOST HOLY TRINITY", "TRINITY SUNDAY"},
}

var (
	ordinalPattern   = buildOrdinalPattern()
	datePrefix       = regexp.MustCompile(`^\d{1,2}\s+[A-Z]+\s*[–—-]\s*`)
	yearSuffix       = regexp.MustCompile(`,?\s*YEAR\s+[ABC]\s*$`)
	numericOrdinal   = regexp.MustCompile(`\b(\d{1,2})(?:ST|ND|RD|TH)\b`)
	bareDate         = regexp.MustCompile(`\b(\d{1,2})\s+(JANUARY|FEBRUARY|MARCH|APRIL|MAY|JUNE|JULY|AUGUST|SEPTEMBER|OCTOBER|NOVEMBER|DECEMBER)\b`)
	saintsAbbrev     = regexp.MustCompile(`\bSS\b\.?\s+`)
	saintAbbrev      = regexp.MustCompile(`\bST\b\.?\s+`)
	compactSunday    = regexp.MustCompile(`^(\d+)\s+(ORDINARY|LENT|ADVENT|EASTER)$`)
	sundayOfSeason   = regexp.MustCompile(` SUNDAY (?:IN|OF) (LENT|ADVENT|EASTER)`)
	ordinaryTime     = regexp.MustCompile(` (?:IN|OF) ORDINARY TIME`)
	whitespace       = regexp.MustCompile(`\s+`)
	quoteReplacer    = strings.NewReplacer(`"`, "", "“", "", "”", "", "'", "", "‘", "", "’", "")
	diacriticFolding = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

func buildOrdinalPattern() *regexp.Regexp {
	alts := make([]string, len(ordinalWords))
	for i, o := range ordinalWords {
		alts[i] = regexp.QuoteMeta(o.word)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(alts, "|") + `)\b`)
}

// Name returns the canonical comparison form of a liturgical name.
// It is idempotent: Name(Name(x)) == Name(x).
func Name(s string) string {
	for i := 0; i < maxPasses; i++ {
		next := pass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func pass(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = foldDiacritics(s)
	s = strings.TrimSpace(quoteReplacer.Replace(s))

	s = datePrefix.ReplaceAllString(s, "")
	s = yearSuffix.ReplaceAllString(s, "")

	s = ordinalPattern.ReplaceAllStringFunc(s, func(w string) string {
		n, _ := OrdinalNumber(w)
		return n
	})
	s = numericOrdinal.ReplaceAllString(s, "$1")

	for _, syn := range synonyms {
		s = strings.ReplaceAll(s, syn.from, syn.to)
	}

	s = bareDate.ReplaceAllStringFunc(s, func(m string) string {
		sub := bareDate.FindStringSubmatch(m)
		return sub[1] + OrdinalSuffix(sub[1]) + " " + sub[2]
	})

	s = saintsAbbrev.ReplaceAllString(s, "SAINTS ")
	s = saintAbbrev.ReplaceAllString(s, "SAINT ")

	if m := compactSunday.FindStringSubmatch(s); m != nil {
		if m[2] == "ORDINARY" {
			s = m[1] + " SUNDAY"
		} else {
			s = m[1] + " SUNDAY " + m[2]
		}
	}
	s = sundayOfSeason.ReplaceAllString(s, " SUNDAY $1")
	s = ordinaryTime.ReplaceAllString(s, "")

	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func foldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFolding, s)
	if err != nil {
		return s
	}
	return out
}

// OrdinalNumber converts a spelled ordinal ("Twenty-First") to its digits.
func OrdinalNumber(word string) (string, bool) {
	w := strings.ToUpper(strings.TrimSpace(word))
	for _, o := range ordinalWords {
		if o.word == w {
			return o.n, true
		}
	}
	return "", false
}

// OrdinalSuffix returns the English suffix for a day or week number given
// as digits: "1" -> "ST", "12" -> "TH", "22" -> "ND".
func OrdinalSuffix(digits string) string {
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "TH"
		}
		n = n*10 + int(r-'0')
	}
	if n%100 >= 11 && n%100 <= 13 {
		return "TH"
	}
	switch n % 10 {
	case 1:
		return "ST"
	case 2:
		return "ND"
	case 3:
		return "RD"
	}
	return "TH"
}

// Words splits a normalized name into its set of words.
func Words(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

// SharedWords counts the words two normalized names have in common.
func SharedWords(a, b string) int {
	wa := Words(a)
	n := 0
	for w := range Words(b) {
		if _, ok := wa[w]; ok {
			n++
		}
	}
	return n
}
