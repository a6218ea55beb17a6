package match

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Alias maps a naming variant to a Lectionary entry: when every keyword is
// present in the lowercased calendar name, entries whose lowercased name
// contains Search are candidates.
type Alias struct {
	Keywords []string `yaml:"keywords"`
	Search   string   `yaml:"search"`
}

// Matches reports whether every keyword occurs in the lowercased name.
func (a Alias) Matches(lowerName string) bool {
	if len(a.Keywords) == 0 {
		return false
	}
	for _, k := range a.Keywords {
		if !strings.Contains(lowerName, strings.ToLower(k)) {
			return false
		}
	}
	return true
}

// Rules are the lookup tables the strategies consult.
type Rules struct {
	// ProperSaints have readings of their own even at memorial rank.
	ProperSaints []string `yaml:"proper_saints"`
	// Aliases are tried in order for solemnities and feasts.
	Aliases []Alias `yaml:"aliases"`
	// MoveableKeywords name celebrations that should never be matched by
	// date alone.
	MoveableKeywords []string `yaml:"moveable_keywords"`
}

// DefaultRules returns the built-in tables.
func DefaultRules() Rules {
	return Rules{
		ProperSaints: []string{
			"barnabas", "matthias", "mark", "luke", "timothy", "titus",
			"mary magdalene", "martha", "dominic", "vianney",
		},
		Aliases: []Alias{
			{Keywords: []string{"our lady", "help of christians"}, Search: "mary help of christians"},
			{Keywords: []string{"mary", "help of christians"}, Search: "mary help of christians"},
			{Keywords: []string{"nativity", "john", "baptist"}, Search: "birth of john the baptist"},
			{Keywords: []string{"beheading", "john", "baptist"}, Search: "beheading of john the baptist"},
			{Keywords: []string{"exaltation", "cross"}, Search: "exaltation of the cross"},
			{Keywords: []string{"chair", "peter"}, Search: "chair of peter"},
			{Keywords: []string{"dedication", "lateran"}, Search: "dedication of st john lateran"},
			{Keywords: []string{"faithful departed"}, Search: "all souls"},
			{Keywords: []string{"commemoration", "faithful departed"}, Search: "all souls"},
		},
		MoveableKeywords: []string{"help of christians"},
	}
}

// LoadRules reads a YAML rules file. Tables present in the file replace the
// defaults; absent tables keep them.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	if len(file.ProperSaints) > 0 {
		rules.ProperSaints = file.ProperSaints
	}
	if len(file.Aliases) > 0 {
		rules.Aliases = file.Aliases
	}
	if len(file.MoveableKeywords) > 0 {
		rules.MoveableKeywords = file.MoveableKeywords
	}
	return rules, nil
}

// properSaint reports whether the lowercased name mentions a saint on the
// allow-list.
func (r Rules) properSaint(lowerName string) bool {
	for _, s := range r.ProperSaints {
		if containsWord(lowerName, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// containsWord reports whether phrase occurs in s on word boundaries, so
// "mark" matches "St Mark" but not "Marked".
func containsWord(s, phrase string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], phrase)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(phrase)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
