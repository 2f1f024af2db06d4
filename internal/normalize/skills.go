package normalize

import "strings"

// skillRule collapses variant spellings of one skill into a canonical token.
// A token matches when it contains any of the any-substrings and none of the
// not-substrings. Rules run top to bottom as independent passes over the
// token, so a token rewritten by one rule is still visible to later rules;
// ordering below is load-bearing (webpack before back, react native before
// react).
type skillRule struct {
	canon string
	any   []string
	all   []string
	not   []string
}

var skillRules = []skillRule{
	{canon: "java", any: []string{"java"}, not: []string{"script"}},
	{canon: "javascript", any: []string{"js"}},
	{canon: "javascript", all: []string{"java", "script"}},
	{canon: "1c", any: []string{"1c", "1с"}}, // second is the cyrillic с
	{canon: "php", any: []string{"php"}},
	{canon: "css", any: []string{"css"}},
	{canon: "html", any: []string{"html"}},
	{canon: "rest", any: []string{"rest"}},
	{canon: "golang", any: []string{"golang"}},
	{canon: "sap", any: []string{"sap"}},
	{canon: "react native", all: []string{"react", "native"}},
	{canon: "react", any: []string{"react"}, not: []string{"native"}},
	{canon: "webpack", any: []string{"webpack"}},
	{canon: "front", any: []string{"front", "фронт"}},
	{canon: "back", any: []string{"back", "бэк", "бек"}, not: []string{"webpack"}},
	{canon: "full", any: []string{"full", "фулл"}},
	{canon: "lead", any: []string{"lead", "лид", "ведущ"}},
	{canon: "junior", any: []string{"junior", "джун", "младш"}},
	{canon: "middle", any: []string{"middle", "мидл", "средн"}},
	{canon: "senior", any: []string{"senior", "сеньор", "синьор", "старш"}},
}

// roleVocabulary is the set of canonical seniority/role tokens that may also
// be implied by a job title.
var roleVocabulary = map[string]struct{}{
	"front":  {},
	"back":   {},
	"full":   {},
	"lead":   {},
	"junior": {},
	"middle": {},
	"senior": {},
}

func (r skillRule) match(s string) bool {
	for _, sub := range r.not {
		if strings.Contains(s, sub) {
			return false
		}
	}
	if len(r.all) > 0 {
		for _, sub := range r.all {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
	for _, sub := range r.any {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CanonicalSkill lower-cases a skill token and runs it through the rewrite
// chain. The chain is idempotent: every canonical token passes through
// unchanged.
func CanonicalSkill(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range skillRules {
		if r.match(s) {
			s = r.canon
		}
	}
	return s
}
