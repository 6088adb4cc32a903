package rssnews

import "strings"

// newsCategories are checked in order; the first keyword hit wins.
var newsCategories = []struct {
	name     string
	keywords []string
}{
	{"earnings", []string{"earnings", "quarterly", "revenue", "profit", "eps", "beat", "miss"}},
	{"analyst", []string{"upgrade", "downgrade", "price target", "rating", "analyst"}},
	{"merger", []string{"merger", "acquisition", "acquire", "m&a", "buyout", "deal"}},
	{"product", []string{"launch", "release", "new product", "announce", "unveil"}},
	{"legal", []string{"lawsuit", "sec", "investigation", "settlement", "fine"}},
	{"executive", []string{"ceo", "cfo", "resign", "appoint", "hire", "executive"}},
	{"sector", []string{"semiconductor", "chip", "gold", "silver", "oil", "energy",
		"mining", "biotech", "pharma", "ev", "electric vehicle", "ai", "artificial intelligence"}},
}

// Categorize buckets an article text, "general" when nothing matches.
func Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, category := range newsCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(lower, keyword) {
				return category.name
			}
		}
	}
	return "general"
}
