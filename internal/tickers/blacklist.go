// Package tickers extracts plausible stock symbols from free text.
// One shared blacklist replaces per-connector whitelists: $TICKER
// patterns are high confidence and only blocked by the blacklist,
// while standalone uppercase words additionally need 3+ letters
// unless explicitly allowed.
package tickers

import (
	"regexp"
	"strings"
)

// blacklist holds common English words, finance jargon, Reddit-isms,
// and trading verbs that look like tickers but aren't.
var blacklist = toSet([]string{
	// English words
	"THE", "FOR", "AND", "ALL", "NEW", "HIGH", "LOW", "LONG", "JUST", "BACK",
	"WELL", "GOOD", "BEST", "EVER", "EVEN", "ONLY", "VERY", "MUCH", "MOST",
	"MANY", "SOME", "LAST", "NEXT", "OVER", "LIKE", "KNOW", "TAKE",
	"MAKE", "COME", "LOOK", "WANT", "GIVE", "TELL", "WORK", "CALL", "NEED",
	"WILL", "EACH", "THEM", "THEN", "THAN", "BEEN", "HAVE", "FROM", "WERE",
	"SAID", "DOES", "INTO", "ALSO", "MORE", "WHEN", "WITH", "WHAT",
	"THIS", "THAT", "YOUR", "THEY", "MADE", "REAL", "HARD", "EASY", "HUGE",
	"SAFE", "FAST", "MOVE", "PLAY", "FREE", "TRUE", "PART", "FULL", "DONE",
	"SAME", "HERE", "KEEP", "HELP", "TALK", "TURN", "LIVE", "FEEL", "NICE",
	"SURE", "OPEN", "LOST", "FEAR", "PLAN", "LATE", "MEAN", "RATE", "STOP",
	"MUST", "NEAR", "SENT", "POST", "READ", "CASH", "RICH", "POOR", "SAVE",
	"FUND", "WEEK", "YEAR", "DAYS", "TIME", "NEWS", "DATA", "FIND", "PICK",
	"DROP", "GRAB", "LAND", "ZERO", "TANK", "GOLD", "ROCK", "FIRE", "PURE",
	"LINK", "MIND", "CORE", "EDGE", "PATH", "SELF", "LIFE", "DEEP", "VAST",
	"RARE", "WISE", "FLAT", "DUMB", "YALL", "HAHA", "LMAO", "IIRC", "FWIW",
	"IMHO",
	// GOLD stays blocked standalone; Barrick Gold is caught via the
	// $GOLD prefix or company-name matching.

	// Finance jargon
	"CEO", "CFO", "COO", "CTO", "IPO", "ETF", "SEC", "FDA", "EPS", "ATH",
	"GDP", "CPI", "RSI", "MACD", "VWAP", "SMA", "EMA", "EBIT", "GAAP",
	"NAV", "AUM", "OTC", "NYSE", "AMEX", "FTSE", "DJIA", "FOMC", "FDIC",
	"SPAC", "REIT", "PIPE", "SPX", "DXY", "VIX", "CBOE", "FINR",
	"ROIC", "WACC", "CAGR", "DCF", "EBITDA",

	// Reddit-isms
	"YOLO", "FOMO", "HODL", "TLDR", "ROFL",
	"WSB", "DD", "TA", "OTM", "ITM", "ATM", "DTE", "LEAPS", "FD",
	"APE", "APES", "DEFI", "NFT", "NFTS", "DYOR",

	// Trading verbs / nouns
	"BUY", "SELL", "HOLD", "PUTS", "BULL", "BEAR", "PUMP", "DUMP",
	"MOON", "GAIN", "LOSS", "SHORT", "LEAP", "RISK", "BETA",
	"TOPS", "DIPS", "BANG", "YUGE", "BAGS", "ROPE",

	// Common abbreviations
	"USA", "USD", "EUR", "GBP", "CAD", "AUD", "JPY", "CNY",
	"IRS", "DOJ", "FBI", "CIA", "CDC", "EPA", "DOD", "DOE",
	"IMF", "WHO", "NATO", "OPEC",
	"INC", "LLC", "LTD", "CORP", "MGMT",
	"EST", "PST", "CST", "UTC",
	"PDF", "API", "SQL", "URL", "AWS", "APP", "APPS",
	"LOL", "OMG", "WTF", "BTW", "FYI", "TBH", "SMH",
	"RIP", "MVP", "GOAT", "OG",
	"PM", "AM", "VP",
	"AI", // too ambiguous standalone; C3.ai needs $AI or a name match
})

// allowShort lists well-known 1-2 letter tickers that pass even
// without a $ prefix.
var allowShort = toSet([]string{
	"F",  // Ford
	"V",  // Visa
	"C",  // Citigroup
	"X",  // US Steel
	"T",  // AT&T
	"GE", // GE Aerospace
	"GM", // General Motors
	"BA", // Boeing
	"AA", // Alcoa
	"AG", // First Majestic Silver
	"ON", // ON Semiconductor
	"MU", // Micron
	"GS", // Goldman Sachs
	"MS", // Morgan Stanley
	"HD", // Home Depot
	"LI", // Li Auto
	"JD", // JD.com
	"HL", // Hecla Mining
	"DB", // Deutsche Bank
})

var (
	dollarPattern     = regexp.MustCompile(`\$([A-Za-z]{1,5})\b`)
	standalonePattern = regexp.MustCompile(`\b([A-Z]{1,5})\b`)
)

// IsValid reports whether a candidate is likely a real ticker.
// hasDollarPrefix marks candidates extracted from a $TICKER pattern,
// which skips the short-symbol restriction.
func IsValid(candidate string, hasDollarPrefix bool) bool {
	if candidate == "" || len(candidate) > 5 {
		return false
	}
	for _, r := range candidate {
		if r < 'A' || r > 'Z' {
			return false
		}
	}

	if blacklist[candidate] {
		return false
	}

	if !hasDollarPrefix && len(candidate) <= 2 {
		return allowShort[candidate]
	}

	return true
}

// Extract pulls plausible ticker symbols from free text. Two passes:
// $TICKER first, then standalone uppercase words. The standalone pass
// only accepts words that are uppercase in the original text.
func Extract(text string) []string {
	seen := make(map[string]struct{})

	for _, match := range dollarPattern.FindAllStringSubmatch(text, -1) {
		candidate := strings.ToUpper(match[1])
		if IsValid(candidate, true) {
			seen[candidate] = struct{}{}
		}
	}

	for _, match := range standalonePattern.FindAllStringSubmatch(text, -1) {
		candidate := match[1]
		if IsValid(candidate, false) {
			seen[candidate] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for ticker := range seen {
		out = append(out, ticker)
	}
	return out
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
