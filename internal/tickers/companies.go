package tickers

import "strings"

// CompanyNames maps tickers to the name variants that show up in
// headlines. Name matching is additive on top of pattern extraction:
// it can only add tickers, never veto them.
var CompanyNames = map[string][]string{
	// Mega-cap tech
	"AAPL":  {"Apple", "AAPL"},
	"MSFT":  {"Microsoft", "MSFT"},
	"GOOGL": {"Google", "Alphabet", "GOOGL", "GOOG"},
	"AMZN":  {"Amazon", "AMZN"},
	"META":  {"Meta", "Facebook", "META"},
	"TSLA":  {"Tesla", "TSLA"},
	"CRM":   {"Salesforce", "CRM"},
	"ORCL":  {"Oracle", "ORCL"},
	"NFLX":  {"Netflix", "NFLX"},
	"DIS":   {"Disney", "DIS"},

	// Semiconductors
	"NVDA": {"Nvidia", "NVDA"},
	"AMD":  {"AMD", "Advanced Micro"},
	"INTC": {"Intel", "INTC"},
	"MU":   {"Micron", "MU"},
	"AVGO": {"Broadcom", "AVGO"},
	"QCOM": {"Qualcomm", "QCOM"},
	"TSM":  {"TSMC", "Taiwan Semi", "TSM"},
	"ASML": {"ASML"},
	"LRCX": {"Lam Research", "LRCX"},
	"AMAT": {"Applied Materials", "AMAT"},
	"KLAC": {"KLA", "KLAC"},
	"MRVL": {"Marvell", "MRVL"},
	"TXN":  {"Texas Instruments", "TXN"},
	"ADI":  {"Analog Devices", "ADI"},
	"ARM":  {"Arm Holdings", "ARM"},
	"ON":   {"ON Semiconductor", "ON Semi", "onsemi"},
	"NXPI": {"NXP", "NXPI"},
	"SMCI": {"Super Micro", "Supermicro", "SMCI"},
	"SMH":  {"VanEck Semiconductor", "SMH"},
	"SOXX": {"iShares Semiconductor", "SOXX"},

	// Precious metals / mining
	"NEM":  {"Newmont", "NEM"},
	"GOLD": {"Barrick Gold", "Barrick", "GOLD"},
	"AEM":  {"Agnico Eagle", "AEM"},
	"WPM":  {"Wheaton Precious", "WPM"},
	"FNV":  {"Franco-Nevada", "FNV"},
	"AG":   {"First Majestic", "First Majestic Silver"},
	"PAAS": {"Pan American Silver", "PAAS"},
	"KGC":  {"Kinross Gold", "KGC"},
	"HL":   {"Hecla Mining", "Hecla"},
	"SLV":  {"iShares Silver", "SLV", "silver ETF"},
	"GLD":  {"SPDR Gold", "GLD", "gold ETF"},
	"GDX":  {"VanEck Gold Miners", "GDX"},
	"GDXJ": {"VanEck Junior Gold", "GDXJ"},

	// Finance
	"JPM": {"JPMorgan", "JP Morgan", "JPM"},
	"BAC": {"Bank of America", "BofA", "BAC"},
	"GS":  {"Goldman Sachs", "Goldman"},
	"V":   {"Visa"},
	"MA":  {"Mastercard"},

	// Energy
	"XOM": {"Exxon", "ExxonMobil", "XOM"},
	"CVX": {"Chevron", "CVX"},
	"COP": {"ConocoPhillips", "Conoco"},
	"SLB": {"Schlumberger", "SLB"},
	"OXY": {"Occidental", "OXY"},

	// Healthcare / biotech
	"PFE":  {"Pfizer", "PFE"},
	"JNJ":  {"Johnson & Johnson", "J&J", "JNJ"},
	"LLY":  {"Eli Lilly", "Lilly", "LLY"},
	"MRNA": {"Moderna", "MRNA"},
	"ABBV": {"AbbVie", "ABBV"},

	// Consumer
	"WMT":  {"Walmart", "WMT"},
	"HD":   {"Home Depot", "HD"},
	"COST": {"Costco", "COST"},

	// Meme / popular
	"GME":  {"GameStop", "GME"},
	"AMC":  {"AMC Entertainment", "AMC"},
	"PLTR": {"Palantir", "PLTR"},
	"COIN": {"Coinbase", "COIN"},
	"RIVN": {"Rivian", "RIVN"},
	"SOFI": {"SoFi", "SOFI"},
	"MSTR": {"MicroStrategy", "MSTR"},

	// Steel / materials
	"CLF": {"Cleveland-Cliffs", "CLF"},
	"NUE": {"Nucor", "NUE"},
	"FCX": {"Freeport-McMoRan", "Freeport", "FCX"},
	"AA":  {"Alcoa", "AA"},

	// Uranium / nuclear
	"CCJ": {"Cameco", "CCJ"},
	"UEC": {"Uranium Energy", "UEC"},
	"SMR": {"NuScale", "SMR"},

	// Defense
	"BA":  {"Boeing", "BA"},
	"LMT": {"Lockheed Martin", "Lockheed", "LMT"},
	"RTX": {"Raytheon", "RTX"},
	"NOC": {"Northrop Grumman", "Northrop", "NOC"},

	// China tech
	"BABA": {"Alibaba", "BABA"},
	"JD":   {"JD.com", "JD"},
	"PDD":  {"PDD Holdings", "Pinduoduo", "PDD", "Temu"},
	"BIDU": {"Baidu", "BIDU"},
	"NIO":  {"NIO", "Nio"},
}

// ExtractWithHint is the three-pass article extraction: a trusted
// ticker hint from the feed itself, blacklist-filtered pattern
// matching, then company-name enrichment.
func ExtractWithHint(text, hint string) []string {
	seen := make(map[string]struct{})

	hint = strings.ToUpper(strings.TrimSpace(hint))
	if hint != "" && len(hint) <= 5 && isAlpha(hint) {
		seen[hint] = struct{}{}
	}

	for _, ticker := range Extract(text) {
		seen[ticker] = struct{}{}
	}

	textLower := strings.ToLower(text)
	for ticker, names := range CompanyNames {
		for _, name := range names {
			if strings.Contains(textLower, strings.ToLower(name)) {
				seen[ticker] = struct{}{}
				break
			}
		}
	}

	out := make([]string, 0, len(seen))
	for ticker := range seen {
		out = append(out, ticker)
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return s != ""
}
