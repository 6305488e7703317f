package mandate

import "regexp"

// MarketClass groups symbols for display in the market-selection step.
type MarketClass string

const (
	MarketForex      MarketClass = "forex"
	MarketVolatility MarketClass = "volatility"
	MarketOTC        MarketClass = "otc"
	MarketOther      MarketClass = "other"
)

var (
	forexRe      = regexp.MustCompile(`^[A-Z]{6}$`)
	volatilityRe = regexp.MustCompile(`^\d*HZ\d+V$|^R_\d+$`)
	otcRe        = regexp.MustCompile(`^OTC_|_OTC$`)
)

// Classify buckets a symbol by shape: six uppercase letters are a forex
// pair ("EURUSD"), synthetic volatility indices look like "1HZ100V" or
// "R_100", OTC symbols carry an OTC_ prefix or _OTC suffix. Everything else
// is other.
func Classify(symbol string) MarketClass {
	switch {
	case forexRe.MatchString(symbol):
		return MarketForex
	case volatilityRe.MatchString(symbol):
		return MarketVolatility
	case otcRe.MatchString(symbol):
		return MarketOTC
	default:
		return MarketOther
	}
}

// GroupByClass partitions symbols into class buckets, preserving input
// order within each bucket.
func GroupByClass(symbols []string) map[MarketClass][]string {
	out := make(map[MarketClass][]string)
	for _, s := range symbols {
		c := Classify(s)
		out[c] = append(out[c], s)
	}
	return out
}
