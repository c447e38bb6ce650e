package marketplace

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AssertUSDCurrency fails with unsupported-currency for anything but exactly "USD".
func AssertUSDCurrency(currency string) error {
	if currency != CurrencyUSD {
		return newError(KindUnsupportedCurrency, "only %s is supported, got %q", CurrencyUSD, currency)
	}
	return nil
}

// AssertListingType fails with invalid-listing-type unless t is BID or ASK.
func AssertListingType(t ListingType) error {
	switch t {
	case ListingBid, ListingAsk:
		return nil
	default:
		return newError(KindInvalidListingType, "listing type must be %s or %s, got %q", ListingBid, ListingAsk, t)
	}
}

// AssertPriceCents requires 0 < priceCents <= MaxPriceCents. Integrality of
// untyped input is checked by AsInt before the value reaches this point.
func AssertPriceCents(priceCents int64) error {
	if priceCents <= 0 {
		return newError(KindPriceOutOfRange, "priceCents must be positive")
	}
	if priceCents > MaxPriceCents {
		return newError(KindPriceOutOfRange, "priceCents must not exceed %d", MaxPriceCents)
	}
	return nil
}

// AssertQuantity only admits single-unit listings.
func AssertQuantity(quantity int64) error {
	if quantity != SupportedQuantity {
		return newError(KindUnsupportedQuantity, "quantity must be %d", SupportedQuantity)
	}
	return nil
}

// AssertCardID requires a non-empty card identifier.
func AssertCardID(cardID string) error {
	if strings.TrimSpace(cardID) == "" {
		return newError(KindInvalidArgument, "cardId is required")
	}
	return nil
}

// assertID rejects blank and whitespace-only document ids.
func assertID(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return newError(KindInvalidArgument, "%s is required", field)
	}
	return nil
}

// AsInt reads an untyped JSON value as an integer. Strings, booleans, null and
// numbers with a fractional part are rejected with invalid-argument. Integral
// forms such as 1.0 or 1e3 are accepted.
func AsInt(raw json.RawMessage, field string) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return 0, newError(KindInvalidArgument, "%s must be an integer", field)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil || n == "" {
		return 0, newError(KindInvalidArgument, "%s must be an integer", field)
	}

	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i, nil
	}

	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, newError(KindInvalidArgument, "%s must be an integer", field)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, newError(KindInvalidArgument, "%s is out of range", field)
	}
	return int64(f), nil
}
