package marketplace

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAssertUSDCurrency(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		wantErr  bool
	}{
		{name: "USD", currency: "USD"},
		{name: "Lowercase", currency: "usd", wantErr: true},
		{name: "Euro", currency: "EUR", wantErr: true},
		{name: "Empty", currency: "", wantErr: true},
		{name: "Padded", currency: " USD", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertUSDCurrency(tt.currency)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AssertUSDCurrency() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindUnsupportedCurrency {
				t.Errorf("AssertUSDCurrency() kind = %v, want %v", KindOf(err), KindUnsupportedCurrency)
			}
		})
	}
}

func TestAssertListingType(t *testing.T) {
	tests := []struct {
		name    string
		typ     ListingType
		wantErr bool
	}{
		{name: "Bid", typ: ListingBid},
		{name: "Ask", typ: ListingAsk},
		{name: "Lowercase", typ: "bid", wantErr: true},
		{name: "Unknown", typ: "SWAP", wantErr: true},
		{name: "Empty", typ: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertListingType(tt.typ)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AssertListingType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidListingType) {
				t.Errorf("AssertListingType() error = %v, want invalid-listing-type", err)
			}
		})
	}
}

func TestAssertPriceCents(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		wantErr bool
	}{
		{name: "Smallest", price: 1},
		{name: "Typical", price: 1500},
		{name: "Ceiling", price: MaxPriceCents},
		{name: "Zero", price: 0, wantErr: true},
		{name: "Negative", price: -5, wantErr: true},
		{name: "AboveCeiling", price: MaxPriceCents + 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertPriceCents(tt.price)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AssertPriceCents() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindPriceOutOfRange {
				t.Errorf("AssertPriceCents() kind = %v, want %v", KindOf(err), KindPriceOutOfRange)
			}
		})
	}
}

func TestAssertQuantity(t *testing.T) {
	for _, q := range []int64{0, 2, -1, 100} {
		if err := AssertQuantity(q); KindOf(err) != KindUnsupportedQuantity {
			t.Errorf("AssertQuantity(%d) kind = %v, want %v", q, KindOf(err), KindUnsupportedQuantity)
		}
	}
	if err := AssertQuantity(1); err != nil {
		t.Errorf("AssertQuantity(1) error = %v", err)
	}
}

func TestAssertCardID(t *testing.T) {
	if err := AssertCardID("card-1"); err != nil {
		t.Errorf("AssertCardID() error = %v", err)
	}
	for _, id := range []string{"", "   "} {
		if err := AssertCardID(id); KindOf(err) != KindInvalidArgument {
			t.Errorf("AssertCardID(%q) kind = %v, want %v", id, KindOf(err), KindInvalidArgument)
		}
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "Integer", raw: `1500`, want: 1500},
		{name: "Negative", raw: `-3`, want: -3},
		{name: "IntegralFloat", raw: `1.0`, want: 1},
		{name: "Exponent", raw: `1e3`, want: 1000},
		{name: "Whitespace", raw: ` 42 `, want: 42},
		{name: "Fraction", raw: `12.5`, wantErr: true},
		{name: "String", raw: `"1500"`, wantErr: true},
		{name: "Null", raw: `null`, wantErr: true},
		{name: "Bool", raw: `true`, wantErr: true},
		{name: "Array", raw: `[1]`, wantErr: true},
		{name: "Missing", raw: ``, wantErr: true},
		{name: "Huge", raw: `1e300`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsInt(json.RawMessage(tt.raw), "priceCents")
			if (err != nil) != tt.wantErr {
				t.Fatalf("AsInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if KindOf(err) != KindInvalidArgument {
					t.Errorf("AsInt() kind = %v, want %v", KindOf(err), KindInvalidArgument)
				}
				return
			}
			if got != tt.want {
				t.Errorf("AsInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewIdentity(t *testing.T) {
	tests := []struct {
		name                string
		uid, display, email string
		wantDisplayName     string
	}{
		{name: "Name", uid: "u1", display: "Alice", email: "a@example.com", wantDisplayName: "Alice"},
		{name: "EmailFallback", uid: "u1", email: "a@example.com", wantDisplayName: "a@example.com"},
		{name: "UIDFallback", uid: "u1", wantDisplayName: "u1"},
		{name: "BlankName", uid: "u1", display: "  ", email: "a@example.com", wantDisplayName: "a@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewIdentity(tt.uid, tt.display, tt.email)
			if got.DisplayName != tt.wantDisplayName {
				t.Errorf("NewIdentity().DisplayName = %q, want %q", got.DisplayName, tt.wantDisplayName)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := newError(KindInvalidState, "listing is ACCEPTED")
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("errors.Is(%v, ErrInvalidState) = false", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(%v, ErrNotFound) = true", err)
	}

	wrapped := storageFailure("accept listing", errors.New("connection reset"))
	if KindOf(wrapped) != KindStorage {
		t.Errorf("storageFailure() kind = %v, want %v", KindOf(wrapped), KindStorage)
	}
	if got := storageFailure("accept listing", err); got != err {
		t.Errorf("storageFailure() rewrapped a domain error: %v", got)
	}
}
