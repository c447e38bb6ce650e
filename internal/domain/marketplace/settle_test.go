package marketplace

import "testing"

func Test_settle(t *testing.T) {
	accepter := &Identity{UID: "bob", DisplayName: "Bob"}
	tests := []struct {
		name       string
		listing    *Listing
		wantBuyer  string
		wantSeller string
		wantErr    bool
	}{
		{name: "AskCreatorSells", listing: &Listing{Type: ListingAsk, CreatedByUID: "alice"}, wantBuyer: "bob", wantSeller: "alice"},
		{name: "BidCreatorBuys", listing: &Listing{Type: ListingBid, CreatedByUID: "alice"}, wantBuyer: "alice", wantSeller: "bob"},
		{name: "Unknown", listing: &Listing{Type: "SWAP", CreatedByUID: "alice"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := settle(tt.listing, accepter)
			if (err != nil) != tt.wantErr {
				t.Fatalf("settle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.buyer.uid != tt.wantBuyer || got.seller.uid != tt.wantSeller {
				t.Errorf("settle() = buyer %q seller %q, want buyer %q seller %q",
					got.buyer.uid, got.seller.uid, tt.wantBuyer, tt.wantSeller)
			}
		})
	}
}
