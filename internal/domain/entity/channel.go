package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const channelIDLength = 40

// Channel is the two-party conversation for one (listing, buyer, seller) triple.
type Channel struct {
	ID           string          `json:"id" firestore:"-"`
	ListingID    string          `json:"listing_id" firestore:"animalId"`
	BuyerID      string          `json:"buyer_id" firestore:"buyerId"`
	SellerID     string          `json:"seller_id" firestore:"sellerId"`
	Participants []string        `json:"participants" firestore:"participants"`
	LastMessage  string          `json:"last_message" firestore:"lastMessage"`
	LastUpdated  time.Time       `json:"last_updated" firestore:"lastUpdated"`
	SeenBy       map[string]bool `json:"seen_by" firestore:"seenBy"`
	CreatedAt    time.Time       `json:"created_at" firestore:"createdAt"`
}

// ChannelID derives the channel key for a listing and its two parties. The
// participants are ordered before hashing so the same pair addresses the same
// channel regardless of which side is passed as buyer.
func ChannelID(listingID, buyerID, sellerID string) string {
	a, b := buyerID, sellerID
	if b < a {
		a, b = b, a
	}
	sum := sha256.Sum256([]byte(listingID + "\x00" + a + "\x00" + b))
	return hex.EncodeToString(sum[:])[:channelIDLength]
}

// NewChannel builds a channel whose opener has seen it and whose counterpart has not.
func NewChannel(listingID, buyerID, sellerID, openerID string, now time.Time) *Channel {
	ch := &Channel{
		ID:           ChannelID(listingID, buyerID, sellerID),
		ListingID:    listingID,
		BuyerID:      buyerID,
		SellerID:     sellerID,
		Participants: []string{buyerID, sellerID},
		LastUpdated:  now,
		CreatedAt:    now,
	}
	ch.SeenBy = map[string]bool{
		buyerID:  openerID == buyerID,
		sellerID: openerID == sellerID,
	}
	return ch
}

func (c *Channel) HasParticipant(uid string) bool {
	return uid != "" && (uid == c.BuyerID || uid == c.SellerID)
}

// Counterpart returns the other participant, or "" if uid is not in the channel.
func (c *Channel) Counterpart(uid string) string {
	switch uid {
	case c.BuyerID:
		return c.SellerID
	case c.SellerID:
		return c.BuyerID
	}
	return ""
}

// Unread is true only when the participant's flag is explicitly false.
func (c *Channel) Unread(uid string) bool {
	seen, ok := c.SeenBy[uid]
	return ok && !seen
}
