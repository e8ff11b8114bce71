package service

import (
	"time"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
)

// Visible reports whether a request unlocks the seller's contact number and
// the price. Only an accepted request does.
func Visible(request *entity.Request) bool {
	return request != nil && request.Status == entity.RequestAccepted
}

// ListingView is a listing as one particular viewer may see it.
type ListingView struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"seller_id"`
	AnimalName    string    `json:"animal_name"`
	SubType       string    `json:"sub_type,omitempty"`
	Age           string    `json:"age,omitempty"`
	Description   string    `json:"description,omitempty"`
	Media         []string  `json:"media"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	Price         *float64  `json:"price,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Unlocked      bool      `json:"unlocked"`

	// RequestStatus is the viewer's request for this listing, if any.
	RequestStatus entity.RequestStatus `json:"request_status,omitempty"`
	RequestID     string               `json:"request_id,omitempty"`
}

// ListingForViewer builds the view of listing for viewerID. request is the
// viewer's own request for the listing and may be nil. Sellers always see
// their own listings in full.
func ListingForViewer(listing *entity.Listing, viewerID string, request *entity.Request) ListingView {
	view := ListingView{
		ID:          listing.ID,
		SellerID:    listing.SellerID,
		AnimalName:  listing.AnimalName,
		SubType:     listing.SubType,
		Age:         listing.Age,
		Description: listing.Description,
		Media:       listing.Media(),
		Thumbnail:   listing.Thumbnail(),
		IsActive:    listing.IsActive,
		CreatedAt:   listing.CreatedAt,
	}

	if request != nil && request.ListingID == listing.ID && request.BuyerID == viewerID {
		view.RequestStatus = request.Status
		view.RequestID = request.ID
	} else {
		request = nil
	}

	if (viewerID != "" && viewerID == listing.SellerID) || Visible(request) {
		price := listing.Price
		view.Price = &price
		view.ContactNumber = listing.ContactNumber
		view.Unlocked = true
	}
	return view
}

// ContactFor returns the counterpart phone a party may see on a request card,
// or "" while the request is not accepted.
func ContactFor(request *entity.Request, counterpartPhone string) string {
	if !Visible(request) {
		return ""
	}
	return counterpartPhone
}
