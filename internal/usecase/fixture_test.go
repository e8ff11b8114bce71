package usecase

import (
	"testing"
	"time"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
)

var (
	buyerSession    = entity.NewSession("buyer", "+919000000001")
	sellerSession   = entity.NewSession("seller", "+919000000002")
	strangerSession = entity.NewSession("stranger", "+919000000003")
)

const listingID = "cow-1"

type fixture struct {
	store    *memStore
	requests *RequestUseCase
	chats    *ChatUseCase
	listings *ListingUseCase
	users    *UserUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	store.addListing(&entity.Listing{
		ID:            listingID,
		SellerID:      sellerSession.UID,
		AnimalName:    "Ongole Cow",
		Price:         52000,
		ContactNumber: sellerSession.Phone,
		Images:        []string{"https://cdn/1.jpg", "https://cdn/2.jpg", "https://cdn/3.jpg", "https://cdn/4.jpg"},
		IsActive:      true,
	})
	store.addUser(&entity.User{ID: buyerSession.UID, Phone: buyerSession.Phone, Name: "Ravi"})
	store.addUser(&entity.User{ID: sellerSession.UID, Phone: sellerSession.Phone, Name: "Lakshmi"})

	return &fixture{
		store:    store,
		requests: NewRequestUseCase(store.Requests(), store.Listings(), store.Users(), nil),
		chats:    NewChatUseCase(store.Chats(), store.Requests(), store.Listings(), store.Users(), nil, time.Second),
		listings: NewListingUseCase(store.Listings(), store.Requests(), nil),
		users:    NewUserUseCase(store.Users()),
	}
}
