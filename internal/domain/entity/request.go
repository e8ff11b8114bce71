package entity

import (
	"time"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
)

type RequestEvent string

const (
	EventAccept RequestEvent = "accept"
	EventReject RequestEvent = "reject"
	EventCancel RequestEvent = "cancel"
	EventDelete RequestEvent = "delete"
)

// RequestRole is the side of a request an actor must be on to fire an event.
type RequestRole int

const (
	RoleBuyer RequestRole = 1 << iota
	RoleSeller
	RoleEither = RoleBuyer | RoleSeller
)

type transition struct {
	from  RequestStatus
	to    RequestStatus
	actor RequestRole
}

var transitions = map[RequestEvent]transition{
	EventAccept: {from: RequestPending, to: RequestAccepted, actor: RoleSeller},
	EventReject: {from: RequestPending, to: RequestRejected, actor: RoleSeller},
	EventCancel: {from: RequestPending, to: RequestCancelled, actor: RoleBuyer},
}

// Request is a buyer's solicitation to see a seller's contact details and
// price for one listing.
type Request struct {
	ID        string        `json:"id" firestore:"-"`
	ListingID string        `json:"listing_id" firestore:"animalId"`
	BuyerID   string        `json:"buyer_id" firestore:"buyerId"`
	SellerID  string        `json:"seller_id" firestore:"sellerId"`
	Status    RequestStatus `json:"status" firestore:"status"`
	CreatedAt time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time     `json:"updated_at" firestore:"updatedAt"`
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestAccepted || s == RequestRejected || s == RequestCancelled
}

// IsOpen reports whether a request in this status blocks the buyer from
// creating another one for the same listing.
func (s RequestStatus) IsOpen() bool {
	return s == RequestPending || s == RequestAccepted
}

// Next returns the status an event leads to from the current one. Delete is
// valid from every terminal status and yields the empty status.
func (s RequestStatus) Next(event RequestEvent) (RequestStatus, bool) {
	if event == EventDelete {
		return "", s.IsTerminal()
	}
	t, ok := transitions[event]
	if !ok || t.from != s {
		return "", false
	}
	return t.to, true
}

// ActorFor returns which party may fire the event.
func ActorFor(event RequestEvent) RequestRole {
	if event == EventDelete {
		return RoleEither
	}
	return transitions[event].actor
}

// RoleOf returns the caller's side of the request, or 0 if they are not a party.
func (r *Request) RoleOf(uid string) RequestRole {
	var role RequestRole
	if uid == "" {
		return role
	}
	if r.BuyerID == uid {
		role |= RoleBuyer
	}
	if r.SellerID == uid {
		role |= RoleSeller
	}
	return role
}

func (r *Request) CanFire(uid string, event RequestEvent) bool {
	return r.RoleOf(uid)&ActorFor(event) != 0
}

func (r *Request) Counterpart(uid string) string {
	if uid == r.BuyerID {
		return r.SellerID
	}
	return r.BuyerID
}

// RequestGuardID is the key of the document that serialises request creation
// for one buyer on one listing.
func RequestGuardID(listingID, buyerID string) string {
	return listingID + "_" + buyerID
}
