// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import (
	"strings"
	"time"
)

// EventKind classifies an interaction event.
type EventKind string

const (
	// EventView is a product detail view.
	EventView EventKind = "view"
	// EventAddToCart is a product added to the cart.
	EventAddToCart EventKind = "add_to_cart"
	// EventPurchase is a completed purchase line.
	EventPurchase EventKind = "purchase"
	// EventWishlist is a product added to a wishlist.
	EventWishlist EventKind = "wishlist"
	// EventRating is a product rating submission.
	EventRating EventKind = "rating"
	// EventSearch is a catalog search.
	EventSearch EventKind = "search"
	// EventClick is a generic click-through.
	EventClick EventKind = "click"
	// EventRemoveFromCart is a product removed from the cart.
	EventRemoveFromCart EventKind = "remove_from_cart"
)

// Weight returns the engagement strength of the event kind.
// The mapping is total: kinds outside the weight table count as a view.
func (k EventKind) Weight() int {
	switch k {
	case EventPurchase:
		return 10
	case EventRating:
		return 7
	case EventWishlist:
		return 5
	case EventAddToCart:
		return 3
	default:
		return 1
	}
}

// Valid reports whether the kind is one of the tracked event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventView, EventAddToCart, EventPurchase, EventWishlist, EventRating,
		EventSearch, EventClick, EventRemoveFromCart:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k EventKind) String() string {
	return string(k)
}

// TrendingWeights is the weight table used by trending aggregation.
// Wishlist and rating events do not count toward trending.
var TrendingWeights = map[EventKind]int{
	EventView:      1,
	EventAddToCart: 3,
	EventPurchase:  10,
}

// ProductID identifies a catalog product. Catalog ids are 24 lowercase
// hexadecimal characters.
type ProductID string

// ParseProductID validates s as a catalog id.
func ParseProductID(s string) (ProductID, error) {
	if !isCatalogID(s) {
		return "", &Error{Kind: ErrValidation, Op: "parse product id", Err: errMalformedID}
	}
	return ProductID(strings.ToLower(s)), nil
}

// String implements fmt.Stringer.
func (id ProductID) String() string {
	return string(id)
}

func isCatalogID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// EventContext is the client-supplied context of a tracked event.
type EventContext struct {
	Page       string `json:"page,omitempty"`
	ReferrerID string `json:"referrerId,omitempty"`
	Query      string `json:"query,omitempty"`
	Device     string `json:"device,omitempty"`
	Category   string `json:"category,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`
	IP         string `json:"ip,omitempty"`
}

// Event is an immutable interaction record read from the store.
type Event struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId,omitempty"`
	SessionID  string       `json:"sessionId,omitempty"`
	ProductID  ProductID    `json:"productId,omitempty"`
	Kind       EventKind    `json:"eventType"`
	Price      float64      `json:"price,omitempty"`
	Quantity   int          `json:"quantity,omitempty"`
	Context    EventContext `json:"context"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// Actor returns the actor that produced the event. A user id takes
// precedence over the session the user was browsing in.
func (e *Event) Actor() (ActorKey, bool) {
	switch {
	case e.UserID != "":
		return UserActor(e.UserID), true
	case e.SessionID != "":
		return SessionActor(e.SessionID), true
	default:
		return ActorKey{}, false
	}
}

// ProductStatus gates product visibility.
type ProductStatus string

const (
	StatusPublished ProductStatus = "Published"
	StatusDraft     ProductStatus = "Draft"
	StatusHidden    ProductStatus = "Hidden"
)

// Product is a catalog entry as seen by the engine.
type Product struct {
	ID       ProductID     `json:"id"`
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Brand    string        `json:"brand"`
	Price    float64       `json:"price"`
	Discount float64       `json:"discount"`
	Stock    int           `json:"stock"`
	Rating   float64       `json:"rating"`
	Tags     []string      `json:"tags,omitempty"`
	Status   ProductStatus `json:"status"`
}

// ProductScore pairs a product with an aggregated score.
type ProductScore struct {
	ProductID ProductID
	Score     float64
}

// ActorGroup is an actor together with the products it shares with a query set.
type ActorGroup struct {
	Actor          ActorKey
	SharedProducts []ProductID
}
