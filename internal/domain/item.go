package domain

import (
	"time"
)

// Item categories.
const (
	CategoryBooks       = "books"
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryFurniture   = "furniture"
	CategoryServices    = "services"
	CategoryOther       = "other"
)

// Item conditions.
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like-new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
)

// Listing types. A "sell" listing offers something, a "buy" listing asks
// for it.
const (
	ListingSell = "sell"
	ListingBuy  = "buy"
)

// Item represents a marketplace listing.
type Item struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Type        string    `json:"type"`
	University  string    `json:"university"`
	Images      []string  `json:"images"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Seller identity, joined on detail reads.
	SellerName  string `json:"sellerName,omitempty"`
	SellerImage string `json:"sellerImage,omitempty"`
}

// ItemFilter narrows the public browse feed.
type ItemFilter struct {
	Search     string
	University string
	Category   string
	Type       string
}
