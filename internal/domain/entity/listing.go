package entity

import (
	"strings"
	"time"
	"unicode"
)

const (
	MinListingImages = 4
	MaxListingImages = 6
)

// Browse categories. A listing whose name mentions none of the named
// animals falls under CategoryOthers.
const (
	CategoryCow    = "cow"
	CategoryGoat   = "goat"
	CategorySheep  = "sheep"
	CategoryBull   = "bull"
	CategoryOthers = "others"
)

var namedCategories = []string{CategoryCow, CategoryGoat, CategorySheep, CategoryBull}

// Listing is an animal offered for sale. The core only reads listings; the
// seller-facing create/toggle operations live in the listing usecase.
type Listing struct {
	ID            string    `json:"id" firestore:"-"`
	SellerID      string    `json:"seller_id" firestore:"sellerId"`
	AnimalName    string    `json:"animal_name" firestore:"animalName"`
	SubType       string    `json:"sub_type,omitempty" firestore:"subType"`
	Age           string    `json:"age,omitempty" firestore:"age"`
	Description   string    `json:"description,omitempty" firestore:"description"`
	Price         float64   `json:"price" firestore:"price"`
	ContactNumber string    `json:"contact_number,omitempty" firestore:"contactNumber"`
	Images        []string  `json:"images" firestore:"images"`
	VideoURL      string    `json:"video_url,omitempty" firestore:"videoUrl"`
	District      string    `json:"district,omitempty" firestore:"district"`
	IsActive      bool      `json:"is_active" firestore:"isActive"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}

// Media returns the images followed by the video, if any.
func (l *Listing) Media() []string {
	media := make([]string, 0, len(l.Images)+1)
	media = append(media, l.Images...)
	if l.VideoURL != "" {
		media = append(media, l.VideoURL)
	}
	return media
}

func (l *Listing) Thumbnail() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// Category derives the browse category from the animal name, so "Ongole Cow"
// and "cows" both land under cow.
func (l *Listing) Category() string {
	words := strings.FieldsFunc(strings.ToLower(l.AnimalName), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, category := range namedCategories {
		for _, w := range words {
			if w == category || w == category+"s" {
				return category
			}
		}
	}
	return CategoryOthers
}
