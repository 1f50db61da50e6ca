package catalog

import "github.com/shopspring/decimal"

type ItemType string

const (
	ItemTypeCourse ItemType = "COURSE"
	ItemTypeEbook  ItemType = "EBOOK"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeCourse || t == ItemTypeEbook
}

const (
	CourseStatusPublished = "PUBLISHED"
)

// Item is a purchasable course or e-book as seen by checkout.
type Item struct {
	ID            string
	Type          ItemType
	Title         string
	Price         decimal.NullDecimal
	DiscountPrice decimal.NullDecimal
	IsPhysical    bool
}

// EffectivePrice is the discount price when set, else the list price, else zero.
func (i *Item) EffectivePrice() decimal.Decimal {
	if i.DiscountPrice.Valid {
		return i.DiscountPrice.Decimal
	}
	if i.Price.Valid {
		return i.Price.Decimal
	}
	return decimal.Zero
}
