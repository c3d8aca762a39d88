package wholesale

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Resolve computes the unit price for an account. Nil accounts, unapproved
// accounts, and unknown tiers all degrade to the retail price; this function
// has no failure mode.
func Resolve(account *Account, retailPrice int64) Pricing {
	retail := Pricing{RetailPrice: retailPrice, FinalPrice: retailPrice}

	if account == nil || account.Status != StatusApproved {
		return retail
	}

	discount := account.Tier.DiscountPercent()
	if discount == 0 {
		return retail
	}

	final := decimal.NewFromInt(retailPrice).
		Mul(decimal.NewFromInt(100 - discount)).
		Div(oneHundred).
		Round(0).
		IntPart()

	return Pricing{
		RetailPrice:        retailPrice,
		WholesalePrice:     &final,
		DiscountPercentage: discount,
		Level:              account.Tier,
		FinalPrice:         final,
		IsWholesale:        true,
	}
}
