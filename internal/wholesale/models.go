// Package wholesale resolves reseller pricing. Accounts are owned by the auth
// profile subsystem; this module treats them as read-only inputs plus a small
// back office for approval and tier assignment.
package wholesale

import (
	"time"

	id "sellarte/pkg/domain"
)

// Tier is the discount bracket of an approved reseller.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// DiscountPercent maps a tier to its percentage. Unknown tiers are worth
// nothing rather than being an error: a mistyped tier must degrade to retail.
func (t Tier) DiscountPercent() int64 {
	switch t {
	case TierA:
		return 30
	case TierB:
		return 25
	case TierC:
		return 20
	}
	return 0
}

// Status is the approval state of a wholesale application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Account is a wholesale account snapshot.
type Account struct {
	ID        id.AccountID `json:"id"`
	Email     string       `json:"email"`
	Company   string       `json:"company"`
	Tier      Tier         `json:"tier,omitempty"`
	Status    Status       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Pricing is the resolved price for one unit.
type Pricing struct {
	RetailPrice        int64  `json:"retail_price"`
	WholesalePrice     *int64 `json:"wholesale_price,omitempty"`
	DiscountPercentage int64  `json:"discount_percentage"`
	Level              Tier   `json:"level,omitempty"`
	FinalPrice         int64  `json:"final_price"`
	IsWholesale        bool   `json:"is_wholesale"`
}
