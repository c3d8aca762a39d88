// Package domain defines typed identifiers shared across modules. Wrapping
// uuid.UUID keeps a product ID from being passed where an account ID belongs.
package domain

import (
	"github.com/google/uuid"

	dErrors "sellarte/pkg/domain-errors"
)

type (
	// ProductID identifies a catalog product.
	ProductID uuid.UUID
	// AccountID identifies a wholesale account.
	AccountID uuid.UUID
	// FragmentID identifies a knowledge fragment.
	FragmentID uuid.UUID
)

func NewProductID() ProductID   { return ProductID(uuid.New()) }
func NewAccountID() AccountID   { return AccountID(uuid.New()) }
func NewFragmentID() FragmentID { return FragmentID(uuid.New()) }

func (id ProductID) String() string  { return uuid.UUID(id).String() }
func (id AccountID) String() string  { return uuid.UUID(id).String() }
func (id FragmentID) String() string { return uuid.UUID(id).String() }

func (id ProductID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id FragmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's marshaling, so spell it out to keep
// the canonical string form on the wire.

func (id ProductID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id AccountID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id FragmentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ProductID) UnmarshalText(text []byte) error {
	parsed, err := ParseProductID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AccountID) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *FragmentID) UnmarshalText(text []byte) error {
	parsed, err := ParseFragmentID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseProductID parses a product ID from its string form.
func ParseProductID(s string) (ProductID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ProductID(uuid.Nil), dErrors.Newf(dErrors.CodeInvalidInput, "invalid product id %q", s)
	}
	return ProductID(u), nil
}

// ParseAccountID parses an account ID from its string form.
func ParseAccountID(s string) (AccountID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AccountID(uuid.Nil), dErrors.Newf(dErrors.CodeInvalidInput, "invalid account id %q", s)
	}
	return AccountID(u), nil
}

// ParseFragmentID parses a fragment ID from its string form.
func ParseFragmentID(s string) (FragmentID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return FragmentID(uuid.Nil), dErrors.Newf(dErrors.CodeInvalidInput, "invalid fragment id %q", s)
	}
	return FragmentID(u), nil
}
