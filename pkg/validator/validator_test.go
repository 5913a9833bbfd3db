package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutInput struct {
	BuyerEmail string `validate:"required,email"`
	CartID     string `validate:"required"`
	Quantity   int    `validate:"gte=1"`
	Currency   string `validate:"required,len=3"`
}

func TestValidate_Success(t *testing.T) {
	input := checkoutInput{
		BuyerEmail: "buyer@example.com",
		CartID:     "basket-1",
		Quantity:   2,
		Currency:   "usd",
	}
	assert.NoError(t, Validate(input))
}

func TestValidate_MissingRequired(t *testing.T) {
	input := checkoutInput{Quantity: 1, Currency: "usd"}

	err := Validate(input)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	fields := vErr.Fields()
	assert.Contains(t, fields, "BuyerEmail")
	assert.Contains(t, fields, "CartID")
	assert.Equal(t, "is required", fields["CartID"])
}

func TestValidate_BadEmail(t *testing.T) {
	input := checkoutInput{
		BuyerEmail: "not-an-email",
		CartID:     "basket-1",
		Quantity:   1,
		Currency:   "usd",
	}

	err := Validate(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a valid email address")
}

func TestValidate_OutOfRange(t *testing.T) {
	input := checkoutInput{
		BuyerEmail: "buyer@example.com",
		CartID:     "basket-1",
		Quantity:   0,
		Currency:   "us",
	}

	err := Validate(input)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields(), "Quantity")
	assert.Contains(t, vErr.Fields(), "Currency")
}
