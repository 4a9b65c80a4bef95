package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems() OrderItems {
	return OrderItems{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.RequireFromString("45.00")},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("30.00")},
	}
}

func TestOrderItemsValidate(t *testing.T) {
	require.NoError(t, validItems().Validate())
}

func TestOrderItemsValidateRejectsEmpty(t *testing.T) {
	assert.Error(t, OrderItems{}.Validate())
	assert.Error(t, OrderItems(nil).Validate())
}

func TestOrderItemsValidateRejectsBadRows(t *testing.T) {
	missingProduct := validItems()
	missingProduct[0].ProductID = uuid.Nil
	assert.Error(t, missingProduct.Validate())

	zeroQuantity := validItems()
	zeroQuantity[1].Quantity = 0
	assert.Error(t, zeroQuantity.Validate())

	negativePrice := validItems()
	negativePrice[0].UnitPrice = decimal.RequireFromString("-1.00")
	assert.Error(t, negativePrice.Validate())
}
