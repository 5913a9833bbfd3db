package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemsTotal_SingleItem(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Price: 1000, Quantity: 2},
		},
	}
	assert.Equal(t, int64(2000), c.ItemsTotal())
}

func TestItemsTotal_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Price: 1000, Quantity: 2},
			{Price: 500, Quantity: 1},
		},
	}
	// 2000 + 500 = 2500
	assert.Equal(t, int64(2500), c.ItemsTotal())
}

func TestItemsTotal_EmptyCart(t *testing.T) {
	c := NewCart("cart-1")
	assert.Equal(t, int64(0), c.ItemsTotal())
}

func TestItemsTotal_NilItems(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.ItemsTotal())
}

func TestItemCount(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
	}
	assert.Equal(t, 5, c.ItemCount())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, NewCart("cart-1").IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())

	c := &Cart{Items: []CartItem{{ProductID: 1, Quantity: 1}}}
	assert.False(t, c.IsEmpty())
}

func TestFindItemIndex(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ProductID: 10},
			{ProductID: 20},
		},
	}
	assert.Equal(t, 0, c.FindItemIndex(10))
	assert.Equal(t, 1, c.FindItemIndex(20))
	assert.Equal(t, -1, c.FindItemIndex(30))
}
