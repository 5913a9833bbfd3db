package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

func setupTestStore(t *testing.T) (*CartStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := NewCartStore(client, 24*time.Hour)
	return store, mr
}

func sampleCart() *domain.Cart {
	return &domain.Cart{
		ID: "cart-001",
		Items: []domain.CartItem{
			{
				ProductID:  1,
				Name:       "Desk Chair",
				Price:      1990,
				Quantity:   2,
				PictureURL: "images/products/chair.png",
				Brand:      "Acme",
				Type:       "Chairs",
			},
		},
		DeliveryMethodID: 3,
		ShippingPrice:    300,
	}
}

func TestCartStore_PutAndGet(t *testing.T) {
	store, _ := setupTestStore(t)

	cart := sampleCart()
	saved, err := store.Put(context.Background(), cart)
	require.NoError(t, err)
	assert.Equal(t, cart, saved)

	got, err := store.Get(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1), got.Items[0].ProductID)
	assert.Equal(t, int64(1990), got.Items[0].Price)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, int64(3), got.DeliveryMethodID)
}

func TestCartStore_Get_NotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartStore_Get_Expired(t *testing.T) {
	store, mr := setupTestStore(t)

	cart := sampleCart()
	_, err := store.Put(context.Background(), cart)
	require.NoError(t, err)

	mr.FastForward(25 * time.Hour)

	_, err = store.Get(context.Background(), cart.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartStore_Put_SetsTTL(t *testing.T) {
	store, mr := setupTestStore(t)

	cart := sampleCart()
	_, err := store.Put(context.Background(), cart)
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, mr.TTL("basket:"+cart.ID))
}

func TestCartStore_Put_RefreshesTTL(t *testing.T) {
	store, mr := setupTestStore(t)

	cart := sampleCart()
	_, err := store.Put(context.Background(), cart)
	require.NoError(t, err)

	mr.FastForward(12 * time.Hour)

	_, err = store.Put(context.Background(), cart)
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, mr.TTL("basket:"+cart.ID))
}

func TestCartStore_Put_Overwrites(t *testing.T) {
	store, _ := setupTestStore(t)

	cart := sampleCart()
	_, err := store.Put(context.Background(), cart)
	require.NoError(t, err)

	updated := sampleCart()
	updated.Items[0].Quantity = 5
	_, err = store.Put(context.Background(), updated)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Items[0].Quantity)
}

func TestCartStore_Delete(t *testing.T) {
	store, _ := setupTestStore(t)

	cart := sampleCart()
	_, err := store.Put(context.Background(), cart)
	require.NoError(t, err)

	existed, err := store.Delete(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = store.Get(context.Background(), cart.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartStore_Delete_Missing(t *testing.T) {
	store, _ := setupTestStore(t)

	existed, err := store.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestCartStore_Get_CorruptPayload(t *testing.T) {
	store, mr := setupTestStore(t)

	require.NoError(t, mr.Set("basket:bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartStore_RoundTripPreservesCheckoutFields(t *testing.T) {
	store, _ := setupTestStore(t)

	cart := sampleCart()
	cart.PaymentIntentID = "pi_123"
	cart.ClientSecret = "pi_123_secret"

	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.Contains(t, string(data), "pi_123")

	_, err = store.Put(context.Background(), cart)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", got.PaymentIntentID)
	assert.Equal(t, "pi_123_secret", got.ClientSecret)
}
