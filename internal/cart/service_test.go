package cart

import (
	"context"
	"errors"
	"testing"

	"physicsclass-be/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetOrCreateCart(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) CreateCartItem(ctx context.Context, cartID string, params AddItemParams) (*CartItem, error) {
	args := m.Called(ctx, cartID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) GetItems(ctx context.Context, userID string) ([]*CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CartItem), args.Error(1)
}

func (m *MockRepository) RemoveItem(ctx context.Context, params RemoveItemParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) RemoveItems(ctx context.Context, userID string, keys []Key) (int64, error) {
	args := m.Called(ctx, userID, keys)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		params := AddItemParams{UserID: "u-1", ItemType: catalog.ItemTypeCourse, ItemID: "c-1", Title: "Mechanics"}
		stored := params
		stored.Quantity = 1

		repo.On("GetOrCreateCart", ctx, "u-1").Return("cart-1", nil)
		repo.On("CreateCartItem", ctx, "cart-1", stored).Return(&CartItem{ID: "ci-1", Quantity: 1}, nil)

		item, err := svc.AddItem(ctx, params)
		assert.NoError(t, err)
		assert.Equal(t, "ci-1", item.ID)
		repo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.AddItem(ctx, AddItemParams{UserID: "u-1"})
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("InvalidType", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.AddItem(ctx, AddItemParams{UserID: "u-1", ItemType: "BUNDLE", ItemID: "b-1"})
		assert.ErrorIs(t, err, ErrInvalidItemType)
	})

	t.Run("QuantityNotOne", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.AddItem(ctx, AddItemParams{UserID: "u-1", ItemType: catalog.ItemTypeEbook, ItemID: "e-1", Quantity: 2})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetOrCreateCart", ctx, "u-1").Return("cart-1", nil)
		repo.On("CreateCartItem", ctx, "cart-1", mock.Anything).Return(nil, ErrCartItemAlreadyExist)

		_, err := svc.AddItem(ctx, AddItemParams{UserID: "u-1", ItemType: catalog.ItemTypeEbook, ItemID: "e-1"})
		assert.ErrorIs(t, err, ErrCartItemAlreadyExist)
	})
}

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	params := RemoveItemParams{UserID: "u-1", Key: Key{ItemType: catalog.ItemTypeEbook, ItemID: "e-1"}}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveItem", ctx, params).Return(int64(1), nil)

		assert.NoError(t, NewService(repo).RemoveItem(ctx, params))
	})

	t.Run("NothingDeleted", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveItem", ctx, params).Return(int64(0), nil)

		assert.ErrorIs(t, NewService(repo).RemoveItem(ctx, params), ErrCartItemNotFound)
	})

	t.Run("MissingFields", func(t *testing.T) {
		err := NewService(new(MockRepository)).RemoveItem(ctx, RemoveItemParams{UserID: "u-1"})
		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestService_RemoveOrdered(t *testing.T) {
	ctx := context.Background()
	keys := []Key{{ItemType: catalog.ItemTypeCourse, ItemID: "c-1"}}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveItems", ctx, "u-1", keys).Return(int64(1), nil)

		assert.NoError(t, NewService(repo).RemoveOrdered(ctx, "u-1", keys))
		repo.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveItems", ctx, "u-1", keys).Return(int64(0), errors.New("db error"))

		assert.Error(t, NewService(repo).RemoveOrdered(ctx, "u-1", keys))
	})
}

func TestService_GetItems(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	repo.On("GetItems", ctx, "u-1").Return([]*CartItem{{ID: "ci-1"}}, nil)

	items, err := NewService(repo).GetItems(ctx, "u-1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = NewService(repo).GetItems(ctx, "")
	assert.ErrorIs(t, err, ErrMissingFields)
}
