package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_carts.up.sql",
			"../migrations/02_orders.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomOwner() *domain.UserID {
	if gofakeit.Bool() {
		return nil
	}

	id := domain.NewUserID()
	return &id
}

func randomProductName(t *testing.T) domain.ProductName {
	t.Helper()

	name, err := domain.NewProductName(gofakeit.ProductName())
	require.NoError(t, err)

	return name
}

func randomPrice(t *testing.T) domain.Money {
	t.Helper()

	price, err := domain.MoneyFromDecimal(decimal.NewFromFloat(gofakeit.Price(1, 100)), "EUR")
	require.NoError(t, err)

	return price
}

func randomQuantity(t *testing.T) domain.Quantity {
	t.Helper()

	qty, err := domain.NewQuantity(gofakeit.IntRange(1, 10))
	require.NoError(t, err)

	return qty
}

// randomCart builds a new cart holding n distinct products.
func randomCart(t *testing.T, n int) *domain.Cart {
	t.Helper()

	cart := domain.NewCart(domain.NewCartID(), randomOwner())
	for range n {
		_, err := cart.AddItem(domain.NewProductID(), randomProductName(t), randomPrice(t), randomQuantity(t))
		require.NoError(t, err)
	}
	cart.PullEvents()

	return cart
}

var moneyComparer = cmp.Comparer(func(x, y domain.Money) bool {
	return x.Equal(y)
})

// Lines created within one microsecond come back ordered by id.
var sortItemViews = cmpopts.SortSlices(func(a, b itemView) bool {
	return a.ID < b.ID
})

// Postgres keeps microseconds and may hand back a different location.
var timeComparer = cmp.Comparer(func(x, y time.Time) bool {
	return x.Truncate(time.Microsecond).Equal(y.Truncate(time.Microsecond))
})

type itemView struct {
	ID        string
	ProductID string
	Name      string
	UnitPrice domain.Money
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func cartItemViews(items []domain.CartItem) []itemView {
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{
			ID:        item.ID().String(),
			ProductID: item.ProductID().String(),
			Name:      item.Name().String(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity().Int(),
			CreatedAt: item.CreatedAt(),
			UpdatedAt: item.UpdatedAt(),
		})
	}
	return views
}

func orderItemViews(items []domain.OrderItem) []itemView {
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{
			ID:        item.ID().String(),
			ProductID: item.ProductID().String(),
			Name:      item.Name().String(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity().Int(),
			CreatedAt: item.CreatedAt(),
			UpdatedAt: item.UpdatedAt(),
		})
	}
	return views
}

func assertCart(t *testing.T, expected, actual *domain.Cart) {
	t.Helper()

	assert.Equal(t, expected.ID(), actual.ID())

	expectedOwner, expectedOK := expected.OwnerID()
	actualOwner, actualOK := actual.OwnerID()
	assert.Equal(t, expectedOK, actualOK)
	assert.Equal(t, expectedOwner, actualOwner)

	opts := cmp.Options{timeComparer, moneyComparer, sortItemViews}
	assert.Empty(t, cmp.Diff(expected.CreatedAt(), actual.CreatedAt(), opts))
	assert.Empty(t, cmp.Diff(expected.ExpiresAt(), actual.ExpiresAt(), opts))
	assert.Empty(t, cmp.Diff(cartItemViews(expected.Items()), cartItemViews(actual.Items()), opts))
	assert.True(t, expected.Total().Equal(actual.Total()))
}

func assertOrder(t *testing.T, expected, actual *domain.Order) {
	t.Helper()

	assert.Equal(t, expected.ID(), actual.ID())
	assert.Equal(t, expected.Status(), actual.Status())
	assert.True(t, expected.Total().Equal(actual.Total()), "total: %s != %s", expected.Total(), actual.Total())

	expectedOwner, expectedOK := expected.OwnerID()
	actualOwner, actualOK := actual.OwnerID()
	assert.Equal(t, expectedOK, actualOK)
	assert.Equal(t, expectedOwner, actualOwner)

	opts := cmp.Options{timeComparer, moneyComparer, sortItemViews}
	assert.Empty(t, cmp.Diff(expected.CreatedAt(), actual.CreatedAt(), opts))
	assert.Empty(t, cmp.Diff(expected.UpdatedAt(), actual.UpdatedAt(), opts))
	assert.Empty(t, cmp.Diff(orderItemViews(expected.Items()), orderItemViews(actual.Items()), opts))

	for _, item := range actual.Items() {
		assert.Equal(t, actual.ID(), item.OrderID())
	}
}
