package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/command"
	"github.com/nikolayk812/cart-checkout/internal/config"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/event"
	"github.com/nikolayk812/cart-checkout/internal/query"
	"github.com/nikolayk812/cart-checkout/internal/repository"
	"github.com/nikolayk812/cart-checkout/internal/repository/memory"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const usage = `usage: cartctl [-config file] <command> [flags]

commands:
  create    [-owner id]
  add       -cart id -product id -name name -price 59.99 [-currency EUR] [-qty 1]
  update    -cart id -item id -qty n
  remove    -cart id -item id
  show      -cart id
  checkout  -cart id
  order     -id id
  demo      run a full checkout against the configured store

Without DATABASE_URL each run starts from an empty in-memory store.`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	commands *command.Handler
	queries  *query.Handler
	logger   *zap.Logger
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("cartctl", flag.ContinueOnError)
	configPath := global.String("config", "", "env file with DATABASE_URL, KAFKA_BROKERS, KAFKA_TOPIC, LOG_LEVEL")
	global.Usage = func() { fmt.Fprintln(global.Output(), usage) }

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("no command given")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("cfg.NewLogger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	name, rest := global.Arg(0), global.Args()[1:]
	warnEphemeral(cfg, name, logger)

	a, cleanup, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := a.dispatch(ctx, name, rest)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// warnEphemeral flags commands whose state would not outlive this process.
// demo creates and checks out its cart in a single run, so it is exempt.
func warnEphemeral(cfg config.Config, name string, logger *zap.Logger) bool {
	if cfg.DatabaseURL != "" || name == "demo" {
		return false
	}

	logger.Warn("DATABASE_URL is not set, state is kept in memory and lost when cartctl exits",
		zap.String("command", name))
	return true
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	bus := event.NewBus(logger)
	bus.SubscribeAll(func(_ context.Context, e domain.Event) error {
		logger.Info("domain event",
			zap.String("event_name", e.EventName()),
			zap.String("aggregate_id", e.AggregateID()),
			zap.Any("payload", e.Primitives()))
		return nil
	})

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher := event.NewKafkaPublisher(brokers, cfg.KafkaTopic, logger)
		bus.SubscribeAll(publisher.Handle)
		closers = append(closers, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("closing kafka publisher", zap.Error(err))
			}
		})
	}

	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory store")

		store := memory.NewStore()
		return &app{
			commands: command.NewHandler(store.Carts(), store, bus, logger),
			queries:  query.NewHandler(store.Carts(), store.Orders()),
			logger:   logger,
		}, cleanup, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	closers = append(closers, pool.Close)

	if err := pool.Ping(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	carts := repository.NewCart(pool)
	return &app{
		commands: command.NewHandler(carts, repository.NewTransactor(pool), bus, logger),
		queries:  query.NewHandler(carts, repository.NewOrder(pool)),
		logger:   logger,
	}, cleanup, nil
}

func (a *app) dispatch(ctx context.Context, name string, args []string) (any, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var (
		cartID    = fs.String("cart", "", "cart id")
		itemID    = fs.String("item", "", "cart item id")
		orderID   = fs.String("id", "", "order id")
		ownerID   = fs.String("owner", "", "owner user id")
		productID = fs.String("product", "", "product id")
		product   = fs.String("name", "", "product name")
		price     = fs.String("price", "", "unit price in major units")
		currency  = fs.String("currency", domain.DefaultCurrency.String(), "ISO 4217 code")
		qty       = fs.Int("qty", 1, "quantity")
	)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch name {
	case "create":
		id, err := a.commands.CreateCart(ctx, command.CreateCart{OwnerID: *ownerID})
		if err != nil {
			return nil, err
		}
		return map[string]string{"cart_id": id.String()}, nil

	case "add":
		amount, err := decimal.NewFromString(*price)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", *price, err)
		}
		id, err := a.commands.AddCartItem(ctx, command.AddCartItem{
			CartID:      *cartID,
			ProductID:   *productID,
			ProductName: *product,
			Price:       amount,
			Currency:    *currency,
			Quantity:    *qty,
		})
		if err != nil {
			return nil, err
		}
		return map[string]string{"item_id": id.String()}, nil

	case "update":
		err := a.commands.UpdateCartItemQuantity(ctx, command.UpdateCartItemQuantity{CartID: *cartID, ItemID: *itemID, Quantity: *qty})
		if err != nil {
			return nil, err
		}
		return a.queries.GetCart(ctx, query.GetCart{CartID: *cartID})

	case "remove":
		if err := a.commands.RemoveCartItem(ctx, command.RemoveCartItem{CartID: *cartID, ItemID: *itemID}); err != nil {
			return nil, err
		}
		return a.queries.GetCart(ctx, query.GetCart{CartID: *cartID})

	case "show":
		return a.queries.GetCart(ctx, query.GetCart{CartID: *cartID})

	case "checkout":
		id, err := a.commands.Checkout(ctx, command.ProcessCheckout{CartID: *cartID})
		if err != nil {
			return nil, err
		}
		return a.queries.GetOrder(ctx, query.GetOrder{OrderID: id.String()})

	case "order":
		return a.queries.GetOrder(ctx, query.GetOrder{OrderID: *orderID})

	case "demo":
		return a.demo(ctx)
	}

	return nil, fmt.Errorf("unknown command %q\n%s", name, usage)
}

// demo creates a cart with two lines and checks it out.
func (a *app) demo(ctx context.Context) (query.OrderView, error) {
	cartID, err := a.commands.CreateCart(ctx, command.CreateCart{OwnerID: domain.NewUserID().String()})
	if err != nil {
		return query.OrderView{}, err
	}

	lines := []command.AddCartItem{
		{ProductName: "Mechanical Keyboard", Price: decimal.RequireFromString("59.99"), Quantity: 2},
		{ProductName: "Wireless Mouse", Price: decimal.RequireFromString("79.99"), Quantity: 1},
	}
	for _, line := range lines {
		line.CartID = cartID.String()
		line.ProductID = domain.NewProductID().String()
		line.Currency = domain.DefaultCurrency.String()

		if _, err := a.commands.AddCartItem(ctx, line); err != nil {
			return query.OrderView{}, err
		}
	}

	orderID, err := a.commands.Checkout(ctx, command.ProcessCheckout{CartID: cartID.String()})
	if err != nil {
		return query.OrderView{}, err
	}

	return a.queries.GetOrder(ctx, query.GetOrder{OrderID: orderID.String()})
}
