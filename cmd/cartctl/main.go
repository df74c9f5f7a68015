package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/storefront-core/internal/cart"
	"github.com/angelmondragon/storefront-core/internal/cartclient"
	"github.com/angelmondragon/storefront-core/internal/localstore"
	"github.com/angelmondragon/storefront-core/internal/notify"
	"github.com/angelmondragon/storefront-core/pkg/auth"
	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/metrics"
	"github.com/angelmondragon/storefront-core/pkg/redis"
	"github.com/angelmondragon/storefront-core/pkg/types"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "cartctl"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "get", "cart command: get|add|update|remove|clear|merge")
	token := flag.String("token", "", "access token for an authenticated session")

	// Command-specific flags
	product := flag.String("product", "", "product id (for add)")
	variant := flag.String("variant", "", "variant id (for add)")
	qty := flag.Int("qty", 1, "quantity (for add and update)")
	item := flag.String("item", "", "cart line id (for update and remove)")
	stock := flag.Int("stock", -1, "known stock for the product, enables the local pre-check (for add)")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "cartctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	var closers []func() error
	defer func() {
		var closeErr error
		for _, close := range closers {
			closeErr = multierr.Append(closeErr, close())
		}
		if closeErr != nil {
			logg.Error(ctx, "error releasing resources", closeErr)
		}
	}()

	var guests localstore.Store = localstore.NewMemory()
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		closers = append(closers, redisClient.Close)

		guests, err = localstore.NewRedis(redisClient, cfg.Guest.IDTTL())
		requireResource(ctx, logg, "guest store", err)
	}

	guestID, err := localstore.EnsureGuestID(ctx, guests)
	requireResource(ctx, logg, "guest id", err)
	ctx = logg.WithGuestID(ctx, guestID)

	watcher := auth.NewWatcher(cfg.JWT)
	if *token != "" {
		watcher.SetToken(*token)
	}

	client, err := cartclient.NewClient(cfg.API.BaseURL,
		cartclient.WithTokenSource(watcher),
		cartclient.WithGuestIDSource(func(ctx context.Context) string {
			id, err := guests.GetItem(ctx, localstore.GuestIDKey)
			if err != nil {
				return ""
			}
			return id
		}),
	)
	requireResource(ctx, logg, "cart client", err)

	manager, err := cart.NewManager(cart.ManagerParams{
		Remote:     client,
		Auth:       watcher,
		GuestStore: guests,
		Notifier:   notify.NewLogNotifier(logg),
		Logger:     logg,
		Metrics:    metrics.NewCartCallMetrics(prometheus.NewRegistry()),
	})
	requireResource(ctx, logg, "cart manager", err)

	manager.Start(ctx)
	defer manager.Stop()

	switch *cmd {
	case "get":
		// Start already fetched; nothing more to do.

	case "add":
		if *product == "" {
			fmt.Fprintln(os.Stderr, "missing -product for add")
			os.Exit(1)
		}
		var details *types.Product
		if *stock >= 0 {
			details = &types.Product{ID: *product, Stock: *stock}
			if *variant != "" {
				details.Variants = []types.ProductVariant{{ID: *variant, Stock: *stock}}
			}
		}
		manager.AddToCart(ctx, cartclient.AddItemInput{
			ProductID: *product,
			VariantID: *variant,
			Quantity:  *qty,
		}, details)

	case "update":
		if *item == "" {
			fmt.Fprintln(os.Stderr, "missing -item for update")
			os.Exit(1)
		}
		manager.UpdateQuantity(ctx, *item, *qty)

	case "remove":
		if *item == "" {
			fmt.Fprintln(os.Stderr, "missing -item for remove")
			os.Exit(1)
		}
		manager.RemoveItem(ctx, *item)

	case "clear":
		manager.ClearCart(ctx)

	case "merge":
		if !watcher.IsAuthenticated() {
			fmt.Fprintln(os.Stderr, "merge requires -token")
			os.Exit(1)
		}
		manager.MergeGuestCart(ctx)

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}

	printState(manager.Snapshot())
}

func printState(state cart.State) {
	out := struct {
		Cart            *types.Cart    `json:"cart"`
		Err             string         `json:"error,omitempty"`
		StockQuantities map[string]int `json:"stock_quantities,omitempty"`
	}{
		Cart:            state.Cart,
		Err:             state.Err,
		StockQuantities: state.StockQuantities,
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode state: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
