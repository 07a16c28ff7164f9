package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/checkoutkit/internal/db/migrations"
	"github.com/dmitrymomot/checkoutkit/modules/functions"
	"github.com/dmitrymomot/checkoutkit/pkg/billing"
	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/config"
	"github.com/dmitrymomot/checkoutkit/pkg/httpserver"
	"github.com/dmitrymomot/checkoutkit/pkg/jwt"
	"github.com/dmitrymomot/checkoutkit/pkg/logger"
	"github.com/dmitrymomot/checkoutkit/pkg/metrics"
	"github.com/dmitrymomot/checkoutkit/pkg/mongo"
	"github.com/dmitrymomot/checkoutkit/pkg/pg"
	"github.com/dmitrymomot/checkoutkit/pkg/redis"
	"github.com/dmitrymomot/checkoutkit/pkg/requestid"
	"github.com/dmitrymomot/checkoutkit/svc/checkout"
	"github.com/dmitrymomot/checkoutkit/svc/customer"
	"github.com/dmitrymomot/checkoutkit/svc/identity"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server terminated", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var appCfg appConfig
	if err := config.Load(&appCfg); err != nil {
		return err
	}

	logOpts, err := appCfg.loggerOptions()
	if err != nil {
		return err
	}
	log := logger.New(append(logOpts, logger.WithContextExtractors(
		requestid.LoggerExtractor(),
		identity.LoggerExtractor(),
	))...)
	slog.SetDefault(log)

	var (
		billingCfg  billing.Config
		checkoutCfg checkout.Config
		customerCfg customer.Config
		pgCfg       pg.Config
		redisCfg    redis.Config
		serverCfg   httpserver.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&billingCfg) },
		func() error { return config.Load(&checkoutCfg) },
		func() error { return config.Load(&customerCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&serverCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	tokens, err := jwt.New(appCfg.SigningKey)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	provider, err := billing.NewProvider(billingCfg, log)
	if err != nil {
		return err
	}

	checks := map[string]httpserver.Check{}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	checks["postgres"] = pg.Healthcheck(pool)

	if pgCfg.AutoMigrate {
		if err := pg.Migrate(ctx, pool, migrations.FS, pgCfg, log); err != nil {
			return err
		}
	}

	var store customer.Store
	switch appCfg.StoreDriver {
	case storeMemory:
		log.WarnContext(ctx, "using in-memory customer store, references are lost on restart")
		store = customer.NewMemoryStore(customerCfg)
	case storeMongo, "":
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return err
		}
		client, err := mongo.Connect(ctx, mongoCfg)
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Error("mongo disconnect failed", logger.Error(err))
			}
		}()
		checks["mongo"] = mongo.Healthcheck(client)
		store = customer.NewMongoStore(client.Database(mongoCfg.Database), customerCfg)
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", appCfg.StoreDriver)
	}

	m := metrics.New()

	resolverOpts := []customer.ResolverOption{
		customer.WithLogger(log),
		customer.WithMetrics(m),
		customer.WithIdempotencyKeyPrefix(customerCfg.IdempotencyPrefix),
	}
	if redisCfg.Enabled {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		checks["redis"] = redis.Healthcheck(rdb)
		resolverOpts = append(resolverOpts, customer.WithCache(customer.NewRedisCache(rdb, customerCfg)))
	}

	var initiatorOpts []checkout.InitiatorOption
	if checkoutCfg.PriceCatalog != "" {
		prices, err := catalog.Load(checkoutCfg.PriceCatalog)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "price catalog loaded", "prices", len(prices.Prices()))
		initiatorOpts = append(initiatorOpts, checkout.WithCatalog(prices))
	}

	resolver := customer.NewResolver(store, identity.NewPostgresDirectory(pool), provider, resolverOpts...)
	initiator := checkout.NewInitiator(provider, checkoutCfg, initiatorOpts...)
	svc := checkout.NewService(resolver, initiator, checkout.WithLogger(log), checkout.WithMetrics(m))

	router := functions.Router(functions.RouterOptions{
		CreateCheckoutSession: svc.Handler(),
		Tokens:                tokens,
		Health:                httpserver.HealthCheckHandler(log, 5*time.Second, checks),
		Metrics:               m.Handler(),
		Logger:                log,
	})

	server := httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log))
	return server.Run(ctx, router)
}
