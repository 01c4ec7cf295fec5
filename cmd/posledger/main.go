package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"mobilepos/internal/auth"
	"mobilepos/internal/cache"
	"mobilepos/internal/config"
	"mobilepos/internal/domain"
	"mobilepos/internal/ledger"
	"mobilepos/internal/logger"
	"mobilepos/internal/service"
	"mobilepos/internal/store"
	filestore "mobilepos/internal/store/file"
	"mobilepos/internal/store/memory"
	pgstore "mobilepos/internal/store/postgres"
	redisstore "mobilepos/internal/store/redis"
)

const usage = `usage: posledger [-u username] [-p secret] <command> [flags]

commands:
  stores | products | vendors | users
  inventory [-store ID]       transactions [-store ID]
  cash [-store ID]            balance [-store ID]
  sale -product ID -qty N [-store ID] [-price P] [-customer TYPE]
  purchase -product ID -qty N [-store ID] [-vendor ID] [-price P] [-status S]
  cash-entry -type CREDIT|DEBIT -amount A [-store ID] [-desc TEXT]
  add-product -brand B -model M [-specs S] [-purchase-price P] [-sales-price P]
  add-vendor -name N [-contact C] [-gst G] [-address A]
  add-store -name N -username U -password P [-location L]
  dashboard [-store ID]       report -kind K [-store ID]
  reset
`

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs one invocation and returns the exit code. Storage clients are
// closed before it returns.
func execute(argv []string, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet("posledger", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	username := flags.String("u", "admin", "username to sign in as")
	secret := flags.String("p", os.Getenv("POSLEDGER_SECRET"), "secret for the user")
	if err := flags.Parse(argv); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	log := logger.NewWithWriter(logger.Config{Env: cfg.Env, Level: cfg.LogLevel}, stderr)

	if err := validateSecurityConfig(cfg); err != nil {
		if !cfg.IsDevelopment() {
			log.Error().Err(err).Msg("invalid security configuration")
			return 1
		}
		cfg.AuthSecret = uuid.NewString() + uuid.NewString()
		log.Warn().Err(err).Msg("using a per-process auth secret in development")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	docs, sessions, closers, err := openBackends(ctx, cfg, log)
	defer func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Error().Err(err).Msg("close error")
			}
		}
	}()
	if err != nil {
		log.Error().Err(err).Msg("storage unavailable")
		return 1
	}

	l, err := ledger.New(ctx, docs, ledger.WithLogger(log))
	if err != nil {
		log.Error().Err(err).Msg("open ledger")
		return 1
	}
	manager := auth.NewManager(cfg.AuthSecret, cfg.TokenTTL(), l, sessions, log)
	svc := service.New(l, manager, log)

	if err := run(ctx, svc, *username, *secret, flags.Args(), stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintf(stderr, "posledger: %v\n", err)
		return 1
	}
	return 0
}

// openBackends picks the document store and session registry. Postgres takes
// precedence over Redis, Redis over a data file, and memory is the fallback.
func openBackends(ctx context.Context, cfg config.Config, log zerolog.Logger) (store.DocumentStore, cache.SessionRegistry, []func() error, error) {
	var docs store.DocumentStore
	var sessions cache.SessionRegistry = cache.NewMemorySessionRegistry()
	closers := make([]func() error, 0, 2)

	if cfg.RedisAddr != "" {
		registry := cache.NewRedisSessionRegistry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := registry.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, sessions kept in memory")
		} else {
			sessions = registry
			closers = append(closers, registry.Close)
			log.Debug().Msg("sessions: redis")
			if cfg.DatabaseURL == "" {
				docs = redisstore.NewWithClient(registry.Client(), cfg.DocumentKey)
				log.Debug().Msg("documents: redis")
			}
		}
	}

	switch {
	case cfg.DatabaseURL != "":
		pg, err := pgstore.New(ctx, cfg.DatabaseURL, cfg.DocumentKey)
		if err != nil {
			return nil, nil, closers, fmt.Errorf("postgres unavailable and DATABASE_URL is set: %w", err)
		}
		docs = pg
		closers = append(closers, pg.Close)
		log.Debug().Msg("documents: postgres")
	case docs != nil:
	case cfg.DataFile != "":
		fs, err := filestore.New(cfg.DataFile)
		if err != nil {
			return nil, nil, closers, err
		}
		docs = fs
		log.Debug().Str("path", cfg.DataFile).Msg("documents: file")
	default:
		docs = memory.New()
		log.Debug().Msg("documents: in-memory")
	}

	return docs, sessions, closers, nil
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}

var errUsage = errors.New("usage")

// run signs in, executes one command and writes its result as JSON.
func run(ctx context.Context, svc *service.Service, username string, secret string, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	session, err := svc.Login(ctx, username, secret)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	defer func() { _ = svc.Logout(context.WithoutCancel(ctx), session.AccessToken) }()

	actx, err := svc.Authorize(ctx, session.AccessToken)
	if err != nil {
		return err
	}

	result, err := dispatch(actx, svc, args[0], args[1:])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func dispatch(ctx context.Context, svc *service.Service, command string, args []string) (any, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	storeID := fs.String("store", "", "store id")

	switch command {
	case "stores":
		return svc.Stores(ctx)
	case "products":
		return svc.Products(ctx)
	case "vendors":
		return svc.Vendors(ctx)
	case "users":
		return svc.Users(ctx)
	case "reset":
		if err := svc.Reset(ctx); err != nil {
			return nil, err
		}
		return map[string]string{"status": "reset"}, nil

	case "inventory", "transactions", "cash", "balance", "dashboard":
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%s: %w", command, err)
		}
		switch command {
		case "inventory":
			return svc.Inventory(ctx, *storeID)
		case "transactions":
			return svc.Transactions(ctx, *storeID)
		case "cash":
			return svc.PettyCash(ctx, *storeID)
		case "balance":
			balance, err := svc.CashBalance(ctx, *storeID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"storeId": *storeID, "balance": balance}, nil
		default:
			actor, _ := service.ActorFromContext(ctx)
			if actor.IsAdmin() && *storeID == "" {
				return svc.AdminDashboard(ctx)
			}
			return svc.StoreDashboard(ctx, *storeID)
		}

	case "report":
		kind := fs.String("kind", "", "report kind")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
		return svc.Report(ctx, *kind, *storeID)

	case "sale", "purchase":
		productID := fs.String("product", "", "product id")
		qty := fs.Int("qty", 0, "quantity")
		price := fs.String("price", "", "unit price, defaults to the catalog price")
		customer := fs.String("customer", "", "customer type")
		vendorID := fs.String("vendor", "", "vendor id")
		status := fs.String("status", "", "purchase status")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%s: %w", command, err)
		}
		unit, err := parseAmount(*price)
		if err != nil {
			return nil, err
		}
		in := domain.TransactionInput{
			StoreID:   *storeID,
			ProductID: *productID,
			Quantity:  *qty,
			Price:     unit,
		}
		if command == "sale" {
			in.CustomerType = *customer
			return svc.RecordSale(ctx, in)
		}
		in.VendorID = *vendorID
		in.Status = *status
		return svc.RecordPurchase(ctx, in)

	case "cash-entry":
		entryType := fs.String("type", "", "CREDIT or DEBIT")
		amount := fs.String("amount", "", "amount")
		desc := fs.String("desc", "", "description")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("cash-entry: %w", err)
		}
		value, err := parseAmount(*amount)
		if err != nil {
			return nil, err
		}
		return svc.RecordCashEntry(ctx, domain.CashEntryInput{
			StoreID:     *storeID,
			Type:        *entryType,
			Amount:      value,
			Description: *desc,
		})

	case "add-product":
		brand := fs.String("brand", "", "brand")
		model := fs.String("model", "", "model")
		specs := fs.String("specs", "", "specs")
		purchasePrice := fs.String("purchase-price", "", "purchase price")
		salesPrice := fs.String("sales-price", "", "sales price")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("add-product: %w", err)
		}
		buy, err := parseAmount(*purchasePrice)
		if err != nil {
			return nil, err
		}
		sell, err := parseAmount(*salesPrice)
		if err != nil {
			return nil, err
		}
		return svc.AddProduct(ctx, domain.ProductInput{
			Brand:         *brand,
			Model:         *model,
			Specs:         *specs,
			PurchasePrice: buy,
			SalesPrice:    sell,
		})

	case "add-vendor":
		name := fs.String("name", "", "vendor name")
		contact := fs.String("contact", "", "contact")
		gst := fs.String("gst", "", "tax id")
		address := fs.String("address", "", "address")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("add-vendor: %w", err)
		}
		return svc.AddVendor(ctx, domain.VendorInput{Name: *name, Contact: *contact, TaxID: *gst, Address: *address})

	case "add-store":
		name := fs.String("name", "", "store name")
		location := fs.String("location", "", "location")
		user := fs.String("username", "", "store user login")
		password := fs.String("password", "", "store user secret")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("add-store: %w", err)
		}
		return svc.AddStore(ctx,
			domain.StoreInput{Name: *name, Location: *location},
			domain.UserInput{Username: *user, Password: *password})
	}

	return nil, fmt.Errorf("%w: unknown command %q", errUsage, command)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return value, nil
}
