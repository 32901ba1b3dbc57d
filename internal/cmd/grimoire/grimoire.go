// Package grimoire parses the deck-builder command flags and serves the
// MCP deck-building session over stdio.
package grimoire

import (
	"context"
	"errors"
	"flag"
	"fmt"

	platformcmd "github.com/louisbranch/grimoire.cards/internal/platform/cmd"
	i18n "github.com/louisbranch/grimoire.cards/internal/platform/i18n/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/assets"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/catalog"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/unlock"
	grimoire "github.com/louisbranch/grimoire.cards/internal/services/grimoire/service"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage"
	storagesqlite "github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage/sqlite"
	mcpservice "github.com/louisbranch/grimoire.cards/internal/services/mcp/service"
)

// Config holds deck-builder command configuration.
type Config struct {
	DBPath string `env:"GRIMOIRE_CARDS_DB_PATH" envDefault:"data/grimoire.db"`
	Locale string `env:"GRIMOIRE_CARDS_LOCALE"  envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "deck library database path; empty disables persistence")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "message locale (BCP 47)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the deck-building MCP server.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceGrimoire, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	opts := []grimoire.Option{grimoire.WithLocale(cfg.Locale)}

	var store storage.Store
	if cfg.DBPath != "" {
		sqliteStore, err := storagesqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open deck library: %w", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		opts = append(opts, grimoire.WithStore(store))
	}

	bundle, err := loadCatalogBundle(ctx, store)
	if err != nil {
		return err
	}
	cat, err := catalog.New(bundle.Aspects, bundle.Cards)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}

	messages, err := i18n.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load message bundle: %w", err)
	}

	if shareCfg, ok, err := grimoire.LoadShareConfigFromEnv(); err != nil {
		return fmt.Errorf("load share config: %w", err)
	} else if ok {
		opts = append(opts, grimoire.WithShareConfig(shareCfg))
	}

	svc, err := grimoire.New(cat, unlock.Table(bundle.Codes), messages, opts...)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	return mcpservice.Run(ctx, svc)
}

// loadCatalogBundle reads the catalog from the store, seeding it from the
// embedded defaults when the store is empty or persistence is disabled.
func loadCatalogBundle(ctx context.Context, store storage.Store) (storage.CatalogBundle, error) {
	if store != nil {
		bundle, err := store.LoadCatalog(ctx)
		if err == nil {
			return bundle, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return storage.CatalogBundle{}, fmt.Errorf("load catalog: %w", err)
		}
	}

	bundle, err := assets.DefaultCatalog()
	if err != nil {
		return storage.CatalogBundle{}, fmt.Errorf("load embedded catalog: %w", err)
	}
	if store != nil {
		if err := store.ReplaceCatalog(ctx, bundle); err != nil {
			return storage.CatalogBundle{}, fmt.Errorf("seed catalog: %w", err)
		}
	}
	return bundle, nil
}
