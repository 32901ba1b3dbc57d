// Package catalogimporter loads a card catalog from CSV files into the deck
// library database, replacing whatever catalog was there before.
package catalogimporter

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/catalogcsv"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage"
	storagesqlite "github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage/sqlite"
)

// Config holds configuration for the catalog importer.
type Config struct {
	AspectsPath string
	CardsPath   string
	CodesPath   string
	DBPath      string
	DryRun      bool
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath: filepath.Join("data", "grimoire.db"),
	}

	fs.StringVar(&cfg.AspectsPath, "aspects", "", "aspects CSV path")
	fs.StringVar(&cfg.CardsPath, "cards", "", "cards CSV path")
	fs.StringVar(&cfg.CodesPath, "codes", "", "unlock codes CSV path")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "deck library database path")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.AspectsPath) == "" {
		return Config{}, errors.New("aspects is required")
	}
	if strings.TrimSpace(cfg.CardsPath) == "" {
		return Config{}, errors.New("cards is required")
	}
	if strings.TrimSpace(cfg.CodesPath) == "" {
		return Config{}, errors.New("codes is required")
	}

	return cfg, nil
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	bundle, dropped, err := readBundle(cfg)
	if err != nil {
		return err
	}
	for _, id := range dropped {
		if _, err := fmt.Fprintf(out, "dropped card %s: fails catalog validation\n", id); err != nil {
			return err
		}
	}

	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "validated %d aspect(s), %d card(s), %d code(s)\n",
			len(bundle.Aspects), len(bundle.Cards), len(bundle.Codes))
		return err
	}

	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open deck library: %w", err)
	}
	defer store.Close()

	if err := store.ReplaceCatalog(ctx, bundle); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}

	_, err = fmt.Fprintf(out, "imported %d aspect(s), %d card(s), %d code(s)\n",
		len(bundle.Aspects), len(bundle.Cards), len(bundle.Codes))
	return err
}

// readBundle opens the three CSV files and parses them into a catalog bundle.
func readBundle(cfg Config) (storage.CatalogBundle, []string, error) {
	aspects, err := os.Open(cfg.AspectsPath)
	if err != nil {
		return storage.CatalogBundle{}, nil, fmt.Errorf("open aspects: %w", err)
	}
	defer aspects.Close()

	cards, err := os.Open(cfg.CardsPath)
	if err != nil {
		return storage.CatalogBundle{}, nil, fmt.Errorf("open cards: %w", err)
	}
	defer cards.Close()

	codes, err := os.Open(cfg.CodesPath)
	if err != nil {
		return storage.CatalogBundle{}, nil, fmt.Errorf("open codes: %w", err)
	}
	defer codes.Close()

	bundle, dropped, err := catalogcsv.ParseBundle(aspects, cards, codes)
	if err != nil {
		return storage.CatalogBundle{}, nil, fmt.Errorf("parse catalog: %w", err)
	}
	return bundle, dropped, nil
}
