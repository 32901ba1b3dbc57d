// Package assets embeds the default card catalog shipped with the binary.
// It seeds fresh installs until the catalog-importer replaces it.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/catalogcsv"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/storage"
)

//go:embed data/aspects.csv
var aspectsCSV []byte

//go:embed data/cards.csv
var cardsCSV []byte

//go:embed data/codes.csv
var codesCSV []byte

var (
	loadDefaultCatalogOnce sync.Once
	defaultBundle          storage.CatalogBundle
	defaultLoadError       error
)

// DefaultCatalog returns the embedded catalog bundle.
func DefaultCatalog() (storage.CatalogBundle, error) {
	loadDefaultCatalogOnce.Do(func() {
		bundle, dropped, err := catalogcsv.ParseBundle(
			bytes.NewReader(aspectsCSV),
			bytes.NewReader(cardsCSV),
			bytes.NewReader(codesCSV),
		)
		if err != nil {
			defaultLoadError = err
			return
		}
		// The shipped catalog must be internally consistent; a dropped card
		// means the data files are out of sync.
		if len(dropped) > 0 {
			defaultLoadError = fmt.Errorf("embedded catalog drops cards: %s", strings.Join(dropped, ", "))
			return
		}
		defaultBundle = bundle
	})
	return defaultBundle, defaultLoadError
}

// ValidateDefaultCatalog returns any parsing error from the embedded bundle.
func ValidateDefaultCatalog() error {
	_, err := DefaultCatalog()
	return err
}
