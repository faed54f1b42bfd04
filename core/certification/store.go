package certification

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ErrCatalogUnavailable is the cause of any catalog load failure; callers
// must treat it as a server-side failure, never a caller error.
var ErrCatalogUnavailable = errors.New("certification catalog unavailable")

// LoadCatalog reads and parses the JSON catalog at path.
// It is meant to be called once at process start; the returned Catalog is an
// immutable snapshot shared by all requests.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrCatalogUnavailable, "reading %s: %v", path, err)
	}
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, errors.Wrapf(ErrCatalogUnavailable, "parsing %s: %v", path, err)
	}
	return catalog, nil
}
