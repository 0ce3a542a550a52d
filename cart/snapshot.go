package cart

import (
	"encoding/json"

	"github.com/juju/errors"
)

func decodeSnapshot(raw string) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, errors.NewNotValid(err, "cart snapshot")
	}

	seen := make(map[string]struct{}, len(items))
	for _, li := range items {
		if li.ProductID == "" {
			return nil, errors.NotValidf("line item without product id")
		}
		if _, dup := seen[li.ProductID]; dup {
			return nil, errors.NotValidf("duplicate line item %q", li.ProductID)
		}
		seen[li.ProductID] = struct{}{}

		if li.Quantity < 1 || li.Quantity > li.StockLimit {
			return nil, errors.NotValidf("line item %q quantity %d (stock %d)", li.ProductID, li.Quantity, li.StockLimit)
		}
		if li.UnitPrice.IsNegative() {
			return nil, errors.NotValidf("line item %q price", li.ProductID)
		}
	}
	return items, nil
}
