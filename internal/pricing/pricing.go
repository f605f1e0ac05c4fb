// Package pricing holds the service price table and the derivations
// computed from an order's item list: the order-level service type and
// the order total. All money values use exact decimal arithmetic.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"laundry-pos/internal/model"
)

var (
	priceWashDry  = decimal.NewFromInt(100)
	priceWashOnly = decimal.NewFromInt(60)
	priceDryOnly  = decimal.NewFromInt(50)
)

// Price returns the unit price for a service type. Unknown, blank or
// malformed values resolve to the wash_dry price. Callers relying on
// strict input checking must validate before pricing; the fallback
// here is deliberate and must not be tightened.
func Price(serviceType model.ServiceType) decimal.Decimal {
	switch serviceType {
	case model.ServiceTypeWashOnly:
		return priceWashOnly
	case model.ServiceTypeDryOnly:
		return priceDryOnly
	default:
		return priceWashDry
	}
}

// ResolveServiceType derives the order-level service type from the
// item list: the single distinct item type when exactly one exists,
// mixed when more than one, and wash_dry when none. Blank item types
// are ignored. The result depends only on the distinct-value set, not
// on item order.
func ResolveServiceType(items []model.OrderItem) model.ServiceType {
	distinct := make(map[model.ServiceType]struct{})
	var first model.ServiceType
	for _, item := range items {
		st := model.ServiceType(strings.TrimSpace(string(item.ServiceType)))
		if st == "" {
			continue
		}
		if len(distinct) == 0 {
			first = st
		}
		distinct[st] = struct{}{}
	}

	switch len(distinct) {
	case 0:
		return model.ServiceTypeWashDry
	case 1:
		return first
	default:
		return model.ServiceTypeMixed
	}
}

// Total computes the exact order total: the sum over all items of
// unit price times quantity. A missing service type prices as
// wash_dry; a missing quantity counts as 1; negative quantities
// contribute nothing.
func Total(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			continue
		}
		price := Price(item.ServiceType)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	return total
}
