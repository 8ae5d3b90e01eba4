// Package pricing computes the aggregate price, value and resolved type of
// a filing's transaction legs.
package pricing

import (
	"math"

	"github.com/sahamlabs/emiten/internal/common"
	"github.com/sahamlabs/emiten/internal/models"
)

// AggregateSingle computes the weighted-average price and total value of
// same-typed legs.
//
//	value = Σ(price_i × quantity_i)
//	price = value / Σ(quantity_i), 0 when the total quantity is 0
//
// The price is rounded to common.PricePrecision decimal places. Ragged
// input (mismatched array lengths) is a data error.
func AggregateSingle(quantities, prices []float64) (price, value float64, err error) {
	if len(quantities) != len(prices) {
		return 0, 0, models.NewValidationError("price_transaction",
			"prices and amount_transacted must have the same length")
	}

	var totalQty float64
	for i := range prices {
		value += prices[i] * quantities[i]
		totalQty += quantities[i]
	}

	if totalQty != 0 {
		price = common.Round4(value / totalQty)
	}
	return price, value, nil
}

// AggregateMixed resolves legs of mixed types into one net transaction.
// A single legal filing can bundle a disposal and an inheritance transfer
// in one document; the disclosed net change in holdings must reconcile
// against the net of signed leg values, not their sum. Hence weighted
// netting rather than a simple average:
//
//   - buy and sell groups are netted: net_value = buy_value - sell_value,
//     net_qty = buy_qty - sell_qty
//   - resolved type is "buy" when net_value > 0, "sell" when < 0 and
//     "other" when the net is exactly 0
//   - price = |net_value / net_qty| (0 when net_qty is 0); the monetary
//     value |net_value| is truncated to an integer
//   - when only "other" legs exist the group is averaged directly
func AggregateMixed(quantities, prices []float64, types []models.TransactionType) (price, value float64, txType models.TransactionType, err error) {
	if len(quantities) != len(prices) || len(quantities) != len(types) {
		return 0, 0, "", models.NewValidationError("price_transaction",
			"prices, amount_transacted and types must have the same length")
	}

	var buyValue, buyQty, sellValue, sellQty, otherValue, otherQty float64
	for i := range types {
		legValue := prices[i] * quantities[i]
		switch types[i] {
		case models.TransactionBuy:
			buyValue += legValue
			buyQty += quantities[i]
		case models.TransactionSell:
			sellValue += legValue
			sellQty += quantities[i]
		default:
			otherValue += legValue
			otherQty += quantities[i]
		}
	}

	if buyQty > 0 || sellQty > 0 {
		netValue := buyValue - sellValue
		netQty := buyQty - sellQty

		switch {
		case netValue > 0:
			txType = models.TransactionBuy
		case netValue < 0:
			txType = models.TransactionSell
		default:
			txType = models.TransactionOther
		}

		if netQty != 0 {
			price = common.Round4(math.Abs(netValue / netQty))
		}
		value = math.Trunc(math.Abs(netValue))
		return price, value, txType, nil
	}

	// Only "other" legs exist.
	if otherQty != 0 {
		price = common.Round4(otherValue / otherQty)
	}
	return price, math.Abs(otherValue), models.TransactionOther, nil
}

// Aggregate dispatches on the leg-type mix. fallback resolves the overall
// type for single-typed legs (the caller derives it from the holdings
// delta when available, otherwise from the legs themselves).
func Aggregate(legs []models.TransactionLeg, fallback models.TransactionType) (models.PricedTransaction, error) {
	quantities := make([]float64, len(legs))
	prices := make([]float64, len(legs))
	types := make([]models.TransactionType, len(legs))
	distinct := make(map[models.TransactionType]struct{}, 3)
	for i, leg := range legs {
		quantities[i] = leg.Quantity
		prices[i] = leg.Price
		types[i] = leg.Type
		distinct[leg.Type] = struct{}{}
	}

	if len(distinct) > 1 {
		price, value, txType, err := AggregateMixed(quantities, prices, types)
		if err != nil {
			return models.PricedTransaction{}, err
		}
		return models.PricedTransaction{Price: price, TransactionValue: value, TransactionType: txType}, nil
	}

	price, value, err := AggregateSingle(quantities, prices)
	if err != nil {
		return models.PricedTransaction{}, err
	}
	return models.PricedTransaction{Price: price, TransactionValue: value, TransactionType: fallback}, nil
}
