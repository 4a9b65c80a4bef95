package assignment

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/types"
)

// Selection failure reasons, recorded verbatim on the audit trail.
const (
	ReasonNoCoverage = "no coverage for area"
	ReasonNoStock    = "coverage exists but no pharmacy has sufficient stock"
)

// Offer is the delivery terms of the winning pharmacy for this order's area.
type Offer struct {
	DeliveryFee          decimal.Decimal
	MaxDeliveryTimeHours int
}

// Decision is the outcome of a selection run. PharmacyID and Offer are set
// together or not at all; Reason is set only when no pharmacy qualifies.
type Decision struct {
	PharmacyID *uuid.UUID
	Offer      *Offer
	Reason     string
}

type candidate struct {
	pharmacyID uuid.UUID
	offer      Offer
}

// Select picks the pharmacy to fulfill an order. It is pure: callers fetch the
// matching service areas and the stock rows, Select only ranks them.
//
// A pharmacy qualifies when it covers the area and stocks every ordered
// product at the required quantity. Qualifying pharmacies are ranked by
// delivery fee, then promised delivery time, then pharmacy id so that equal
// offers resolve the same way on every run.
func Select(items types.OrderItems, areas []models.PharmacyServiceArea, stock []models.PharmacyProduct) Decision {
	if len(areas) == 0 {
		return Decision{Reason: ReasonNoCoverage}
	}

	// Cheapest offer per pharmacy; a pharmacy may match through several
	// overlapping areas.
	offers := make(map[uuid.UUID]Offer)
	for _, area := range areas {
		offer := Offer{
			DeliveryFee:          area.DeliveryFee,
			MaxDeliveryTimeHours: area.MaxDeliveryTimeHours,
		}
		best, seen := offers[area.PharmacyID]
		if !seen || lessOffer(offer, best) {
			offers[area.PharmacyID] = offer
		}
	}

	required := make(map[uuid.UUID]int)
	for _, item := range items {
		required[item.ProductID] += item.Quantity
	}

	available := make(map[uuid.UUID]map[uuid.UUID]int)
	for _, row := range stock {
		if !row.IsAvailable {
			continue
		}
		byProduct, ok := available[row.PharmacyID]
		if !ok {
			byProduct = make(map[uuid.UUID]int)
			available[row.PharmacyID] = byProduct
		}
		byProduct[row.ProductID] += row.StockLevel
	}

	var candidates []candidate
	for pharmacyID, offer := range offers {
		if covers(available[pharmacyID], required) {
			candidates = append(candidates, candidate{pharmacyID: pharmacyID, offer: offer})
		}
	}
	if len(candidates) == 0 {
		return Decision{Reason: ReasonNoStock}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if lessOffer(candidates[i].offer, candidates[j].offer) {
			return true
		}
		if lessOffer(candidates[j].offer, candidates[i].offer) {
			return false
		}
		return candidates[i].pharmacyID.String() < candidates[j].pharmacyID.String()
	})

	winner := candidates[0]
	return Decision{
		PharmacyID: &winner.pharmacyID,
		Offer:      &winner.offer,
	}
}

func lessOffer(a, b Offer) bool {
	switch a.DeliveryFee.Cmp(b.DeliveryFee) {
	case -1:
		return true
	case 1:
		return false
	}
	return a.MaxDeliveryTimeHours < b.MaxDeliveryTimeHours
}

func covers(byProduct map[uuid.UUID]int, required map[uuid.UUID]int) bool {
	if len(required) == 0 {
		return false
	}
	for productID, quantity := range required {
		if byProduct[productID] < quantity {
			return false
		}
	}
	return true
}
