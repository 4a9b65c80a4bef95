package assignment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/types"
)

func area(pharmacyID uuid.UUID, fee string, hours int) models.PharmacyServiceArea {
	return models.PharmacyServiceArea{
		ID:                   uuid.New(),
		PharmacyID:           pharmacyID,
		AreaName:             "Osu",
		DeliveryFee:          decimal.RequireFromString(fee),
		MaxDeliveryTimeHours: hours,
		IsActive:             true,
	}
}

func stockRow(pharmacyID, productID uuid.UUID, level int) models.PharmacyProduct {
	return models.PharmacyProduct{
		ID:          uuid.New(),
		PharmacyID:  pharmacyID,
		ProductID:   productID,
		StockLevel:  level,
		IsAvailable: true,
	}
}

func singleItem(productID uuid.UUID, quantity int) types.OrderItems {
	return types.OrderItems{{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: decimal.RequireFromString("45.00"),
	}}
}

func TestSelectPicksCheapestCoveringPharmacy(t *testing.T) {
	productID := uuid.New()
	cheap, pricey := uuid.New(), uuid.New()

	decision := Select(
		singleItem(productID, 2),
		[]models.PharmacyServiceArea{
			area(pricey, "25.00", 12),
			area(cheap, "10.00", 24),
		},
		[]models.PharmacyProduct{
			stockRow(cheap, productID, 5),
			stockRow(pricey, productID, 5),
		},
	)

	if decision.PharmacyID == nil || *decision.PharmacyID != cheap {
		t.Fatalf("selected %v, want cheapest pharmacy %s", decision.PharmacyID, cheap)
	}
	if !decision.Offer.DeliveryFee.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("offer fee = %s, want 10.00", decision.Offer.DeliveryFee)
	}
}

func TestSelectSkipsCheaperPharmacyWithoutStock(t *testing.T) {
	productID := uuid.New()
	cheap, stocked := uuid.New(), uuid.New()

	decision := Select(
		singleItem(productID, 3),
		[]models.PharmacyServiceArea{
			area(cheap, "5.00", 24),
			area(stocked, "20.00", 24),
		},
		[]models.PharmacyProduct{
			stockRow(cheap, productID, 2),
			stockRow(stocked, productID, 3),
		},
	)

	if decision.PharmacyID == nil || *decision.PharmacyID != stocked {
		t.Fatalf("selected %v, want stocked pharmacy %s", decision.PharmacyID, stocked)
	}
}

func TestSelectNoCoverage(t *testing.T) {
	decision := Select(singleItem(uuid.New(), 1), nil, nil)
	if decision.PharmacyID != nil {
		t.Fatalf("selected %v, want none", decision.PharmacyID)
	}
	if decision.Reason != ReasonNoCoverage {
		t.Errorf("reason = %q, want %q", decision.Reason, ReasonNoCoverage)
	}
}

func TestSelectCoverageWithoutStock(t *testing.T) {
	productID := uuid.New()
	pharmacyID := uuid.New()

	decision := Select(
		singleItem(productID, 4),
		[]models.PharmacyServiceArea{area(pharmacyID, "10.00", 24)},
		[]models.PharmacyProduct{stockRow(pharmacyID, productID, 1)},
	)

	if decision.PharmacyID != nil {
		t.Fatalf("selected %v, want none", decision.PharmacyID)
	}
	if decision.Reason != ReasonNoStock {
		t.Errorf("reason = %q, want %q", decision.Reason, ReasonNoStock)
	}
}

func TestSelectRequiresEveryItemInStock(t *testing.T) {
	productA, productB := uuid.New(), uuid.New()
	partial, full := uuid.New(), uuid.New()
	items := types.OrderItems{
		{ProductID: productA, Quantity: 1, UnitPrice: decimal.RequireFromString("45.00")},
		{ProductID: productB, Quantity: 2, UnitPrice: decimal.RequireFromString("30.00")},
	}

	decision := Select(
		items,
		[]models.PharmacyServiceArea{
			area(partial, "5.00", 12),
			area(full, "15.00", 12),
		},
		[]models.PharmacyProduct{
			stockRow(partial, productA, 10),
			stockRow(full, productA, 10),
			stockRow(full, productB, 10),
		},
	)

	if decision.PharmacyID == nil || *decision.PharmacyID != full {
		t.Fatalf("selected %v, want fully stocked pharmacy %s", decision.PharmacyID, full)
	}
}

func TestSelectIgnoresUnavailableStock(t *testing.T) {
	productID := uuid.New()
	pharmacyID := uuid.New()
	row := stockRow(pharmacyID, productID, 50)
	row.IsAvailable = false

	decision := Select(
		singleItem(productID, 1),
		[]models.PharmacyServiceArea{area(pharmacyID, "10.00", 24)},
		[]models.PharmacyProduct{row},
	)

	if decision.Reason != ReasonNoStock {
		t.Fatalf("reason = %q, want %q", decision.Reason, ReasonNoStock)
	}
}

func TestSelectFeeTieBreaksOnDeliveryTime(t *testing.T) {
	productID := uuid.New()
	slow, fast := uuid.New(), uuid.New()

	decision := Select(
		singleItem(productID, 1),
		[]models.PharmacyServiceArea{
			area(slow, "10.00", 48),
			area(fast, "10.00", 6),
		},
		[]models.PharmacyProduct{
			stockRow(slow, productID, 5),
			stockRow(fast, productID, 5),
		},
	)

	if decision.PharmacyID == nil || *decision.PharmacyID != fast {
		t.Fatalf("selected %v, want faster pharmacy %s", decision.PharmacyID, fast)
	}
}

func TestSelectFullTieIsDeterministic(t *testing.T) {
	productID := uuid.New()
	first, second := uuid.New(), uuid.New()
	if first.String() > second.String() {
		first, second = second, first
	}

	areas := []models.PharmacyServiceArea{
		area(second, "10.00", 24),
		area(first, "10.00", 24),
	}
	stock := []models.PharmacyProduct{
		stockRow(first, productID, 5),
		stockRow(second, productID, 5),
	}

	for run := 0; run < 20; run++ {
		decision := Select(singleItem(productID, 1), areas, stock)
		if decision.PharmacyID == nil || *decision.PharmacyID != first {
			t.Fatalf("run %d selected %v, want lowest id %s", run, decision.PharmacyID, first)
		}
	}
}

func TestSelectUsesCheapestOverlappingAreaPerPharmacy(t *testing.T) {
	productID := uuid.New()
	overlapping, rival := uuid.New(), uuid.New()

	decision := Select(
		singleItem(productID, 1),
		[]models.PharmacyServiceArea{
			area(overlapping, "30.00", 24),
			area(overlapping, "8.00", 24),
			area(rival, "12.00", 24),
		},
		[]models.PharmacyProduct{
			stockRow(overlapping, productID, 5),
			stockRow(rival, productID, 5),
		},
	)

	if decision.PharmacyID == nil || *decision.PharmacyID != overlapping {
		t.Fatalf("selected %v, want %s via its cheapest area", decision.PharmacyID, overlapping)
	}
	if !decision.Offer.DeliveryFee.Equal(decimal.RequireFromString("8.00")) {
		t.Errorf("offer fee = %s, want 8.00", decision.Offer.DeliveryFee)
	}
}
