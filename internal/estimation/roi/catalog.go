// internal/estimation/roi/catalog.go
package roi

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ImpactKind tells which lever a feature pulls: more completed orders or a
// larger basket per order. Both run through the same revenue formula.
type ImpactKind string

const (
	ImpactConversion ImpactKind = "conversion"
	ImpactOrderValue ImpactKind = "ordervalue"
)

// ScenarioValues holds one constant per growth scenario. Values must be
// non-decreasing low through high so scenario monotonicity holds.
type ScenarioValues struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// For selects the constant for a scenario. Callers validate the scenario
// before computing, so the zero fallback is never reached on a live path.
func (v ScenarioValues) For(s GrowthScenario) float64 {
	switch s {
	case ScenarioLow:
		return v.Low
	case ScenarioMedium:
		return v.Medium
	case ScenarioHigh:
		return v.High
	}
	return 0
}

// Feature is one plan capability with its uplift rate and one-time enablement
// cost per scenario. Rate is a fraction of transactions (conversion kind) or
// of order value (ordervalue kind).
type Feature struct {
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	Kind        ImpactKind     `json:"kind"`
	Rate        ScenarioValues `json:"rate"`
	UpgradeCost ScenarioValues `json:"upgradeCost"`
}

// Catalog is the fixed feature set the ROI engine evaluates. It is loaded
// once at startup and read-only afterwards; scenario selection changes which
// constants are read, never the catalog itself.
type Catalog struct {
	Version  string    `json:"version"`
	Features []Feature `json:"features"`
}

// Feature keys of the builtin catalog.
const (
	FeatureCheckoutCustomization = "checkout_customization"
	FeatureCheckoutUpsells       = "checkout_upsells"
	FeaturePrioritySupport       = "priority_support"
	FeatureCustomAudiences       = "custom_audiences"
	FeatureExpressPayConversion  = "express_pay_conversion"
	FeatureExpressPayOrderValue  = "express_pay_order_value"
	FeatureStreamlinedCheckout   = "streamlined_checkout"
)

// DefaultCatalog returns the builtin rate table. Features with zero upgrade
// cost are included in the plan price and carry no standalone enablement fee.
func DefaultCatalog() Catalog {
	features := []Feature{
		{
			Key:         FeatureCheckoutCustomization,
			Name:        "Checkout Customization API",
			Kind:        ImpactConversion,
			Rate:        ScenarioValues{Low: 0.01, Medium: 0.03, High: 0.05},
			UpgradeCost: ScenarioValues{Low: 125.00, Medium: 378.75, High: 650.19},
		},
		{
			Key:         FeatureCheckoutUpsells,
			Name:        "Post-Purchase Upsells",
			Kind:        ImpactOrderValue,
			Rate:        ScenarioValues{Low: 0.05, Medium: 0.10, High: 0.20},
			UpgradeCost: ScenarioValues{Low: 1531.25, Medium: 3062.50, High: 6125.00},
		},
		{
			Key:         FeaturePrioritySupport,
			Name:        "Priority Support",
			Kind:        ImpactConversion,
			Rate:        ScenarioValues{Low: 0.005, Medium: 0.01, High: 0.015},
			UpgradeCost: ScenarioValues{Low: 16.13, Medium: 70.95, High: 408.50},
		},
		{
			Key:         FeatureCustomAudiences,
			Name:        "Ad Retargeting Audiences",
			Kind:        ImpactConversion,
			Rate:        ScenarioValues{Low: 0.02, Medium: 0.04, High: 0.06},
			UpgradeCost: ScenarioValues{Low: 68.00, Medium: 898.00, High: 2746.00},
		},
		{
			Key:  FeatureExpressPayConversion,
			Name: "Express Pay Conversion",
			Kind: ImpactConversion,
			Rate: ScenarioValues{Low: 0.03, Medium: 0.05, High: 0.07},
		},
		{
			Key:  FeatureExpressPayOrderValue,
			Name: "Express Pay Order Value",
			Kind: ImpactOrderValue,
			Rate: ScenarioValues{Low: 0.05, Medium: 0.10, High: 0.20},
		},
		{
			Key:  FeatureStreamlinedCheckout,
			Name: "Streamlined Standard Checkout",
			Kind: ImpactConversion,
			Rate: ScenarioValues{Low: 0.01, Medium: 0.02, High: 0.03},
		},
	}

	return Catalog{
		Version:  "builtin-" + RateTableHash(features),
		Features: features,
	}
}

// RateTableHash fingerprints a feature set. Catalog versions embed it so
// results cached under one version can never survive a constant change.
func RateTableHash(features []Feature) string {
	var b strings.Builder
	for _, f := range features {
		b.WriteString(f.Key)
		b.WriteByte('|')
		b.WriteString(string(f.Kind))
		for _, v := range []float64{
			f.Rate.Low, f.Rate.Medium, f.Rate.High,
			f.UpgradeCost.Low, f.UpgradeCost.Medium, f.UpgradeCost.High,
		} {
			b.WriteByte('|')
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:12]
}
