// internal/workers/reporting/build-estimate-report/report.go
package buildestimatereport

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"estimation-workers/internal/estimation/roi"
	"estimation-workers/internal/models"
)

func (h *Handler) buildReport(kind string, input *Input) *models.EstimateReport {
	report := &models.EstimateReport{
		ReportID:    uuid.NewString(),
		Kind:        kind,
		GeneratedAt: time.Now().UTC(),
		Currency:    h.config.Currency,
		Merchant:    input.Merchant,
	}

	if kind == KindROI || kind == KindCombined {
		report.Sections = append(report.Sections, h.featureSection(input.ROI), h.economicsSection(input.ROI))
		report.Outlook = h.buildOutlook(input)
	}
	if kind == KindROAS || kind == KindCombined {
		report.Sections = append(report.Sections, h.roasSection(input.ROAS))
	}

	report.Headline = h.headline(kind, input)
	return report
}

func (h *Handler) headline(kind string, input *Input) string {
	name := input.Merchant.Name
	switch kind {
	case KindROI:
		return fmt.Sprintf("Upgrading could add %s in annual revenue for %s",
			formatCurrency(h.config.Currency, input.ROI.TotalRevenueImpact), name)
	case KindROAS:
		return fmt.Sprintf("True ROAS for %s is %s, not the reported %s",
			name, formatRatio(input.ROAS.TrueROAS), formatRatio(input.ROAS.ReportedROAS))
	default:
		return fmt.Sprintf("Growth estimate summary for %s", name)
	}
}

func (h *Handler) featureSection(p *ROIPayload) models.ReportSection {
	rows := make([]models.ReportRow, 0, len(p.Features))
	for _, f := range p.Features {
		rows = append(rows, models.ReportRow{
			Label:  f.Name,
			Value:  formatCurrency(h.config.Currency, f.RevenueImpact),
			Detail: formatPercent(f.GMVSharePct) + " of GMV",
		})
	}
	return models.ReportSection{Title: "Projected feature impact", Rows: rows}
}

func (h *Handler) economicsSection(p *ROIPayload) models.ReportSection {
	return models.ReportSection{
		Title: "Upgrade economics",
		Rows: []models.ReportRow{
			{
				Label:  "Total revenue impact",
				Value:  formatCurrency(h.config.Currency, p.TotalRevenueImpact),
				Detail: formatPercent(p.TotalGMVSharePct) + " of GMV",
			},
			{
				Label: "Margin impact",
				Value: formatCurrency(h.config.Currency, p.TotalMarginImpact),
			},
			{
				Label:  "Upgrade cost",
				Value:  formatCurrency(h.config.Currency, p.UpgradeCost),
				Detail: p.Scenario + " scenario",
			},
			{
				Label: "Payback period",
				Value: formatMonths(p.RecoupMonths),
			},
		},
	}
}

func (h *Handler) roasSection(p *ROASPayload) models.ReportSection {
	return models.ReportSection{
		Title: "Advertising efficiency",
		Rows: []models.ReportRow{
			{Label: "Reported ROAS", Value: formatRatio(p.ReportedROAS)},
			{Label: "New buyer revenue", Value: formatCurrency(h.config.Currency, p.NewBuyerRevenue)},
			{Label: "Discount cost", Value: formatCurrency(h.config.Currency, p.DiscountCost)},
			{Label: "Adjusted revenue", Value: formatCurrency(h.config.Currency, p.AdjustedRevenue)},
			{Label: "True ROAS", Value: formatRatio(p.TrueROAS)},
			{Label: "Total acquisition cost", Value: formatCurrency(h.config.Currency, p.TotalAcquisitionCost)},
			{Label: "ROAS overstatement", Value: formatPercent(p.OverstatementPct)},
		},
	}
}

// buildOutlook re-runs the calculator across every scenario with the same
// catalog. Missing or invalid request metrics drop the table rather than
// failing the report.
func (h *Handler) buildOutlook(input *Input) []models.ScenarioOutlook {
	if h.catalog == nil {
		return nil
	}

	metrics := roi.MerchantMetrics{
		AnnualGMV:          input.AnnualGMV,
		AverageOrderValue:  input.AverageOrderValue,
		AnnualTransactions: input.AnnualTransactions,
		ProfitMargin:       input.ProfitMargin,
	}

	outlook := make([]models.ScenarioOutlook, 0, len(roi.Scenarios()))
	for _, scenario := range roi.Scenarios() {
		result, err := roi.ComputeWithCatalog(*h.catalog, metrics, scenario)
		if err != nil {
			h.logger.Warn("skipping scenario outlook, request metrics unavailable", map[string]interface{}{
				"error": err.Error(),
			})
			return nil
		}
		outlook = append(outlook, models.ScenarioOutlook{
			Scenario:      string(scenario),
			RevenueImpact: formatCurrency(h.config.Currency, result.TotalRevenueImpact),
			MarginImpact:  formatCurrency(h.config.Currency, result.TotalMarginImpact),
			UpgradeCost:   formatCurrency(h.config.Currency, result.UpgradeCost),
			RecoupMonths:  formatMonths(result.RecoupMonths),
		})
	}
	return outlook
}

// renderText flattens the report into the plain block emails and webhooks carry.
func renderText(report *models.EstimateReport) string {
	var b strings.Builder
	b.WriteString(report.Headline)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Prepared for %s on %s\n", report.Merchant.Name, report.GeneratedAt.Format("2 January 2006"))

	for _, section := range report.Sections {
		fmt.Fprintf(&b, "\n%s\n", section.Title)
		for _, row := range section.Rows {
			if row.Detail != "" {
				fmt.Fprintf(&b, "  %-24s %s (%s)\n", row.Label, row.Value, row.Detail)
			} else {
				fmt.Fprintf(&b, "  %-24s %s\n", row.Label, row.Value)
			}
		}
	}

	if len(report.Outlook) > 0 {
		b.WriteString("\nScenario outlook\n")
		for _, o := range report.Outlook {
			fmt.Fprintf(&b, "  %-8s revenue %s, margin %s, cost %s, payback %s\n",
				o.Scenario, o.RevenueImpact, o.MarginImpact, o.UpgradeCost, o.RecoupMonths)
		}
	}

	return b.String()
}
