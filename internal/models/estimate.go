// internal/models/estimate.go
package models

import "time"

// MerchantRef identifies the merchant an estimate was prepared for.
type MerchantRef struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Vertical string `json:"vertical,omitempty"`
}

// EstimateReport is the rendered presentation of one or both estimates.
// Every value is pre-formatted text; the raw numbers stay in the
// calculator outputs carried alongside it in the process variables.
type EstimateReport struct {
	ReportID    string            `json:"reportId"`
	Kind        string            `json:"kind"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Currency    string            `json:"currency"`
	Merchant    MerchantRef       `json:"merchant"`
	Headline    string            `json:"headline"`
	Sections    []ReportSection   `json:"sections"`
	Outlook     []ScenarioOutlook `json:"outlook,omitempty"`
}

type ReportSection struct {
	Title string      `json:"title"`
	Rows  []ReportRow `json:"rows"`
}

type ReportRow struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// ScenarioOutlook is one line of the low/medium/high comparison table.
// RecoupMonths is "n/a" when the payback horizon is undefined.
type ScenarioOutlook struct {
	Scenario      string `json:"scenario"`
	RevenueImpact string `json:"revenueImpact"`
	MarginImpact  string `json:"marginImpact"`
	UpgradeCost   string `json:"upgradeCost"`
	RecoupMonths  string `json:"recoupMonths"`
}
