package dto

import "github.com/shopspring/decimal"

type TopSellerResponse struct {
	Product string          `json:"product"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ReportResponse struct {
	Start        string              `json:"start"`
	End          string              `json:"end"`
	PaidTotal    decimal.Decimal     `json:"paid_total"`
	PendingTotal decimal.Decimal     `json:"pending_total"`
	Profit       decimal.Decimal     `json:"profit"`
	UnitsSold    int                 `json:"units_sold"`
	TopSellers   []TopSellerResponse `json:"top_sellers"`
}

type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type PutSettingRequest struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

type ListSettingsResponse struct {
	Settings []SettingResponse `json:"settings"`
}
