package dto

import "time"

type ItemRequest struct {
	Category        string `json:"category"`
	Flavor          string `json:"flavor"`
	InitialQuantity int    `json:"initial_quantity"`
}

type CreateShipmentRequest struct {
	Date  string        `json:"date"`
	Note  string        `json:"note"`
	Items []ItemRequest `json:"items"`
}

type UpdateShipmentRequest struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

type ItemResponse struct {
	ItemID          int64  `json:"item_id"`
	ShipmentID      int64  `json:"shipment_id"`
	Category        string `json:"category"`
	Flavor          string `json:"flavor"`
	InitialQuantity int    `json:"initial_quantity"`
	SoldQuantity    int    `json:"sold_quantity"`
	Remaining       int    `json:"remaining"`
	UnitCost        string `json:"unit_cost"`
}

type ShipmentResponse struct {
	ShipmentID int64          `json:"shipment_id"`
	Date       string         `json:"date"`
	Note       string         `json:"note,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Items      []ItemResponse `json:"items,omitempty"`
}

type ListShipmentsResponse struct {
	Shipments []ShipmentResponse `json:"shipments"`
}

type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
}
