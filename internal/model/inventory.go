package model

import "time"

// InventoryItem representa um item de despensa com seu saldo de quantidade.
// Invariantes: Quantity nunca fica negativa; Consumed só cresce.
type InventoryItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Consumed    int       `json:"consumed"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ShoppingItem representa um item da lista de compras
type ShoppingItem struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Quantity      int        `json:"quantity"`
	LastPurchased *time.Time `json:"lastPurchased"`
	FrequencyDays int        `json:"frequencyDays"`
	Needed        bool       `json:"needed"`
}
