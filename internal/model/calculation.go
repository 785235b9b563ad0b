package model

import "time"

type Calculation struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	A         float64   `json:"a"`
	B         float64   `json:"b"`
	Result    float64   `json:"result"`
	AccountID int64     `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CalculationList struct {
	Calculations []Calculation `json:"calculations"`
}

type CalculationQuery struct {
	AccountID int64
	Page      int
	Limit     int
}
