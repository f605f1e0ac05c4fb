package model

import "github.com/shopspring/decimal"

// Raw aggregate buckets as returned by the analytics repository. The
// service layer turns these into the labelled report views.

// ServiceTypeBucket is a count of orders per raw order-level service type.
type ServiceTypeBucket struct {
	ServiceType string
	Count       int
}

// WeekdayBucket is a count of orders per weekday name, Sunday first.
type WeekdayBucket struct {
	Day   string
	Count int
}

// MonthRevenueBucket is completed-order revenue for one "2006-01" month.
type MonthRevenueBucket struct {
	Month  string
	Amount decimal.Decimal
}

// CustomerBucket is the order count and lifetime spend of one customer.
type CustomerBucket struct {
	CustomerName string
	OrderCount   int
	TotalSpent   decimal.Decimal
}

// HourBucket is a count of orders per hour of day (0-23).
type HourBucket struct {
	Hour  int
	Count int
}

// StatusBucket is a count of orders per raw status value.
type StatusBucket struct {
	Status string
	Count  int
}

// Labelled report views, matching the dashboard response shape.

type ServiceTypeCount struct {
	ServiceType string `json:"service_type"`
	Count       int    `json:"count"`
}

type DayOfWeekCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type RevenuePoint struct {
	Period string          `json:"period"`
	Amount decimal.Decimal `json:"amount"`
}

type CustomerFrequency struct {
	CustomerName string          `json:"customer_name"`
	OrderCount   int             `json:"order_count"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}

type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// AnalyticsReport bundles the six dashboard views. The views are
// computed independently; there is no cross-view isolation guarantee.
type AnalyticsReport struct {
	ServiceTypes       []ServiceTypeCount  `json:"serviceTypes"`
	DayOfWeek          []DayOfWeekCount    `json:"dayOfWeek"`
	Revenue            []RevenuePoint      `json:"revenue"`
	CustomerFrequency  []CustomerFrequency `json:"customerFrequency"`
	PeakHours          []HourCount         `json:"peakHours"`
	StatusDistribution []StatusCount       `json:"statusDistribution"`
}
