package models

import (
	"net/url"
	"strings"
)

// DashboardFilter is the (factory, building, date, line) tuple every
// dashboard view is scoped to. Line is optional.
type DashboardFilter struct {
	Factory  string `json:"factory"`
	Building string `json:"building"`
	Date     string `json:"date"`
	Line     string `json:"line,omitempty"`
}

// Key is a stable cache key for the filter.
func (f DashboardFilter) Key() string {
	parts := []string{f.Factory, f.Building, f.Date, f.Line}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

// ToValues builds the /api/floor-dashboard query. The backend reads both
// "building" and "assigned_building" depending on version, so both are sent.
func (f DashboardFilter) ToValues() url.Values {
	q := url.Values{}
	setIf(q, "factory", f.Factory)
	setIf(q, "building", f.Building)
	setIf(q, "assigned_building", f.Building)
	setIf(q, "date", f.Date)
	setIf(q, "line", f.Line)
	return q
}

// HeaderValues builds the /api/target-setter-header query.
func (f DashboardFilter) HeaderValues() url.Values {
	q := url.Values{}
	setIf(q, "factory", f.Factory)
	setIf(q, "assigned_building", f.Building)
	setIf(q, "date", f.Date)
	setIf(q, "line", f.Line)
	return q
}

// StyleMediaValues builds the /api/style-media query.
func (f DashboardFilter) StyleMediaValues() url.Values {
	q := url.Values{}
	setIf(q, "factory", f.Factory)
	setIf(q, "assigned_building", f.Building)
	setIf(q, "date", f.Date)
	return q
}

// VarianceQuery selects hourly production records. HeaderID wins when set.
type VarianceQuery struct {
	HeaderID         string
	AssignedBuilding string
	Line             string
	Date             string
	Factory          string
}

func (v VarianceQuery) ToValues() url.Values {
	q := url.Values{}
	if v.HeaderID != "" {
		q.Set("headerId", v.HeaderID)
		return q
	}
	setIf(q, "assigned_building", v.AssignedBuilding)
	setIf(q, "line", v.Line)
	setIf(q, "date", v.Date)
	setIf(q, "factory", v.Factory)
	return q
}

func (w WipQuery) ToValues() url.Values {
	q := url.Values{}
	setIf(q, "factory", w.Factory)
	setIf(q, "assigned_building", w.AssignedBuilding)
	setIf(q, "line", w.Line)
	setIf(q, "buyer", w.Buyer)
	setIf(q, "style", w.Style)
	setIf(q, "date", w.Date)
	return q
}

func (i InspectionQuery) ToValues() url.Values {
	q := url.Values{}
	setIf(q, "date", i.Date)
	setIf(q, "userId", i.UserID)
	setIf(q, "building", i.Building)
	setIf(q, "factory", i.Factory)
	return q
}

// CompareQuery selects /api/floor-compare data.
type CompareQuery struct {
	Factory  string
	From     string
	To       string
	GroupBy  string // "day" | "week" | "month"
	Line     string
	Building string
}

func (c CompareQuery) ToValues() url.Values {
	q := url.Values{}
	setIf(q, "factory", c.Factory)
	setIf(q, "from", c.From)
	setIf(q, "to", c.To)
	setIf(q, "groupBy", c.GroupBy)
	setIf(q, "line", c.Line)
	setIf(q, "building", c.Building)
	return q
}

// SummaryQuery selects /api/floor-summary data.
type SummaryQuery struct {
	Factory  string
	Date     string
	Building string
}

func (s SummaryQuery) ToValues() url.Values {
	q := url.Values{}
	setIf(q, "factory", s.Factory)
	setIf(q, "date", s.Date)
	setIf(q, "building", s.Building)
	return q
}

func setIf(q url.Values, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		q.Set(key, val)
	}
}

