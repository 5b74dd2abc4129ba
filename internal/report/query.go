package report

import "strings"

// SortColumn is the closed set of columns an admin listing may sort on.
// Anything outside the set parses to SortByCreatedAt, so an unknown column
// name is unrepresentable past the parse boundary.
type SortColumn int

const (
	SortByCreatedAt SortColumn = iota
	SortByID
	SortByGPN
	SortByItem
	SortByAmount
	SortByReportDate
)

// ParseSortColumn maps a client-supplied sort field to a SortColumn,
// silently falling back to created_at on anything unrecognized.
func ParseSortColumn(s string) SortColumn {
	switch s {
	case "id":
		return SortByID
	case "gpn":
		return SortByGPN
	case "item":
		return SortByItem
	case "amount":
		return SortByAmount
	case "report_date":
		return SortByReportDate
	case "created_at":
		return SortByCreatedAt
	default:
		return SortByCreatedAt
	}
}

// Column returns the storage column identifier. The switch is exhaustive
// over the enum; identifiers never come from client input.
func (c SortColumn) Column() string {
	switch c {
	case SortByID:
		return "id"
	case SortByGPN:
		return "gpn"
	case SortByItem:
		return "item"
	case SortByAmount:
		return "amount"
	case SortByReportDate:
		return "report_date"
	default:
		return "created_at"
	}
}

type SortOrder int

const (
	OrderDesc SortOrder = iota
	OrderAsc
)

// ParseSortOrder returns ascending only on an exact case-insensitive "asc";
// every other value, garbage included, normalizes to descending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, "asc") {
		return OrderAsc
	}
	return OrderDesc
}

func (o SortOrder) Desc() bool {
	return o != OrderAsc
}

const DefaultListLimit = 1000

// ListQuery carries the optional, AND-combined admin listing predicates.
// All values are bound as query parameters by the repository; only the
// SortColumn enum ever reaches SQL as an identifier.
type ListQuery struct {
	GPN       string
	Item      string
	StartDate *DateOnly
	EndDate   *DateOnly
	MinAmount *float64
	MaxAmount *float64
	SortBy    SortColumn
	SortOrder SortOrder
	Limit     int
	Offset    int
}

// Normalized applies the pagination defaults.
func (q ListQuery) Normalized() ListQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

type StatsQuery struct {
	StartDate *DateOnly
	EndDate   *DateOnly
}

type ItemStat struct {
	Item    string  `json:"item"`
	Count   int64   `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

type Stats struct {
	TotalCount    int64      `json:"total_count"`
	TotalAmount   float64    `json:"total_amount"`
	AvgAmount     float64    `json:"avg_amount"`
	ItemBreakdown []ItemStat `json:"item_breakdown"`
}
