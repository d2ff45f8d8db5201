package service

import (
	"sort"
	"strings"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
)

// OrdersPerPage is the fixed page size of the manager queue
const OrdersPerPage = 10

// OrderPage is one visible slice of the manager queue
type OrderPage struct {
	Orders     []model.Order `json:"orders"`
	Page       int           `json:"page"`
	PageCount  int           `json:"page_count"`
	TotalCount int           `json:"total_count"` // matches after filtering, before paging
}

// BuildOrderPage derives the visible slice of the manager queue from a
// fetched order set. It is a pure function of its inputs: the same
// (orders, status, keyword, page) always yields the same slice and the
// same page count.
//
// Derivation order: filter by pipeline stage, then case-insensitive
// substring match of the keyword against the customer name only, then a
// stable oldest-first sort, then paging at 10 per page. The page count is
// never below 1, and out-of-range page requests clamp to [1, pageCount].
func BuildOrderPage(orders []model.Order, status model.OrderStatus, keyword string, page int) OrderPage {
	filtered := FilterOrders(orders, status, keyword)

	pageCount := (len(filtered) + OrdersPerPage - 1) / OrdersPerPage
	if pageCount < 1 {
		pageCount = 1
	}

	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * OrdersPerPage
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + OrdersPerPage
	if end > len(filtered) {
		end = len(filtered)
	}

	return OrderPage{
		Orders:     filtered[start:end],
		Page:       page,
		PageCount:  pageCount,
		TotalCount: len(filtered),
	}
}

// FilterOrders applies the status and keyword filters and the oldest-first
// sort, without paging. The xlsx export uses it so the exported sheet
// covers the whole filtered queue, not one page.
func FilterOrders(orders []model.Order, status model.OrderStatus, keyword string) []model.Order {
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	filtered := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(o.CustomerName), keyword) {
			continue
		}
		filtered = append(filtered, o)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})
	return filtered
}
