package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
	"is_active":  true,
	"base_rent":  true,
}

// AccountSortFields contains allowed sort fields for accounts
var AccountSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"code":            true,
	"name":            true,
	"account_type":    true,
	"is_active":       true,
	"current_balance": true,
}

// applyConditions adds search and equality filters. Only whitelisted
// columns reach the SQL text; values are always bound.
func applyConditions(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", like, like)
	}
	fields := make([]string, 0, len(filter.Equals))
	for field := range filter.Equals {
		if allowed[field] {
			fields = append(fields, field)
		}
	}
	// map order would otherwise leak into the generated SQL
	sort.Strings(fields)
	for _, field := range fields {
		query = query.Where(fmt.Sprintf("%s = ?", field), filter.Equals[field])
	}
	return query
}

// applyPaging adds ordering, offset and limit for a normalized filter
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, allowed, "created_at")
	return query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// listPage counts the rows of M matching the filter, then loads one page
func listPage[M any, D any](ctx context.Context, db *gorm.DB, filter shared.Filter, allowed map[string]bool, toDomain func([]M) []D) (shared.Page[D], error) {
	f := filter.Normalized()

	var total int64
	if err := applyConditions(conn(ctx, db).Model(new(M)), f, allowed).Count(&total).Error; err != nil {
		return shared.Page[D]{}, err
	}

	var rows []M
	query := applyPaging(applyConditions(conn(ctx, db).Model(new(M)), f, allowed), f, allowed)
	if err := query.Find(&rows).Error; err != nil {
		return shared.Page[D]{}, err
	}
	return shared.NewPage(toDomain(rows), total, f), nil
}
