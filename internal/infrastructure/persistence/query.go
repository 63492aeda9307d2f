package persistence

import (
	"fmt"
	"strings"

	"github.com/evcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// listQuery describes how one table answers a shared.Filter
type listQuery struct {
	// equality maps filter keys onto columns compared with =
	equality map[string]string
	// search lists the columns matched case-insensitively by Filter.Search
	search      []string
	sortFields  map[string]bool
	defaultSort string
	// extra handles filter keys that need more than equality
	extra func(query *gorm.DB, key string, value interface{}) (*gorm.DB, bool)
}

// where applies the filter conditions without ordering or paging
func (q listQuery) where(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if term := strings.TrimSpace(filter.Search); term != "" && len(q.search) > 0 {
		like := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(q.search))
		args := make([]interface{}, len(q.search))
		for i, col := range q.search {
			conds[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
			args[i] = like
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	for key, value := range filter.Filters {
		if col, ok := q.equality[key]; ok {
			query = query.Where(col+" = ?", value)
			continue
		}
		if q.extra != nil {
			if next, ok := q.extra(query, key, value); ok {
				query = next
			}
		}
	}
	return query
}

// page applies conditions, ordering and paging
func (q listQuery) page(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = q.where(query, filter)

	sortField := ValidateSortField(filter.OrderBy, q.sortFields, q.defaultSort)
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder).Order("id " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
