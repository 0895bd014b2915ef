package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/auth"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (updated_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "updatedAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config
// fieldMap maps API field names to database column names
// Returns the default sort if field is not in whitelist
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// ApplyGrowerFilter applies the multi-tenant grower filter to a GORM query
// This should be called on queries that need to be filtered by grower_id
// If no filter is set (user has access to all growers), the query is returned unchanged
func ApplyGrowerFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	growerID := auth.GetEffectiveGrowerFilter(ctx)
	if growerID != nil {
		return query.Where("grower_id = ?", *growerID)
	}
	return query
}

// ApplyGrowerFilterWithColumn applies the grower filter using a specific column name
// Use this when the grower_id column needs table qualification
func ApplyGrowerFilterWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	growerID := auth.GetEffectiveGrowerFilter(ctx)
	if growerID != nil {
		return query.Where(columnName+" = ?", *growerID)
	}
	return query
}

// MustHaveGrowerAccess checks if the user has access to a specific grower's data
// This is useful for single-record operations where you need to verify access
func MustHaveGrowerAccess(ctx context.Context, recordGrowerID string) bool {
	growerID := auth.GetEffectiveGrowerFilter(ctx)
	if growerID == nil {
		return true
	}
	return string(*growerID) == recordGrowerID
}
