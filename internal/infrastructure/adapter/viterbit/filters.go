package viterbit

import (
	"strings"

	"viterbit-gateway/internal/domain/port"
)

// currentStageField addresses the candidature's live stage in filter
// expressions.
const currentStageField = "current_stage__name"

// customFieldPrefix namespaces candidate custom-field IDs in filter
// expressions.
const customFieldPrefix = "custom_fields__"

// filterFieldName maps a filter field to the platform's naming. Fields that
// already carry a namespace separator (address__city, current_stage__name)
// pass through; bare IDs are custom fields.
func filterFieldName(field string) string {
	if strings.Contains(field, "__") {
		return field
	}
	return customFieldPrefix + field
}

// filterValue maps Go values to the platform's filter representation.
// Boolean custom fields are stored as localized strings.
func filterValue(value any) any {
	if b, ok := value.(bool); ok {
		if b {
			return "Sí"
		}
		return "No"
	}
	return value
}

// buildSearchPayload assembles the platform's filtered-search body: one
// AND group of equality filters plus pagination.
func buildSearchPayload(filters []port.FieldFilter, page, pageSize int) map[string]any {
	conditions := make([]map[string]any, 0, len(filters))
	for _, filter := range filters {
		conditions = append(conditions, map[string]any{
			"field":    filterFieldName(filter.Field),
			"operator": "equals",
			"value":    filterValue(filter.Value),
		})
	}

	return map[string]any{
		"filters": map[string]any{
			"groups": []map[string]any{
				{
					"operator": "and",
					"filters":  conditions,
				},
			},
		},
		"page":      page,
		"page_size": pageSize,
		"search":    nil,
	}
}
