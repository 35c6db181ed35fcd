package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFilter(t *testing.T) {
	assert.Equal(t, 0, PageFilter{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PageFilter{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 20, PageFilter{}.Limit())
	assert.Equal(t, 100, PageFilter{PageSize: 1000}.Limit())
}

func TestSortFilter_OrderClause(t *testing.T) {
	allowed := map[string]string{"created_at": "created_at", "ticket_number": "ticket_number"}

	assert.Equal(t, "ticket_number DESC", SortFilter{SortBy: "ticket_number", SortOrder: "DESC"}.OrderClause(allowed, "created_at"))
	assert.Equal(t, "created_at ASC", SortFilter{SortBy: "created_at"}.OrderClause(allowed, "id"))
	assert.Equal(t, "created_at DESC", SortFilter{SortBy: "title; DROP TABLE tickets", SortOrder: "desc"}.OrderClause(allowed, "created_at"))
}
