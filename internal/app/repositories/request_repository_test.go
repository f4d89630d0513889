package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduassist/backend/internal/app/models"
)

func testRequestRepo() *RequestRepository {
	return NewRequestRepository(nil, []models.Status{"pending", "approved", "cancelled"})
}

func buildFilteredSQL(t *testing.T, repo *RequestRepository, filter RequestFilter) (string, []interface{}) {
	t.Helper()
	sql, args, err := repo.applyFilter(repo.sb.Select(requestColumns...).From("requests r"), filter).ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestListSearchMatchesTitleStatusAndDescription(t *testing.T) {
	repo := testRequestRepo()

	sql, args := buildFilteredSQL(t, repo, RequestFilter{Search: "approv"})

	assert.Contains(t, sql, "r.title ILIKE")
	assert.Contains(t, sql, "r.status ILIKE")
	assert.Contains(t, sql, "r.description ILIKE")
	assert.Equal(t, []interface{}{"%approv%", "%approv%", "%approv%"}, args)
}

func TestListOwnerScopeParameterized(t *testing.T) {
	repo := testRequestRepo()
	ownerID := int64(42)

	sql, args := buildFilteredSQL(t, repo, RequestFilter{OwnerID: &ownerID, Status: "pending"})

	assert.Contains(t, sql, "r.user_id =")
	assert.Contains(t, sql, "r.status =")
	assert.Equal(t, []interface{}{ownerID, "pending"}, args)
}

func TestStatusOrderClauseBindsStatusNames(t *testing.T) {
	repo := testRequestRepo()

	expr, args := repo.statusOrderClause()

	assert.Equal(t, "CASE r.status WHEN ? THEN 0 WHEN ? THEN 1 WHEN ? THEN 2 ELSE 3 END", expr)
	assert.Equal(t, []interface{}{"pending", "approved", "cancelled"}, args)
}

func TestStatusOrderClauseSQLCarriesNoLiterals(t *testing.T) {
	repo := testRequestRepo()

	expr, exprArgs := repo.statusOrderClause()
	builder := repo.applyFilter(repo.sb.Select(requestColumns...).From("requests r"), RequestFilter{Search: "wifi"}).
		OrderByClause(expr, exprArgs...).
		OrderBy("r.created_at DESC")

	sql, args, err := builder.ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "'pending'")
	assert.NotContains(t, sql, "'approved'")
	assert.Contains(t, sql, "ORDER BY CASE r.status")
	assert.Contains(t, sql, "r.created_at DESC")
	// Search placeholders first, then the three ranked statuses.
	assert.Equal(t, []interface{}{"%wifi%", "%wifi%", "%wifi%", "pending", "approved", "cancelled"}, args)
}
