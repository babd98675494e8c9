package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-user-api/internal/model"
)

func TestFilterClauseEmpty(t *testing.T) {
	where, args := filterClause(model.UserFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestFilterClauseCastsIDThroughText(t *testing.T) {
	// The id column is uuid; comparing it as text keeps a non-uuid client
	// value from aborting the whole query at parse time.
	where, args := filterClause(model.UserFilter{ID: "not-a-uuid"})
	assert.Equal(t, " WHERE id::text = $1", where)
	assert.Equal(t, []any{"not-a-uuid"}, args)
}

func TestFilterClauseNumbersParamsInOrder(t *testing.T) {
	where, args := filterClause(model.UserFilter{
		Username: "alice",
		Lastname: "Liddell",
		Role:     model.RoleUser,
	})

	assert.Equal(t, " WHERE username = $1 AND lastname = $2 AND role = $3", where)
	require.Len(t, args, 3)
	assert.Equal(t, []any{"alice", "Liddell", "USER"}, args)
}

func TestFilterClauseAllFields(t *testing.T) {
	where, args := filterClause(model.UserFilter{
		ID:        "11111111-1111-1111-1111-111111111111",
		Username:  "u",
		Email:     "e@example.com",
		Firstname: "f",
		Lastname:  "l",
		Role:      model.RoleAdmin,
	})

	assert.Equal(t,
		" WHERE id::text = $1 AND username = $2 AND email = $3 AND firstname = $4 AND lastname = $5 AND role = $6",
		where)
	assert.Len(t, args, 6)
}
