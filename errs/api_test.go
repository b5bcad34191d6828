package errs

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConstructorsMatchSentinels(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("task")))
	assert.True(t, IsConflict(NewConflict("task already has a contract")))
	assert.True(t, IsForbidden(NewForbidden("not your milestone")))
	assert.True(t, IsValidation(NewValidation("rating", "must be between 1 and 5")))
	assert.True(t, IsUnauthorized(NewUnauthorized("no session")))

	assert.False(t, IsConflict(NewNotFound("task")))
	assert.False(t, IsNotFound(NewForbidden("nope")))
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewNotFound("contract").StatusCode)
	assert.Equal(t, http.StatusConflict, NewConflict("dup").StatusCode)
	assert.Equal(t, http.StatusForbidden, NewForbidden("no").StatusCode)
	assert.Equal(t, http.StatusBadRequest, NewValidation("weight", "out of range").StatusCode)
	assert.Equal(t, http.StatusBadRequest, NewMissingField("title").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorized("no session").StatusCode)
}

func TestDatabaseErrorMapping(t *testing.T) {
	notFound := NewDatabaseError("find", "contract", gorm.ErrRecordNotFound)
	require.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.True(t, IsNotFound(notFound))

	dup := NewDatabaseError("create", "contract", fmt.Errorf("UNIQUE constraint failed: contracts.task_id"))
	require.Equal(t, http.StatusConflict, dup.StatusCode)
	assert.True(t, IsConflict(dup))

	generic := NewDatabaseError("update", "task", fmt.Errorf("disk I/O error"))
	assert.Equal(t, http.StatusInternalServerError, generic.StatusCode)
}

func TestGetFullErrorChainsCauses(t *testing.T) {
	inner := NewNotFound("application")
	outer := NewInternal("award failed", inner)

	full := outer.GetFullError()
	assert.Contains(t, full, "award failed")
	assert.Contains(t, full, "application not found")
}
