package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	custom := NewDomainError(CodeInsufficientStock, "only 2 left")

	assert.True(t, errors.Is(custom, ErrInsufficientStock))
	assert.True(t, errors.Is(fmt.Errorf("approve: %w", custom), ErrInsufficientStock))
	assert.False(t, errors.Is(custom, ErrConcurrencyConflict))
	assert.False(t, errors.Is(errors.New("only 2 left"), ErrInsufficientStock))
}

func TestErrorCode(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, CodeNotFound, ErrorCode(NewNotFound("part", id)))
	assert.Equal(t, CodeInvalidStateTransition, ErrorCode(fmt.Errorf("wrap: %w", NewInvalidStateTransition("RECEIVED", "COMPLETED"))))
	assert.Empty(t, ErrorCode(errors.New("boom")))
	assert.Contains(t, NewNotFound("part", id).Error(), id.String())
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500, OrderDir: "sideways"}.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.NotNil(t, f.Filters)
	assert.Equal(t, 0, f.Offset())

	p := NewPaginated([]int{1, 2}, 41, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
}
