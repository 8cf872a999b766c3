package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 12, Total: 25, Pages: 3}, NewPagination(1, 12, 25))
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 0, Pages: 0}, NewPagination(2, 10, 0))
	assert.Equal(t, 0, NewPagination(1, 0, 5).Pages)
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, MessageNotFound, DefaultMessage(404))
	assert.Equal(t, MessageInternalServerError, DefaultMessage(503))
	assert.Equal(t, MessageError, DefaultMessage(418))
}
