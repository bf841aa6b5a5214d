package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := &recordingHandler{}
	b := &recordingHandler{}
	w := &recordingHandler{}

	r.Register(a, "CategoryMoved", "CategoryCreated")
	r.Register(b, "CategoryMoved")
	r.Register(w)

	got := r.GetHandlers("CategoryMoved")
	assert.Len(t, got, 3)
	assert.Same(t, a, got[0])
	assert.Same(t, w, got[2])
	assert.Equal(t, 4, r.Len())

	r.Unregister(a)
	assert.Len(t, r.GetHandlers("CategoryCreated"), 1, "only the wildcard remains")
	assert.Equal(t, 2, r.Len())
}
