package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(KindSuccess, "added")
	r.Notify(KindWarning, "stock limit reached")

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Notification{Kind: KindWarning, Message: "stock limit reached"}, last)
	assert.Len(t, r.All(), 2)
}
