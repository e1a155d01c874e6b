package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchOrderAndData(t *testing.T) {
	m := NewManager()
	var got []string

	m.Subscribe(TypeCanUndoChanged, func(e Event) bool {
		got = append(got, "first")
		assert.Equal(t, PropertyChangedData{Value: true}, e.Data)
		return false
	})
	m.Subscribe(TypeCanUndoChanged, func(e Event) bool {
		got = append(got, "second")
		return true
	})
	m.Subscribe(TypeCanUndoChanged, func(e Event) bool {
		got = append(got, "third")
		return false
	})
	m.Subscribe(TypeCanRedoChanged, func(e Event) bool {
		got = append(got, "redo")
		return false
	})

	assert.True(t, m.Dispatch(TypeCanUndoChanged, PropertyChangedData{Value: true}))
	assert.Equal(t, []string{"first", "second"}, got)
	assert.False(t, m.Dispatch(TypeCanRedoChanged, PropertyChangedData{}))
}

func TestDispatchWithoutHandlers(t *testing.T) {
	m := NewManager()
	assert.False(t, m.Dispatch(TypeAppQuit, AppQuitData{}))
}

func TestSubscribeDuringDispatch(t *testing.T) {
	m := NewManager()
	calls := 0
	m.Subscribe(TypeDocumentModified, func(e Event) bool {
		calls++
		m.Subscribe(TypeDocumentModified, func(Event) bool { calls += 10; return false })
		return false
	})

	m.Dispatch(TypeDocumentModified, nil)
	assert.Equal(t, 1, calls)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "selection-changed", TypeSelectionChanged.String())
	assert.Equal(t, "unknown", Type(999).String())
}
