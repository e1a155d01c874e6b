package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/composer/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	sb := New(DefaultConfig())
	sb.SetDocumentInfo("", true, false)
	sb.SetCaretInfo(types.Point{X: 4, Y: 2})
	sb.SetEditorMode("FIND")
	sb.SetFormat(Format{Bold: true, Mono: true, Block: "paragraph", Align: "left"})
	sb.SetHistoryInfo(true, false)

	left, right := sb.Text()
	assert.Equal(t, "[New Message] [Modified] -- Line: 3, Col: 5 -- FIND", left)
	assert.Equal(t, "[u] B---M paragraph left", right)
}

func TestTemporaryMessageExpires(t *testing.T) {
	sb := New(Config{MessageTimeout: time.Millisecond})
	sb.SetTemporaryMessage("saved %d", 1)
	assert.Equal(t, "saved 1", sb.Message())

	sb.mu.Lock()
	sb.tempMessageTime = time.Now().Add(-time.Second)
	sb.mu.Unlock()
	assert.Empty(t, sb.Message())
}

func TestDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(60, 3)

	sb := New(DefaultConfig())
	sb.SetDocumentInfo("draft", false, true)
	sb.Draw(screen, 60, 3, nil)
	screen.Show()

	cells, w, _ := screen.GetContents()
	var line strings.Builder
	for x := 0; x < w; x++ {
		c := cells[2*w+x]
		if len(c.Runes) > 0 {
			line.WriteRune(c.Runes[0])
		}
	}
	assert.True(t, strings.HasPrefix(line.String(), "draft [RO] -- Line: 1, Col: 1"), line.String())
}
