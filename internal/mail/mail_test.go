package mail

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProducesAlternativeParts(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, &Message{
		From:    "Ann <ann@example.org>",
		To:      []string{"bob@example.org"},
		Subject: "Status",
		Date:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Text:    "Hello",
		HTML:    "<div><b>Hello</b></div>",
	})
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "Subject: Status")
	assert.Contains(t, raw, "Message-Id:")

	msg, err := Read(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Status", msg.Subject)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, "<div><b>Hello</b></div>", msg.HTML)
	assert.Contains(t, msg.From, "ann@example.org")
	require.Len(t, msg.To, 1)
	assert.Contains(t, msg.To[0], "bob@example.org")
	assert.True(t, msg.Date.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))
}

func TestWriteRejectsBadAddress(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, &Message{From: "not an address <", Text: "x"})
	assert.Error(t, err)
}

func TestReadPlainMessage(t *testing.T) {
	raw := "From: ann@example.org\r\n" +
		"Subject: plain\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"just text\r\n"
	msg, err := Read(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "plain", msg.Subject)
	assert.Equal(t, "just text\r\n", msg.Text)
	assert.Empty(t, msg.HTML)
}
