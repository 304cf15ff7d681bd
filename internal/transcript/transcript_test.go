package transcript

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junbin-yang/go-vendkit/pkg/dispenser"
)

func TestMessage(t *testing.T) {
	m := dispenser.MustNew(1)

	assert.Equal(t, "no token to return", Message(m.EjectToken()))
	assert.Equal(t, "insert a token first", Message(m.Dispense()))
	assert.Equal(t, "token inserted", Message(m.InsertToken()))
	assert.Equal(t, "token already inserted", Message(m.InsertToken()))
	assert.Equal(t, "token returned", Message(m.EjectToken()))
	m.InsertToken()
	assert.Equal(t, "unit dispensed, machine is now empty", Message(m.Dispense()))
	assert.Equal(t, "machine is empty", Message(m.InsertToken()))
}

func TestLineAndSummary(t *testing.T) {
	m := dispenser.MustNew(2)
	line := Line(m.InsertToken())
	assert.True(t, strings.HasPrefix(line, "#1 InsertToken"))
	assert.Contains(t, line, "inventory=2")

	line = Line(m.InsertToken())
	assert.Contains(t, line, "rejected(AlreadyHasToken)")

	assert.Equal(t, "state=TokenHeld inventory=2 dispensed=0 operations=2", Summary(m.Snapshot()))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "-> TokenHeld")
	assert.Contains(t, lines[2], "-> NoToken (-1)")
	assert.Contains(t, lines[3], "rejected: MachineDepleted")
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, History(&buf, []dispenser.Record{
		{Seq: 1, Operation: dispenser.InsertToken, From: dispenser.NoToken, To: dispenser.TokenHeld, Accepted: true, Inventory: 1, At: at},
	}))
	assert.Equal(t, "09:30:00.000 #1 InsertToken NoToken -> TokenHeld ok inventory=1\n", buf.String())
}
