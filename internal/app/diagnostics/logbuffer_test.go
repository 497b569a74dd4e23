package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogBufferKeepsOrderBeforeWrap(t *testing.T) {
	buf := NewLogBuffer(3)
	buf.Append("a")
	buf.Append("b")

	require.Equal(t, []string{"a", "b"}, buf.Snapshot())
}

func TestLogBufferEvictsOldest(t *testing.T) {
	buf := NewLogBuffer(3)
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		buf.Append(line)
	}

	require.Equal(t, []string{"c", "d", "e"}, buf.Snapshot())
}

func TestLogBufferDefaultsLimit(t *testing.T) {
	buf := NewLogBuffer(0)
	for i := 0; i < 150; i++ {
		buf.Append("x")
	}

	require.Len(t, buf.Snapshot(), 100)
}

func TestLogBufferSnapshotIsCopy(t *testing.T) {
	buf := NewLogBuffer(2)
	buf.Append("a")
	snap := buf.Snapshot()
	snap[0] = "changed"

	require.Equal(t, []string{"a"}, buf.Snapshot())
}
