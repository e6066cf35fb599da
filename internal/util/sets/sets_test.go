package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_AddReportsFirstInsert(t *testing.T) {
	s := New("Home")
	require.True(t, s.Has("Home"))
	require.False(t, s.Add("Home"))
	require.True(t, s.Add("Install"))
	require.True(t, s.Has("Install"))
	require.False(t, s.Has("install"))
}
