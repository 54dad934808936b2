package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToggles(t *testing.T) {
	got, err := parseToggles("stu-1:5, stu-2:28")
	require.NoError(t, err)
	assert.Equal(t, []toggle{{student: "stu-1", day: 5}, {student: "stu-2", day: 28}}, got)

	got, err = parseToggles("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, bad := range []string{"stu-1", "stu-1:0", "stu-1:x", "stu-1:32"} {
		_, err := parseToggles(bad)
		assert.Error(t, err, bad)
	}
}
