package pkg

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDs(t *testing.T) {
	first, second := GenerateSessionID(), GenerateSessionID()

	assert.NotEqual(t, first, second)

	_, err := uuid.Parse(first)
	require.NoError(t, err)

	_, err = uuid.Parse(GeneratePlayerID())
	require.NoError(t, err)
}
