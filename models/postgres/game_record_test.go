package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRecordBeforeCreate(t *testing.T) {
	var record GameRecord
	require.NoError(t, record.BeforeCreate(nil))
	_, err := uuid.Parse(record.ID)
	assert.NoError(t, err)

	kept := GameRecord{ID: "fixed"}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, "fixed", kept.ID)
}
