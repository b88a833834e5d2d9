package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDocumentKeepsDefinitionOrder(t *testing.T) {
	doc := toDocument(testRow)

	require.Len(t, doc, 4)
	assert.Equal(t, "_id", doc[0].Key)
	assert.NotEmpty(t, doc[0].Value)
	assert.Equal(t, "submittedAt", doc[1].Key)
	assert.Equal(t, testRow.SubmittedAt, doc[1].Value)
	assert.Equal(t, "before", doc[2].Key)
	assert.Equal(t, "Excited, Curious", doc[2].Value)
	assert.Equal(t, "message", doc[3].Key)
	assert.Equal(t, "", doc[3].Value)
}
