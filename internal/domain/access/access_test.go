package access

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_MembershipIsBinary(t *testing.T) {
	member := uuid.New()
	stranger := uuid.New()

	list := List{member}
	assert.True(t, list.Contains(member))
	assert.False(t, list.Contains(stranger))
	assert.False(t, List(nil).Contains(member))
}

func TestList_AddIsIdempotent(t *testing.T) {
	id := uuid.New()

	list := List{}.Add(id).Add(id).Add(id)
	assert.Len(t, list, 1)
}

func TestList_RemoveAbsentIsNoOp(t *testing.T) {
	keep := uuid.New()

	list := List{keep}.Remove(uuid.New())
	assert.Equal(t, List{keep}, list)

	list = list.Remove(keep)
	assert.Empty(t, list)
}

func TestList_CloneIsIndependent(t *testing.T) {
	original := List{uuid.New(), uuid.New()}
	clone := original.Clone()

	clone[0] = uuid.New()
	assert.NotEqual(t, clone[0], original[0])
}

func TestList_JSONRoundTrip(t *testing.T) {
	list := List{uuid.New(), uuid.New()}

	raw, err := json.Marshal(list)
	require.NoError(t, err)

	var got List
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, list, got)
}
