package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestVotes_ToggleUpvote(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	var v Votes

	v.ToggleUpvote(alice)
	v.ToggleUpvote(bob)
	require.Equal(t, 2, v.Score())

	// second upvote by the same user removes it
	v.ToggleUpvote(alice)
	require.Equal(t, 1, v.Upvotes())
	require.Equal(t, 1, v.Score())
}

func TestVotes_SwitchingSidesMovesTheVote(t *testing.T) {
	alice := uuid.New()
	var v Votes

	v.ToggleDownvote(alice)
	require.Equal(t, -1, v.Score())

	v.ToggleUpvote(alice)
	require.Equal(t, 1, v.Upvotes())
	require.Equal(t, 0, v.Downvotes())
	require.Equal(t, 1, v.Score())

	v.ToggleDownvote(alice)
	require.Equal(t, 0, v.Upvotes())
	require.Equal(t, 1, v.Downvotes())
}
