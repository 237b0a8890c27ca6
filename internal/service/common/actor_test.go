//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

// TestDetectActor ensures hostname and username are detected and non-empty.
func TestDetectActor(t *testing.T) {
	t.Parallel()

	a, err := DetectActor()
	require.NoError(t, err)
	require.NotEmpty(t, a.Hostname)
	require.NotEmpty(t, a.Username)
	require.Equal(t, a.Username+"@"+a.Hostname, a.String())
}

// TestActorMetadata ensures the actor survives the trip through call metadata.
func TestActorMetadata(t *testing.T) {
	t.Parallel()

	require.Equal(t, "unknown", IncomingActor(context.Background()))

	actor := &Actor{Hostname: "kitchen", Username: "alice"}

	ctx := WithOutgoingActor(context.Background(), actor)
	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)

	incoming := metadata.NewIncomingContext(context.Background(), md)
	require.Equal(t, "alice@kitchen", IncomingActor(incoming))

	require.Equal(t, context.Background(), WithOutgoingActor(context.Background(), nil))
}
