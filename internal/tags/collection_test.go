package tags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpsertReplacesInPlace(t *testing.T) {
	in := []Reference{ref("tier", "silver"), ref("zona", "nord")}
	out := Upsert(in, ref("tier", "gold"))

	require.Equal(t, []Reference{ref("tier", "gold"), ref("zona", "nord")}, out)
	require.Equal(t, ref("tier", "silver"), in[0])
}

func TestUpsertAppends(t *testing.T) {
	in := []Reference{ref("tier", "silver")}
	out := Upsert(in, ref("zona", "nord"))
	require.Equal(t, []Reference{ref("tier", "silver"), ref("zona", "nord")}, out)
	require.Len(t, in, 1)
}

func TestUpsertIdempotent(t *testing.T) {
	in := []Reference{ref("tier", "silver"), ref("zona", "nord")}
	tag := ref("categoria-clienti", "idraulico")

	once := Upsert(in, tag)
	twice := Upsert(once, tag)
	require.Equal(t, once, twice)
	require.Len(t, twice, 3)
}

func TestUpsertOnNil(t *testing.T) {
	out := Upsert(nil, ref("tier", "gold"))
	require.Equal(t, []Reference{ref("tier", "gold")}, out)
}

func TestRemove(t *testing.T) {
	single := []Reference{ref("tier", "gold")}

	emptied := Remove(single, "tier:gold")
	require.NotNil(t, emptied)
	require.Empty(t, emptied)

	unchanged := Remove(single, "tier:silver")
	require.Equal(t, single, unchanged)
	unchanged[0].Code = "changed"
	require.Equal(t, "gold", single[0].Code)
}

func TestRemoveMatchesFullTagExactly(t *testing.T) {
	in := []Reference{ref("tier", "gold"), ref("zona", "nord")}
	require.Equal(t, in, Remove(in, "tier"))
	require.Equal(t, []Reference{ref("zona", "nord")}, Remove(in, "tier:gold"))
	require.Len(t, in, 2)
}
