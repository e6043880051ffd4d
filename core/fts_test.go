package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ftsFixture loads the ten-document corpus the worked expectations in
// the command contract are built from: three documents mention
// "battle", five mention "enemy", and exactly one mentions
// "opportunity".
func ftsFixture(t *testing.T, ks *Keyspace, key string) {
	t.Helper()

	docs := map[string]string{
		"enemy":      "Know thy enemy and know thyself in a hundred battle you will never be defeated",
		"self":       "If you know the enemy and know yourself you need not fear the result of this battle",
		"excellence": "Victorious warriors win the battle first and then seek out the enemy",
		"hand":       "Opportunity favors the enemy who adapts fastest",
		"supreme":    "The supreme art of war is to subdue the enemy without fighting",
		"pretend":    "Pretend inferiority and encourage his arrogance",
		"appear":     "All warfare is based on deception",
		"speed":      "Speed is the essence of war",
		"water":      "Military tactics are like unto water",
		"invincible": "To secure ourselves from defeat lies in our own hands",
	}
	for title, body := range docs {
		require.NoError(t, ks.DSet(key, title, body))
	}
}

func TestFTSSetGetDel(t *testing.T) {
	ks := NewKeyspace()
	ftsFixture(t, ks, "fts")

	n, err := ks.DLen("fts")
	require.NoError(t, err)
	require.Equal(t, 10, n)

	body, found, err := ks.DGet("fts", "pretend")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Pretend inferiority and encourage his arrogance", body)

	deleted, err := ks.DDel("fts", "pretend")
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	n, err = ks.DLen("fts")
	require.NoError(t, err)
	require.Equal(t, 9, n)

	results, err := ks.DSearch("fts", "inferiority")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestFTSSearchMatchesAndOrdering(t *testing.T) {
	ks := NewKeyspace()
	ftsFixture(t, ks, "fts")

	battle, err := ks.DSearch("fts", "battle")
	require.NoError(t, err)
	require.Len(t, battle, 3)

	titles := make([]string, len(battle))
	for i, kv := range battle {
		titles[i] = kv.Key
	}
	require.IsIncreasing(t, titles)
	require.ElementsMatch(t, []string{"enemy", "self", "excellence"}, titles)

	enemy, err := ks.DSearch("fts", "enemy")
	require.NoError(t, err)
	require.Len(t, enemy, 5)

	opportunity, err := ks.DSearch("fts", "opportunity")
	require.NoError(t, err)
	require.Len(t, opportunity, 1)
	require.Equal(t, "hand", opportunity[0].Key)
}

func TestFTSApostropheSeparates(t *testing.T) {
	ks := NewKeyspace()

	require.NoError(t, ks.DSet("fts", "water", "an enemy's strongest point"))

	enemy, err := ks.DSearch("fts", "enemy")
	require.NoError(t, err)
	require.Len(t, enemy, 1)

	s, err := ks.DSearch("fts", "s")
	require.NoError(t, err)
	require.Len(t, s, 1) // the "s" after the apostrophe is a token of its own
}

func TestFTSOverwriteUpdatesIndex(t *testing.T) {
	ks := NewKeyspace()

	require.NoError(t, ks.DSet("fts", "doc", "alpha beta"))
	require.NoError(t, ks.DSet("fts", "doc", "gamma"))

	n, err := ks.DLen("fts")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	alpha, err := ks.DSearch("fts", "alpha")
	require.NoError(t, err)
	require.Empty(t, alpha)

	gamma, err := ks.DSearch("fts", "gamma")
	require.NoError(t, err)
	require.Len(t, gamma, 1)
}

func TestFTSDrainToEmptyRemovesKey(t *testing.T) {
	ks := NewKeyspace()

	require.NoError(t, ks.DSet("fts", "only", "body text"))
	deleted, err := ks.DDel("fts", "only")
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	require.False(t, ks.Exists("fts"))
	require.Equal(t, KindNone, ks.Type("fts"))
}

func TestFTSEmptyQueryReturnsEmpty(t *testing.T) {
	ks := NewKeyspace()
	ftsFixture(t, ks, "fts")

	results, err := ks.DSearch("fts", "...")
	require.NoError(t, err)
	require.Empty(t, results)
}
