package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scored(id string, total float64) ScoredOpportunity {
	return ScoredOpportunity{Opportunity: Opportunity{ID: id}, TotalScore: total}
}

func ids(ranked []ScoredOpportunity) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.ID
	}
	return out
}

func TestRank_DescendingAndStable(t *testing.T) {
	in := []ScoredOpportunity{
		scored("a", 1.0),
		scored("b", 2.5),
		scored("c", 1.0),
		scored("d", 3.0),
		scored("e", 1.0),
	}

	got := Rank(in, 10)

	assert.Equal(t, []string{"d", "b", "a", "c", "e"}, ids(got))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []ScoredOpportunity{scored("a", 1), scored("b", 2)}
	_ = Rank(in, 1)
	assert.Equal(t, []string{"a", "b"}, ids(in))
}

func TestRank_Truncates(t *testing.T) {
	in := make([]ScoredOpportunity, 0, 15)
	for i := 0; i < 15; i++ {
		in = append(in, scored(fmt.Sprintf("o%02d", i), float64(i)))
	}

	got := Rank(in, 10)

	assert.Len(t, got, 10)
	assert.Equal(t, "o14", got[0].ID)
	assert.Equal(t, "o05", got[9].ID)
}

func TestRank_NonPositiveLimitKeepsAll(t *testing.T) {
	in := []ScoredOpportunity{scored("a", 1), scored("b", 2), scored("c", 3)}
	assert.Len(t, Rank(in, 0), 3)
	assert.Len(t, Rank(in, -1), 3)
}

func TestRank_Empty(t *testing.T) {
	got := Rank(nil, 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRank_Idempotent(t *testing.T) {
	in := []ScoredOpportunity{scored("a", 0.4), scored("b", 1.2), scored("c", 0.4), scored("d", 0.9)}

	once := Rank(in, 3)
	twice := Rank(once, 3)

	assert.Equal(t, once, twice)
}
