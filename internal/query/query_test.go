package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

func ids(leads []entity.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}

func TestApplyDefaultSortsDescending(t *testing.T) {
	leads := entity.SeedLeads(time.Now())

	got := Apply(leads, DefaultParams())

	assert.Equal(t, []string{"l3", "l1", "l4", "l2"}, ids(got))
}

func TestApplyAscending(t *testing.T) {
	leads := entity.SeedLeads(time.Now())

	got := Apply(leads, Params{Sort: SortAsc})

	assert.Equal(t, []string{"l2", "l4", "l1", "l3"}, ids(got))
}

func TestApplyStableOnTies(t *testing.T) {
	leads := entity.SeedLeads(time.Now())
	for i := range leads {
		leads[i].Score = 50
	}

	assert.Equal(t, []string{"l1", "l2", "l3", "l4"}, ids(Apply(leads, Params{Sort: SortDesc})))
	assert.Equal(t, []string{"l1", "l2", "l3", "l4"}, ids(Apply(leads, Params{Sort: SortAsc})))
}

func TestApplyStageAndThreshold(t *testing.T) {
	leads := entity.SeedLeads(time.Now())
	leads[0].Stage = entity.StageQualified
	leads[2].Stage = entity.StageQualified

	got := Apply(leads, Params{Stage: entity.StageQualified, MinScore: 60, Sort: SortDesc})
	assert.Equal(t, []string{"l3"}, ids(got))

	got = Apply(leads, Params{Stage: AllStages, MinScore: 51})
	assert.Equal(t, []string{"l3", "l1", "l4"}, ids(got))

	got = Apply(leads, Params{MinScore: 100})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	leads := entity.SeedLeads(time.Now())

	for _, term := range []string{"acme", "ACME", "retail", "  Acme Ret ", "revops", "priya@"} {
		got := Apply(leads, Params{Search: term})
		assert.Equal(t, []string{"l2"}, ids(got), "term %q", term)
	}

	assert.Empty(t, Apply(leads, Params{Search: "acme!"}))
}

func TestSearchIgnoresUnsearchedFields(t *testing.T) {
	leads := entity.SeedLeads(time.Now())

	// location and tech stack are not part of the haystack
	assert.Empty(t, Apply(leads, Params{Search: "austin"}))
	assert.Empty(t, Apply(leads, Params{Search: "kotlin"}))
}

func TestSearchSkipsAbsentFields(t *testing.T) {
	lead, err := entity.NewLead("x", "Sam", "Initech", entity.Profile{}, 10, entity.StageNew, time.Now())
	require.NoError(t, err)

	// absent fields leave no double spaces behind
	assert.Len(t, Apply([]entity.Lead{*lead}, Params{Search: "sam initech"}), 1)
}

func TestApplyIsIdempotent(t *testing.T) {
	leads := entity.SeedLeads(time.Now())
	leads[1].Score = 67
	p := Params{Stage: AllStages, MinScore: 45, Search: "o", Sort: SortDesc}

	first := Apply(leads, p)
	second := Apply(leads, p)

	assert.Equal(t, first, second)
	assert.Equal(t, ids(first), ids(Apply(first, p)))
}

func TestApplyDoesNotReorderInput(t *testing.T) {
	leads := entity.SeedLeads(time.Now())
	Apply(leads, Params{Sort: SortAsc})
	assert.Equal(t, []string{"l1", "l2", "l3", "l4"}, ids(leads))
}

func TestParseHelpers(t *testing.T) {
	s, err := ParseStageFilter("")
	require.NoError(t, err)
	assert.Equal(t, AllStages, s)

	s, err = ParseStageFilter("Contacted")
	require.NoError(t, err)
	assert.Equal(t, entity.StageContacted, s)

	_, err = ParseStageFilter("Closed")
	assert.Error(t, err)

	d, err := ParseSort("ASC")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, d)

	d, err = ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, d)

	_, err = ParseSort("sideways")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	leads := entity.SeedLeads(time.Now())
	leads[0].Stage = entity.StageQualified
	leads[1].Stage = entity.StageContacted
	leads[2].Stage = entity.StageContacted

	st := Summarize(leads)

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 1, st.Qualified)
	assert.Equal(t, 2, st.Contacted)
	assert.Equal(t, 1, st.ByStage[entity.StageNew])
	assert.Equal(t, 0, st.ByStage[entity.StageLost])
	assert.Len(t, st.ByStage, len(entity.StageOrder))
}
