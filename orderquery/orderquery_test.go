package orderquery

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yourrest-api/models"
)

var base = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

func snapshot() []models.Order {
	return []models.Order{
		{ID: "a1", Name: "Asha", Item: "Paneer Tikka", Price: decimal.NewFromInt(250), Status: models.StatusPending, CreatedAt: base.Add(2 * time.Hour), CreatedTime: "2:00:00 PM"},
		{ID: "b2", Name: "Ravi", Item: "Masala Dosa", Price: decimal.NewFromInt(90), Status: models.StatusDelivered, CreatedAt: base, CreatedTime: "12:00:00 PM"},
		{ID: "c3", Name: "Meera", Item: "Veg Biryani", Price: decimal.NewFromInt(1000), Status: models.StatusInProgress, CreatedAt: base.Add(time.Hour), CreatedTime: "1:00:00 PM"},
		{ID: "d4", Name: "John", Item: "Lassi", Price: decimal.RequireFromString("12.5"), Status: models.StatusCancelled, CreatedAt: base.Add(3 * time.Hour), CreatedTime: "3:00:00 PM"},
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	orders := snapshot()
	assert.Len(t, Search(orders, ""), 4)
	assert.Len(t, Search(orders, "   "), 4)
}

func TestSearch_CaseInsensitiveOnEveryField(t *testing.T) {
	orders := snapshot()
	tests := []struct {
		query string
		want  []string
	}{
		{"B2", []string{"b2"}},
		{"meera", []string{"c3"}},
		{"PANEER", []string{"a1"}},
		{"12.5", []string{"d4"}},
		{"1000", []string{"c3"}},
		{"3:00:00 pm", []string{"d4"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(orders, tt.query)))
		})
	}
}

func TestSearch_AnyFieldMatches(t *testing.T) {
	// "a" hits names and items across records
	got := ids(Search(snapshot(), "a"))
	assert.ElementsMatch(t, []string{"a1", "b2", "c3", "d4"}, got)
}

func TestApply_DefaultIsMostRecent(t *testing.T) {
	got := Apply(snapshot(), Params{})
	assert.Equal(t, []string{"d4", "a1", "c3", "b2"}, ids(got))
}

func TestApply_Oldest(t *testing.T) {
	got := Apply(snapshot(), Params{Selector: Oldest})
	assert.Equal(t, []string{"b2", "c3", "a1", "d4"}, ids(got))
}

func TestApply_PriceSortIsNumeric(t *testing.T) {
	got := Apply(snapshot(), Params{Selector: HighestPrice})
	assert.Equal(t, []string{"c3", "a1", "b2", "d4"}, ids(got))

	got = Apply(snapshot(), Params{Selector: LowestPrice})
	assert.Equal(t, []string{"d4", "b2", "a1", "c3"}, ids(got))
}

func TestApply_PriceSortIsStable(t *testing.T) {
	orders := []models.Order{
		{ID: "x", Price: decimal.NewFromInt(5)},
		{ID: "y", Price: decimal.NewFromInt(5)},
		{ID: "z", Price: decimal.NewFromInt(5)},
	}
	assert.Equal(t, []string{"x", "y", "z"}, ids(Apply(orders, Params{Selector: HighestPrice})))
}

func TestApply_StatusFilterDropsSort(t *testing.T) {
	orders := snapshot()
	orders = append(orders, models.Order{ID: "e5", Name: "Zoe", Item: "Tea", Price: decimal.NewFromInt(20), Status: models.StatusPending, CreatedAt: base.Add(-time.Hour)})

	got := Apply(orders, Params{Selector: OnlyPending})
	// snapshot order, not recency order
	assert.Equal(t, []string{"a1", "e5"}, ids(got))

	for _, o := range Apply(orders, Params{Selector: OnlyCancelled}) {
		assert.Equal(t, models.StatusCancelled, o.Status)
	}
}

func TestApply_SearchThenFilter(t *testing.T) {
	got := Apply(snapshot(), Params{Query: "a", Selector: OnlyDelivered})
	assert.Equal(t, []string{"b2"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	orders := snapshot()
	_ = Apply(orders, Params{Selector: OnlyPending})
	_ = Apply(orders, Params{Selector: LowestPrice})
	assert.Equal(t, []string{"a1", "b2", "c3", "d4"}, ids(orders))
}

func TestParseSelector(t *testing.T) {
	s, err := ParseSelector("")
	require.NoError(t, err)
	assert.Equal(t, MostRecent, s)

	for _, sel := range Selectors {
		got, err := ParseSelector(string(sel))
		require.NoError(t, err)
		assert.Equal(t, sel, got)
	}

	_, err = ParseSelector("priceDesc")
	assert.ErrorIs(t, err, ErrUnknownSelector)
}

func TestSummary(t *testing.T) {
	summary := Summary(snapshot())
	assert.Equal(t, 1, summary[models.StatusPending])
	assert.Equal(t, 1, summary[models.StatusDelivered])
	assert.Equal(t, 0, summary["Unknown"])
}
