package revision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduhubvn/moderation-api/internal/models"
)

func TestComputeDiffDetectsChangedFields(t *testing.T) {
	original := models.Record{"name": "Bachelor of CS", "major": "Computer Science", "startYear": float64(2016)}
	proposed := models.Record{"name": "Bachelor of CS", "major": "Software Engineering", "startYear": float64(2016)}
	descriptors := []FieldDescriptor{
		{Label: "Degree name", Key: "name"},
		{Label: "Major", Key: "major"},
		{Label: "Start year", Key: "startYear"},
	}

	rows := ComputeDiff(original, proposed, descriptors)
	require.Len(t, rows, 3)
	require.False(t, rows[0].Changed)
	require.True(t, rows[1].Changed)
	require.Equal(t, "Computer Science", rows[1].Original)
	require.Equal(t, "Software Engineering", rows[1].Proposed)
	require.False(t, rows[2].Changed)
	require.Equal(t, "2016", rows[2].Original)
}

func TestComputeDiffIsPure(t *testing.T) {
	original := models.Record{"name": "A", "url": "https://docs/a.pdf"}
	proposed := models.Record{"name": "B", "url": "https://docs/b.pdf"}
	descriptors := Describe(models.EntityDegree)

	first := ComputeDiff(original, proposed, descriptors)
	second := ComputeDiff(original, proposed, descriptors)
	require.Equal(t, first, second)
}

func TestComputeDiffComparesRawValuesNotRenderedLabels(t *testing.T) {
	original := models.Record{"url": "https://docs/old.pdf"}
	proposed := models.Record{"url": "https://docs/new.pdf"}
	descriptors := []FieldDescriptor{{Label: "Document", Key: "url", Render: renderDocumentLink}}

	rows := ComputeDiff(original, proposed, descriptors)
	require.Len(t, rows, 1)
	// Both sides render to the same label but the underlying URLs differ.
	require.Equal(t, "View document", rows[0].Original)
	require.Equal(t, "View document", rows[0].Proposed)
	require.True(t, rows[0].Changed)
}

func TestComputeDiffCanonicalEmptyEquivalence(t *testing.T) {
	descriptors := []FieldDescriptor{{Label: "Website", Key: "website"}}

	cases := []struct {
		name     string
		original models.Record
		proposed models.Record
	}{
		{"nil vs empty string", models.Record{"website": nil}, models.Record{"website": ""}},
		{"missing vs empty string", models.Record{}, models.Record{"website": ""}},
		{"missing vs nil", models.Record{}, models.Record{"website": nil}},
		{"nil records", nil, nil},
	}
	for _, tc := range cases {
		rows := ComputeDiff(tc.original, tc.proposed, descriptors)
		require.Len(t, rows, 1, tc.name)
		require.False(t, rows[0].Changed, tc.name)
		require.Equal(t, EmptyPlaceholder, rows[0].Original, tc.name)
		require.Equal(t, EmptyPlaceholder, rows[0].Proposed, tc.name)
	}
}

func TestComputeDiffEmptyToValueIsAChange(t *testing.T) {
	descriptors := []FieldDescriptor{{Label: "Website", Key: "website"}}
	rows := ComputeDiff(models.Record{}, models.Record{"website": "https://eduhub.vn"}, descriptors)
	require.True(t, rows[0].Changed)
	require.Equal(t, EmptyPlaceholder, rows[0].Original)
	require.Equal(t, "https://eduhub.vn", rows[0].Proposed)
}

func TestComputeDiffKeepsDescriptorOrder(t *testing.T) {
	original := models.Record{"a": "1", "b": "2", "c": "3"}
	proposed := models.Record{"a": "1", "b": "changed", "c": "3"}
	descriptors := []FieldDescriptor{
		{Label: "A", Key: "a"},
		{Label: "B", Key: "b"},
		{Label: "C", Key: "c"},
	}

	rows := ComputeDiff(original, proposed, descriptors)
	require.Equal(t, []string{"A", "B", "C"}, []string{rows[0].Label, rows[1].Label, rows[2].Label})
}

func TestDescribeUnknownEntityYieldsNoRows(t *testing.T) {
	descriptors := Describe(models.EntityType("MYSTERY"))
	require.Empty(t, descriptors)
	require.Empty(t, ComputeDiff(models.Record{"x": "1"}, models.Record{"x": "2"}, descriptors))
}

func TestDescribeCoversEveryEntityType(t *testing.T) {
	for _, entity := range models.AllEntityTypes {
		require.NotEmpty(t, Describe(entity), string(entity))
	}
}
