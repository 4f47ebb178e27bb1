package tagtree_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salmonumbrella/subtags/internal/tagtree"
)

var sampleTags = []string{
	"Biology::Cells",
	"Biology::Cells::Membrane",
	"Biology::Genetics",
	"Chemistry",
	"Chemistry::Organic",
}

func TestBuild(t *testing.T) {
	tree := tagtree.Build(sampleTags)

	want := []*tagtree.Node{
		{Name: "Biology", FullTag: "Biology", Children: []*tagtree.Node{
			{Name: "Cells", FullTag: "Biology::Cells", IsTag: true, Children: []*tagtree.Node{
				{Name: "Membrane", FullTag: "Biology::Cells::Membrane", IsTag: true},
			}},
			{Name: "Genetics", FullTag: "Biology::Genetics", IsTag: true},
		}},
		{Name: "Chemistry", FullTag: "Chemistry", IsTag: true, Children: []*tagtree.Node{
			{Name: "Organic", FullTag: "Chemistry::Organic", IsTag: true},
		}},
	}
	if diff := cmp.Diff(want, tree.Roots); diff != "" {
		t.Fatalf("Build() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, tree.Count())
}

func TestBuildSkipsBlankTags(t *testing.T) {
	tree := tagtree.Build([]string{"", "  ", "Solo"})

	require.Len(t, tree.Roots, 1)
	assert.Equal(t, "Solo", tree.Roots[0].FullTag)
}

func TestLookup(t *testing.T) {
	tree := tagtree.Build(sampleTags)

	node := tree.Lookup("Biology::Cells::Membrane")
	require.NotNil(t, node)
	assert.Equal(t, "Membrane", node.Name)

	assert.Nil(t, tree.Lookup("Physics"))
	assert.Nil(t, tree.Lookup("Biology::Cell"))
}

func TestFilterKeepsAncestorsOfMatches(t *testing.T) {
	tree := tagtree.Build(sampleTags)

	filtered := tree.Filter("membrane")

	want := []*tagtree.Node{
		{Name: "Biology", FullTag: "Biology", Children: []*tagtree.Node{
			{Name: "Cells", FullTag: "Biology::Cells", IsTag: true, Children: []*tagtree.Node{
				{Name: "Membrane", FullTag: "Biology::Cells::Membrane", IsTag: true},
			}},
		}},
	}
	if diff := cmp.Diff(want, filtered.Roots); diff != "" {
		t.Fatalf("Filter() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterMatchesAnyTokenCaseInsensitively(t *testing.T) {
	tree := tagtree.Build(sampleTags)

	filtered := tree.Filter("  GENETICS organic ")

	var tags []string
	filtered.Walk(func(n *tagtree.Node, _ int) bool {
		tags = append(tags, n.FullTag)
		return true
	})
	assert.Equal(t, []string{"Biology", "Biology::Genetics", "Chemistry", "Chemistry::Organic"}, tags)
}

func TestFilterMatchesFullTag(t *testing.T) {
	tree := tagtree.Build(sampleTags)

	// "chemistry::org" only occurs in the full tag, not in the node name.
	assert.Equal(t, []string{"Chemistry::Organic"}, tree.Find("chemistry::org"))
}

func TestFilterEmptyQueryKeepsEverything(t *testing.T) {
	tree := tagtree.Build(sampleTags)

	if diff := cmp.Diff(tree.Roots, tree.Filter("   ").Roots); diff != "" {
		t.Fatalf("Filter(empty) mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, tree.Filter("physics").Roots)
}

func TestFind(t *testing.T) {
	tree := tagtree.Build(sampleTags)

	assert.Equal(t, []string{"Biology::Cells", "Biology::Cells::Membrane"}, tree.Find("cell"))
	assert.Len(t, tree.Find(""), 6)
	assert.Empty(t, tree.Find("zzz"))
}

func TestRenderRespectsExpansion(t *testing.T) {
	tree := tagtree.Build(sampleTags)
	expanded := map[string]bool{"Biology": true}

	var buf bytes.Buffer
	err := tagtree.Render(&buf, tree, tagtree.RenderOptions{
		Expanded: func(tag string) bool { return expanded[tag] },
	})
	require.NoError(t, err)

	assert.Equal(t, ""+
		"▾ Biology\n"+
		"  ▸ Cells\n"+
		"  • Genetics\n"+
		"▸ Chemistry\n", buf.String())
}

func TestRenderExpandAll(t *testing.T) {
	tree := tagtree.Build([]string{"A::B::C"})

	var buf bytes.Buffer
	require.NoError(t, tagtree.Render(&buf, tree, tagtree.RenderOptions{ExpandAll: true}))

	assert.Equal(t, "▾ A\n  ▾ B\n    • C\n", buf.String())
}
