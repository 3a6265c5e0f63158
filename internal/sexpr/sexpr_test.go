package sexpr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/sexpr"
)

func TestParse_ModuleExample(t *testing.T) {
	nodes, err := sexpr.Parse(`(module (func (result i32) (i32.const 42)))`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	root := nodes[0]
	require.Equal(t, sexpr.KindTree, root.Kind)
	require.Len(t, root.Children, 2)
	require.Equal(t, sexpr.KindUnindexedSymbol, root.Children[0].Kind)
	require.Equal(t, "module", root.Children[0].Symbol)
	require.Equal(t, sexpr.KindTree, root.Children[1].Kind)
}

func TestParse_Integers(t *testing.T) {
	nodes, err := sexpr.Parse(`42 -7 0xff`)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	require.Equal(t, sexpr.KindUnsignedInt, nodes[0].Kind)
	require.Equal(t, uint64(42), nodes[0].UnsignedInt)
	require.Equal(t, sexpr.KindSignedInt, nodes[1].Kind)
	require.Equal(t, int64(-7), nodes[1].SignedInt)
	require.Equal(t, sexpr.KindUnsignedInt, nodes[2].Kind)
	require.Equal(t, uint64(255), nodes[2].UnsignedInt)
}

func TestParse_HexFloat(t *testing.T) {
	nodes, err := sexpr.Parse(`0x1.8p+1`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, sexpr.KindFloat, nodes[0].Kind)
	require.Equal(t, float64(3.0), nodes[0].Float)
}

func TestParse_NanAndInfinity(t *testing.T) {
	nodes, err := sexpr.Parse(`nan infinity -infinity nan(0x4000000000000)`)
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	for _, n := range nodes {
		require.Equal(t, sexpr.KindFloat, n.Kind)
	}
}

func TestParse_QuotedStringWithEscapes(t *testing.T) {
	nodes, err := sexpr.Parse(`"a\nb\"c\5a"`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, sexpr.KindString, nodes[0].Kind)
	require.Equal(t, "a\nb\"c\x5a", nodes[0].Str)
}

func TestParse_NestedBlockComments(t *testing.T) {
	nodes, err := sexpr.Parse(`(module (; outer (; inner ;) still outer ;) (func))`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 2)
}

func TestParse_LineComment(t *testing.T) {
	nodes, err := sexpr.Parse("foo ;; trailing comment\nbar")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
}

func TestParse_MalformedTokenRecoversAsErrorNode(t *testing.T) {
	nodes, err := sexpr.Parse(`(good "unterminated` + "\n" + `later)`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.NotNil(t, sexpr.CollectErrors(nodes))
}

func TestRoundTrip_ParsePrintParse(t *testing.T) {
	src := `(module (func (result i32) (i32.const 42)) "a string" -17)`
	nodes, err := sexpr.Parse(src)
	require.NoError(t, err)

	printed := sexpr.Print(nodes)
	reparsed, err := sexpr.Parse(printed)
	require.NoError(t, err)
	require.Equal(t, nodes, reparsed)
}

func TestAttribute(t *testing.T) {
	nodes, err := sexpr.Parse(`align=2`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, sexpr.KindAttribute, nodes[0].Kind)
	require.Equal(t, "align", nodes[0].Children[0].Symbol)
	require.Equal(t, uint64(2), nodes[0].Children[1].UnsignedInt)
}
