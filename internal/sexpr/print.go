package sexpr

import (
	"strconv"
	"strings"

	"github.com/wazevo-emit/ssaemit/internal/numeric"
)

// Print renders nodes back to source text flat (one line, WAVM's own
// printer does not pretty-print either), such that Parse(Print(nodes))
// yields a structurally equal tree — the round-trip property spec.md §8
// requires. This is the supplemented printer SPEC_FULL.md §2 adds; §4.7
// of spec.md only specifies the parse direction.
func Print(nodes []*Node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		printNode(&sb, n)
	}
	return sb.String()
}

func printNode(sb *strings.Builder, n *Node) {
	switch n.Kind {
	case KindTree:
		sb.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			printNode(sb, c)
		}
		sb.WriteByte(')')
	case KindAttribute:
		printNode(sb, n.Children[0])
		sb.WriteByte('=')
		printNode(sb, n.Children[1])
	case KindSymbol, KindUnindexedSymbol:
		sb.WriteString(n.Symbol)
	case KindString:
		sb.WriteByte('"')
		sb.WriteString(escapeString(n.Str))
		sb.WriteByte('"')
	case KindSignedInt:
		sb.WriteString(strconv.FormatInt(n.SignedInt, 10))
	case KindUnsignedInt:
		sb.WriteString(strconv.FormatUint(n.UnsignedInt, 10))
	case KindFloat:
		sb.WriteString(numeric.PrintHexFloat(numeric.EncodeF64(n.Float)))
	case KindError:
		sb.WriteString(n.Err)
	}
}

func escapeString(s string) string {
	var sb strings.Builder
	for _, c := range []byte(s) {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c < 0x20 || c > 0x7e:
			sb.WriteByte('\\')
			sb.WriteByte(nibbleToHex(c >> 4))
			sb.WriteByte(nibbleToHex(c & 0x0f))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func nibbleToHex(v byte) byte {
	if v < 10 {
		return '0' + v
	}
	return 'a' + v - 10
}
