package assembler

import (
	"fmt"
	"strings"

	"github.com/dark-rv32i/sim/obj"
)

var relOpPrefixes = []struct {
	prefix string
	op     obj.RelOp
}{
	{"%pcrel_hi", obj.PCRelHI},
	{"%pcrel_lo", obj.PCRelLO},
	{"%hi", obj.HI},
	{"%lo", obj.LO},
}

// parseImmExpr parses an operand token into an Immediate: a %hi/%lo/
// %pcrel_hi/%pcrel_lo-wrapped expression, or a flat left fold of
// integer literals and/or symbol references joined by '+'/'-', per
// spec.md §3's Immediate model.
func parseImmExpr(tok string) (*obj.Immediate, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, fmt.Errorf("empty immediate")
	}
	for _, rp := range relOpPrefixes {
		prefix := rp.prefix + "("
		if strings.HasPrefix(tok, prefix) && strings.HasSuffix(tok, ")") {
			inner := tok[len(prefix) : len(tok)-1]
			innerImm, err := parseImmExpr(inner)
			if err != nil {
				return nil, err
			}
			return obj.Relocate(rp.op, innerImm), nil
		}
	}

	terms, err := splitAdditiveTerms(tok)
	if err != nil {
		return nil, err
	}
	if len(terms) == 1 {
		return parseImmAtom(terms[0].text)
	}
	elems := make([]obj.TreeElem, len(terms))
	for i, t := range terms {
		atom, err := parseImmAtom(t.text)
		if err != nil {
			return nil, err
		}
		elems[i] = obj.TreeElem{Op: t.op, Value: atom}
	}
	return obj.NewTree(elems...), nil
}

type additiveTerm struct {
	op   obj.TreeOp
	text string
}

// splitAdditiveTerms splits s at top-level '+'/'-' operators, treating
// a leading '-' (or '+') as part of the first term rather than an
// operator, so "-4" and "label-4" both parse sensibly.
func splitAdditiveTerms(s string) ([]additiveTerm, error) {
	var terms []additiveTerm
	start := 0
	op := obj.Add
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '+' || c == '-') && i > start {
			terms = append(terms, additiveTerm{op: op, text: strings.TrimSpace(s[start:i])})
			if c == '+' {
				op = obj.Add
			} else {
				op = obj.Sub
			}
			start = i + 1
		}
	}
	terms = append(terms, additiveTerm{op: op, text: strings.TrimSpace(s[start:])})
	for _, t := range terms {
		if t.text == "" {
			return nil, fmt.Errorf("malformed immediate expression %q", s)
		}
	}
	return terms, nil
}

func parseImmAtom(text string) (*obj.Immediate, error) {
	if v, err := parseIntLiteral(text); err == nil {
		return obj.Int32(int32(v)), nil
	}
	if !obj.ValidLabelName(text) {
		return nil, fmt.Errorf("invalid immediate or symbol %q", text)
	}
	return obj.SymRef(text), nil
}
