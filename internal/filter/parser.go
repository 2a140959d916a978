package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Parse turns a filter expression into an evaluable tree. An empty or
// blank expression yields an always-true leaf ("no filter" mode).
//
// Grammar: clauses joined by a single conjunction symbol (& or |) per
// nesting level, grouped with parentheses. Leaf operators, checked in
// longest-match order: !=, !CONTAINS, !IN, !~, =, CONTAINS, IN, ~.
func Parse(expr string) (*Node, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &Node{Kind: KindLeaf, Pred: &Predicate{Op: True}}, nil
	}
	return parseExpr(expr)
}

func parseExpr(expr string) (*Node, error) {
	clauses, conjs := splitClauses(expr)

	hasAnd := strings.Contains(conjs, "&")
	hasOr := strings.Contains(conjs, "|")
	if hasAnd && hasOr {
		return nil, &ParseError{
			Expr:    expr,
			Message: "mixes '&' and '|' at the same nesting level; group with parentheses",
		}
	}

	if len(clauses) == 1 {
		clause := strings.TrimSpace(clauses[0])
		if inner, ok := stripOuterParens(clause); ok {
			return parseExpr(inner)
		}
		return parseLeaf(clause)
	}

	conj := And
	if hasOr {
		conj = Or
	}

	node := &Node{Kind: KindConj, Conj: conj}
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if inner, ok := stripOuterParens(clause); ok {
			clause = inner
		}
		child, err := parseExpr(clause)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// splitClauses splits an expression at conjunction symbols seen at
// parenthesis depth zero. Conjunction symbols themselves are collected
// into the returned string, in order.
func splitClauses(expr string) (clauses []string, conjs string) {
	depth := 0
	start := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '&', '|':
			if depth == 0 {
				clauses = append(clauses, expr[start:i])
				conjs += string(expr[i])
				start = i + 1
			}
		}
	}
	clauses = append(clauses, expr[start:])
	return clauses, conjs
}

// stripOuterParens removes one layer of enclosing parentheses if the
// clause is fully wrapped by a matching pair.
func stripOuterParens(clause string) (string, bool) {
	if len(clause) < 2 || clause[0] != '(' {
		return clause, false
	}
	depth := 0
	for i := 0; i < len(clause); i++ {
		switch clause[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if i != len(clause)-1 {
					return clause, false
				}
				return strings.TrimSpace(clause[1 : len(clause)-1]), true
			}
		}
	}
	return clause, false
}

// leafToken maps an operator token to its Op. Order matters: negated
// forms precede their positive forms, and CONTAINS precedes IN because
// "CONTAINS" contains the substring "IN".
var leafTokens = []struct {
	token string
	op    Op
}{
	{"!=", NE},
	{"!CONTAINS", NotContains},
	{"!IN", NotIn},
	{"!~", NotMatch},
	{"=", EQ},
	{"CONTAINS", Contains},
	{"IN", In},
	{"~", Match},
}

func parseLeaf(clause string) (*Node, error) {
	for _, lt := range leafTokens {
		if !strings.Contains(clause, lt.token) {
			continue
		}
		parts := strings.Split(clause, lt.token)
		if len(parts) != 2 {
			return nil, &ParseError{Expr: clause, Message: "non-binary expression"}
		}

		pred := &Predicate{
			Op:    lt.op,
			Key:   strings.TrimSpace(parts[0]),
			Value: strings.TrimSpace(parts[1]),
		}

		if lt.op == Match || lt.op == NotMatch {
			// Anchor at the start of the field value.
			re, err := regexp.Compile("^(?:" + pred.Value + ")")
			if err != nil {
				return nil, &ParseError{
					Expr:    clause,
					Message: fmt.Sprintf("bad pattern %q: %v", pred.Value, err),
				}
			}
			pred.re = re
		}

		return &Node{Kind: KindLeaf, Pred: pred}, nil
	}

	return nil, &ParseError{
		Expr:    clause,
		Message: "no recognized operator; valid operators are =, !=, ~, !~, IN, !IN, CONTAINS, !CONTAINS",
	}
}
