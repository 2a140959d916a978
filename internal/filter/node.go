// Package filter parses and evaluates boolean expressions over VEP
// annotation maps.
package filter

import (
	"fmt"
	"regexp"
	"sync/atomic"
)

// Conj is a conjunction operator joining clauses at one nesting level.
type Conj int

const (
	And Conj = iota
	Or
)

func (c Conj) String() string {
	if c == And {
		return "&"
	}
	return "|"
}

// Op is a leaf comparison operator.
type Op int

const (
	// True always passes; it backs the empty "no filter" expression.
	True Op = iota
	EQ
	NE
	Match
	NotMatch
	In
	NotIn
	Contains
	NotContains
)

// Kind discriminates the two node shapes.
type Kind int

const (
	KindConj Kind = iota
	KindLeaf
)

// Node is one node of a parsed filter expression: either a conjunction
// over two or more children, or a leaf predicate. A parsed tree is
// immutable and safe to share across goroutines.
type Node struct {
	Kind     Kind
	Conj     Conj    // conjunction nodes only
	Children []*Node // conjunction nodes only
	Pred     *Predicate
}

// Predicate is a leaf comparison: an operator, an annotation key, and a
// comparison value. Match predicates carry their pattern compiled at
// parse time, anchored at the start of the field value.
type Predicate struct {
	Op    Op
	Key   string
	Value string

	re *regexp.Regexp

	// keyChecked memoizes the one-time verification that Key exists in
	// the annotations being evaluated. Set once, never reset.
	keyChecked atomic.Bool
}

// ParseError reports a grammar violation in a filter expression.
type ParseError struct {
	Expr    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid filter expression %q: %s", e.Expr, e.Message)
}

// LookupError reports a filter leaf referencing an annotation field the
// input does not declare.
type LookupError struct {
	Key string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("annotation field %q not present in input annotations", e.Key)
}
