package filter

import (
	"fmt"
	"strings"
)

// Eval evaluates the tree against one annotation map. AND nodes are
// true iff every child is true, OR nodes iff any child is true, both
// short-circuiting in child order. A leaf referencing a field absent
// from the annotation fails with a LookupError; the presence check runs
// once per leaf and is then skipped for the rest of the run.
func (n *Node) Eval(ann map[string]string) (bool, error) {
	switch n.Kind {
	case KindConj:
		switch n.Conj {
		case And:
			for _, child := range n.Children {
				ok, err := child.Eval(ann)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
			}
			return true, nil
		case Or:
			for _, child := range n.Children {
				ok, err := child.Eval(ann)
				if err != nil {
					return false, err
				}
				if ok {
					return true, nil
				}
			}
			return false, nil
		}
		return false, fmt.Errorf("unknown conjunction operator %d", n.Conj)
	case KindLeaf:
		return n.Pred.eval(ann)
	}
	return false, fmt.Errorf("unknown node kind %d", n.Kind)
}

func (p *Predicate) eval(ann map[string]string) (bool, error) {
	if p.Op == True {
		return true, nil
	}

	if !p.keyChecked.Load() {
		if _, ok := ann[p.Key]; !ok {
			return false, &LookupError{Key: p.Key}
		}
		p.keyChecked.Store(true)
	}
	field := ann[p.Key]

	switch p.Op {
	case EQ:
		return field == p.Value, nil
	case NE:
		return field != p.Value, nil
	case Match:
		return p.re.MatchString(field), nil
	case NotMatch:
		return !p.re.MatchString(field), nil
	case In:
		return contains(strings.Split(p.Value, ","), field), nil
	case NotIn:
		return !contains(strings.Split(p.Value, ","), field), nil
	case Contains:
		return contains(strings.Split(field, ","), p.Value), nil
	case NotContains:
		return !contains(strings.Split(field, ","), p.Value), nil
	}
	return false, fmt.Errorf("unknown leaf operator %d", p.Op)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
