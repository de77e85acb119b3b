package lr

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
)

// === Items =================================================================

// Item is an LR(0) item, i.e. a rule with a dot position
//
//     A  -->  X1 … Xi • Xi+1 … Xn
//
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns the initial item for a rule, together with the symbol
// after the dot.
func StartItem(r *Rule) (Item, *Symbol) {
	i := Item{rule: r}
	return i, i.PeekSymbol()
}

// Rule returns the item's rule.
func (i Item) Rule() *Rule {
	return i.rule
}

// PeekSymbol returns the symbol after the dot, or nil if the item is complete.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Advance moves the dot one position to the right.
func (i Item) Advance() Item {
	if i.dot < len(i.rule.rhs) {
		i.dot++
	}
	return i
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("[%s] ::= [", i.rule.LHS.Name))
	for k, A := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" •")
		}
		b.WriteString(" " + A.Name)
	}
	if i.dot == len(i.rule.rhs) {
		b.WriteString(" •")
	}
	b.WriteString(" ]")
	return b.String()
}

// itemComparator orders items by rule serial, then by dot position.
func itemComparator(x, y interface{}) int {
	i, j := asItem(x), asItem(y)
	if i.rule.Serial != j.rule.Serial {
		if i.rule.Serial < j.rule.Serial {
			return -1
		}
		return 1
	}
	return i.dot - j.dot
}

func asItem(x interface{}) Item {
	return x.(Item)
}

func newItemSet(items ...interface{}) *treeset.Set {
	set := treeset.NewWith(itemComparator)
	set.Add(items...)
	return set
}

// itemSetsEqual compares two item sets. Both are sorted, therefore a pairwise
// comparison suffices.
func itemSetsEqual(a, b *treeset.Set) bool {
	if a.Size() != b.Size() {
		return false
	}
	ia, ib := a.Iterator(), b.Iterator()
	for ia.Next() && ib.Next() {
		if itemComparator(ia.Value(), ib.Value()) != 0 {
			return false
		}
	}
	return true
}

// Dump is a debugging helper for item sets.
func Dump(iset *treeset.Set) {
	for _, x := range iset.Values() {
		tracer().Debugf("    %s", asItem(x))
	}
}

// === Grammar Analysis ======================================================

// LRAnalysis is an object for grammar analysis. It computes the FIRST and
// FOLLOW sets of a grammar and determines all epsilon-derivable non-terminals.
type LRAnalysis struct {
	g        *Grammar
	nullable map[*Symbol]bool
	first    map[*Symbol]*treeset.Set
	follow   map[*Symbol]*treeset.Set
}

// Analysis creates an analysis object for a grammar and performs the analysis.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:        g,
		nullable: make(map[*Symbol]bool),
		first:    make(map[*Symbol]*treeset.Set),
		follow:   make(map[*Symbol]*treeset.Set),
	}
	g.EachSymbol(func(A *Symbol) interface{} {
		ga.first[A] = treeset.NewWithIntComparator()
		ga.follow[A] = treeset.NewWithIntComparator()
		if A.IsTerminal() {
			ga.first[A].Add(A.Value)
		}
		return nil
	})
	ga.computeFirstSets()
	ga.computeFollowSets()
	return ga
}

// Grammar returns the grammar this analysis is for.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// Nullable is true if A derives the empty string.
func (ga *LRAnalysis) Nullable(A *Symbol) bool {
	return ga.nullable[A]
}

// First returns FIRST(A) as a slice of token values, ordered.
func (ga *LRAnalysis) First(A *Symbol) []int {
	return intValues(ga.first[A])
}

// Follow returns FOLLOW(A) as a slice of token values, ordered.
func (ga *LRAnalysis) Follow(A *Symbol) []int {
	return intValues(ga.follow[A])
}

func intValues(set *treeset.Set) []int {
	if set == nil {
		return nil
	}
	vals := make([]int, 0, set.Size())
	for _, v := range set.Values() {
		vals = append(vals, v.(int))
	}
	return vals
}

// addAll adds all elements of src to dst and reports if dst grew.
func addAll(dst, src *treeset.Set) bool {
	n := dst.Size()
	dst.Add(src.Values()...)
	return dst.Size() > n
}

func (ga *LRAnalysis) computeFirstSets() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			A := r.LHS
			allNullable := true
			for _, X := range r.rhs {
				if addAll(ga.first[A], ga.first[X]) {
					changed = true
				}
				if !ga.nullable[X] {
					allNullable = false
					break
				}
			}
			if allNullable && !ga.nullable[A] {
				ga.nullable[A] = true
				changed = true
			}
		}
	}
}

func (ga *LRAnalysis) computeFollowSets() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			for k, B := range r.rhs {
				if B.IsTerminal() {
					continue
				}
				restNullable := true
				for _, X := range r.rhs[k+1:] {
					if addAll(ga.follow[B], ga.first[X]) {
						changed = true
					}
					if !ga.nullable[X] {
						restNullable = false
						break
					}
				}
				if restNullable && addAll(ga.follow[B], ga.follow[r.LHS]) {
					changed = true
				}
			}
		}
	}
	tracer().Debugf("FOLLOW sets computed for grammar %s", ga.g.Name)
}

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// closure computes the closure of a single item.
func (ga *LRAnalysis) closure(i Item) *treeset.Set {
	return ga.closureSet(newItemSet(i))
}

// closureSet computes the closure of an item set, using a worklist.
func (ga *LRAnalysis) closureSet(S *treeset.Set) *treeset.Set {
	C := newItemSet(S.Values()...)
	work := S.Values()
	for len(work) > 0 {
		item := asItem(work[len(work)-1])
		work = work[:len(work)-1]
		A := item.PeekSymbol()
		if A == nil || A.IsTerminal() {
			continue
		}
		for _, r := range ga.g.FindNonTermRules(A) {
			start, _ := StartItem(r)
			if !C.Contains(start) {
				C.Add(start)
				work = append(work, start)
			}
		}
	}
	return C
}

// gotoSet computes the kernel of goto(C, A): for every item N -> … •A …
// in C, the item N -> … A• ….
func (ga *LRAnalysis) gotoSet(C *treeset.Set, A *Symbol) *treeset.Set {
	gotoset := newItemSet()
	for _, x := range C.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			gotoset.Add(i.Advance())
		}
	}
	return gotoset
}

func (ga *LRAnalysis) gotoSetClosure(C *treeset.Set, A *Symbol) *treeset.Set {
	return ga.closureSet(ga.gotoSet(C, A))
}
