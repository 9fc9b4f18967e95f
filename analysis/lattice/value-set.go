package lattice

import (
	"math"

	"github.com/benbjohnson/immutable"
	"golang.org/x/exp/constraints"
)

// members is the read-only view shared by the enumerations of abstract values.
type members[T any] interface {
	Len() int
	ForEach(func(T))
}

// valueSet is a persistent, ordered set of concrete values backing the enumerated
// abstract value shapes, except for BooleanSet.
type valueSet[T constraints.Ordered] struct {
	mp *immutable.SortedMap[T, struct{}]
}

type (
	// orderedComparer compares values by their natural ordering.
	orderedComparer[T int64 | int | string] struct{}
	// floatComparer orders NaN below every number, and -0 below +0,
	// so that both are kept as distinct members.
	floatComparer struct{}
)

func (orderedComparer[T]) Compare(a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (floatComparer) Compare(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	case math.Signbit(a) && !math.Signbit(b):
		return -1
	case !math.Signbit(a) && math.Signbit(b):
		return 1
	}
	return 0
}

func makeValueSet[T constraints.Ordered](cmp immutable.Comparer[T], vs []T) valueSet[T] {
	mp := immutable.NewSortedMap[T, struct{}](cmp)
	for _, v := range vs {
		mp = mp.Set(v, struct{}{})
	}
	return valueSet[T]{mp}
}

func makeIntSet(vs []int64) valueSet[int64] {
	return makeValueSet[int64](orderedComparer[int64]{}, vs)
}

func makeDoubleSet(vs []float64) valueSet[float64] {
	return makeValueSet[float64](floatComparer{}, vs)
}

func makeStringSet(vs []string) valueSet[string] {
	return makeValueSet[string](orderedComparer[string]{}, vs)
}

func makeLenSet(vs []int) valueSet[int] {
	return makeValueSet[int](orderedComparer[int]{}, vs)
}

// Len returns the number of members.
func (s valueSet[T]) Len() int {
	if s.mp == nil {
		return 0
	}
	return s.mp.Len()
}

// Contains checks for membership.
func (s valueSet[T]) Contains(v T) bool {
	if s.mp == nil {
		return false
	}
	_, ok := s.mp.Get(v)
	return ok
}

// Values lists the members in ascending order.
func (s valueSet[T]) Values() []T {
	vs := make([]T, 0, s.Len())
	s.ForEach(func(v T) {
		vs = append(vs, v)
	})
	return vs
}

// ForEach visits the members in ascending order.
func (s valueSet[T]) ForEach(do func(T)) {
	if s.mp == nil {
		return
	}
	for itr := s.mp.Iterator(); !itr.Done(); {
		v, _, _ := itr.Next()
		do(v)
	}
}

// Forall checks that every member satisfies the predicate.
func (s valueSet[T]) Forall(pred func(T) bool) bool {
	if s.mp == nil {
		return true
	}
	for itr := s.mp.Iterator(); !itr.Done(); {
		v, _, _ := itr.Next()
		if !pred(v) {
			return false
		}
	}
	return true
}

// Exists checks that some member satisfies the predicate.
func (s valueSet[T]) Exists(pred func(T) bool) bool {
	return !s.Forall(func(v T) bool {
		return !pred(v)
	})
}

// Filter keeps the members satisfying the predicate.
func (s valueSet[T]) Filter(pred func(T) bool) valueSet[T] {
	res := s
	s.ForEach(func(v T) {
		if !pred(v) {
			res.mp = res.mp.Delete(v)
		}
	})
	return res
}

// Union computes s1 ∪ s2.
func (s1 valueSet[T]) Union(s2 valueSet[T]) valueSet[T] {
	switch {
	case s1.mp == nil:
		return s2
	case s2.mp == nil:
		return s1
	case s2.Len() > s1.Len():
		s1, s2 = s2, s1
	}

	res := s1
	s2.ForEach(func(v T) {
		if !res.Contains(v) {
			res.mp = res.mp.Set(v, struct{}{})
		}
	})
	return res
}

// Intersect computes s1 ∩ s2.
func (s1 valueSet[T]) Intersect(s2 valueSet[T]) valueSet[T] {
	return s1.Filter(s2.Contains)
}

// SubsetOf checks s1 ⊆ s2.
func (s1 valueSet[T]) SubsetOf(s2 valueSet[T]) bool {
	return s1.Len() <= s2.Len() && s1.Forall(s2.Contains)
}

// Eq checks whether both sets have the same members.
func (s1 valueSet[T]) Eq(s2 valueSet[T]) bool {
	return s1.Len() == s2.Len() && s1.Forall(s2.Contains)
}

// mapValues applies f to every member, dropping members for which f fails.
func mapValues[S members[T], T, U any](s S, f func(T) (U, bool)) []U {
	res := make([]U, 0, s.Len())
	s.ForEach(func(v T) {
		if u, ok := f(v); ok {
			res = append(res, u)
		}
	})
	return res
}

// boolSet is the enumeration backing BooleanSet.
type boolSet struct {
	hasFalse, hasTrue bool
}

func makeBoolSet(vs []bool) boolSet {
	var s boolSet
	for _, v := range vs {
		if v {
			s.hasTrue = true
		} else {
			s.hasFalse = true
		}
	}
	return s
}

func (s boolSet) Len() int {
	n := 0
	if s.hasFalse {
		n++
	}
	if s.hasTrue {
		n++
	}
	return n
}

func (s boolSet) Contains(v bool) bool {
	if v {
		return s.hasTrue
	}
	return s.hasFalse
}

// Values lists the members, false before true.
func (s boolSet) Values() []bool {
	vs := make([]bool, 0, s.Len())
	s.ForEach(func(v bool) {
		vs = append(vs, v)
	})
	return vs
}

func (s boolSet) ForEach(do func(bool)) {
	if s.hasFalse {
		do(false)
	}
	if s.hasTrue {
		do(true)
	}
}

func (s boolSet) Filter(pred func(bool) bool) boolSet {
	return boolSet{
		hasFalse: s.hasFalse && pred(false),
		hasTrue:  s.hasTrue && pred(true),
	}
}

func (s1 boolSet) Union(s2 boolSet) boolSet {
	return boolSet{s1.hasFalse || s2.hasFalse, s1.hasTrue || s2.hasTrue}
}

func (s1 boolSet) Intersect(s2 boolSet) boolSet {
	return boolSet{s1.hasFalse && s2.hasFalse, s1.hasTrue && s2.hasTrue}
}

func (s1 boolSet) SubsetOf(s2 boolSet) bool {
	return (!s1.hasFalse || s2.hasFalse) && (!s1.hasTrue || s2.hasTrue)
}

func (s1 boolSet) Eq(s2 boolSet) bool {
	return s1 == s2
}
