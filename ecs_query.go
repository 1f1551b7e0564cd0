package wgpustein

import (
	"fmt"
	"reflect"
	"slices"
)

// To get more queries:
//  1. Add QueryN and MakeQueryN
//  2. Copy MapN-1() and pull one more column in the open callback
type Query1[A any] struct {
	ecs    *Ecs
	filter queryFilter
}
type Query2[A, B any] struct {
	ecs    *Ecs
	filter queryFilter
}
type Query3[A, B, C any] struct {
	ecs    *Ecs
	filter queryFilter
}

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

// ChangeCursor remembers the last tick a Changed query observed. Keep one per
// consumer; a zero cursor reports every component as changed.
type ChangeCursor struct {
	last uint64
}

func (c *ChangeCursor) Reset() { c.last = 0 }

type queryFilter struct {
	with    []any
	without []any
	changed *ChangeCursor
}

func (f queryFilter) withTypes(components []any) queryFilter {
	f.with = slices.Concat(f.with, components)
	return f
}

func (f queryFilter) withoutTypes(components []any) queryFilter {
	f.without = slices.Concat(f.without, components)
	return f
}

// WithTypes restricts matches to entities that also carry every listed component.
func (q Query1[A]) WithTypes(components ...any) Query1[A] {
	q.filter = q.filter.withTypes(components)
	return q
}

// WithoutTypes excludes entities carrying any of the listed components.
func (q Query1[A]) WithoutTypes(components ...any) Query1[A] {
	q.filter = q.filter.withoutTypes(components)
	return q
}

// Changed restricts matches to entities whose A component was written after
// the cursor's last observation. The cursor advances when the iteration ends.
func (q Query1[A]) Changed(cursor *ChangeCursor) Query1[A] {
	q.filter.changed = cursor
	return q
}

func (q Query2[A, B]) WithTypes(components ...any) Query2[A, B] {
	q.filter = q.filter.withTypes(components)
	return q
}

func (q Query2[A, B]) WithoutTypes(components ...any) Query2[A, B] {
	q.filter = q.filter.withoutTypes(components)
	return q
}

func (q Query2[A, B]) Changed(cursor *ChangeCursor) Query2[A, B] {
	q.filter.changed = cursor
	return q
}

func (q Query3[A, B, C]) WithTypes(components ...any) Query3[A, B, C] {
	q.filter = q.filter.withTypes(components)
	return q
}

func (q Query3[A, B, C]) WithoutTypes(components ...any) Query3[A, B, C] {
	q.filter = q.filter.withoutTypes(components)
	return q
}

func (q Query3[A, B, C]) Changed(cursor *ChangeCursor) Query3[A, B, C] {
	q.filter.changed = cursor
	return q
}

// Map visits every match in archetype creation order, then row order. The
// visited components are marked changed; use MapRead to only observe.
// Components listed in optionals may be absent and are passed as nil.
func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	q.map1(true, m, optionals)
}

func (q Query1[A]) MapRead(m func(EntityId, *A) bool, optionals ...any) {
	q.map1(false, m, optionals)
}

func (q Query1[A]) map1(mark bool, m func(EntityId, *A) bool, optionals []any) {
	id1 := identifyComponents1[A](q.ecs)
	scanArchetypes(q.ecs, q.filter, []componentId{id1}, optionals, mark, func(arch *archetype) func(EntityId, row) bool {
		comps1 := column[A](arch, id1)
		return func(entityId EntityId, r row) bool {
			return m(entityId, at(comps1, r))
		}
	})
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	q.map2(true, m, optionals)
}

func (q Query2[A, B]) MapRead(m func(EntityId, *A, *B) bool, optionals ...any) {
	q.map2(false, m, optionals)
}

func (q Query2[A, B]) map2(mark bool, m func(EntityId, *A, *B) bool, optionals []any) {
	id1, id2 := identifyComponents2[A, B](q.ecs)
	scanArchetypes(q.ecs, q.filter, []componentId{id1, id2}, optionals, mark, func(arch *archetype) func(EntityId, row) bool {
		comps1 := column[A](arch, id1)
		comps2 := column[B](arch, id2)
		return func(entityId EntityId, r row) bool {
			return m(entityId, at(comps1, r), at(comps2, r))
		}
	})
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	q.map3(true, m, optionals)
}

func (q Query3[A, B, C]) MapRead(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	q.map3(false, m, optionals)
}

func (q Query3[A, B, C]) map3(mark bool, m func(EntityId, *A, *B, *C) bool, optionals []any) {
	id1, id2, id3 := identifyComponents3[A, B, C](q.ecs)
	scanArchetypes(q.ecs, q.filter, []componentId{id1, id2, id3}, optionals, mark, func(arch *archetype) func(EntityId, row) bool {
		comps1 := column[A](arch, id1)
		comps2 := column[B](arch, id2)
		comps3 := column[C](arch, id3)
		return func(entityId EntityId, r row) bool {
			return m(entityId, at(comps1, r), at(comps2, r), at(comps3, r))
		}
	})
}

// Count returns the number of matches. It does not advance a Changed cursor.
func (q Query1[A]) Count() int {
	q.filter.changed = peekCursor(q.filter.changed)
	n := 0
	q.MapRead(func(EntityId, *A) bool { n++; return true })
	return n
}

func (q Query2[A, B]) Count() int {
	q.filter.changed = peekCursor(q.filter.changed)
	n := 0
	q.MapRead(func(EntityId, *A, *B) bool { n++; return true })
	return n
}

// Single returns the only match. Zero or several matches yield
// ErrCardinality; with several, the first match is still returned.
func (q Query1[A]) Single() (EntityId, *A, error) {
	var (
		id    EntityId
		a     *A
		count int
	)
	q.MapRead(func(entityId EntityId, comp *A) bool {
		if count == 0 {
			id, a = entityId, comp
		}
		count++
		return true
	})
	if count != 1 {
		return id, a, fmt.Errorf("%d matches for %v: %w", count, reflect.TypeFor[A](), ErrCardinality)
	}
	return id, a, nil
}

func (q Query2[A, B]) Single() (EntityId, *A, *B, error) {
	var (
		id    EntityId
		a     *A
		b     *B
		count int
	)
	q.MapRead(func(entityId EntityId, compA *A, compB *B) bool {
		if count == 0 {
			id, a, b = entityId, compA, compB
		}
		count++
		return true
	})
	if count != 1 {
		return id, a, b, fmt.Errorf("%d matches for (%v, %v): %w", count, reflect.TypeFor[A](), reflect.TypeFor[B](), ErrCardinality)
	}
	return id, a, b, nil
}

func peekCursor(c *ChangeCursor) *ChangeCursor {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func scanArchetypes(
	ecs *Ecs,
	filter queryFilter,
	ids []componentId,
	optionals []any,
	mark bool,
	open func(arch *archetype) func(EntityId, row) bool,
) {
	opt := identifyOptionals(ecs, optionals...)
	with := identifyOptionals(ecs, filter.with...)
	without := identifyOptionals(ecs, filter.without...)

	var since uint64
	if filter.changed != nil {
		since = filter.changed.last
		defer func() { filter.changed.last = ecs.tick }()
	}

	for _, arch := range ecs.archetypeOrder {
		if !archetypeMatches(arch, ids, opt, with, without) {
			continue
		}
		var changedTicks []uint64
		if filter.changed != nil {
			var ok bool
			if changedTicks, ok = arch.changed[ids[0]]; !ok {
				continue
			}
		}

		visit := open(arch)
		for i, entityId := range arch.rows {
			if !arch.alive[i] {
				continue
			}
			r := row(i)
			if changedTicks != nil && changedTicks[r] <= since {
				continue
			}
			if !visit(entityId, r) {
				if mark {
					markRow(ecs, arch, ids, r)
				}
				return
			}
			if mark {
				markRow(ecs, arch, ids, r)
			}
		}
	}
}

func archetypeMatches(arch *archetype, ids []componentId, opt, with, without set[componentId]) bool {
	for _, id := range ids {
		if _, ok := arch.componentData[id]; !ok {
			if _, optional := opt[id]; !optional {
				return false
			}
		}
	}
	for id := range with {
		if _, ok := arch.componentData[id]; !ok {
			return false
		}
	}
	for id := range without {
		if _, ok := arch.componentData[id]; ok {
			return false
		}
	}
	return true
}

func markRow(ecs *Ecs, arch *archetype, ids []componentId, r row) {
	for _, id := range ids {
		if ticks, ok := arch.changed[id]; ok {
			ticks[r] = ecs.tick
		}
	}
}

func column[T any](arch *archetype, id componentId) []T {
	if data, ok := arch.componentData[id]; ok {
		return data.([]T)
	}
	return nil
}

func at[T any](comps []T, r row) *T {
	if comps == nil {
		return nil
	}
	return &comps[r]
}

func identifyComponents1[A any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeFor[A]())
}

func identifyComponents2[A, B any](ecs *Ecs) (componentId, componentId) {
	return identifyComponents1[A](ecs), identifyComponents1[B](ecs)
}

func identifyComponents3[A, B, C any](ecs *Ecs) (componentId, componentId, componentId) {
	id1, id2 := identifyComponents2[A, B](ecs)
	return id1, id2, identifyComponents1[C](ecs)
}

func identifyOptionals(ecs *Ecs, optionals ...any) set[componentId] {
	res := make(set[componentId], len(optionals))
	for _, o := range optionals {
		res[ecs.getComponentId(componentTypeOf(o))] = struct{}{}
	}
	return res
}
