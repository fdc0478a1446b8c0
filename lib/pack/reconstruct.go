// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import "fmt"

// reconstruct implements the three-stage rebuild pipeline of spec
// §4.4: construct via callable.New(args), then apply state, extend,
// and update in that fixed order when present. Each stage tries its
// primary interface first and falls back to the secondary one,
// mirroring __PyObject_SetState / __PyObject_Extend / __PyObject_Update
// in the reference implementation.
func reconstruct(callable any, args Tuple, state, extend, update any) (any, error) {
	class, ok := callable.(Class)
	if !ok {
		return nil, fmt.Errorf("%w: INSTANCE callable %T is not a registered Class", ErrBadReduce, callable)
	}
	value, err := class.New(args)
	if err != nil {
		return nil, fmt.Errorf("%w: constructing %s.%s: %v", ErrBadState, class.ClassRef().Module, class.ClassRef().Qualname, err)
	}

	if state != nil {
		if err := applyState(value, state); err != nil {
			return nil, err
		}
	}
	if extend != nil {
		if err := applyExtend(value, extend); err != nil {
			return nil, err
		}
	}
	if update != nil {
		if err := applyUpdate(value, update); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func applyState(value, state any) error {
	if s, ok := value.(StateSetter); ok {
		if err := s.SetState(state); err != nil {
			return fmt.Errorf("%w: SetState: %v", ErrBadState, err)
		}
		return nil
	}
	if d, ok := value.(DictMerger); ok {
		stateDict, ok := state.(Dict)
		if !ok {
			return fmt.Errorf("%w: state is not a Dict and %T has no SetState", ErrBadState, value)
		}
		if err := d.MergeState(stateDict); err != nil {
			return fmt.Errorf("%w: MergeState: %v", ErrBadState, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %T implements neither StateSetter nor DictMerger", ErrBadState, value)
}

func applyExtend(value, extend any) error {
	if e, ok := value.(Extender); ok {
		if err := e.Extend(extend); err != nil {
			return fmt.Errorf("%w: Extend: %v", ErrBadState, err)
		}
		return nil
	}
	if c, ok := value.(ConcatAdder); ok {
		if err := c.ConcatOrAdd(extend); err != nil {
			return fmt.Errorf("%w: ConcatOrAdd: %v", ErrBadState, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %T implements neither Extender nor ConcatAdder", ErrBadState, value)
}

func applyUpdate(value, update any) error {
	if u, ok := value.(Updater); ok {
		if err := u.Update(update); err != nil {
			return fmt.Errorf("%w: Update: %v", ErrBadState, err)
		}
		return nil
	}
	setter, ok := value.(PairSetter)
	if !ok {
		return fmt.Errorf("%w: %T implements neither Updater nor PairSetter", ErrBadState, value)
	}
	pairs, err := asPairs(update)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if err := setter.Set(p.Key, p.Value); err != nil {
			return fmt.Errorf("%w: Set: %v", ErrBadState, err)
		}
	}
	return nil
}

// asPairs iterates update as either a Dict (its entries directly) or a
// Tuple/List of two-element Tuple/List pairs, the two shapes Python
// code passes to dict.update().
func asPairs(update any) ([]DictEntry, error) {
	switch u := update.(type) {
	case Dict:
		return u, nil
	case Tuple:
		return pairsFromSequence(u)
	case List:
		return pairsFromSequence(u)
	default:
		return nil, fmt.Errorf("%w: update argument %T is not a Dict, Tuple, or List", ErrBadState, update)
	}
}

func pairsFromSequence(items []any) ([]DictEntry, error) {
	pairs := make([]DictEntry, 0, len(items))
	for _, item := range items {
		var pair []any
		switch p := item.(type) {
		case Tuple:
			pair = p
		case List:
			pair = p
		default:
			return nil, fmt.Errorf("%w: update element %T is not a pair", ErrBadState, item)
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: update element has %d items, want 2", ErrBadState, len(pair))
		}
		pairs = append(pairs, DictEntry{Key: pair[0], Value: pair[1]})
	}
	return pairs, nil
}
