// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package linked

import (
	"errors"
	"fmt"
)

// ErrPhase is returned when a stage runs on an object that has not been
// through the stages it depends on.
var ErrPhase = errors.New("stage precondition not met")

// Phase records how far analysis has progressed on one object.
type Phase int

const (
	Unlinked Phase = iota
	Linked
	CodeDiscovered
	Analyzed
)

func (p Phase) String() string {
	switch p {
	case Unlinked:
		return "unlinked"
	case Linked:
		return "linked"
	case CodeDiscovered:
		return "code-discovered"
	case Analyzed:
		return "analyzed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Annotation is the analysis state attached to one database entry. The zero
// value is Unlinked.
type Annotation struct {
	phase  Phase
	object Object
}

func (a *Annotation) Phase() Phase {
	return a.phase
}

// Object returns the linked object, or an error wrapping ErrPhase if the
// annotation has not reached min.
func (a *Annotation) Object(min Phase) (Object, error) {
	if a.phase < min || a.object == nil {
		return nil, fmt.Errorf("%w: need %s, object is %s", ErrPhase, min, a.phase)
	}
	return a.object, nil
}

// SetLinked attaches the result of linking. Linking again replaces the
// object and resets the phase.
func (a *Annotation) SetLinked(obj Object) {
	a.object = obj
	a.phase = Linked
}

// Advance moves the annotation from one phase to the next. It fails if the
// annotation is not currently at from.
func (a *Annotation) Advance(from, to Phase) error {
	if a.phase != from || a.object == nil {
		return fmt.Errorf("%w: %s requires %s, object is %s", ErrPhase, to, from, a.phase)
	}
	a.phase = to
	return nil
}
