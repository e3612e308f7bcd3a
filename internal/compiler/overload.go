package compiler

import (
	"github.com/strandscript/libscript/internal/source"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// candidate is one viable overload: the function plus the per-slot
// conversion sequence overload resolution computed for it, including an implicit-object slot first
// when the candidate is a non-static member call.
type candidate struct {
	fn          *symbols.Function
	conversions []Conversion
	hasObject   bool
}

// resolveOverload implements the overload resolution: build
// the viable set from candidates against argTypes (with objType supplying
// the implicit-object argument for non-static members), pick the
// candidate that is no worse in every slot and strictly better in at
// least one, and tie-break non-template over template. Returns the
// chosen function plus its per-argument conversion sequences (excluding
// the implicit-object slot).
func (c *Compiler) resolveOverload(fns []*symbols.Function, objType *types.Type, argTypes []types.Type, scope *symbols.Scope, sp source.Span) (*symbols.Function, []Conversion, *Error) {
	var viable []candidate
	for _, fn := range fns {
		cand, ok := c.viabilityOf(fn, objType, argTypes, scope)
		if ok {
			viable = append(viable, cand)
		}
	}
	if len(viable) == 0 {
		return nil, nil, c.Session.report(NoViableOverload, sp, "no viable overload for call with %d argument(s)", len(argTypes))
	}
	best := viable[0]
	ambiguous := false
	for _, cand := range viable[1:] {
		switch compareCandidates(best, cand) {
		case 1:
			// best stays
		case -1:
			best = cand
			ambiguous = false
		default:
			if preferCandidate(best, cand) {
				// keep best
			} else if preferCandidate(cand, best) {
				best = cand
				ambiguous = false
			} else {
				ambiguous = true
			}
		}
	}
	if ambiguous {
		return nil, nil, c.Session.report(AmbiguousOverloadCall, sp, "call is ambiguous among %d candidates", len(viable))
	}
	if best.fn.Flags.Deleted {
		return nil, nil, c.Session.report(DeletedFunctionCalled, sp, "call to deleted function %q", best.fn.Name)
	}
	objConvs := best.conversions
	if best.hasObject {
		objConvs = best.conversions[1:]
	}
	return best.fn, objConvs, nil
}

// viabilityOf checks argument-count and per-slot convertibility for one
// candidate, prepending the implicit-object slot when fn is a non-static
// member and objType is supplied.
func (c *Compiler) viabilityOf(fn *symbols.Function, objType *types.Type, argTypes []types.Type, scope *symbols.Scope) (candidate, bool) {
	params := fn.Prototype.Params
	hasObject := objType != nil && !fn.Flags.Static && len(params) > 0 && params[0].IsThisParameter()

	n := len(argTypes)
	calleeParams := params
	if hasObject {
		calleeParams = params[1:]
	}
	minArgs := fn.MinArgs()
	if hasObject {
		minArgs--
	}
	if n < minArgs || n > len(calleeParams) {
		return candidate{}, false
	}

	var convs []Conversion
	if hasObject {
		oc := c.computeConversion(*objType, params[0], scope)
		if !oc.ok() {
			return candidate{}, false
		}
		convs = append(convs, oc)
	}
	for i, pt := range calleeParams {
		var argType types.Type
		if i < n {
			argType = argTypes[i]
		} else if def, ok := fn.DefaultFor(i + len(params) - len(calleeParams)); ok {
			argType = def.ExprType()
		} else {
			return candidate{}, false
		}
		conv := c.computeConversion(argType, pt, scope)
		if !conv.ok() {
			return candidate{}, false
		}
		convs = append(convs, conv)
	}
	return candidate{fn: fn, conversions: convs, hasObject: hasObject}, true
}

// compareCandidates returns 1 if a is at least as good as b in every slot
// and strictly better in one, -1 for the reverse, 0 otherwise (tie or
// incomparable).
func compareCandidates(a, b candidate) int {
	aBetter, bBetter := false, false
	n := len(a.conversions)
	if len(b.conversions) < n {
		n = len(b.conversions)
	}
	for i := 0; i < n; i++ {
		ar, br := a.conversions[i].rank(), b.conversions[i].rank()
		switch {
		case ar < br:
			aBetter = true
		case ar > br:
			bBetter = true
		}
	}
	switch {
	case aBetter && !bBetter:
		return 1
	case bBetter && !aBetter:
		return -1
	default:
		return 0
	}
}

// preferCandidate implements the tie-break order: a non-template is
// preferred over a template instance. Only the template-origin flag
// participates: two template instances are not partially ordered against
// each other, so a tie between them is reported as ambiguous.
func preferCandidate(a, b candidate) bool {
	return a.fn.TemplateOrigin == nil && b.fn.TemplateOrigin != nil
}
