package template

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// Ordering is the four-valued partial-ordering result CompareFunctionTemplates
// returns for two otherwise-viable function template candidates. Class-template
// partial specializations are not ordered: selectClassSpecialization reports
// more than one matching specialization as ambiguous.
type Ordering int

const (
	NotComparable Ordering = iota
	Indistinguishable
	FirstMoreSpecialized
	SecondMoreSpecialized
)

// combine intersects two "is at least as specialized" booleans into the
// four-valued result via a commutative table: both directions
// succeeding is a tie, neither is incomparable.
func combine(aAcceptsB, bAcceptsA bool) Ordering {
	switch {
	case aAcceptsB && bAcceptsA:
		return Indistinguishable
	case aAcceptsB:
		return SecondMoreSpecialized // a can be called with b's synthesized args: a is more general, b more specialized
	case bAcceptsA:
		return FirstMoreSpecialized
	default:
		return NotComparable
	}
}

// probeCounter hands out unique opaque "probe" class codes a deduction can
// never confuse with a real program type. Probes exist only for the
// duration of one ordering comparison.
type probeCounter struct{ next uint16 }

func (p *probeCounter) next_() types.Type {
	t := types.Type{Kind: types.KindClosure, Code: 0xF000 + p.next}
	p.next++
	return t
}

// CompareFunctionTemplates orders two function templates competing for the
// same call, given each one's declared parameter list. A template is
// "at-least-as-specialized" as another when its parameter patterns can be
// deduced from synthetic unique arguments built from the other's own
// parameter patterns.
func (e *Engine) CompareFunctionTemplates(a *symbols.Template, aParams []*ast.ParameterDeclaration, b *symbols.Template, bParams []*ast.ParameterDeclaration) Ordering {
	aAcceptsB := e.acceptsSynthesizedArgs(a, aParams, b, bParams)
	bAcceptsA := e.acceptsSynthesizedArgs(b, bParams, a, aParams)
	return combine(aAcceptsB, bAcceptsA)
}

// acceptsSynthesizedArgs reports whether target's parameter patterns can
// be deduced successfully against argument types synthesized from
// source's own pattern (source's template parameters replaced by unique
// probes, everything else resolved as a concrete type).
func (e *Engine) acceptsSynthesizedArgs(target *symbols.Template, targetParams []*ast.ParameterDeclaration, source *symbols.Template, sourceParams []*ast.ParameterDeclaration) bool {
	if len(targetParams) != len(sourceParams) {
		return false
	}
	probes := probeCounter{}
	sourceNames := paramNames(source.Parameters)
	probeFor := make(map[string]types.Type, len(source.Parameters))
	argTypes := make([]types.Type, len(sourceParams))
	for i, p := range sourceParams {
		argTypes[i] = e.synthesizeArg(p.Type, sourceNames, probeFor, &probes)
	}
	targetNames := paramNames(target.Parameters)
	d := newDeduction()
	for i, p := range targetParams {
		if !deduceParameterType(p.Type, argTypes[i], targetNames, d, e.Types) {
			return false
		}
	}
	return true
}

// synthesizeArg builds a concrete Type standing in for pattern: a bare
// reference to one of source's own template parameters becomes a unique
// probe type (memoized so repeated uses of the same parameter synthesize
// the same probe); anything else is resolved as a genuine type via the
// engine's Resolver.
func (e *Engine) synthesizeArg(pattern ast.TypeNode, sourceParams map[string]bool, probeFor map[string]types.Type, probes *probeCounter) types.Type {
	if named, ok := pattern.(*ast.NamedType); ok {
		if simple, ok := named.Name.(*ast.SimpleIdentifier); ok && sourceParams[simple.Name] {
			probe, ok := probeFor[simple.Name]
			if !ok {
				probe = probes.next_()
				probeFor[simple.Name] = probe
			}
			if named.Ref != ast.NoRef {
				probe = probe.WithReference(true)
			}
			if named.Const {
				probe = probe.WithConst(true)
			}
			return probe
		}
	}
	if e.Resolver == nil {
		return probes.next_()
	}
	t, err := e.Resolver.ResolveType(pattern, e.templateProbeScope())
	if err != nil {
		return probes.next_()
	}
	return t
}
