package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/lookup"
	"github.com/strandscript/libscript/internal/source"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// Built-in fundamental operator tables: a fixed set of rule groups tried in
// order rather than a generic signature registry.
var arithmeticOperators = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var comparisonOperators = map[string]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}
var logicalOperators = map[string]bool{"&&": true, "||": true}
var bitwiseOperators = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}
var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

func isIntegral(t types.Type) bool {
	if t.Kind != types.KindPrimitive {
		return false
	}
	switch types.Primitive(t.Code) {
	case types.Bool, types.Char, types.Int:
		return true
	default:
		return false
	}
}

func isArithmeticFundamental(t types.Type) bool {
	if t.Kind != types.KindPrimitive {
		return false
	}
	switch types.Primitive(t.Code) {
	case types.Char, types.Int, types.Float, types.Double:
		return true
	default:
		return false
	}
}

// fundamentalPromote picks the higher-ranked of two fundamental types, the
// usual-arithmetic-conversion result.
func fundamentalPromote(a, b types.Type) types.Type {
	if fundamentalRank(b) > fundamentalRank(a) {
		return types.FromPrimitive(types.Primitive(b.Code))
	}
	return types.FromPrimitive(types.Primitive(a.Code))
}

func (c *Compiler) coerceFundamental(e ir.Expr, target types.Type) ir.Expr {
	if types.Equal(e.ExprType().Decayed(), target) {
		return e
	}
	return ir.NewFundamentalConversion(target, e, false)
}

// lowerBinary implements the binary-operator lowering: build the
// candidate set, try overload resolution, and fall back to the built-in
// fundamental-type rule when no declared operator applies.
func (c *Compiler) lowerBinary(n *ast.BinaryExpression, scope *symbols.Scope) (ir.Expr, error) {
	left, err := c.lowerExpr(n.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := c.lowerExpr(n.Right, scope)
	if err != nil {
		return nil, err
	}

	argTypes := []types.Type{left.ExprType(), right.ExprType()}
	candidates := lookup.OperatorCandidates(scope, c.Session.Types, n.Operator, argTypes)
	if len(candidates) > 0 {
		if fn, convs, oerr := c.resolveOverload(candidates, nil, argTypes, scope, n.Span()); oerr == nil {
			exprs := c.applyCallConversions([]ir.Expr{left, right}, fn, convs)
			return c.finishOperatorCall(fn, exprs, n.Span(), scope), nil
		}
	}

	if expr, ok := c.builtinBinaryOp(n.Operator, left, right); ok {
		return expr, nil
	}
	return nil, c.Session.report(CouldNotConvert, n.Span(), "no operator%s for %s and %s",
		n.Operator, c.Session.Types.TypeName(left.ExprType()), c.Session.Types.TypeName(right.ExprType()))
}

func (c *Compiler) builtinBinaryOp(op string, left, right ir.Expr) (ir.Expr, bool) {
	lt := left.ExprType().Decayed()
	rt := right.ExprType().Decayed()

	switch {
	case assignmentOperators[op]:
		if lt.IsPrimitive(types.String) {
			if op != "=" && op != "+=" {
				return nil, false
			}
			if !rt.IsPrimitive(types.String) {
				return nil, false
			}
			return ir.NewBinaryOp(lt, op, left, right), true
		}
		if !isFundamental(lt) || !isFundamental(rt) {
			return nil, false
		}
		return ir.NewBinaryOp(lt, op, left, c.coerceFundamental(right, lt)), true

	case arithmeticOperators[op]:
		if lt.IsPrimitive(types.String) || rt.IsPrimitive(types.String) {
			if op != "+" || !lt.IsPrimitive(types.String) || !rt.IsPrimitive(types.String) {
				return nil, false
			}
			return ir.NewBinaryOp(types.FromPrimitive(types.String), op, left, right), true
		}
		if !isArithmeticFundamental(lt) || !isArithmeticFundamental(rt) {
			return nil, false
		}
		result := fundamentalPromote(lt, rt)
		return ir.NewBinaryOp(result, op, c.coerceFundamental(left, result), c.coerceFundamental(right, result)), true

	case comparisonOperators[op]:
		if lt.IsPrimitive(types.String) && rt.IsPrimitive(types.String) {
			return ir.NewBinaryOp(types.FromPrimitive(types.Bool), op, left, right), true
		}
		if !isFundamental(lt) || !isFundamental(rt) {
			return nil, false
		}
		common := fundamentalPromote(lt, rt)
		return ir.NewBinaryOp(types.FromPrimitive(types.Bool), op, c.coerceFundamental(left, common), c.coerceFundamental(right, common)), true

	case logicalOperators[op]:
		boolT := types.FromPrimitive(types.Bool)
		return ir.NewBinaryOp(boolT, op, c.coerceFundamental(left, boolT), c.coerceFundamental(right, boolT)), true

	case bitwiseOperators[op]:
		if !isIntegral(lt) || !isIntegral(rt) {
			return nil, false
		}
		result := fundamentalPromote(lt, rt)
		return ir.NewBinaryOp(result, op, c.coerceFundamental(left, result), c.coerceFundamental(right, result)), true
	}
	return nil, false
}

// lowerUnary implements prefix unary operators (`-x`, `!x`, `*x`, `&x`).
// Pointer/address-of forms are out of this language's surface; `*`/`&` are rejected here as unsupported
// rather than silently mishandled.
func (c *Compiler) lowerUnary(n *ast.UnaryExpression, scope *symbols.Scope) (ir.Expr, error) {
	operand, err := c.lowerExpr(n.Operand, scope)
	if err != nil {
		return nil, err
	}

	candidates := lookup.OperatorCandidates(scope, c.Session.Types, n.Operator, []types.Type{operand.ExprType()})
	if len(candidates) > 0 {
		argTypes := []types.Type{operand.ExprType()}
		if fn, convs, oerr := c.resolveOverload(candidates, nil, argTypes, scope, n.Span()); oerr == nil {
			exprs := c.applyCallConversions([]ir.Expr{operand}, fn, convs)
			return c.finishOperatorCall(fn, exprs, n.Span(), scope), nil
		}
	}

	if expr, ok := c.builtinUnaryOp(n.Operator, operand, false); ok {
		return expr, nil
	}
	return nil, c.Session.report(CouldNotConvert, n.Span(), "no operator%s for %s",
		n.Operator, c.Session.Types.TypeName(operand.ExprType()))
}

// lowerPostfix implements `x++`/`x--`.
func (c *Compiler) lowerPostfix(n *ast.PostfixExpression, scope *symbols.Scope) (ir.Expr, error) {
	operand, err := c.lowerExpr(n.Operand, scope)
	if err != nil {
		return nil, err
	}

	candidates := lookup.OperatorCandidates(scope, c.Session.Types, n.Operator, []types.Type{operand.ExprType()})
	if len(candidates) > 0 {
		argTypes := []types.Type{operand.ExprType()}
		if fn, convs, oerr := c.resolveOverload(candidates, nil, argTypes, scope, n.Span()); oerr == nil {
			exprs := c.applyCallConversions([]ir.Expr{operand}, fn, convs)
			return c.finishOperatorCall(fn, exprs, n.Span(), scope), nil
		}
	}

	if expr, ok := c.builtinUnaryOp(n.Operator, operand, true); ok {
		return expr, nil
	}
	return nil, c.Session.report(CouldNotConvert, n.Span(), "no operator%s for %s",
		n.Operator, c.Session.Types.TypeName(operand.ExprType()))
}

func (c *Compiler) builtinUnaryOp(op string, operand ir.Expr, postfix bool) (ir.Expr, bool) {
	ot := operand.ExprType().Decayed()
	switch op {
	case "-", "+":
		if !isArithmeticFundamental(ot) {
			return nil, false
		}
		return ir.NewUnaryOp(ot, op, operand, false), true
	case "!":
		boolT := types.FromPrimitive(types.Bool)
		return ir.NewUnaryOp(boolT, op, c.coerceFundamental(operand, boolT), false), true
	case "~":
		if !isIntegral(ot) {
			return nil, false
		}
		return ir.NewUnaryOp(ot, op, operand, false), true
	case "++", "--":
		if !isArithmeticFundamental(ot) {
			return nil, false
		}
		return ir.NewUnaryOp(ot, op, operand, postfix), true
	}
	return nil, false
}

// finishOperatorCall wraps a resolved operator overload as a FunctionCall,
// splitting an implicit-object first slot (a member operator) from the
// remaining explicit operands.
func (c *Compiler) finishOperatorCall(fn *symbols.Function, args []ir.Expr, sp source.Span, scope *symbols.Scope) ir.Expr {
	if len(fn.Prototype.Params) > 0 && fn.Prototype.Params[0].IsThisParameter() && len(args) > 0 {
		return ir.NewFunctionCall(fn.Prototype.Return, fn, args[0], args[1:])
	}
	return ir.NewFunctionCall(fn.Prototype.Return, fn, nil, args)
}
