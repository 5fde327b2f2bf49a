package ast

// Builders for synthesized expressions. Results are marked Synthetic and
// have their type and free variables inferred.

// True returns the Bool constructor true.
func True() *UnappliedSymbol { return Construct(TrueConstructor) }

// False returns the Bool constructor false.
func False() *UnappliedSymbol { return Construct(FalseConstructor) }

func makeOperator(family OpFamily, op string, operands []Expression) Expression {
	switch len(operands) {
	case 0:
		if family == Conjunction {
			return True()
		}
		return False()
	case 1:
		return operands[0]
	}
	ops := make([]string, len(operands)-1)
	for i := range ops {
		ops[i] = op
	}
	e := NewOperator(operands[0].Position(), family, ops, operands)
	e.Synthetic = true
	return e.Infer()
}

func And(es ...Expression) Expression       { return makeOperator(Conjunction, "∧", es) }
func Or(es ...Expression) Expression        { return makeOperator(Disjunction, "∨", es) }
func Implies(a, b Expression) Expression    { return makeOperator(Implication, "⇒", []Expression{a, b}) }
func RImplies(a, b Expression) Expression   { return makeOperator(RImplication, "⇐", []Expression{a, b}) }
func Equiv(a, b Expression) Expression      { return makeOperator(Equivalence, "⇔", []Expression{a, b}) }
func Equals(es ...Expression) Expression    { return makeOperator(Comparison, "=", es) }
func Compare(op string, a, b Expression) Expression {
	return makeOperator(Comparison, NormalizeOp(op), []Expression{a, b})
}

// Not negates e.
func Not(e Expression) Expression {
	u := NewUnary(e.Position(), []string{"¬"}, e)
	u.Synthetic = true
	return u.Infer()
}

func quantify(q string, qs []*Quantee, body Expression) Expression {
	if len(qs) == 0 {
		return body
	}
	e := NewQuantification(body.Position(), q, qs, body)
	e.Synthetic = true
	return e.Infer()
}

// ForAll quantifies body universally; without quantees it returns body.
func ForAll(qs []*Quantee, body Expression) Expression { return quantify("∀", qs, body) }

// Exists quantifies body existentially; without quantees it returns body.
func Exists(qs []*Quantee, body Expression) Expression { return quantify("∃", qs, body) }

// IfThenElse builds a synthetic conditional term.
func IfThenElse(cond, then, els Expression) Expression {
	e := NewIfExpr(cond.Position(), cond, then, els)
	e.Synthetic = true
	return e.Infer()
}
