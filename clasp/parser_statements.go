package clasp

// parseFunctionStatement handles both free functions and method bodies,
// including the `def ~Name()` destructor form inside class bodies.
func (p *parser) parseFunctionStatement() Statement {
	pos := p.curToken.Pos

	isDestructor := false
	if p.peekToken.Type == tokenTilde {
		p.nextToken()
		isDestructor = true
	}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal
	if isDestructor {
		name = "~" + name
	}

	if !p.expectPeek(tokenLParen) {
		return nil
	}

	params := []Param{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
	} else {
		p.nextToken()
		if p.curToken.Type != tokenIdent {
			p.errorExpected(p.curToken, "parameter name")
			return nil
		}
		params = append(params, Param{Name: p.curToken.Literal})
		for p.peekToken.Type == tokenComma {
			p.nextToken()
			p.nextToken()
			if p.curToken.Type != tokenIdent {
				p.errorExpected(p.curToken, "parameter name")
				return nil
			}
			params = append(params, Param{Name: p.curToken.Literal})
		}
		if !p.expectPeek(tokenRParen) {
			return nil
		}
	}

	p.nextToken()
	body := p.parseBlock(tokenEnd)

	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "'end'")
	}

	return &FunctionStmt{Name: name, Params: params, Body: body, IsDestructor: isDestructor, position: pos}
}

func (p *parser) parseReturnStatement() Statement {
	pos := p.curToken.Pos
	switch p.peekToken.Type {
	case tokenEnd, tokenElse, tokenElsif, tokenEOF:
		return &ReturnStmt{position: pos}
	}
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	return &ReturnStmt{Value: value, position: pos}
}

func (p *parser) parseRaiseStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	return &RaiseStmt{Value: value, position: pos}
}

func (p *parser) parseIfStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)

	p.nextToken()
	consequent := p.parseBlock(tokenEnd, tokenElse, tokenElsif)

	var elseifClauses []*IfStmt
	for p.curToken.Type == tokenElsif {
		clausePos := p.curToken.Pos
		p.nextToken()
		cond := p.parseExpression(lowestPrec)
		p.nextToken()
		body := p.parseBlock(tokenEnd, tokenElse, tokenElsif)
		if cond == nil {
			// Condition error is already recorded; skip the clause.
			continue
		}
		clause := &IfStmt{Condition: cond, Consequent: body, position: clausePos}
		elseifClauses = append(elseifClauses, clause)
	}

	var alternate []Statement
	if p.curToken.Type == tokenElse {
		p.nextToken()
		alternate = p.parseBlock(tokenEnd)
	}

	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "'end'")
	}

	return &IfStmt{Condition: condition, Consequent: consequent, ElseIf: elseifClauses, Alternate: alternate, position: pos}
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)

	p.nextToken()
	body := p.parseBlock(tokenEnd)

	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "'end'")
	}

	return &WhileStmt{Condition: condition, Body: body, position: pos}
}

func (p *parser) parseExpressionOrAssignStatement() Statement {
	pos := p.curToken.Pos
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}

	if p.peekToken.Type == tokenAssign {
		if !isAssignable(expr) {
			p.addParseError(p.peekToken.Pos, "invalid assignment target")
			return nil
		}
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value == nil {
			return nil
		}
		return &AssignStmt{Target: expr, Value: value, position: pos}
	}

	return &ExprStmt{Expr: expr, position: pos}
}
