package clasp

// parseClassStatement reads a class body as an ordered declaration
// sequence: `name: type` members, bare visibility directives, and `def`
// methods, in source order. Order is semantic; the access registry and the
// teardown sweep both consume it.
func (p *parser) parseClassStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal

	parent := ""
	if p.peekToken.Type == tokenLT {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		parent = p.curToken.Literal
	}

	entries := []ClassEntry{}
	p.nextToken()
	for p.curToken.Type != tokenEnd && p.curToken.Type != tokenEOF {
		entry := p.parseClassEntry()
		if entry != nil {
			entries = append(entries, entry)
		}
		p.nextToken()
	}

	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "'end'")
	}

	return &ClassStmt{Name: name, Parent: parent, Entries: entries, position: pos}
}

func (p *parser) parseClassEntry() ClassEntry {
	switch p.curToken.Type {
	case tokenPublic:
		return &DirectiveDecl{Level: VisPublic, position: p.curToken.Pos}
	case tokenPrivate:
		return &DirectiveDecl{Level: VisPrivate, position: p.curToken.Pos}
	case tokenProtected:
		return &DirectiveDecl{Level: VisProtected, position: p.curToken.Pos}
	case tokenDef:
		stmt := p.parseFunctionStatement()
		fn, ok := stmt.(*FunctionStmt)
		if !ok {
			return nil
		}
		return &MethodDecl{Fn: fn}
	case tokenIdent:
		pos := p.curToken.Pos
		name := p.curToken.Literal
		if !p.expectPeek(tokenColon) {
			return nil
		}
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		return &MemberDecl{Name: name, Type: p.curToken.Literal, position: pos}
	default:
		p.errorUnexpected(p.curToken)
		return nil
	}
}
