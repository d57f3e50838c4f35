package parser

import "github.com/snc-project/snc/internal/ir"

// Flatten walks a unit forest in pre-order and emits one token per unit:
// a scene, then its components, each followed by its functions. Order
// indexes are assigned from the walk, so tokenizing the same text twice
// yields identical tokens in identical order.
//
// Tokens carry no IDs; identity is assigned when they are persisted.
func Flatten(units []*Unit) []ir.Token {
	var tokens []ir.Token
	next := 0
	for _, u := range units {
		flattenUnit(u, &tokens, &next)
	}
	return tokens
}

func flattenUnit(u *Unit, tokens *[]ir.Token, next *int) {
	tok := ir.Token{
		Type:       u.Type,
		Name:       u.Name,
		OrderIndex: *next,
		Content:    u.FullText(),
		Hash:       u.Hash(),
		Deps:       u.Deps(),
	}
	switch u.Type {
	case ir.TokenScene:
		tok.SceneName = u.Name
	case ir.TokenComponent:
		tok.ComponentName = u.Name
	}
	*tokens = append(*tokens, tok)
	*next++

	for _, child := range u.Children {
		flattenUnit(child, tokens, next)
	}
}

// Tokenize is BuildTree followed by Flatten.
func Tokenize(text string) []ir.Token {
	return Flatten(BuildTree(text))
}
