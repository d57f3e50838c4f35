// Package parser turns raw narrative text into a tree of typed units and
// flattens that tree into tokens with stable identity keys.
//
// The grammar is three markers, each on its own line, case-insensitive:
//
//	[Scene: Name]
//	[Component: Name]
//	[Function: Name]
//
// Every other line is literal content owned by the innermost open unit.
// A marker of equal-or-higher level implicitly closes the units below it;
// end of input closes everything. Content before any marker lives in an
// implicitly created "DefaultScene".
package parser
