package clew

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// grammarFor resolves a language tag to its tree-sitter grammar. A
// language absent from this table (zig, c, cpp, java) has no grammar in
// this module's dependency set and always takes the scanner path.
func grammarFor(language string) (*sitter.Language, bool) {
	switch language {
	case "go":
		return golang.GetLanguage(), true
	case "python":
		return python.GetLanguage(), true
	case "rust":
		return rust.GetLanguage(), true
	case "typescript":
		return typescript.GetLanguage(), true
	case "javascript":
		return javascript.GetLanguage(), true
	default:
		return nil, false
	}
}

// GrammarLoadFailedError reports that a language has a registered grammar
// but tree-sitter could not produce a usable parse tree for the given
// source. The syntax stage falls back to the scanner rather than failing
// extraction outright.
type GrammarLoadFailedError struct {
	Language string
	Cause    error
}

func (e *GrammarLoadFailedError) Error() string {
	return fmt.Sprintf("clew: grammar load failed for %q: %v", e.Language, e.Cause)
}

func (e *GrammarLoadFailedError) Unwrap() error { return e.Cause }

// ParseSyntaxTree parses source with language's tree-sitter grammar and
// returns the root node, or reports ok=false when no grammar is registered
// for language (the caller should fall back to Scan).
func ParseSyntaxTree(ctx context.Context, source []byte, language string) (tree *sitter.Tree, ok bool, err error) {
	lang, ok := grammarFor(language)
	if !ok {
		return nil, false, nil
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err = parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, true, &GrammarLoadFailedError{Language: language, Cause: err}
	}
	return tree, true, nil
}

// WalkSyntaxTree visits every named node in tree in depth-first pre-order,
// calling visit with a MatchInput built from the node's kind, text, and
// position. A plain recursive walk; a generic visitor abstraction is not
// worth it for a single caller.
func WalkSyntaxTree(source []byte, root *sitter.Node, visit func(MatchInput)) {
	if root == nil {
		return
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.IsNamed() {
			start := n.StartPoint()
			end := n.EndPoint()
			visit(MatchInput{
				NodeKind: n.Type(),
				NodeText: n.Content(source),
				Pos: Position{
					Line:      int(start.Row) + 1,
					EndLine:   int(end.Row) + 1,
					ByteStart: int(n.StartByte()),
					InComment: n.Type() == "comment",
					InString:  n.Type() == "string" || n.Type() == "interpreted_string_literal" || n.Type() == "raw_string_literal",
				},
			})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
}
