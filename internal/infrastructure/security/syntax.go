package security

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrParse marks input the shell grammar rejected. Callers recover from
// it by degrading to a yellow verdict; it never reaches users as a crash.
var ErrParse = errors.New("shell parse error")

// Node is the closed set of syntax shapes the classifier traverses.
// Every shape the parser can produce maps to exactly one variant;
// anything without a dedicated variant becomes Unknown, which still
// carries its children so no subtree is skipped.
type Node interface {
	isNode()
}

// Program is the top-level sequence of commands in the input line.
type Program struct {
	Commands []Node
}

// Command is a single simple command: a name, its arguments, and any
// attached I/O redirections.
type Command struct {
	Name      Argument
	Args      []Argument
	Redirects []Redirect
}

// Pipeline chains commands through pipes; every stage runs.
type Pipeline struct {
	Stages []Node
}

// Logical is an && or || chain. Both operands are analyzed: either side
// may run depending on exit status, so neither can be skipped.
type Logical struct {
	Left  Node
	Right Node
}

// Subshell is a ( ... ) or { ...; } grouping.
type Subshell struct {
	Body []Node
}

// CommandSubst is a $( ... ) or backtick substitution found inside a word.
type CommandSubst struct {
	Body []Node
}

// Unknown covers node shapes with no dedicated variant. Its children
// (nested statements and any substitutions found in its words) are still
// visited, and redirects attached to it are still analyzed.
type Unknown struct {
	Children  []Node
	Redirects []Redirect
}

func (Program) isNode()      {}
func (Command) isNode()      {}
func (Pipeline) isNode()     {}
func (Logical) isNode()      {}
func (Subshell) isNode()     {}
func (CommandSubst) isNode() {}
func (Unknown) isNode()      {}

// Argument is a single shell word. Text is only trustworthy when Literal
// is true; words containing expansions, unquoted globs, or other
// constructs whose value cannot be statically recovered are opaque.
// Opaque words keep the command substitutions found inside them in
// Substitutions so the engine can still descend into those.
type Argument struct {
	Text          string
	Literal       bool
	Substitutions []Node
}

// Redirect is an I/O redirection attached to a command.
type Redirect struct {
	Op     string
	Target Argument
}

// Parse turns a command line into the classifier's syntax tree. Unusual
// but valid shell constructs never fail; only grammar errors do.
func Parse(command string) (Node, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	prog := Program{}
	for _, stmt := range file.Stmts {
		prog.Commands = append(prog.Commands, convertStmt(stmt))
	}
	return prog, nil
}

func convertStmt(stmt *syntax.Stmt) Node {
	node := convertCmd(stmt.Cmd)
	if len(stmt.Redirs) == 0 {
		return node
	}
	redirs := make([]Redirect, 0, len(stmt.Redirs))
	for _, r := range stmt.Redirs {
		red := Redirect{Op: r.Op.String()}
		if r.Word != nil {
			red.Target = convertWord(r.Word)
		}
		redirs = append(redirs, red)
	}
	switch n := node.(type) {
	case Command:
		n.Redirects = redirs
		return n
	case Unknown:
		n.Redirects = append(n.Redirects, redirs...)
		return n
	default:
		return Unknown{Children: []Node{node}, Redirects: redirs}
	}
}

func convertCmd(cmd syntax.Command) Node {
	switch c := cmd.(type) {
	case nil:
		return Unknown{}
	case *syntax.CallExpr:
		out := Command{}
		for i, w := range c.Args {
			arg := convertWord(w)
			if i == 0 {
				out.Name = arg
			} else {
				out.Args = append(out.Args, arg)
			}
		}
		return out
	case *syntax.BinaryCmd:
		if c.Op == syntax.Pipe || c.Op == syntax.PipeAll {
			p := Pipeline{}
			flattenPipe(c, &p)
			return p
		}
		return Logical{Left: convertStmt(c.X), Right: convertStmt(c.Y)}
	case *syntax.Subshell:
		return Subshell{Body: convertStmts(c.Stmts)}
	case *syntax.Block:
		return Subshell{Body: convertStmts(c.Stmts)}
	default:
		return convertUnknown(cmd)
	}
}

func convertStmts(stmts []*syntax.Stmt) []Node {
	out := make([]Node, 0, len(stmts))
	for _, st := range stmts {
		out = append(out, convertStmt(st))
	}
	return out
}

// flattenPipe collapses a left-associative pipe chain into one Pipeline,
// so "a | b | c" yields three stages rather than nested pairs.
func flattenPipe(bin *syntax.BinaryCmd, p *Pipeline) {
	if left, ok := bin.X.Cmd.(*syntax.BinaryCmd); ok &&
		(left.Op == syntax.Pipe || left.Op == syntax.PipeAll) &&
		len(bin.X.Redirs) == 0 {
		flattenPipe(left, p)
	} else {
		p.Stages = append(p.Stages, convertStmt(bin.X))
	}
	p.Stages = append(p.Stages, convertStmt(bin.Y))
}

// convertUnknown is the safety net for node shapes the classifier has no
// dedicated variant for (loops, conditionals, function declarations, ...).
// Nested statements become children; command substitutions hiding inside
// the node's words are collected too.
func convertUnknown(cmd syntax.Command) Node {
	u := Unknown{}
	syntax.Walk(cmd, func(node syntax.Node) bool {
		switch n := node.(type) {
		case nil:
			return false
		case syntax.Command:
			// The root node itself; descend into it normally.
			return true
		case *syntax.Stmt:
			u.Children = append(u.Children, convertStmt(n))
			return false
		case *syntax.Word:
			arg := convertWord(n)
			u.Children = append(u.Children, arg.Substitutions...)
			return false
		default:
			return true
		}
	})
	return u
}

func convertWord(w *syntax.Word) Argument {
	if w == nil {
		return Argument{}
	}
	arg := Argument{Literal: true}
	var text strings.Builder
	var visit func(part syntax.WordPart, quoted bool)
	visit = func(part syntax.WordPart, quoted bool) {
		switch p := part.(type) {
		case *syntax.Lit:
			if !quoted && strings.ContainsAny(p.Value, "*?[") {
				// Unquoted glob: the matched set is unknowable statically.
				// Inside double quotes no globbing happens, so the text
				// stays fully recoverable.
				arg.Literal = false
			}
			text.WriteString(p.Value)
		case *syntax.SglQuoted:
			text.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, dp := range p.Parts {
				visit(dp, true)
			}
		case *syntax.CmdSubst:
			arg.Literal = false
			arg.Substitutions = append(arg.Substitutions, CommandSubst{Body: convertStmts(p.Stmts)})
		default:
			// ParamExp, ProcSubst, arithmetic, extended globs: the text is
			// unrecoverable, but substitutions nested inside still matter.
			arg.Literal = false
			arg.Substitutions = append(arg.Substitutions, nestedSubsts(part)...)
		}
	}
	for _, part := range w.Parts {
		visit(part, false)
	}
	arg.Text = text.String()
	return arg
}

func nestedSubsts(part syntax.WordPart) []Node {
	var out []Node
	syntax.Walk(part, func(node syntax.Node) bool {
		if node == nil {
			return false
		}
		if cs, ok := node.(*syntax.CmdSubst); ok {
			out = append(out, CommandSubst{Body: convertStmts(cs.Stmts)})
			return false
		}
		return true
	})
	return out
}
