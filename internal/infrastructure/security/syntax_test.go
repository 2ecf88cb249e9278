package security

import (
	"errors"
	"testing"
)

func parseProgram(t *testing.T, command string) Program {
	t.Helper()
	node, err := Parse(command)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", command, err)
	}
	prog, ok := node.(Program)
	if !ok {
		t.Fatalf("Parse(%q) returned %T, want Program", command, node)
	}
	return prog
}

func firstCommand(t *testing.T, command string) Command {
	t.Helper()
	prog := parseProgram(t, command)
	if len(prog.Commands) != 1 {
		t.Fatalf("expected one top-level command, got %d", len(prog.Commands))
	}
	cmd, ok := prog.Commands[0].(Command)
	if !ok {
		t.Fatalf("expected Command, got %T", prog.Commands[0])
	}
	return cmd
}

func TestParseSimpleCommand(t *testing.T) {
	cmd := firstCommand(t, "ls -la src")
	if !cmd.Name.Literal || cmd.Name.Text != "ls" {
		t.Fatalf("unexpected name: %+v", cmd.Name)
	}
	if len(cmd.Args) != 2 || cmd.Args[0].Text != "-la" || cmd.Args[1].Text != "src" {
		t.Fatalf("unexpected args: %+v", cmd.Args)
	}
}

func TestParsePipelineFlattens(t *testing.T) {
	prog := parseProgram(t, "cat file | grep x | wc -l")
	pipe, ok := prog.Commands[0].(Pipeline)
	if !ok {
		t.Fatalf("expected Pipeline, got %T", prog.Commands[0])
	}
	if len(pipe.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(pipe.Stages))
	}
}

func TestParseLogical(t *testing.T) {
	prog := parseProgram(t, "ls && echo ok")
	logical, ok := prog.Commands[0].(Logical)
	if !ok {
		t.Fatalf("expected Logical, got %T", prog.Commands[0])
	}
	if _, ok := logical.Left.(Command); !ok {
		t.Fatalf("expected Command on left, got %T", logical.Left)
	}
	if _, ok := logical.Right.(Command); !ok {
		t.Fatalf("expected Command on right, got %T", logical.Right)
	}
}

func TestParseSubshell(t *testing.T) {
	prog := parseProgram(t, "(ls; pwd)")
	sub, ok := prog.Commands[0].(Subshell)
	if !ok {
		t.Fatalf("expected Subshell, got %T", prog.Commands[0])
	}
	if len(sub.Body) != 2 {
		t.Fatalf("expected 2 body commands, got %d", len(sub.Body))
	}
}

func TestParseCommandSubstitution(t *testing.T) {
	cmd := firstCommand(t, "echo $(ls /tmp)")
	if len(cmd.Args) != 1 {
		t.Fatalf("expected one arg, got %+v", cmd.Args)
	}
	arg := cmd.Args[0]
	if arg.Literal {
		t.Fatalf("substitution arg must be opaque: %+v", arg)
	}
	if len(arg.Substitutions) != 1 {
		t.Fatalf("expected one substitution, got %d", len(arg.Substitutions))
	}
	if _, ok := arg.Substitutions[0].(CommandSubst); !ok {
		t.Fatalf("expected CommandSubst, got %T", arg.Substitutions[0])
	}
}

func TestParseQuoting(t *testing.T) {
	cmd := firstCommand(t, `echo 'single word' "double word"`)
	if len(cmd.Args) != 2 {
		t.Fatalf("expected two args, got %+v", cmd.Args)
	}
	if !cmd.Args[0].Literal || cmd.Args[0].Text != "single word" {
		t.Fatalf("single-quoted arg: %+v", cmd.Args[0])
	}
	if !cmd.Args[1].Literal || cmd.Args[1].Text != "double word" {
		t.Fatalf("double-quoted arg: %+v", cmd.Args[1])
	}
}

func TestParseParamExpIsOpaque(t *testing.T) {
	cmd := firstCommand(t, "cat $FILE")
	if cmd.Args[0].Literal {
		t.Fatalf("parameter expansion must be opaque: %+v", cmd.Args[0])
	}
}

func TestParseGlobIsOpaque(t *testing.T) {
	cmd := firstCommand(t, "rm *.log")
	if cmd.Args[0].Literal {
		t.Fatalf("unquoted glob must be opaque: %+v", cmd.Args[0])
	}
}

func TestParseQuotedGlobIsLiteral(t *testing.T) {
	cmd := firstCommand(t, "grep -r 'foo*' .")
	if !cmd.Args[1].Literal || cmd.Args[1].Text != "foo*" {
		t.Fatalf("quoted glob should stay literal: %+v", cmd.Args[1])
	}
}

func TestParseDoubleQuotedGlobIsLiteral(t *testing.T) {
	// No globbing happens inside double quotes; the text is recoverable
	// exactly like the single-quoted form.
	cmd := firstCommand(t, `grep -r "foo*" .`)
	if !cmd.Args[1].Literal || cmd.Args[1].Text != "foo*" {
		t.Fatalf("double-quoted glob should stay literal: %+v", cmd.Args[1])
	}

	cmd = firstCommand(t, `echo "v?[abc]"`)
	if !cmd.Args[0].Literal || cmd.Args[0].Text != "v?[abc]" {
		t.Fatalf("double-quoted glob characters should stay literal: %+v", cmd.Args[0])
	}
}

func TestParseRedirect(t *testing.T) {
	cmd := firstCommand(t, "echo hi > out.txt")
	if len(cmd.Redirects) != 1 {
		t.Fatalf("expected one redirect, got %+v", cmd.Redirects)
	}
	red := cmd.Redirects[0]
	if red.Op != ">" || !red.Target.Literal || red.Target.Text != "out.txt" {
		t.Fatalf("unexpected redirect: %+v", red)
	}
}

func TestParseNestedSubstitutionInsideQuotes(t *testing.T) {
	cmd := firstCommand(t, `echo "result: $(rm x)"`)
	arg := cmd.Args[0]
	if arg.Literal {
		t.Fatalf("arg with embedded substitution must be opaque")
	}
	if len(arg.Substitutions) != 1 {
		t.Fatalf("expected nested substitution, got %+v", arg.Substitutions)
	}
}

func TestParseUnknownKeepsChildren(t *testing.T) {
	prog := parseProgram(t, "if true; then ls; fi")
	unknown, ok := prog.Commands[0].(Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %T", prog.Commands[0])
	}
	if len(unknown.Children) == 0 {
		t.Fatalf("unknown node lost its children")
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse(`echo "unterminated`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error should wrap ErrParse: %v", err)
	}
}
