package security

import (
	"path/filepath"
	"strings"
)

// FindReport is the outcome of scanning a find invocation's arguments.
// Dangerous maps to red, suspicious to yellow.
type FindReport struct {
	Dangerous  bool
	Suspicious bool
	Reason     string
}

// execFlags are the find primaries that hand matched files to another
// program. Even a harmless target warrants confirmation.
var execFlags = map[string]struct{}{
	"-exec": {}, "-execdir": {}, "-ok": {}, "-okdir": {},
}

// destructiveExecTargets are programs that delete, overwrite, relocate,
// or re-permission files when run from -exec.
var destructiveExecTargets = map[string]struct{}{
	"rm": {}, "rmdir": {}, "unlink": {}, "shred": {}, "srm": {}, "wipe": {},
	"dd": {}, "mkfs": {}, "wipefs": {}, "fdisk": {}, "parted": {},
	"chmod": {}, "chown": {}, "chgrp": {}, "chattr": {},
	"cp": {}, "mv": {}, "ln": {}, "truncate": {}, "tee": {},
}

// metaExecTargets are interpreters and wrappers that can run arbitrary
// further commands, turning a find into anything at all. Includes text
// processors with execution capability and editors with shell escapes.
var metaExecTargets = map[string]struct{}{
	"sh": {}, "bash": {}, "zsh": {}, "dash": {}, "ksh": {}, "csh": {},
	"tcsh": {}, "fish": {},
	"perl": {}, "python": {}, "python2": {}, "python3": {}, "ruby": {},
	"node": {}, "php": {}, "lua": {},
	"xargs": {}, "env": {}, "parallel": {}, "nohup": {}, "timeout": {},
	"eval": {}, "exec": {}, "source": {},
	"awk": {}, "gawk": {}, "mawk": {}, "nawk": {}, "sed": {},
	"vi": {}, "vim": {}, "nvim": {}, "emacs": {}, "ed": {}, "ex": {},
	"less": {}, "more": {}, "man": {},
}

// outputFlags write results to files the user did not name on a redirect.
var outputFlags = map[string]struct{}{
	"-fprint": {}, "-fprintf": {}, "-fprint0": {}, "-fls": {},
}

// AnalyzeFindArgs scans a find invocation's argument list for execution
// primaries and other risky expressions. It only reads the arguments; the
// caller decides how the report maps onto the running verdict.
func AnalyzeFindArgs(args []Argument) FindReport {
	report := FindReport{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !arg.Literal {
			suspect(&report, "find argument cannot be resolved statically")
			continue
		}
		tok := arg.Text
		switch {
		case tok == "-delete":
			return FindReport{Dangerous: true, Reason: "find -delete removes every matched file"}
		case isExecFlag(tok):
			payload, consumed := execPayload(args[i+1:])
			if bad := analyzeExecPayload(tok, payload, consumed >= 0); bad.Dangerous {
				return bad
			}
			suspect(&report, tok+" runs an external program per matched file")
			i += consumed + 1
		case isOutputFlag(tok):
			suspect(&report, tok+" writes results to a file")
		case tok == "-L" || tok == "-H" || tok == "-follow":
			suspect(&report, tok+" follows symbolic links")
		case tok == "-perm" && i+1 < len(args):
			if args[i+1].Literal && isSetIDPerm(args[i+1].Text) {
				suspect(&report, "-perm searches for setuid/setgid files")
			}
		case tok == "-inum":
			suspect(&report, "-inum looks files up by inode, bypassing path checks")
		}
	}
	return report
}

func suspect(report *FindReport, reason string) {
	if report.Suspicious {
		return
	}
	report.Suspicious = true
	report.Reason = reason
}

// execPayload returns the tokens between an exec flag and its ;/+
// terminator, plus the index of the terminator. consumed is -1 when the
// terminator is missing. find only honors + directly after {}; a + in
// any other position is an ordinary payload argument.
func execPayload(rest []Argument) (payload []Argument, consumed int) {
	for i, arg := range rest {
		if !arg.Literal {
			continue
		}
		switch arg.Text {
		case ";", `\;`:
			return rest[:i], i
		case "+":
			if i > 0 && rest[i-1].Literal && rest[i-1].Text == "{}" {
				return rest[:i], i
			}
		}
	}
	return rest, -1
}

func analyzeExecPayload(flag string, payload []Argument, terminated bool) FindReport {
	if !terminated {
		return FindReport{Dangerous: true, Reason: flag + " is missing its ';' or '+' terminator"}
	}
	if len(payload) == 0 {
		return FindReport{Dangerous: true, Reason: flag + " has no command to run"}
	}
	program := payload[0]
	if !program.Literal {
		return FindReport{Dangerous: true, Reason: flag + " program cannot be resolved statically"}
	}
	name := filepath.Base(program.Text)
	switch {
	case name == "{}":
		return FindReport{Dangerous: true, Reason: flag + " invokes the matched file itself"}
	case isDestructiveExecTarget(name):
		return FindReport{Dangerous: true, Reason: flag + " runs destructive command " + name}
	case isMetaExecTarget(name):
		return FindReport{Dangerous: true, Reason: flag + " runs " + name + ", which can execute arbitrary commands"}
	}
	for _, arg := range payload {
		if !arg.Literal {
			return FindReport{Dangerous: true, Reason: flag + " argument cannot be resolved statically"}
		}
		if strings.ContainsAny(arg.Text, "|&;$`<>") {
			return FindReport{Dangerous: true, Reason: flag + " embeds shell metacharacters"}
		}
	}
	return FindReport{}
}

func isExecFlag(tok string) bool {
	_, ok := execFlags[tok]
	return ok
}

func isOutputFlag(tok string) bool {
	_, ok := outputFlags[tok]
	return ok
}

func isDestructiveExecTarget(name string) bool {
	if _, ok := destructiveExecTargets[name]; ok {
		return true
	}
	// mkfs.ext4 and friends
	return strings.HasPrefix(name, "mkfs.")
}

func isMetaExecTarget(name string) bool {
	_, ok := metaExecTargets[name]
	return ok
}

// isSetIDPerm matches -perm patterns that hunt for setuid/setgid bits:
// numeric forms like 4000, -6000, /2000 and symbolic forms containing +s.
func isSetIDPerm(pattern string) bool {
	trimmed := strings.TrimLeft(pattern, "-/")
	if len(trimmed) == 4 && allDigits(trimmed) {
		switch trimmed[0] {
		case '2', '4', '6':
			return true
		}
	}
	return strings.Contains(pattern, "+s")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
