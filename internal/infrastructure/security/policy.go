package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/clai/internal/pkg/filesystem"
)

// Policy is the data half of the classifier: the command registries plus
// the path-sensitivity sets. It is loaded from YAML and falls back to
// built-in defaults, so the traversal algorithm never changes when the
// lists do.
type Policy struct {
	Allow               []string `yaml:"allow"`
	Deny                []string `yaml:"deny"`
	SensitiveExtensions []string `yaml:"sensitive_extensions"`
	JSONSecretKeywords  []string `yaml:"json_secret_keywords"`

	allow        map[string]struct{}
	deny         map[string]struct{}
	sensitiveExt map[string]struct{}
}

// PolicyDocument is the YAML schema root.
type PolicyDocument struct {
	Rules Policy `yaml:"rules"`
}

// LoadPolicy reads the policy file, filling empty sections with defaults.
// A missing file is not an error: the defaults apply. Allow and deny must
// stay disjoint; an overlap is a configuration mistake, not a risk call.
func LoadPolicy(path string) (*Policy, error) {
	doc := PolicyDocument{}
	data, err := os.ReadFile(ResolvePolicyPath(path))
	if err != nil {
		return DefaultPolicy(), nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}
	p := &doc.Rules
	defaults := DefaultPolicy()
	if len(p.Allow) == 0 {
		p.Allow = defaults.Allow
	}
	if len(p.Deny) == 0 {
		p.Deny = defaults.Deny
	}
	if len(p.SensitiveExtensions) == 0 {
		p.SensitiveExtensions = defaults.SensitiveExtensions
	}
	if len(p.JSONSecretKeywords) == 0 {
		p.JSONSecretKeywords = defaults.JSONSecretKeywords
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return p, nil
}

// SavePolicy writes the policy document to disk.
func SavePolicy(path string, p *Policy) error {
	resolved := ResolvePolicyPath(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(PolicyDocument{Rules: *p})
	if err != nil {
		return err
	}
	return os.WriteFile(resolved, data, 0o644)
}

// ResolvePolicyPath expands the policy path to an absolute location.
func ResolvePolicyPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".clai", "policy.yaml")
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Join(filesystem.UserHomeDir(), path)
}

// DefaultPolicy returns the built-in lists, compiled and ready to use.
func DefaultPolicy() *Policy {
	p := &Policy{
		Allow:               defaultAllowList(),
		Deny:                defaultDenyList(),
		SensitiveExtensions: defaultSensitiveExtensions(),
		JSONSecretKeywords:  defaultJSONSecretKeywords(),
	}
	if err := p.compile(); err != nil {
		// Built-in lists are disjoint; reaching this is a programming bug.
		panic(err)
	}
	return p
}

// Allowed reports whether the command name is safe by name alone.
// Argument and path checks still apply downstream.
func (p *Policy) Allowed(name string) bool {
	_, ok := p.allow[name]
	return ok
}

// Denied reports whether the command name is unconditionally blocked.
func (p *Policy) Denied(name string) bool {
	_, ok := p.deny[name]
	return ok
}

func (p *Policy) compile() error {
	p.allow = make(map[string]struct{}, len(p.Allow))
	for _, name := range p.Allow {
		p.allow[name] = struct{}{}
	}
	p.deny = make(map[string]struct{}, len(p.Deny))
	for _, name := range p.Deny {
		if _, dup := p.allow[name]; dup {
			return fmt.Errorf("policy lists %q as both allowed and denied", name)
		}
		p.deny[name] = struct{}{}
	}
	p.sensitiveExt = make(map[string]struct{}, len(p.SensitiveExtensions))
	for _, ext := range p.SensitiveExtensions {
		p.sensitiveExt[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	for i, keyword := range p.JSONSecretKeywords {
		p.JSONSecretKeywords[i] = strings.ToLower(keyword)
	}
	return nil
}

func defaultAllowList() []string {
	return []string{
		"ls", "pwd", "echo", "printf", "cat", "head", "tail", "less",
		"grep", "egrep", "fgrep", "rg", "find", "wc", "sort", "uniq",
		"cut", "tr", "diff", "cmp", "file", "stat", "du", "df", "ps",
		"which", "whoami", "hostname", "uname", "date", "true", "false",
		"sleep", "basename", "dirname", "realpath", "readlink",
		"git", "go", "cargo", "jq",
	}
}

func defaultDenyList() []string {
	return []string{
		"mkfs", "mkfs.ext2", "mkfs.ext3", "mkfs.ext4", "mkfs.xfs",
		"mkfs.btrfs", "mkfs.vfat", "mke2fs", "newfs", "mkswap",
		"wipefs", "shred", "dd", "blkdiscard", "badblocks",
		"fdisk", "sfdisk", "gdisk", "sgdisk", "parted",
	}
}

func defaultSensitiveExtensions() []string {
	return []string{
		"pem", "key", "p12", "pfx", "crt", "cer", "der",
		"jks", "keystore", "ppk", "asc", "gpg", "pgp",
		"kdbx", "env", "tfstate",
	}
}

func defaultJSONSecretKeywords() []string {
	return []string{
		"secret", "credential", "token", "password", "passwd",
		"apikey", "api-key", "api_key", "auth",
		"serviceaccount", "service-account", "service_account",
		"privatekey", "private-key", "private_key",
		"sso", "okta", "vault", "consul",
		"datadog", "newrelic", "sentry", "grafana", "keyfile",
	}
}
