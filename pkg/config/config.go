// Package config loads import-order profiles. A profile is a CategoryOrder
// plus the classification rules that feed it; profiles are validated and
// compiled into checkers once, before any file is checked.
package config

import (
	"fmt"
	"slices"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/siyuan-infoblox/imports-order/pkg/checker"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
)

// CurrentVersion is the config file format version.
const CurrentVersion = 1

// RuleConfig is one classification rule. Rules are tested in list order and
// the first match wins.
type RuleConfig struct {
	Category string   `mapstructure:"category" yaml:"category"`
	Match    string   `mapstructure:"match" yaml:"match,omitempty"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns,omitempty,flow"`
}

// ProfileConfig describes the grouping convention of one source dialect.
type ProfileConfig struct {
	Name        string       `mapstructure:"name" yaml:"name"`
	Detect      []string     `mapstructure:"detect" yaml:"detect,omitempty,flow"`
	Order       []string     `mapstructure:"order" yaml:"order,flow"`
	Alphabetize []string     `mapstructure:"alphabetize" yaml:"alphabetize,omitempty,flow"`
	Rules       []RuleConfig `mapstructure:"rules" yaml:"rules"`
}

// Config is the on-disk configuration.
type Config struct {
	Version       int             `mapstructure:"version" yaml:"version"`
	Profile       string          `mapstructure:"profile" yaml:"profile"`
	CaseSensitive bool            `mapstructure:"case_sensitive" yaml:"case_sensitive"`
	Profiles      []ProfileConfig `mapstructure:"profiles" yaml:"profiles,omitempty"`
}

// Default returns the configuration written by "init": automatic profile
// selection with every preset spelled out.
func Default() Config {
	return Config{
		Version:  CurrentVersion,
		Profile:  Auto,
		Profiles: Presets(),
	}
}

// Load decodes the configuration held by v and compiles it.
func Load(v *viper.Viper) (*Set, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &errors.ConfigError{Message: errors.ErrMsgFailedToDecodeConfig, Cause: err}
	}
	return Compile(cfg)
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteConfig, err)
	}
	return out, nil
}

// Profile is a compiled ProfileConfig.
type Profile struct {
	Name    string
	Detect  []string
	Checker *checker.Checker
	detect  checker.Matcher
}

// Detects reports whether any specifier marks a file as written for this profile.
func (p *Profile) Detects(decls []checker.ImportDeclaration) bool {
	if p.detect == nil {
		return false
	}
	for _, decl := range decls {
		if p.detect.Match(decl.Specifier) {
			return true
		}
	}
	return false
}

// Set holds the compiled profiles and the selection policy.
type Set struct {
	selected string
	profiles []*Profile
	byName   map[string]*Profile
}

// Compile validates cfg and builds a checker per profile. User profiles come
// first and replace presets of the same name.
func Compile(cfg Config) (*Set, error) {
	if cfg.Version > CurrentVersion || cfg.Version < 0 {
		return nil, &errors.ConfigError{Option: "version", Value: cfg.Version, Message: errors.ErrMsgUnsupportedVersion}
	}

	all := append([]ProfileConfig(nil), cfg.Profiles...)
	for _, preset := range Presets() {
		if !slices.ContainsFunc(cfg.Profiles, func(p ProfileConfig) bool { return p.Name == preset.Name }) {
			all = append(all, preset)
		}
	}

	set := &Set{
		selected: cfg.Profile,
		byName:   make(map[string]*Profile, len(all)),
	}
	if set.selected == "" {
		set.selected = Auto
	}

	for i, pc := range all {
		if pc.Name == "" || pc.Name == Auto {
			return nil, &errors.ConfigError{Option: fmt.Sprintf("profiles[%d].name", i), Value: pc.Name, Message: errors.ErrMsgReservedProfile}
		}
		if _, dup := set.byName[pc.Name]; dup {
			return nil, &errors.ConfigError{Option: fmt.Sprintf("profiles[%d].name", i), Value: pc.Name, Message: errors.ErrMsgDuplicateProfile}
		}
		p, err := compileProfile(pc, cfg.CaseSensitive)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", pc.Name, err)
		}
		set.profiles = append(set.profiles, p)
		set.byName[p.Name] = p
	}

	if set.selected != Auto {
		if _, ok := set.byName[set.selected]; !ok {
			return nil, &errors.ConfigError{Option: "profile", Value: set.selected, Message: errors.ErrMsgUnknownProfile}
		}
	}
	return set, nil
}

func compileProfile(pc ProfileConfig, caseSensitive bool) (*Profile, error) {
	opts := checker.Options{CaseSensitive: caseSensitive}
	for _, name := range pc.Order {
		opts.Order = append(opts.Order, checker.Category(name))
	}
	for _, name := range pc.Alphabetize {
		opts.Alphabetize = append(opts.Alphabetize, checker.Category(name))
	}
	for i, rc := range pc.Rules {
		m, err := checker.NewMatcher(checker.MatchKind(rc.Match), rc.Patterns)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		opts.Rules = append(opts.Rules, checker.Rule{Category: checker.Category(rc.Category), Matcher: m})
	}

	c, err := checker.New(opts)
	if err != nil {
		return nil, err
	}

	p := &Profile{Name: pc.Name, Detect: pc.Detect, Checker: c}
	if len(pc.Detect) > 0 {
		if p.detect, err = checker.GlobMatcher(pc.Detect...); err != nil {
			return nil, fmt.Errorf("detect: %w", err)
		}
	}
	return p, nil
}

// Selected returns the configured profile name, or Auto.
func (s *Set) Selected() string {
	return s.selected
}

// Profiles returns the profiles in detection order.
func (s *Set) Profiles() []*Profile {
	return append([]*Profile(nil), s.profiles...)
}

// Lookup returns the named profile.
func (s *Set) Lookup(name string) (*Profile, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Resolve picks the profile for a file. A fixed selection always wins; with
// Auto the first profile detecting the file is used, else DefaultProfile.
func (s *Set) Resolve(decls []checker.ImportDeclaration) (*Profile, error) {
	if s.selected != Auto {
		return s.byName[s.selected], nil
	}
	for _, p := range s.profiles {
		if p.Detects(decls) {
			return p, nil
		}
	}
	if p, ok := s.byName[DefaultProfile]; ok {
		return p, nil
	}
	return nil, &errors.ConfigError{Option: "profile", Value: DefaultProfile, Message: errors.ErrMsgUnknownProfile}
}
