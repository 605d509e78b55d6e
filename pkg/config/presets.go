package config

import "github.com/siyuan-infoblox/imports-order/pkg/checker"

// Category names used by the built-in profiles.
const (
	CategoryBuiltin       = "builtin"
	CategoryFramework     = "framework"
	CategoryThirdParty    = "third_party"
	CategoryInternalAlias = "internal_alias"
	CategoryRelative      = "relative"
)

// DefaultProfile is used when auto-detection finds no framework.
const DefaultProfile = "default"

// Auto selects a profile per file from its imports.
const Auto = "auto"

var aliasPatterns = []string{"@/**", "~/**"}

// frameworkProfile lays out framework, packages, aliases and relative imports
// in that order; frameworkGlobs both detect the dialect and classify it.
func frameworkProfile(name string, frameworkGlobs ...string) ProfileConfig {
	return ProfileConfig{
		Name:   name,
		Detect: frameworkGlobs,
		Order:  []string{CategoryFramework, CategoryThirdParty, CategoryInternalAlias, CategoryRelative},
		Rules: []RuleConfig{
			{Category: CategoryFramework, Match: string(checker.MatchGlob), Patterns: frameworkGlobs},
			{Category: CategoryInternalAlias, Match: string(checker.MatchGlob), Patterns: aliasPatterns},
			{Category: CategoryRelative, Match: string(checker.MatchRelative)},
			{Category: CategoryThirdParty, Match: string(checker.MatchBuiltin)},
			{Category: CategoryThirdParty, Match: string(checker.MatchPackage)},
		},
	}
}

// Presets returns the built-in profiles in auto-detection order.
func Presets() []ProfileConfig {
	return []ProfileConfig{
		{
			Name:  DefaultProfile,
			Order: []string{CategoryBuiltin, CategoryThirdParty, CategoryInternalAlias, CategoryRelative},
			Rules: []RuleConfig{
				{Category: CategoryBuiltin, Match: string(checker.MatchBuiltin)},
				{Category: CategoryInternalAlias, Match: string(checker.MatchGlob), Patterns: aliasPatterns},
				{Category: CategoryRelative, Match: string(checker.MatchRelative)},
				{Category: CategoryThirdParty, Match: string(checker.MatchPackage)},
			},
		},
		frameworkProfile("angular", "@angular/**"),
		frameworkProfile("vue", "vue", "vue-*", "@vue/**", "pinia", "vuex"),
		frameworkProfile("react", "react", "react/**", "react-dom", "react-dom/**", "react-router", "react-router-dom"),
	}
}
