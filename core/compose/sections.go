package compose

import (
	"slices"
	"strings"
)

// layer identifies one composition nesting level. Each layer owns an
// independent set of section flags; a sub-resource inherits nothing from the
// page that includes it.
type layer int

const (
	layerPage layer = iota
	layerTemplate
	layerSubResource
)

// condition is the evaluation context for section markers.
type condition struct {
	hasRole func(string) bool // nil means no roles at all
	entity  string
	action  string
}

func (c condition) roleHeld(role string) bool {
	return c.hasRole != nil && c.hasRole(role)
}

// sectionKind is one marker kind with its evaluation rule. Negated kinds
// invert the membership test.
type sectionKind struct {
	name    string // marker name as written in templates
	negated bool
}

// Kinds are checked in this order for every line, matching the order flags
// are cleared and set. Negated names precede their plain forms so substring
// matching can stay simple ("$if-!role" is not a substring of "$if-role"
// and vice versa, but the fixed order makes the intent explicit).
var sectionKinds = []sectionKind{
	{name: "!role", negated: true},
	{name: "role"},
	{name: "!entity", negated: true},
	{name: "entity"},
	{name: "!action", negated: true},
	{name: "action"},
}

// ifSections is the conditional section engine. Per layer it keeps one flat
// boolean per marker kind: true while lines are being dropped. Markers of
// the same kind do not nest; an opening marker while the flag is already set
// is inert, and the first closing marker clears the flag. This flat
// semantic is deliberate and must not be turned into a counting or stack
// model, existing templates depend on it.
type ifSections struct {
	states map[layer]map[string]bool
}

func newIfSections() *ifSections {
	return &ifSections{states: make(map[layer]map[string]bool)}
}

// drop reports whether the line must be removed from output. Marker lines
// themselves are always removed. For each kind, in order: a closing marker
// clears the flag; a set flag drops the line; an opening marker evaluates
// its list and sets the flag when the block must be skipped.
func (s *ifSections) drop(line string, cond condition, l layer) bool {
	flags, ok := s.states[l]
	if !ok {
		flags = make(map[string]bool, len(sectionKinds))
		s.states[l] = flags
	}

	remove := false
	for _, kind := range sectionKinds {
		if strings.Contains(line, "$endif-"+kind.name) {
			flags[kind.name] = false
			remove = true
		}
		if flags[kind.name] {
			remove = true
		}
		if strings.Contains(line, "$if-"+kind.name) {
			if s.skip(line, cond, kind) {
				flags[kind.name] = true
			}
			remove = true
		}
	}
	return remove
}

// skip evaluates an opening marker's comma list against the condition.
func (s *ifSections) skip(line string, cond condition, kind sectionKind) bool {
	values := ifValues(line)

	var member bool
	switch kind.name {
	case "role", "!role":
		for _, v := range values {
			if cond.roleHeld(v) {
				member = true
				break
			}
		}
	case "entity", "!entity":
		member = slices.Contains(values, strings.ToLower(cond.entity))
	case "action", "!action":
		member = slices.Contains(values, strings.ToLower(cond.action))
	}

	if kind.negated {
		return member // block shown only when NOT a member
	}
	return !member
}

// ifValues parses the comma list from a marker line. The right-hand side of
// the first "=" has ";", ":", "}" and spaces stripped and is lower-cased
// before splitting, so "{$if-role=Admin, Operator}" yields [admin operator].
func ifValues(line string) []string {
	_, rhs, found := strings.Cut(line, "=")
	if !found {
		return nil
	}
	replacer := strings.NewReplacer(";", "", ":", "", "}", "", " ", "")
	rhs = strings.ToLower(strings.TrimSpace(replacer.Replace(rhs)))
	if rhs == "" {
		return nil
	}
	return strings.Split(rhs, ",")
}
