// Package callstack filters live call stacks before they become log entries.
//
// Which frames belong to logging helpers is decided by an explicit PolicyTable,
// usually filled from configuration at startup, rather than by markers on the
// methods themselves.
package callstack

import "github.com/ccollicutt/logsieve/pkg/stacktrace"

// Policy says how a method's frames are treated.
type Policy struct {
	// Ignorable frames are dropped from the displayed stack.
	Ignorable bool `yaml:"ignorable" json:"ignorable"`

	// ShowAsExtraInfo surfaces an ignored frame's qualified name as the
	// entry's extra info.
	ShowAsExtraInfo bool `yaml:"show_as_extra_info" json:"show_as_extra_info"`
}

// MethodKey identifies a method by declaring type and name. An empty Type
// matches the method name on any type.
type MethodKey struct {
	Type   string
	Method string
}

// PolicyTable maps methods to their policy.
type PolicyTable map[MethodKey]Policy

// Set registers p for the given type and method.
func (t PolicyTable) Set(typ, method string, p Policy) {
	t[MethodKey{Type: typ, Method: method}] = p
}

// Lookup returns the policy for c, preferring an exact type match over a
// type-less one.
func (t PolicyTable) Lookup(c stacktrace.CallFrame) (Policy, bool) {
	if p, ok := t[MethodKey{Type: c.DeclaringType, Method: c.Method}]; ok {
		return p, true
	}
	p, ok := t[MethodKey{Method: c.Method}]
	return p, ok
}

// Merge returns a new table with the entries of t overlaid by other.
func (t PolicyTable) Merge(other PolicyTable) PolicyTable {
	out := make(PolicyTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
