package callstack

import "github.com/ccollicutt/logsieve/pkg/stacktrace"

// DispatchMarker is the method name of the host runtime's internal invoke
// trampoline. Frames past it are runtime internals and are never inspected.
const DispatchMarker = "InternalInvoke"

// Filter applies a PolicyTable to captured call stacks.
type Filter struct {
	policy PolicyTable
	stop   map[string]bool
}

// FilterOption configures the Filter.
type FilterOption func(*Filter)

// WithStopMethods adds method names that end the walk, in addition to DispatchMarker.
func WithStopMethods(names ...string) FilterOption {
	return func(f *Filter) {
		for _, n := range names {
			f.stop[n] = true
		}
	}
}

// NewFilter creates a Filter. A nil policy ignores nothing.
func NewFilter(policy PolicyTable, opts ...FilterOption) *Filter {
	if policy == nil {
		policy = PolicyTable{}
	}
	f := &Filter{
		policy: policy,
		stop:   map[string]bool{DispatchMarker: true},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Apply walks calls from the immediate caller outward. Ignorable frames are
// dropped, the last one asking for it supplies extraInfo, and the walk ends
// at the first kept frame whose method is a stop method.
func (f *Filter) Apply(calls []stacktrace.CallFrame) (frames []stacktrace.Frame, extraInfo string) {
	for _, c := range calls {
		if p, ok := f.policy.Lookup(c); ok && p.Ignorable {
			if p.ShowAsExtraInfo {
				extraInfo = c.QualifiedName()
			}
			continue
		}
		if f.stop[c.Method] {
			break
		}
		frames = append(frames, stacktrace.NewFrameFromCall(c))
	}
	return frames, extraInfo
}
