package callstack

import (
	"testing"

	"github.com/ccollicutt/logsieve/pkg/stacktrace"
)

func call(typ, method string, params ...string) stacktrace.CallFrame {
	return stacktrace.CallFrame{DeclaringType: typ, Method: method, ParamTypes: params, File: "src/" + method + ".cs", Line: 10}
}

func TestFilter_Apply_SyntheticChain(t *testing.T) {
	policy := PolicyTable{}
	policy.Set("Logger", "LoggerEntryPoint", Policy{Ignorable: true, ShowAsExtraInfo: true})

	calls := []stacktrace.CallFrame{
		call("Logger", "LoggerEntryPoint", "string"),
		call("Game", "UserMethodA"),
		call("Runtime", DispatchMarker),
		call("Game", "NeverSeen"),
	}

	frames, extra := NewFilter(policy).Apply(calls)

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1: %+v", len(frames), frames)
	}
	if frames[0].ClassName != "Game" || frames[0].MethodName != "UserMethodA()" {
		t.Errorf("frame = %+v", frames[0])
	}
	if extra != "Logger:LoggerEntryPoint(string)" {
		t.Errorf("extraInfo = %q", extra)
	}
}

func TestFilter_Apply_IgnoredWithoutExtraInfo(t *testing.T) {
	policy := PolicyTable{}
	policy.Set("Log", "Helper", Policy{Ignorable: true})

	frames, extra := NewFilter(policy).Apply([]stacktrace.CallFrame{
		call("Log", "Helper"),
		call("App", "Run"),
	})

	if len(frames) != 1 || frames[0].ClassName != "App" {
		t.Errorf("frames = %+v", frames)
	}
	if extra != "" {
		t.Errorf("extraInfo = %q, want empty", extra)
	}
}

func TestFilter_Apply_LastExtraInfoWins(t *testing.T) {
	policy := PolicyTable{}
	policy.Set("Log", "Inner", Policy{Ignorable: true, ShowAsExtraInfo: true})
	policy.Set("Log", "Outer", Policy{Ignorable: true, ShowAsExtraInfo: true})

	_, extra := NewFilter(policy).Apply([]stacktrace.CallFrame{
		call("Log", "Inner"),
		call("Log", "Outer", "object"),
		call("App", "Main"),
	})

	if extra != "Log:Outer(object)" {
		t.Errorf("extraInfo = %q", extra)
	}
}

func TestFilter_Apply_IgnorableMarkerIsSkippedNotStopped(t *testing.T) {
	policy := PolicyTable{}
	policy.Set("", DispatchMarker, Policy{Ignorable: true})

	frames, _ := NewFilter(policy).Apply([]stacktrace.CallFrame{
		call("Runtime", DispatchMarker),
		call("App", "After"),
	})

	if len(frames) != 1 || frames[0].ClassName != "App" {
		t.Errorf("frames = %+v", frames)
	}
}

func TestFilter_Apply_StopMethods(t *testing.T) {
	frames, _ := NewFilter(nil, WithStopMethods("main")).Apply([]stacktrace.CallFrame{
		call("app", "run"),
		call("app", "main"),
		call("runtime", "main"),
	})

	if len(frames) != 1 {
		t.Errorf("got %d frames, want 1", len(frames))
	}
}

func TestFilter_Apply_Empty(t *testing.T) {
	frames, extra := NewFilter(nil).Apply(nil)
	if frames != nil || extra != "" {
		t.Errorf("Apply(nil) = %v, %q", frames, extra)
	}
}

func TestPolicyTable_Lookup(t *testing.T) {
	policy := PolicyTable{}
	policy.Set("", "Log", Policy{Ignorable: true})
	policy.Set("Special", "Log", Policy{Ignorable: false})

	if p, ok := policy.Lookup(call("Any", "Log")); !ok || !p.Ignorable {
		t.Errorf("wildcard lookup = %+v, %v", p, ok)
	}
	if p, ok := policy.Lookup(call("Special", "Log")); !ok || p.Ignorable {
		t.Errorf("exact lookup = %+v, %v", p, ok)
	}
	if _, ok := policy.Lookup(call("Any", "Other")); ok {
		t.Error("unexpected match for Other")
	}
}

func TestPolicyTable_Merge(t *testing.T) {
	a := PolicyTable{}
	a.Set("T", "M", Policy{Ignorable: true})
	b := PolicyTable{}
	b.Set("T", "M", Policy{Ignorable: false})

	merged := a.Merge(b)

	if merged[MethodKey{"T", "M"}].Ignorable {
		t.Error("Merge() should prefer the argument's entries")
	}
	if !a[MethodKey{"T", "M"}].Ignorable {
		t.Error("Merge() mutated the receiver")
	}
}
