package console

import "testing"

func TestClassifyFiltersNoise(t *testing.T) {
	filtered := []string{
		"",
		"   ",
		"\t",
		"[12:00:01] DEBUG: chunk cache miss",
		"[12:00:01] FINE: gc pause 3ms",
		"loaded class java.app.Bootstrap",
		"org.openjdk.nashorn deprecation notice",
		"Mod Loading has failed",
		"Exception details: Mod Loading has failed for arclight",
	}
	for _, line := range filtered {
		if _, ok := Classify(line); ok {
			t.Fatalf("expected %q to be filtered", line)
		}
	}
}

func TestClassifyFiltersStackFrames(t *testing.T) {
	// Intermediate frames carry repeated " at " markers plus a source
	// location; they are dropped line by line.
	frame := "\tat net.minecraft.server.MinecraftServer.run(MinecraftServer.java:123) at invoke at call(java:9)"
	if _, ok := Classify(frame); ok {
		t.Fatalf("expected stack frame to be filtered")
	}

	// The triggering line above the frames has a single " at " and
	// survives on its own merits.
	trigger := "java.lang.NullPointerException at startup"
	if cl, ok := Classify(trigger); !ok || cl.Text != trigger {
		t.Fatalf("expected trigger line to pass, got ok=%v", ok)
	}
}

func TestClassifySeverity(t *testing.T) {
	cases := []struct {
		line string
		want Severity
	}{
		{"ERROR: x", SeverityError},
		{"Something error occurred", SeverityError},
		{"WARN: y", SeverityWarning},
		{"[INFO] z", SeverityInfo},
		{"Done (3.2s)! For help, type \"help\"", SeverityPlain},
	}
	for _, c := range cases {
		cl, ok := Classify(c.line)
		if !ok {
			t.Fatalf("line %q unexpectedly filtered", c.line)
		}
		if cl.Severity != c.want {
			t.Fatalf("line %q: got severity %v, want %v", c.line, cl.Severity, c.want)
		}
	}
}

func TestClassifyPriorityErrorOverWarn(t *testing.T) {
	cl, ok := Classify("warning: previous error repeated")
	if !ok {
		t.Fatalf("line unexpectedly filtered")
	}
	if cl.Severity != SeverityError {
		t.Fatalf("expected error to win over warning, got %v", cl.Severity)
	}
}

func TestFormattedColorMarkers(t *testing.T) {
	cl, _ := Classify("ERROR: boom")
	if got := cl.Formatted(); got != `<font color="red">ERROR: boom</font>` {
		t.Fatalf("unexpected formatted line: %s", got)
	}
	plain, _ := Classify("hello world")
	if got := plain.Formatted(); got != "hello world" {
		t.Fatalf("plain line should carry no marker, got %s", got)
	}
}
