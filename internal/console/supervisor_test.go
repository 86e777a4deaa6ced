package console

import (
	"bytes"
	"log"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// stubScript is a stand-in server: it announces itself, then echoes each
// stdin line back until it receives "stop".
const stubScript = `echo "INFO: Server started"
while read line; do
	if [ "$line" = "stop" ]; then
		exit 0
	fi
	echo "got $line"
done`

func newTestSupervisor(sink FlushFunc) *Supervisor {
	s := New(sink)
	s.flushInterval = 20 * time.Millisecond
	s.watchInterval = 25 * time.Millisecond
	return s
}

func testConfig(t *testing.T) LaunchConfig {
	t.Helper()
	return LaunchConfig{
		JavaPath:  "java",
		MinMemory: "1024M",
		MaxMemory: "2048M",
		ServerDir: t.TempDir(),
		JarPath:   "server.jar",
	}
}

// useStub replaces process creation with a shell stub and counts spawns.
func useStub(s *Supervisor, script string) *int32 {
	var spawns int32
	s.newCommand = func(name string, arg ...string) *exec.Cmd {
		atomic.AddInt32(&spawns, 1)
		return exec.Command("sh", "-c", script)
	}
	return &spawns
}

func TestStartWhileRunningIsNoOp(t *testing.T) {
	sink := &batchSink{}
	s := newTestSupervisor(sink.flush)
	spawns := useStub(s, stubScript)

	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return s.State() == Running })

	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if n := atomic.LoadInt32(spawns); n != 1 {
		t.Fatalf("expected exactly one spawn, got %d", n)
	}
	s.Stop()
}

func TestStopOnNoProcessIsNoOp(t *testing.T) {
	s := newTestSupervisor(func(string) {})
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Stop blocked with no process")
	}
	if st := s.State(); st != NoProcess {
		t.Fatalf("expected NoProcess, got %v", st)
	}
}

func TestStartInvalidConfig(t *testing.T) {
	s := newTestSupervisor(func(string) {})
	if err := s.Start(LaunchConfig{JavaPath: "java"}); err == nil {
		t.Fatalf("expected error for missing jar path")
	}
	if st := s.State(); st != NoProcess {
		t.Fatalf("expected NoProcess after invalid config, got %v", st)
	}
}

func TestLaunchFailureSurfacesInConsole(t *testing.T) {
	sink := &batchSink{}
	s := newTestSupervisor(sink.flush)

	cfg := testConfig(t)
	cfg.JavaPath = "/nonexistent/bin/java"
	if err := s.Start(cfg); err != nil {
		t.Fatalf("launch failure must be absorbed, got error: %v", err)
	}
	if st := s.State(); st != NoProcess {
		t.Fatalf("expected NoProcess after launch failure, got %v", st)
	}
	if !strings.Contains(sink.joined(), "Error starting server") {
		t.Fatalf("expected error line in console output, got %q", sink.joined())
	}
}

func TestServerOutputAndCommandRoundTrip(t *testing.T) {
	sink := &batchSink{}
	s := newTestSupervisor(sink.flush)
	useStub(s, stubScript)

	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	// Startup banner arrives info-tagged within a flush interval.
	waitFor(t, 2*time.Second, func() bool {
		return strings.Contains(sink.joined(), `<font color="green">INFO: Server started</font>`)
	})

	// The launch command line shares the same timeline.
	if !strings.Contains(sink.joined(), "Starting server with command: java -Xms1024M -Xmx2048M -jar server.jar nogui") {
		t.Fatalf("missing launch log line in %q", sink.joined())
	}

	s.SendCommand("say hi")

	// The echo proves the exact bytes "say hi\n" reached stdin, and the
	// transcript shows the operator command before the reaction.
	waitFor(t, 2*time.Second, func() bool {
		out := sink.joined()
		return strings.Contains(out, "> say hi") && strings.Contains(out, "got say hi")
	})
	out := sink.joined()
	if strings.Index(out, "> say hi") > strings.Index(out, "got say hi") {
		t.Fatalf("command echo must precede the child's reaction:\n%s", out)
	}
}

func TestWatcherDetectsUnsolicitedExit(t *testing.T) {
	sink := &batchSink{}
	s := newTestSupervisor(sink.flush)
	useStub(s, "exit 0")

	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return s.State() == Stopped })
	waitFor(t, 2*time.Second, func() bool {
		return strings.Contains(sink.joined(), "Server process terminated.")
	})
}

func TestCooperativeStop(t *testing.T) {
	sink := &batchSink{}
	s := newTestSupervisor(sink.flush)
	useStub(s, stubScript)

	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return s.State() == Running })

	s.Stop()

	if st := s.State(); st != Stopped {
		t.Fatalf("expected Stopped after Stop returned, got %v", st)
	}
	out := sink.joined()
	if !strings.Contains(out, "> stop") {
		t.Fatalf("expected stop command echo in transcript, got %q", out)
	}
	if !strings.Contains(out, "Server stopped.") && !strings.Contains(out, "Server process terminated.") {
		t.Fatalf("expected a termination line, got %q", out)
	}
}

func TestRestartIsIntentOnly(t *testing.T) {
	sink := &batchSink{}
	s := newTestSupervisor(sink.flush)
	useStub(s, stubScript)

	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return s.State() == Running })

	s.Restart()
	if !s.RestartPending() {
		t.Fatalf("expected restart intent after Restart")
	}

	// The stub honors "stop"; the watcher reconciles, nothing relaunches.
	waitFor(t, 2*time.Second, func() bool { return s.State() == Stopped })
	if !s.RestartPending() {
		t.Fatalf("restart intent must survive until the next Start")
	}

	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("restart Start failed: %v", err)
	}
	if s.RestartPending() {
		t.Fatalf("Start must clear the restart intent")
	}
	s.Stop()
}

func TestStartWhileStoppingIsNoOp(t *testing.T) {
	sink := &batchSink{}
	s := newTestSupervisor(sink.flush)
	// A child that ignores "stop" and only exits on "die", so Stop stays
	// blocked waiting for the process.
	spawns := useStub(s, `while read line; do
		if [ "$line" = "die" ]; then
			exit 0
		fi
	done`)

	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return s.State() == Running })

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	waitFor(t, 2*time.Second, func() bool { return s.State() == Stopping })

	// A Start during an unfinished shutdown must not launch a second
	// process into the same server directory.
	if err := s.Start(testConfig(t)); err != nil {
		t.Fatalf("Start during shutdown returned error: %v", err)
	}
	if n := atomic.LoadInt32(spawns); n != 1 {
		t.Fatalf("expected exactly one spawn, got %d", n)
	}

	s.SendCommand("die")
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return after child exited")
	}
	if st := s.State(); st != Stopped {
		t.Fatalf("expected Stopped, got %v", st)
	}
}

func TestSendCommandWithoutProcessLogsError(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	s := newTestSupervisor(func(string) {})
	s.SendCommand("say hi")

	if !strings.Contains(buf.String(), "Error sending command") {
		t.Fatalf("expected logged error, got %q", buf.String())
	}
	if st := s.State(); st != NoProcess {
		t.Fatalf("state changed by failed send: %v", st)
	}
}
