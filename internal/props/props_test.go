package props

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")
	content := `#Minecraft server properties
#Sat Mar 01 12:00:00 UTC 2025
motd=A Minecraft Server
max-players=20

level-name=world
broken line without separator
pvp=true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []Entry{
		{"motd", "A Minecraft Server"},
		{"max-players", "20"},
		{"level-name", "world"},
		{"pvp", "true"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestLoadKeepsValueEquals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")
	os.WriteFile(path, []byte("motd=a=b=c\n"), 0644)

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Value != "a=b=c" {
		t.Fatalf("value with '=' mangled: %v", entries)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")
	in := []Entry{{"difficulty", "hard"}, {"motd", "hello"}}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip lost entries: %v", out)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSaveRejectsEmptyKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")
	if err := Save(path, []Entry{{"", "x"}}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
