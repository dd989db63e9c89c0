package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"Animal.java": `package zoo;
public class Animal {
    void speak() {
    }
}
`,
		"Dog.java": `package zoo;
public class Dog extends Animal {
}
`,
		"Keeper.java": `package zoo;
public class Keeper {
    private Animal pet;

    void feed() {
        pet.speak();
    }
}
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0640); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var stdout, stderr strings.Builder
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("run(%v): %v\nstderr: %s", args, err, stderr.String())
	}
	return stdout.String()
}

func TestVersion(t *testing.T) {
	out := runCLI(t, "-version")
	if !strings.Contains(out, "codescope") {
		t.Errorf("version output = %q", out)
	}
}

func TestOutline(t *testing.T) {
	root := writeProject(t)
	out := runCLI(t, "-root", root, "-outline")

	for _, want := range []string{"# Project Classes", "zoo.Animal", "zoo.Dog", "zoo.Keeper", "speak()"} {
		if !strings.Contains(out, want) {
			t.Errorf("outline missing %q:\n%s", want, out)
		}
	}
}

func TestCursorInsideMethod(t *testing.T) {
	root := writeProject(t)
	src, err := os.ReadFile(filepath.Join(root, "Keeper.java"))
	if err != nil {
		t.Fatal(err)
	}
	offset := strings.Index(string(src), "pet.speak")

	out := runCLI(t, "-root", root, "-file", "Keeper.java", "-offset", strconv.Itoa(offset), "-depth", "1")

	if !strings.Contains(out, "<b>Keeper</b>") {
		t.Errorf("missing class label:\n%s", out)
	}
	if !strings.Contains(out, "<b>feed()</b>") {
		t.Errorf("missing method label:\n%s", out)
	}
	if !strings.Contains(out, "interesting classes:") ||
		!strings.Contains(out, "zoo.Animal") || !strings.Contains(out, "zoo.Dog") {
		t.Errorf("missing discovery output:\n%s", out)
	}
}

func TestCursorOutsideAnyClass(t *testing.T) {
	root := writeProject(t)

	out := runCLI(t, "-root", root, "-file", "Keeper.java", "-offset", "0", "-depth", "0")

	if !strings.Contains(out, "no code construct at caret") {
		t.Errorf("expected miss message:\n%s", out)
	}
}

func TestTrailingCommand(t *testing.T) {
	root := writeProject(t)

	out := runCLI(t, "-root", root, "-file", "Dog.java", "-offset", "20", "-depth", "0",
		"echo", "compile ok")

	if !strings.Contains(out, "compile ok") {
		t.Errorf("missing follow-up command output:\n%s", out)
	}
}

func TestUnindexedFile(t *testing.T) {
	root := writeProject(t)
	var stdout, stderr strings.Builder

	err := run([]string{"-root", root, "-file", "Missing.java", "-offset", "0"}, &stdout, &stderr)
	if err == nil {
		t.Error("expected error for unknown file")
	}
}
