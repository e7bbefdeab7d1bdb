// detect_test.go
package wscript

import "testing"

func Test_Detect_CSource(t *testing.T) {
	src := `
#include <stdio.h>
typedef struct Vec2 { float x; } Vec2;
void* buf = malloc(64);
`
	c := DetectDialect(src)
	if c.Mode() != CMode {
		t.Fatalf("want CMode, got %v (scores %+v)", c.Mode(), c)
	}
}

func Test_Detect_CPPSource(t *testing.T) {
	src := `
namespace engine {
class Player : public Entity {
    virtual void update() override;
};
}
std::vector<int> v;
`
	c := DetectDialect(src)
	if c.Mode() != CPPMode {
		t.Fatalf("want CPPMode, got %v (scores %+v)", c.Mode(), c)
	}
}

func Test_Detect_TSSource(t *testing.T) {
	src := `
import { spawn } from "engine";
export async function boot(): boolean {
    let ready: boolean = true;
    const onTick = () => undefined;
    return ready;
}
`
	c := DetectDialect(src)
	if c.Mode() != TSMode {
		t.Fatalf("want TSMode, got %v (scores %+v)", c.Mode(), c)
	}
}

func Test_Detect_EmptySourceIsMixed(t *testing.T) {
	if got := DetectDialect("").Mode(); got != MixedMode {
		t.Fatalf("empty source: want MixedMode, got %v", got)
	}
}

func Test_Detect_TieIsMixed(t *testing.T) {
	c := Confidence{C: 3, CPP: 3, TS: 1}
	if c.Mode() != MixedMode {
		t.Fatalf("tied scores must report MixedMode, got %v", c.Mode())
	}
}

func Test_Detect_FilenameGuess(t *testing.T) {
	cases := map[string]LanguageMode{
		"a.c":       CMode,
		"a.h":       CMode,
		"a.cpp":     CPPMode,
		"a.hpp":     CPPMode,
		"a.ts":      TSMode,
		"level.wes": MixedMode,
		"noext":     MixedMode,
	}
	for name, want := range cases {
		if got := GuessModeFromFilename(name); got != want {
			t.Fatalf("%s: want %v, got %v", name, want, got)
		}
	}
}

func Test_Detect_IsAdvisoryOnly(t *testing.T) {
	// a TS-looking file full of C declarations still parses: detection
	// never gates the grammar
	src := `
export let mode: number = 1;
int frames = 0;
`
	fr := CheckSource(src)
	if fr.HasErrors() {
		t.Fatalf("mixed unit must parse regardless of detected mode:\n%s", fr.Reporter.GenerateReport())
	}
}
