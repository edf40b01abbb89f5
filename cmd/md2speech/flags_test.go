package main

import "testing"

func TestParseNarrateFlags(t *testing.T) {
	args := []string{
		"notes.md",
		"--backend-url", "http://tts.local:8080",
		"--model", "amy.onnx",
		"--voice", "amy",
		"-t", "45s",
		"--tempo", "1.5",
		"--chunk-lines", "30",
		"-w", "4",
		"-o", "out",
		"--work-dir", "/tmp/work",
		"--play",
		"--keep-work",
		"-q",
	}

	flags, positional, err := parseNarrateFlags(args)
	if err != nil {
		t.Fatalf("parseNarrateFlags() error: %v", err)
	}

	if len(positional) != 1 || positional[0] != "notes.md" {
		t.Errorf("positional = %v, want [notes.md]", positional)
	}
	if flags.backend.url != "http://tts.local:8080" {
		t.Errorf("backend.url = %q", flags.backend.url)
	}
	if flags.backend.model != "amy.onnx" {
		t.Errorf("backend.model = %q", flags.backend.model)
	}
	if flags.backend.voice != "amy" {
		t.Errorf("backend.voice = %q", flags.backend.voice)
	}
	if flags.backend.timeout != "45s" {
		t.Errorf("backend.timeout = %q", flags.backend.timeout)
	}
	if flags.audio.tempo != 1.5 {
		t.Errorf("audio.tempo = %v", flags.audio.tempo)
	}
	if flags.chunking.lines != 30 {
		t.Errorf("chunking.lines = %d", flags.chunking.lines)
	}
	if flags.chunking.workers != 4 {
		t.Errorf("chunking.workers = %d", flags.chunking.workers)
	}
	if flags.output != "out" {
		t.Errorf("output = %q", flags.output)
	}
	if flags.workDir != "/tmp/work" {
		t.Errorf("workDir = %q", flags.workDir)
	}
	if !flags.play || !flags.keepWork || !flags.common.quiet {
		t.Errorf("booleans = play:%v keepWork:%v quiet:%v", flags.play, flags.keepWork, flags.common.quiet)
	}
}

func TestParseNarrateFlagsDefaults(t *testing.T) {
	flags, positional, err := parseNarrateFlags([]string{"doc.md"})
	if err != nil {
		t.Fatalf("parseNarrateFlags() error: %v", err)
	}
	if len(positional) != 1 {
		t.Errorf("positional = %v", positional)
	}
	if flags.backend.url != "" || flags.audio.tempo != 0 || flags.chunking.lines != 0 {
		t.Errorf("defaults not zero: %+v", flags)
	}
	if flags.play || flags.keepWork || flags.common.quiet || flags.common.verbose {
		t.Errorf("boolean defaults not false: %+v", flags)
	}
}

func TestParseNarrateFlagsUnknownFlag(t *testing.T) {
	if _, _, err := parseNarrateFlags([]string{"--bogus"}); err == nil {
		t.Error("parseNarrateFlags() accepted unknown flag")
	}
}
