// Package md2speech converts Markdown documents to narrated audio using an
// external text-to-speech backend.
//
// # Quick Start
//
// Create a narrator, narrate a document, and close when done:
//
//	nar, err := md2speech.NewNarrator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer nar.Close()
//
//	result, err := nar.Narrate(ctx, md2speech.Input{
//	    Markdown: "# Hello\n\nWorld",
//	    Name:     "hello",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.TrackPath)
//
// # Narration Pipeline
//
// The pipeline follows these stages:
//
//  1. Chunking (bounded line-count chunks with stable indices)
//  2. Markdown normalization (ordered syntax-stripping rules)
//  3. Pause punctuation (textual pause markers for TTS prosody)
//  4. Speech synthesis via a LocalAI-compatible TTS backend
//  5. Audio post-processing via ffmpeg (WAV to MP3, tempo adjustment)
//  6. Assembly of per-chunk audio into a single track
//
// # Configuration
//
// Use functional options to customize the narrator:
//
//	nar, err := md2speech.NewNarrator(
//	    md2speech.WithChunkLines(30),
//	    md2speech.WithWorkers(4),
//	    md2speech.WithTempo(1.25),
//	    md2speech.WithBackendURL("http://localhost:8080"),
//	)
//
// # Parallel Processing
//
// For batch narration, use NarratorPool to cap concurrent backend usage:
//
//	pool, err := md2speech.NewNarratorPool(2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	nar := pool.Acquire()
//	defer pool.Release(nar)
//	result, err := nar.Narrate(ctx, input)
//
// # Backend Requirements
//
// Speech synthesis requires a running TTS backend exposing a LocalAI-style
// /tts endpoint, and ffmpeg on PATH for audio post-processing and merging.
package md2speech
