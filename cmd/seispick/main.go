// Command seispick picks seismic phase onsets in WAV channel recordings
// with a remote window classifier.
//
// Usage:
//
//	seispick scan [flags] [file ...]
//	seispick config [flags]
//
// Examples:
//
//	seispick scan st01.N.wav st01.E.wav st01.Z.wav --start 2024-03-01T12:00:00Z
//	seispick scan --archives archives.txt --dir /data --output picks.txt
//	SEISPICK_MODEL_URL=http://gpu:8501 seispick scan --archives archives.txt
//	seispick config --config seispick.yaml
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
