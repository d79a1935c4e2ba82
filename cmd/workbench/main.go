// Command workbench drives the audio workbench from the shell. Every command
// works on the two artifacts in the asset directory: commands that edit read
// the input artifact and replace the output artifact.
//
// Usage:
//
//	workbench generate --waveform sine --frequency 1000 --duration 2s
//	workbench import recording.mp3
//	workbench filter iir highpass 2000 --order 5
//	workbench filter fir bandpass 300 3000 --fir-window kaiser
//	workbench scale 1.5
//	workbench shift 250
//	workbench spectrum output --top 5 -o json
//	workbench plot -o csv > traces.csv
//
// Settings come from flags, WORKBENCH_* environment variables and an optional
// workbench.yaml, in that order of precedence.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
