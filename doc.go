// Package workbench is the signal-processing core of an audio workbench.
//
// It stages audio through two named WAV artifacts, "input" and "output",
// and offers a small set of transformations between them: spectral
// analysis, zero-phase Butterworth and windowed-sinc filtering, gain with
// clipping, and circular time shifting.
//
// # Features
//
//   - WAV loading with automatic normalization to 16-bit PCM (8/24/32-bit
//     integer and 32/64-bit float sources are converted in place)
//   - MP3 and Ogg Vorbis uploads transcoded on import
//   - One-sided FFT magnitude spectra with optional Hamming window and dB scale
//   - Butterworth IIR filters of any order as second-order sections, applied
//     forward and backward for zero phase
//   - 101-tap windowed-sinc FIR filters (Hamming, optionally Kaiser), also zero phase
//   - Gain that clips instead of wrapping, and reports how many samples clipped
//   - Per-artifact locking so concurrent operations never interleave writes
//
// # Quick Start
//
// Working on the artifacts:
//
//	wb, err := workbench.New(&workbench.Config{Dir: "assets"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := wb.ApplyIIR(workbench.Highpass(2000), 5)
//	if err != nil {
//	    log.Fatal(err) // errors.Is(err, workbench.ErrInvalidCutoff) etc.
//	}
//
//	spec, err := wb.Spectrum(workbench.Output, workbench.DefaultSpectrumOptions())
//
// Working in memory, without files:
//
//	sig := workbench.Signal{SampleRate: 44100, Samples: samples}
//	filtered, err := workbench.FilterFIR(sig, workbench.Bandpass(300, 3000))
//	louder, report, err := workbench.ScaleSignal(filtered, 2)
//
// # Errors
//
// Failures are reported with sentinel errors to be tested with [errors.Is]:
// [ErrNotFound], [ErrDecode], [ErrInvalidCutoff], [ErrInvalidOrder],
// [ErrUnstableFilter], [ErrInvalidFactor], [ErrInvalidShift],
// [ErrInvalidSignal], [ErrInvalidConfig] and [ErrUnknownSlot]. A failed
// operation never modifies an artifact.
//
// # Time Shift
//
// [Workbench.TimeShift] rotates the signal: samples shifted past the end
// reappear at the start. It is not a delay line with zero fill.
package workbench
