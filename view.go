package workbench

// View is the state to display: the current artifacts and their spectra.
// A nil field means there is nothing to show for it.
type View struct {
	Input          *Signal
	Output         *Signal
	InputSpectrum  *Spectrum
	OutputSpectrum *Spectrum
}

// Trace is one line of a plot.
type Trace struct {
	Name   string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64
}

// Plot is the renderable form of a View.
type Plot struct {
	Traces []Trace
}

// Trace returns the trace with the given name.
func (p Plot) Trace(name string) (Trace, bool) {
	for _, t := range p.Traces {
		if t.Name == name {
			return t, true
		}
	}
	return Trace{}, false
}

// Render turns a View into plot traces, in the order input waveform, output
// waveform, input spectrum, output spectrum, skipping nil fields.
func Render(v View) Plot {
	var p Plot
	if v.Input != nil {
		p.Traces = append(p.Traces, TimeTrace("input", *v.Input))
	}
	if v.Output != nil {
		p.Traces = append(p.Traces, TimeTrace("output", *v.Output))
	}
	if v.InputSpectrum != nil {
		p.Traces = append(p.Traces, SpectrumTrace("input spectrum", *v.InputSpectrum))
	}
	if v.OutputSpectrum != nil {
		p.Traces = append(p.Traces, SpectrumTrace("output spectrum", *v.OutputSpectrum))
	}
	return p
}

// TimeTrace plots sig against time. X spans [0, len/rate] in len evenly
// spaced points, both ends included; Y is the sample over full scale.
func TimeTrace(name string, sig Signal) Trace {
	n := sig.Len()
	t := Trace{
		Name:   name,
		XLabel: "time (s)",
		YLabel: "amplitude",
		X:      make([]float64, n),
		Y:      make([]float64, n),
	}
	if n == 0 || sig.SampleRate <= 0 {
		return t
	}

	end := float64(n) / float64(sig.SampleRate)
	step := 0.0
	if n > 1 {
		step = end / float64(n-1)
	}
	for i, s := range sig.Samples {
		t.X[i] = float64(i) * step
		t.Y[i] = float64(s) / FullScale
	}
	return t
}

// SpectrumTrace plots magnitude against frequency.
func SpectrumTrace(name string, spec Spectrum) Trace {
	y := "magnitude"
	if spec.Scale == DB {
		y = "magnitude (dB)"
	}
	return Trace{
		Name:   name,
		XLabel: "frequency (Hz)",
		YLabel: y,
		X:      append([]float64(nil), spec.Frequencies...),
		Y:      append([]float64(nil), spec.Magnitudes...),
	}
}
