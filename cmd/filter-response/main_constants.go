package main

// Default command-line flag values
const (
	defaultRate   = 44100 // CD quality sample rate
	defaultOrder  = 2     // Butterworth order
	defaultPoints = 16    // Rows printed
	minArgs       = 2     // KIND CUTOFF
)

// Response evaluation
const (
	responseResolution = 4096 // Points evaluated between DC and Nyquist
	halfPowerDB        = -3.0103
)
