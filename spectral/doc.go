// Package spectral defines the parameter types of a parameterized power
// spectrum model and their forward evaluation.
//
// The model decomposes a power spectrum, in log10-power space, into an
// aperiodic ("1/f-like") background plus a sum of Gaussian peaks:
//
//	model(f) = L(f) + sum_n G_n(f)
//	L(f)    = offset - log10(knee + f^exponent)
//	G_n(f)  = height * exp(-(f - mean)^2 / (2 * std^2))
//
// In fixed mode the knee is forced to zero and L reduces to a straight line
// over log-log axes. The package only evaluates models; fitting lives in the
// fit package.
package spectral
