package metrics

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data via radix-2
// Cooley-Tukey. Length must be a power of two; SpectralIndex truncates
// its input accordingly before calling.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude spectrum of data up to Nyquist.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// SpectralIndex is a frequency-domain chattering diagnostic: the fraction
// of signal power above cutoff (a fraction of Nyquist, e.g. 0.1). It is
// not the optimization objective because it is bounded in [0, 1] and not
// strictly zero for slowly varying signals; use it to cross-check the
// derivative-energy ChatteringIndex.
func SpectralIndex(u []float64, cutoff float64) float64 {
	n := largestPowerOfTwo(len(u))
	if n < 4 {
		return 0
	}
	ps := PowerSpectrum(u[:n])

	// Skip the DC bin so a constant offset contributes no power.
	total := 0.0
	high := 0.0
	split := int(cutoff * float64(len(ps)))
	if split < 1 {
		split = 1
	}
	for i := 1; i < len(ps); i++ {
		p := ps[i] * ps[i]
		total += p
		if i >= split {
			high += p
		}
	}
	if total == 0 {
		return 0
	}
	return high / total
}

func largestPowerOfTwo(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
