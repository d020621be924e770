// Package analysis provides post-processing of simulated trajectories:
// power spectra for resonance inspection, least-squares steady-state
// fitting, and phase-space portraits.
package analysis
