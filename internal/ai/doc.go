// Package ai runs the generative model calls behind the listing
// optimizer: the freemium listing analysis plus the two-step paid
// description pipeline (analyzer brief, then writer). Model access goes
// through the Completer interface so tests can stub the model.
package ai
