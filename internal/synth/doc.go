// Package synth writes the publishing block into each document.
//
// The Synthesizer decides, per document, which title and parent title to emit
// and renders them through the primary template. The OverlayApplier layers
// manual overrides from sidecar files on top. The Detector reports final titles
// that collide, since the publishing target rejects duplicate page titles.
package synth
