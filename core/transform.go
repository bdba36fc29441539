package core

// Transformer rewrites a Transcript in place between transcription and
// rendering, e.g. redaction or segment merging.
type Transformer interface {
	Transform(t *Transcript) error
}

// TransformFunc adapts a function to the Transformer interface.
type TransformFunc func(t *Transcript) error

// Transform calls f(t).
func (f TransformFunc) Transform(t *Transcript) error {
	return f(t)
}

// Chain applies transformers in order, skipping nil entries and stopping at
// the first error.
func Chain(t *Transcript, transformers ...Transformer) error {
	for _, tr := range transformers {
		if tr == nil {
			continue
		}
		if err := tr.Transform(t); err != nil {
			return err
		}
	}
	return nil
}
