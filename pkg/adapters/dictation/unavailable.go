package dictation

import "github.com/aretw0/scribble/pkg/core"

// Unavailable is the engine of a host without speech recognition.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Start(core.RecognitionConfig, core.RecognitionHandler) (core.Recognition, error) {
	return nil, core.ErrCaptureUnavailable
}

var _ core.DictationEngine = Unavailable{}
