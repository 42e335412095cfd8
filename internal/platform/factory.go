package platform

import (
	"context"

	"github.com/aretw0/scribble/pkg/adapters/dictation"
	"github.com/aretw0/scribble/pkg/core"
)

// New wires storage, dictation and notifications into a core.Service and
// restores the note list from the slot.
//
//	svc, err := scribble.New("~/.scribble/notes", scribble.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*core.Service, error) {
	ctx := context.Background()
	o := applyOptions(opts)

	kv, err := initStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	var storeOpts []core.StoreOption
	if o.slot != "" {
		storeOpts = append(storeOpts, core.WithSlot(o.slot))
	}
	if o.logger != nil {
		storeOpts = append(storeOpts, core.WithStoreLogger(o.logger))
	}
	if o.now != nil {
		storeOpts = append(storeOpts, core.WithClock(o.now))
	}
	if o.newID != nil {
		storeOpts = append(storeOpts, core.WithIDGenerator(o.newID))
	}
	store := core.NewStore(kv, storeOpts...)

	capture := core.NewCaptureSession(resolveEngine(o),
		core.WithRecognitionConfig(core.DefaultRecognitionConfig(o.language)),
		core.WithCaptureLogger(o.logger),
		core.WithCaptureNotifier(o.notifier),
		core.WithDraftObserver(o.onDraft),
	)

	svcOpts := []core.ServiceOption{core.WithLogger(o.logger)}
	if o.notifier != nil {
		svcOpts = append(svcOpts, core.WithNotifier(o.notifier))
	}
	if size, ok := o.config["event_buffer"].(int); ok {
		svcOpts = append(svcOpts, core.WithEventBuffer(size))
	}

	service := core.NewService(store, capture, kv, svcOpts...)
	service.Restore(ctx)
	return service, nil
}

func resolveEngine(o *options) core.DictationEngine {
	if o.engine != nil {
		return o.engine
	}
	if argv, ok := o.config["dictation_command"].([]string); ok && len(argv) > 0 {
		return dictation.NewCommand(argv, dictation.WithLogger(o.logger))
	}
	return dictation.Unavailable{}
}
