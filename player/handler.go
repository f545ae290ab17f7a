package player

import "github.com/tubeplay-cli/tubeplay/media"

// Handler consumes what a Session produces.
//
// OnFrame runs on the playback goroutine while the session lock is held.
// The frame is only valid during the call, and OnFrame must not call back into the session.
// OnError runs without the lock.
type Handler interface {
	OnFrame(*media.Frame)
	OnError(error)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are ignored.
type HandlerFuncs struct {
	Frame func(*media.Frame)
	Error func(error)
}

func (h HandlerFuncs) OnFrame(frame *media.Frame) {
	if h.Frame != nil {
		h.Frame(frame)
	}
}

func (h HandlerFuncs) OnError(err error) {
	if h.Error != nil {
		h.Error(err)
	}
}
