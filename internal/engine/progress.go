package engine

import "github.com/probelab/brandprobe/internal/model"

// ProgressFunc receives a full snapshot of all tasks after every state
// change. Snapshots are copies — the caller never sees the engine's mutable
// task state.
type ProgressFunc func(tasks []model.Task)

// progressNotifier decouples the scheduler from the caller's callback: the
// scheduler publishes snapshots into a buffered channel and a dedicated
// goroutine invokes the callback. A slow callback therefore never blocks a
// task transition. When the buffer is full the oldest snapshot is dropped —
// snapshots are cumulative, so the latest one supersedes anything dropped —
// and the terminal snapshot is always delivered because publish never drops
// the value it is sending.
type progressNotifier struct {
	ch   chan []model.Task
	done chan struct{}
}

func newProgressNotifier(onProgress ProgressFunc, buffer int) *progressNotifier {
	n := &progressNotifier{
		ch:   make(chan []model.Task, buffer),
		done: make(chan struct{}),
	}
	go func() {
		defer close(n.done)
		for snap := range n.ch {
			if onProgress != nil {
				onProgress(snap)
			}
		}
	}()
	return n
}

// publish enqueues a snapshot, evicting the oldest queued one when full.
func (n *progressNotifier) publish(snap []model.Task) {
	for {
		select {
		case n.ch <- snap:
			return
		default:
			select {
			case <-n.ch:
			default:
			}
		}
	}
}

// close stops the notifier and waits until every queued snapshot, including
// the terminal one, has been handed to the callback.
func (n *progressNotifier) close() {
	close(n.ch)
	<-n.done
}
