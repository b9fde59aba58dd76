package session

import (
	"sync"
)

// watcher delivers authentication flag transitions to a single subscriber, in order and
// without drops. Values are queued by publish and drained into the subscriber channel by
// a dedicated goroutine, so a slow subscriber never blocks a state transition.
type watcher struct {
	sync.Mutex
	queue  []bool
	signal chan struct{}
	out    chan bool
	done   chan struct{}
	once   sync.Once
}

func newWatcher(initial bool) *watcher {
	w := watcher{
		queue:  []bool{initial},
		signal: make(chan struct{}, 1),
		out:    make(chan bool),
		done:   make(chan struct{}),
	}

	go w.run()

	return &w
}

func (w *watcher) push(v bool) {
	w.Lock()
	w.queue = append(w.queue, v)
	w.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *watcher) close() {
	w.once.Do(func() {
		close(w.done)
	})
}

func (w *watcher) run() {
	defer close(w.out)

	for {
		w.Lock()
		if len(w.queue) == 0 {
			w.Unlock()

			select {
			case <-w.signal:
				continue
			case <-w.done:
				return
			}
		}

		v := w.queue[0]
		w.queue = w.queue[1:]
		w.Unlock()

		select {
		case w.out <- v:
		case <-w.done:
			return
		}
	}
}

type watchers struct {
	sync.Mutex
	list map[*watcher]struct{}
}

func (ww *watchers) add(initial bool) *watcher {
	w := newWatcher(initial)

	ww.Lock()
	defer ww.Unlock()

	if ww.list == nil {
		ww.list = map[*watcher]struct{}{}
	}

	ww.list[w] = struct{}{}

	return w
}

func (ww *watchers) remove(w *watcher) {
	ww.Lock()
	delete(ww.list, w)
	ww.Unlock()

	w.close()
}

func (ww *watchers) publish(v bool) {
	ww.Lock()
	defer ww.Unlock()

	for w := range ww.list {
		w.push(v)
	}
}

func (ww *watchers) closeAll() {
	ww.Lock()
	defer ww.Unlock()

	for w := range ww.list {
		w.close()
	}

	ww.list = nil
}
