package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

var (
	ErrInvalidEndTime = errors.New("scheduler: invalid end time")
	ErrStopped        = errors.New("scheduler: queue stopped")
)

// SessionEnd fires when a running timer session runs out.
type SessionEnd struct {
	ID   string
	Mode model.TimerMode
	At   time.Time
}

type queueItem struct {
	event SessionEnd
	index int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].event.At.Before(pq[j].event.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[0 : n-1]
	return item
}

// Queue delivers SessionEnd events on C() once their time has come. Delivery
// never blocks the loop; events a slow consumer cannot take are counted as
// dropped.
type Queue struct {
	mu      sync.Mutex
	queue   priorityQueue
	byID    map[string]*queueItem
	out     chan SessionEnd
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	now     func() time.Time
	started bool
	stopped bool
	dropped uint64
}

func NewQueue(bufferSize int) *Queue {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Queue{
		queue:  make(priorityQueue, 0),
		byID:   map[string]*queueItem{},
		out:    make(chan SessionEnd, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

func (q *Queue) C() <-chan SessionEnd {
	return q.out
}

func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	heap.Init(&q.queue)
	go q.loop()
}

func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started || q.stopped {
		q.stopped = true
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.stopCh)
	q.mu.Unlock()
	<-q.doneCh
}

// Schedule queues ev. Scheduling an ID that is already pending replaces it.
func (q *Queue) Schedule(ev SessionEnd) error {
	if ev.At.IsZero() || ev.ID == "" {
		return ErrInvalidEndTime
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return ErrStopped
	}

	if old, ok := q.byID[ev.ID]; ok {
		old.event = ev
		heap.Fix(&q.queue, old.index)
	} else {
		item := &queueItem{event: ev}
		heap.Push(&q.queue, item)
		q.byID[ev.ID] = item
	}
	q.signalWakeup()
	return nil
}

// Cancel removes a pending event. It reports whether one was pending.
func (q *Queue) Cancel(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&q.queue, item.index)
	delete(q.byID, id)
	q.signalWakeup()
	return true
}

func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

func (q *Queue) Dropped() uint64 {
	return atomic.LoadUint64(&q.dropped)
}

func (q *Queue) loop() {
	defer close(q.doneCh)
	defer close(q.out)

	var timer *time.Timer
	for {
		next, hasNext := q.peek()
		if !hasNext {
			select {
			case <-q.wakeup:
				continue
			case <-q.stopCh:
				return
			}
		}

		wait := next.At.Sub(q.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range q.popDue(q.now()) {
				select {
				case q.out <- ev:
				default:
					atomic.AddUint64(&q.dropped, 1)
				}
			}
		case <-q.wakeup:
			continue
		case <-q.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (q *Queue) signalWakeup() {
	select {
	case q.wakeup <- struct{}{}:
	default:
	}
}

func (q *Queue) peek() (SessionEnd, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return SessionEnd{}, false
	}
	return q.queue[0].event, true
}

func (q *Queue) popDue(now time.Time) []SessionEnd {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []SessionEnd
	for len(q.queue) > 0 {
		if q.queue[0].event.At.After(now) {
			break
		}
		item := heap.Pop(&q.queue).(*queueItem)
		delete(q.byID, item.event.ID)
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
