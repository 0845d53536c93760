package mqtt

import "log"

// queuedMsg stores a serialized MQTT message for replay after reconnection.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// offlineQueue is a fixed-capacity FIFO that holds messages while the broker
// is unreachable. When full, the oldest message is dropped: an hours-old
// interlock event is worthless, the recent ones are the story.
// Not safe for concurrent use — caller must synchronize.
type offlineQueue struct {
	slots   []queuedMsg
	first   int // index of the oldest entry
	count   int
	dropped bool // true if any message was lost since the last drain
}

func newOfflineQueue(capacity int) *offlineQueue {
	return &offlineQueue{slots: make([]queuedMsg, capacity)}
}

func (q *offlineQueue) push(msg queuedMsg) {
	if q.count == len(q.slots) {
		if !q.dropped {
			log.Printf("mqtt: offline queue full (%d messages), dropping oldest", len(q.slots))
			q.dropped = true
		}
		q.slots[q.first] = msg
		q.first = (q.first + 1) % len(q.slots)
		return
	}
	q.slots[(q.first+q.count)%len(q.slots)] = msg
	q.count++
}

func (q *offlineQueue) drainAll() []queuedMsg {
	if q.count == 0 {
		return nil
	}

	out := make([]queuedMsg, 0, q.count)
	for i := 0; i < q.count; i++ {
		out = append(out, q.slots[(q.first+i)%len(q.slots)])
	}

	q.first = 0
	q.count = 0
	q.dropped = false
	return out
}

func (q *offlineQueue) len() int {
	return q.count
}
