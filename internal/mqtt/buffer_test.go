package mqtt

import "testing"

func msg(id byte) queuedMsg {
	return queuedMsg{topic: "t", payload: []byte{id}}
}

func TestOfflineQueuePushDrain(t *testing.T) {
	q := newOfflineQueue(4)

	q.push(msg(1))
	q.push(msg(2))
	q.push(msg(3))

	if q.len() != 3 {
		t.Fatalf("len: got %d, want 3", q.len())
	}

	out := q.drainAll()
	if len(out) != 3 {
		t.Fatalf("drained: got %d, want 3", len(out))
	}
	for i, want := range []byte{1, 2, 3} {
		if out[i].payload[0] != want {
			t.Errorf("message %d: got %d, want %d", i, out[i].payload[0], want)
		}
	}

	if q.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", q.len())
	}
	if q.drainAll() != nil {
		t.Error("second drain should return nil")
	}
}

func TestOfflineQueueOverflowDropsOldest(t *testing.T) {
	q := newOfflineQueue(3)

	for id := byte(1); id <= 5; id++ {
		q.push(msg(id))
	}

	out := q.drainAll()
	if len(out) != 3 {
		t.Fatalf("drained: got %d, want 3", len(out))
	}
	for i, want := range []byte{3, 4, 5} {
		if out[i].payload[0] != want {
			t.Errorf("message %d: got %d, want %d", i, out[i].payload[0], want)
		}
	}
}

func TestOfflineQueueReusableAfterDrain(t *testing.T) {
	q := newOfflineQueue(2)

	q.push(msg(1))
	q.push(msg(2))
	q.push(msg(3)) // overflow
	q.drainAll()

	q.push(msg(9))
	out := q.drainAll()
	if len(out) != 1 || out[0].payload[0] != 9 {
		t.Errorf("after reuse: got %+v", out)
	}
}
