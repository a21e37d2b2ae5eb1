package zone

import (
	"context"
	"sync"
	"time"
)

// NotifyingRepository wraps a Repository and publishes a ChangeEvent
// after every successful mutation. Reads pass straight through.
//
// Subscribers receive events on a buffered channel; a slow subscriber
// drops events rather than blocking the writer.
type NotifyingRepository struct {
	Repository

	mu   sync.Mutex
	subs []chan ChangeEvent
}

// NewNotifyingRepository wraps repo with change notification.
func NewNotifyingRepository(repo Repository) *NotifyingRepository {
	return &NotifyingRepository{Repository: repo}
}

// Subscribe returns a channel that receives change events until the
// context is cancelled.
func (n *NotifyingRepository) Subscribe(ctx context.Context) <-chan ChangeEvent {
	ch := make(chan ChangeEvent, 16)

	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		for i, sub := range n.subs {
			if sub == ch {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				break
			}
		}
		n.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (n *NotifyingRepository) publish(event ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Create inserts a zone and notifies subscribers on success.
func (n *NotifyingRepository) Create(ctx context.Context, z *Zone) error {
	if err := n.Repository.Create(ctx, z); err != nil {
		return err
	}
	n.publish(ChangeEvent{Type: ChangeCreated, ZoneID: z.ID})
	return nil
}

// Update modifies a zone and notifies subscribers on success.
func (n *NotifyingRepository) Update(ctx context.Context, z *Zone) error {
	if err := n.Repository.Update(ctx, z); err != nil {
		return err
	}
	n.publish(ChangeEvent{Type: ChangeUpdated, ZoneID: z.ID})
	return nil
}

// Delete removes a zone and notifies subscribers on success.
func (n *NotifyingRepository) Delete(ctx context.Context, id string) error {
	if err := n.Repository.Delete(ctx, id); err != nil {
		return err
	}
	n.publish(ChangeEvent{Type: ChangeDeleted, ZoneID: id})
	return nil
}

// SetEnabled flips the enabled flag and notifies subscribers on success.
func (n *NotifyingRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if err := n.Repository.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}
	n.publish(ChangeEvent{Type: ChangeEnabled, ZoneID: id})
	return nil
}

// SetLastTriggered records the trigger time and notifies subscribers on
// success.
func (n *NotifyingRepository) SetLastTriggered(ctx context.Context, id string, at time.Time) error {
	if err := n.Repository.SetLastTriggered(ctx, id, at); err != nil {
		return err
	}
	n.publish(ChangeEvent{Type: ChangeTriggered, ZoneID: id})
	return nil
}
