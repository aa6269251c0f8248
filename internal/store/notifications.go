package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/brasaerp/brasaerp/internal/shared"
)

// stalePurchaseAge flags purchase orders still pending after this long.
const stalePurchaseAge = 30 * 24 * time.Hour

// CheckNotifications scans the collections for threshold conditions:
// inventory cells below the low-stock threshold, receivables past
// their due date (which are also moved to overdue status), and
// purchase orders pending for too long. A condition with an unread
// notification already on file is not flagged again. Returns the
// newly created notifications.
func (s *Store) CheckNotifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	changed := false
	var created []Notification

	flag := func(key string, typ NotificationType, title, message string) {
		for _, n := range s.st.Notifications {
			if n.Key == key && !n.Read {
				return
			}
		}
		n := Notification{
			ID:      s.newID(),
			At:      now,
			Type:    typ,
			Title:   title,
			Message: message,
			Key:     key,
		}
		s.st.Notifications = append(s.st.Notifications, n)
		created = append(created, n)
		changed = true
	}

	for _, loc := range Locations {
		for _, p := range ProductTypes {
			if qty := s.st.Inventory.Qty(loc, p); qty < s.lowStock {
				flag(fmt.Sprintf("low-stock:%s:%s", loc, p), NotifyWarning,
					"Low stock",
					fmt.Sprintf("%s at %s is down to %d units", p, loc, qty))
			}
		}
	}

	for i := range s.st.Transactions {
		tx := &s.st.Transactions[i]
		if tx.Status == TransactionPending && tx.DueDate.Before(now) {
			tx.Status = TransactionOverdue
			changed = true
		}
		if tx.Status == TransactionOverdue {
			flag("overdue:"+tx.ID, NotifyError,
				"Overdue "+string(tx.Type),
				fmt.Sprintf("%s of %s due %s", tx.Category, tx.Amount.StringFixed(2),
					tx.DueDate.Format("2006-01-02")))
		}
	}

	for _, po := range s.st.Purchases {
		if po.Status == PurchasePending && now.Sub(po.Date) > stalePurchaseAge {
			flag("po-stale:"+po.ID, NotifyInfo,
				"Stale purchase order",
				fmt.Sprintf("order from %s is still pending", po.Date.Format("2006-01-02")))
		}
	}

	if changed {
		s.persistLocked()
	}
	return created
}

// MarkNotificationRead flags one notification as read.
func (s *Store) MarkNotificationRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Notifications, func(x Notification) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	if !s.st.Notifications[idx].Read {
		s.st.Notifications[idx].Read = true
		s.persistLocked()
	}
	return nil
}

// MarkAllNotificationsRead flags every notification as read.
func (s *Store) MarkAllNotificationsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for i := range s.st.Notifications {
		if !s.st.Notifications[i].Read {
			s.st.Notifications[i].Read = true
			changed = true
		}
	}
	if changed {
		s.persistLocked()
	}
}

// Notifications returns a copy of the notification list, newest first.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.st.Notifications)
	slices.Reverse(out)
	return out
}
