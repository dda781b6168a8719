package store

import "budget-bites/state-svc/internal/domain"

func (s *Store) UpdateNotificationSettings(update domain.NotificationSettingsUpdate) domain.NotificationSettings {
	var out domain.NotificationSettings
	s.mutate(func() bool {
		s.notification = s.notification.Merge(update)
		out = s.notification
		return true
	})
	return out
}

func (s *Store) UpdateAppSettings(update domain.AppSettingsUpdate) domain.AppSettings {
	var out domain.AppSettings
	s.mutate(func() bool {
		s.app = s.app.Merge(update)
		out = s.app
		return true
	})
	return out
}

func (s *Store) NotificationSettings() domain.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notification
}

func (s *Store) AppSettings() domain.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app
}

// AddSupportTicket prepends ticket. Tickets are never edited afterwards.
func (s *Store) AddSupportTicket(ticket domain.SupportTicket) {
	s.mutate(func() bool {
		s.tickets = append([]domain.SupportTicket{ticket}, s.tickets...)
		return true
	})
}

func (s *Store) SupportTickets() []domain.SupportTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SupportTicket{}, s.tickets...)
}
