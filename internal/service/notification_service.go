package service

import (
	"fmt"
	"log"

	"associapro/internal/domain"
	"associapro/internal/models"
	"associapro/internal/repository"
	"associapro/internal/ws"
)

// broadcastPageSize bounds how many notification rows a single insert
// carries during a fan-out to all users.
const broadcastPageSize = 500

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	hub      *ws.Hub      // may be nil
	mailer   *MailService // may be nil
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, hub *ws.Hub, mailer *MailService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, hub: hub, mailer: mailer}
}

// Notify writes one notification row and pushes it on the side channels.
func (s *NotificationService) Notify(userID uint, notifType, title, message string) error {
	n := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	s.push(n)
	return nil
}

// push sends the notification over the websocket stream and, for payment
// events, by email. Both channels are best effort.
func (s *NotificationService) push(n *models.Notification) {
	if s.hub != nil {
		s.hub.BroadcastToUser(n.UserID, map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
	if s.mailer != nil && n.Type == domain.NotificationTypePayment {
		u, err := s.userRepo.GetByID(n.UserID)
		if err != nil || u == nil {
			return
		}
		_ = s.mailer.Send(u.Email, n.Title, n.Message)
	}
}

// Broadcast writes one notification per user, paging through the user set so
// no single insert is unbounded.
func (s *NotificationService) Broadcast(notifType, title, message string) error {
	var lastID uint
	for {
		ids, err := s.userRepo.ListIDs(lastID, broadcastPageSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		batch := make([]models.Notification, 0, len(ids))
		for _, id := range ids {
			batch = append(batch, models.Notification{
				UserID:  id,
				Type:    notifType,
				Title:   title,
				Message: message,
			})
		}
		if err := s.repo.CreateBatch(batch); err != nil {
			return err
		}
		if s.hub != nil {
			for i := range batch {
				s.hub.BroadcastToUser(batch[i].UserID, map[string]interface{}{
					"type":         "notification",
					"notification": &batch[i],
				})
			}
		}
		lastID = ids[len(ids)-1]
		if len(ids) < broadcastPageSize {
			return nil
		}
	}
}

// NotifyPaymentStatus writes the user-facing notification for a payment
// status change. Texts match what members see in the portal.
func (s *NotificationService) NotifyPaymentStatus(userID uint, status string, amount float64) error {
	title, message := PaymentStatusNotification(status, amount)
	if title == "" {
		return nil
	}
	return s.Notify(userID, domain.NotificationTypePayment, title, message)
}

// PaymentStatusNotification maps an internal payment status to the
// notification title and message shown to the member.
func PaymentStatusNotification(status string, amount float64) (title, message string) {
	switch status {
	case domain.PaymentStatusCompleted:
		return "Pagamento confirmado", fmt.Sprintf("Seu pagamento de R$ %.2f foi confirmado.", amount)
	case domain.PaymentStatusOverdue:
		return "Pagamento atrasado", fmt.Sprintf("Seu pagamento de R$ %.2f está atrasado.", amount)
	case domain.PaymentStatusCancelled:
		return "Pagamento cancelado/reembolsado", fmt.Sprintf("Seu pagamento de R$ %.2f foi cancelado ou reembolsado.", amount)
	case domain.PaymentStatusPending:
		return "Pagamento pendente", fmt.Sprintf("Seu pagamento de R$ %.2f está pendente.", amount)
	}
	return "", ""
}

// NotifyNewMaterial broadcasts the arrival of a library material.
func (s *NotificationService) NotifyNewMaterial(title string) {
	msg := fmt.Sprintf("O material %q foi adicionado à biblioteca.", title)
	if err := s.Broadcast(domain.NotificationTypeMaterial, "Novo material disponível", msg); err != nil {
		log.Printf("[NOTIFY] broadcast new material: %v", err)
	}
}

// NotifyNewCourse broadcasts the arrival of a course.
func (s *NotificationService) NotifyNewCourse(title string) {
	msg := fmt.Sprintf("O curso %q já está disponível.", title)
	if err := s.Broadcast(domain.NotificationTypeCourse, "Novo curso disponível", msg); err != nil {
		log.Printf("[NOTIFY] broadcast new course: %v", err)
	}
}
