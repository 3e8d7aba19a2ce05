package service

import (
	"fmt"
	"log"

	"carshow/internal/db"
	"carshow/internal/entities"
)

const smsSignature = "\n\n- Car Show Car Rental Team"

// SenderService composes and dispatches customer messages. SMS goes through
// the Notifier; email is sent asynchronously. Both are best-effort.
type SenderService struct {
	notifier Notifier
}

func NewSenderService(notifier Notifier) *SenderService {
	return &SenderService{notifier: notifier}
}

// StatusMessage is the SMS body for a lifecycle transition.
func StatusMessage(n entities.ReservationNotice) string {
	switch n.Status {
	case db.StatusActive:
		return fmt.Sprintf("Your reservation for %s is now active.\n\nEnjoy your ride!%s",
			n.CarLabel, smsSignature)
	case db.StatusCompleted:
		return fmt.Sprintf("Your reservation for %s has been completed.\n\nThank you for choosing our service!%s",
			n.CarLabel, smsSignature)
	case db.StatusCancelled:
		return fmt.Sprintf("Your reservation for %s has been cancelled due to pending payment.%s",
			n.CarLabel, smsSignature)
	case db.StatusPaid, db.StatusPartial:
		return fmt.Sprintf("Payment received for your %s reservation (code %s).\n\nSee you soon!%s",
			n.CarLabel, n.Code, smsSignature)
	default:
		return fmt.Sprintf("Your reservation for %s is now %s.%s", n.CarLabel, n.Status, smsSignature)
	}
}

// PickupReminderMessage reminds the holder a day before pickup.
func PickupReminderMessage(n entities.ReservationNotice) string {
	return fmt.Sprintf("REMINDER: Your car rental for %s starts tomorrow at %s.\n\nPlease arrive on time for pickup.%s",
		n.CarLabel, n.StartTime.Format("03:04 PM"), smsSignature)
}

// ReturnReminderMessage reminds the holder an hour before return.
func ReturnReminderMessage(n entities.ReservationNotice) string {
	return fmt.Sprintf("REMINDER: Your car rental for %s ends in 1 hour at %s.\n\nPlease ensure timely return to avoid additional charges.%s",
		n.CarLabel, n.EndTime.Format("03:04 PM"), smsSignature)
}

// NotifyStatus sends the transition SMS for a reservation. Failures are
// logged and swallowed; the transition already happened.
func (s *SenderService) NotifyStatus(n entities.ReservationNotice) bool {
	ok := s.notifier.Send(n.UserPhone, StatusMessage(n))
	if !ok {
		log.Printf("Notification for reservation %s (%s) not delivered", n.Code, n.Status)
	}
	return ok
}

// SendPickupReminder returns whether the reminder was delivered; the caller
// flags the reservation only on success.
func (s *SenderService) SendPickupReminder(n entities.ReservationNotice) bool {
	return s.notifier.Send(n.UserPhone, PickupReminderMessage(n))
}

func (s *SenderService) SendReturnReminder(n entities.ReservationNotice) bool {
	return s.notifier.Send(n.UserPhone, ReturnReminderMessage(n))
}

// SendReservationEmail mails a plain-text copy of the status change, in the
// background so callers never wait on the mail provider.
func (s *SenderService) SendReservationEmail(n entities.ReservationNotice) {
	if n.UserEmail == "" {
		return
	}
	subject := fmt.Sprintf("Your Car Show Rental reservation %s is %s", n.Code, n.Status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour reservation for %s is %s.\n\n"+
			"Reservation Code: %s\n"+
			"Pickup: %s\n"+
			"Return: %s\n\n"+
			"Thank you for choosing Car Show Rental.",
		n.UserName, n.CarLabel, n.Status, n.Code,
		n.StartTime.Format("02 Jan 2006 15:04 MST"),
		n.EndTime.Format("02 Jan 2006 15:04 MST"))

	go func() {
		if err := SendEmailWithSendGrid(n.UserEmail, n.UserName, subject, body, ""); err != nil {
			log.Printf("Email for reservation %s not delivered: %v", n.Code, err)
		}
	}()
}
