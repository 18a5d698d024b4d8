package run_maintenance_cascade

import (
	"context"
	"fmt"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/mailservice"
	"github.com/m04kA/LGU-ReservationService/pkg/ptr"
)

type noticeKind int

const (
	noticeCancelled noticeKind = iota
	noticeHeld
	noticePostponed
	noticeRestored
)

// notice план уведомления, отправляемого после коммита каскада
type notice struct {
	kind          noticeKind
	reservationID int64
	userID        int64
	timeSlot      string
	dateText      string
}

func newNotice(res *domain.Reservation, kind noticeKind) notice {
	return notice{
		kind:          kind,
		reservationID: res.ID,
		userID:        res.UserID,
		timeSlot:      res.TimeSlot,
		dateText:      res.ReservationDate.Format(domain.DateFormat),
	}
}

// emitNotice пишет уведомление в портал и, для отложенных и восстановленных
// броней, шлет письмо. Сбой письма только логируется почтовым клиентом.
func (uc *UseCase) emitNotice(ctx context.Context, facility *domain.Facility, n notice) error {
	title, message, template := uc.renderNotice(facility, n)

	err := uc.notificationRepo.Create(ctx, &domain.Notification{
		UserID:  n.userID,
		Type:    domain.NotificationBooking,
		Title:   title,
		Message: message,
		Link:    ptr.Ptr(fmt.Sprintf("/reservations/%d", n.reservationID)),
	})
	if err != nil {
		return err
	}

	if template != "" {
		uc.mailClient.SendBestEffort(ctx, &mailservice.SendRequest{
			UserID:   n.userID,
			Template: template,
			Subject:  title,
			Body:     message,
		})
	}

	return nil
}

// renderNotice подбирает текст и почтовый шаблон; пустой шаблон означает,
// что письмо для этого случая не отправляется
func (uc *UseCase) renderNotice(facility *domain.Facility, n notice) (title, message, template string) {
	switch n.kind {
	case noticeCancelled:
		return "Reservation cancelled",
			fmt.Sprintf("Your reservation for %s on %s (%s) was cancelled because the facility entered maintenance.",
				facility.Name, n.dateText, n.timeSlot),
			""

	case noticeHeld:
		return "Reservation on hold",
			fmt.Sprintf("Your pending request for %s on %s (%s) is on hold while the facility is under maintenance.",
				facility.Name, n.dateText, n.timeSlot),
			""

	case noticePostponed:
		return "Reservation postponed",
			fmt.Sprintf("Your reservation for %s on %s (%s) was postponed due to facility maintenance. You will have priority when the facility reopens.",
				facility.Name, n.dateText, n.timeSlot),
			mailservice.TemplatePostponed

	default:
		return "Facility available again",
			fmt.Sprintf("%s is available again. You have priority to rebook your reservation originally set for %s (%s).",
				facility.Name, n.dateText, n.timeSlot),
			mailservice.TemplateAvailabilityRestore
	}
}
