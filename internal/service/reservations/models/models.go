package models

import (
	"errors"
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidOutcome возвращается при недопустимом решении по заявке
	ErrInvalidOutcome = errors.New("invalid decision outcome")
)

// Request модели

// GetUserReservationsRequest запрос на получение броней пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// CancelReservationRequest запрос на отмену брони владельцем
type CancelReservationRequest struct {
	UserID int64   `json:"userId"`
	Reason *string `json:"reason,omitempty"`
}

// DecideRequest решение сотрудника по заявке
type DecideRequest struct {
	UserID  int64  `json:"userId"`  // сотрудник, принимающий решение
	Outcome string `json:"outcome"` // approved или denied
	Note    string `json:"note,omitempty"`
}

// Response модели

// ReservationResponse ответ с данными брони
type ReservationResponse struct {
	ID         int64 `json:"id"`
	UserID     int64 `json:"userId"`
	FacilityID int64 `json:"facilityId"`

	ReservationDate string `json:"reservationDate"` // "2026-09-15"
	TimeSlot        string `json:"timeSlot"`
	Purpose         string `json:"purpose"`
	Status          string `json:"status"`

	ExpectedAttendees *int `json:"expectedAttendees,omitempty"`
	IsCommercial      bool `json:"isCommercial"`
	AutoApproved      bool `json:"autoApproved"`

	PostponedPriority bool    `json:"postponedPriority"`
	PostponedAt       *string `json:"postponedAt,omitempty"` // ISO 8601
	ExpiresAt         *string `json:"expiresAt,omitempty"`   // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком броней
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                r.ID,
		UserID:            r.UserID,
		FacilityID:        r.FacilityID,
		ReservationDate:   r.ReservationDate.Format(domain.DateFormat),
		TimeSlot:          r.TimeSlot,
		Purpose:           r.Purpose,
		Status:            string(r.Status),
		ExpectedAttendees: r.ExpectedAttendees,
		IsCommercial:      r.IsCommercial,
		AutoApproved:      r.AutoApproved,
		PostponedPriority: r.PostponedPriority,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}

	if r.PostponedAt != nil {
		s := r.PostponedAt.Format(time.RFC3339)
		resp.PostponedAt = &s
	}
	if r.ExpiresAt != nil {
		s := r.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &s
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, len(reservations)),
	}

	for i, reservation := range reservations {
		if r := FromDomainReservation(reservation); r != nil {
			resp.Reservations[i] = *r
		}
	}

	return resp
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)

	validStatuses := []domain.ReservationStatus{
		domain.StatusPending,
		domain.StatusApproved,
		domain.StatusDenied,
		domain.StatusCancelled,
		domain.StatusPostponed,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}

// ToDecisionOutcome валидирует решение сотрудника
func ToDecisionOutcome(outcome string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(outcome)
	for _, valid := range domain.DecisionOutcomes {
		if s == valid {
			return s, nil
		}
	}
	return "", ErrInvalidOutcome
}
