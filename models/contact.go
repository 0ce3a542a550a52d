package models

import "balloonshop/tables"

type ContactForm struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	EventDate string `json:"eventDate"`
	Message   string `json:"message" binding:"required"`
}

func (f ContactForm) Row() tables.Row {
	return tables.Row{
		"name":       f.Name,
		"email":      f.Email,
		"phone":      f.Phone,
		"event_date": f.EventDate,
		"message":    f.Message,
		"status":     "new",
	}
}
