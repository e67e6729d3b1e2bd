package dto

import "github.com/hongminglow/expense-tracker-be/internal/models"

// EntryRequest is the body of create/update calls. Absent keys stay nil.
type EntryRequest struct {
	Username *string      `json:"username"`
	Amount   *float64     `json:"amount"`
	Date     *models.Date `json:"date"`
}

func (r EntryRequest) Fields() models.EntryFields {
	return models.EntryFields{Username: r.Username, Amount: r.Amount, Date: r.Date}
}

type CreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
