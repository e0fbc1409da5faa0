package httpapi

import (
	"time"

	"github.com/libreshelf/lending-engine/lending"
)

type loanResponse struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	BookID      string     `json:"bookId"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	IssuedAt    *time.Time `json:"issuedAt,omitempty"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	ReturnedAt  *time.Time `json:"returnedAt,omitempty"`
}

type loanPageResponse struct {
	Loans      []loanResponse     `json:"loans"`
	Pagination lending.Pagination `json:"pagination"`
}

type fineResponse struct {
	ID         string     `json:"id"`
	LoanID     *string    `json:"loanId,omitempty"`
	StudentID  string     `json:"studentId"`
	Amount     string     `json:"amount"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	IssuedDate time.Time  `json:"issuedDate"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	PaidDate   *time.Time `json:"paidDate,omitempty"`
}

type returnLoanResponse struct {
	Loan loanResponse  `json:"loan"`
	Fine *fineResponse `json:"fine,omitempty"`
}

type sweepResponse struct {
	Scanned int `json:"scanned"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func toLoanResponse(loan lending.Loan) loanResponse {
	return loanResponse{
		ID:          loan.ID.String(),
		StudentID:   loan.StudentID.String(),
		BookID:      loan.BookID.String(),
		Status:      string(loan.Status),
		RequestedAt: loan.RequestedAt,
		IssuedAt:    loan.IssuedAt,
		DueAt:       loan.DueAt,
		ReturnedAt:  loan.ReturnedAt,
	}
}

func toLoanResponses(loans []lending.Loan) []loanResponse {
	responses := make([]loanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, toLoanResponse(loan))
	}

	return responses
}

func toFineResponse(fine lending.Fine) fineResponse {
	response := fineResponse{
		ID:         fine.ID.String(),
		StudentID:  fine.StudentID.String(),
		Amount:     fine.Amount.String(),
		Reason:     fine.Reason,
		Status:     string(fine.Status),
		IssuedDate: fine.IssuedDate,
		DueDate:    fine.DueDate,
		PaidDate:   fine.PaidDate,
	}

	if fine.LoanID.Valid {
		loanID := fine.LoanID.UUID.String()
		response.LoanID = &loanID
	}

	return response
}

func toFineResponses(fines []lending.Fine) []fineResponse {
	responses := make([]fineResponse, 0, len(fines))
	for _, fine := range fines {
		responses = append(responses, toFineResponse(fine))
	}

	return responses
}
