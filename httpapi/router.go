package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/libreshelf/lending-engine/features/command/confirmfinepayment"
	"github.com/libreshelf/lending-engine/features/command/createmanualfine"
	"github.com/libreshelf/lending-engine/features/command/issueloan"
	"github.com/libreshelf/lending-engine/features/command/rejectloan"
	"github.com/libreshelf/lending-engine/features/command/returnloan"
	"github.com/libreshelf/lending-engine/features/command/runoverduesweep"
	"github.com/libreshelf/lending-engine/features/command/submitborrowrequest"
	"github.com/libreshelf/lending-engine/features/query/listfines"
	"github.com/libreshelf/lending-engine/features/query/listloans"
	"github.com/libreshelf/lending-engine/lending"
)

const dateLayout = "2006-01-02"

// Handlers bundles the feature handlers the router dispatches to.
type Handlers struct {
	SubmitBorrowRequest submitborrowrequest.CommandHandler
	IssueLoan           issueloan.CommandHandler
	RejectLoan          rejectloan.CommandHandler
	ReturnLoan          returnloan.CommandHandler
	ConfirmFinePayment  confirmfinepayment.CommandHandler
	CreateManualFine    createmanualfine.CommandHandler
	RunOverdueSweep     runoverduesweep.CommandHandler
	ListLoans           listloans.QueryHandler
	ListFines           listfines.QueryHandler
}

// NewRouter builds the HTTP router over the given feature handlers.
func NewRouter(handlers Handlers) http.Handler {
	api := apiHandler{handlers: handlers, now: time.Now}

	router := chi.NewRouter()

	router.Route("/loans", func(r chi.Router) {
		r.Get("/", api.listLoans)
		r.Post("/requests", api.submitBorrowRequest)
		r.Post("/{loanID}/issue", api.issueLoan)
		r.Post("/{loanID}/reject", api.rejectLoan)
		r.Post("/{loanID}/return", api.returnLoan)
	})

	router.Route("/fines", func(r chi.Router) {
		r.Get("/", api.listFines)
		r.Post("/", api.createManualFine)
		r.Post("/{fineID}/payment", api.confirmFinePayment)
	})

	router.Post("/sweep", api.runOverdueSweep)

	return router
}

type apiHandler struct {
	handlers Handlers
	now      func() time.Time
}

type submitBorrowRequestBody struct {
	StudentID string `json:"studentId"`
	BookID    string `json:"bookId"`
}

func (a apiHandler) submitBorrowRequest(w http.ResponseWriter, r *http.Request) {
	var body submitBorrowRequestBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	studentID, err := parseID(body.StudentID)
	if err != nil {
		writeError(w, err)
		return
	}

	bookID, err := parseID(body.BookID)
	if err != nil {
		writeError(w, err)
		return
	}

	command := submitborrowrequest.BuildCommand(studentID, bookID, a.now())

	loan, err := a.handlers.SubmitBorrowRequest.Handle(r.Context(), command)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLoanResponse(loan))
}

type issueLoanBody struct {
	LoanDays int `json:"loanDays"`
}

func (a apiHandler) issueLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := parseID(chi.URLParam(r, "loanID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var body issueLoanBody
	if r.ContentLength > 0 {
		if err = readJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
	}

	command := issueloan.BuildCommand(loanID, a.now(), body.LoanDays)

	loan, err := a.handlers.IssueLoan.Handle(r.Context(), command)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLoanResponse(loan))
}

func (a apiHandler) rejectLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := parseID(chi.URLParam(r, "loanID"))
	if err != nil {
		writeError(w, err)
		return
	}

	loan, err := a.handlers.RejectLoan.Handle(r.Context(), rejectloan.BuildCommand(loanID))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLoanResponse(loan))
}

func (a apiHandler) returnLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := parseID(chi.URLParam(r, "loanID"))
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := a.handlers.ReturnLoan.Handle(r.Context(), returnloan.BuildCommand(loanID, a.now()))
	if err != nil {
		writeError(w, err)
		return
	}

	response := returnLoanResponse{Loan: toLoanResponse(result.Loan)}
	if result.Fine != nil {
		fine := toFineResponse(*result.Fine)
		response.Fine = &fine
	}

	writeJSON(w, http.StatusOK, response)
}

func (a apiHandler) listLoans(w http.ResponseWriter, r *http.Request) {
	status := lending.LoanStatus(r.URL.Query().Get("status"))

	studentID, err := parseOptionalID(r.URL.Query().Get("studentId"))
	if err != nil {
		writeError(w, err)
		return
	}

	bookID, err := parseOptionalID(r.URL.Query().Get("bookId"))
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := parseOptionalInt(r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, err)
		return
	}

	pageSize, err := parseOptionalInt(r.URL.Query().Get("pageSize"))
	if err != nil {
		writeError(w, err)
		return
	}

	query := listloans.BuildQuery(status, studentID, bookID, page, pageSize)

	loanPage, err := a.handlers.ListLoans.Handle(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loanPageResponse{
		Loans:      toLoanResponses(loanPage.Loans),
		Pagination: loanPage.Pagination,
	})
}

type createManualFineBody struct {
	StudentID string  `json:"studentId"`
	LoanID    *string `json:"loanId"`
	Amount    string  `json:"amount"`
	Reason    string  `json:"reason"`
	DueDate   *string `json:"dueDate"`
}

func (a apiHandler) createManualFine(w http.ResponseWriter, r *http.Request) {
	var body createManualFineBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	studentID, err := parseID(body.StudentID)
	if err != nil {
		writeError(w, err)
		return
	}

	var loanID uuid.NullUUID
	if body.LoanID != nil {
		parsed, parseErr := parseID(*body.LoanID)
		if parseErr != nil {
			writeError(w, parseErr)
			return
		}
		loanID = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		writeError(w, errors.Join(lending.ErrInvalidAmount, err))
		return
	}

	var dueDate *time.Time
	if body.DueDate != nil {
		parsed, parseErr := parseDate(*body.DueDate)
		if parseErr != nil {
			writeError(w, parseErr)
			return
		}
		dueDate = &parsed
	}

	command := createmanualfine.BuildCommand(studentID, loanID, amount, body.Reason, a.now(), dueDate)

	fine, err := a.handlers.CreateManualFine.Handle(r.Context(), command)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFineResponse(fine))
}

func (a apiHandler) confirmFinePayment(w http.ResponseWriter, r *http.Request) {
	fineID, err := parseID(chi.URLParam(r, "fineID"))
	if err != nil {
		writeError(w, err)
		return
	}

	fine, err := a.handlers.ConfirmFinePayment.Handle(r.Context(), confirmfinepayment.BuildCommand(fineID, a.now()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFineResponse(fine))
}

func (a apiHandler) listFines(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseOptionalID(r.URL.Query().Get("studentId"))
	if err != nil {
		writeError(w, err)
		return
	}

	status := lending.FineStatus(r.URL.Query().Get("status"))

	var createdOn *time.Time
	if raw := r.URL.Query().Get("createdOn"); raw != "" {
		parsed, parseErr := parseDate(raw)
		if parseErr != nil {
			writeError(w, parseErr)
			return
		}
		createdOn = &parsed
	}

	fines, err := a.handlers.ListFines.Handle(r.Context(), listfines.BuildQuery(studentID, status, createdOn))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFineResponses(fines))
}

func (a apiHandler) runOverdueSweep(w http.ResponseWriter, r *http.Request) {
	result, err := a.handlers.RunOverdueSweep.Handle(r.Context(), runoverduesweep.BuildCommand(a.now()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sweepResponse{
		Scanned: result.Scanned,
		Created: result.Created,
		Skipped: result.Skipped,
		Failed:  result.Failed,
	})
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Join(lending.ErrInvalidInput, err)
	}

	return id, nil
}

func parseOptionalID(raw string) (uuid.NullUUID, error) {
	if raw == "" {
		return uuid.NullUUID{}, nil
	}

	id, err := parseID(raw)
	if err != nil {
		return uuid.NullUUID{}, err
	}

	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(lending.ErrInvalidInput, err)
	}

	return value, nil
}

func parseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errors.Join(lending.ErrInvalidInput, err)
	}

	return parsed, nil
}
