// Package httpapi exposes the lending engine over HTTP.
//
// Routes:
//
//	POST /loans/requests          submit a borrow request
//	POST /loans/{loanID}/issue    approve and issue a requested loan
//	POST /loans/{loanID}/reject   reject a requested loan
//	POST /loans/{loanID}/return   return an issued loan
//	GET  /loans                   list loans (status, studentId, bookId, page, pageSize)
//	POST /fines                   create a manual fine
//	POST /fines/{fineID}/payment  confirm payment of a fine
//	GET  /fines                   list fines (studentId, status, createdOn)
//	POST /sweep                   trigger the overdue sweep manually
//
// Errors map to status codes by kind: validation 400, not found 404, state
// conflict 409, denial or exhaustion 422, infrastructure 503.
package httpapi
