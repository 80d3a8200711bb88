package httpx

import (
	"errors"
	"net/http"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

// stockProblem extends the problem payload with the quantities the caller
// needs to correct an over-selling request.
type stockProblem struct {
	ProblemDetail
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var stockErr *shared.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		JSON(w, http.StatusBadRequest, stockProblem{
			ProblemDetail: ProblemDetail{
				Title:  "Insufficient Stock",
				Status: http.StatusBadRequest,
				Detail: stockErr.Error(),
			},
			ProductID: stockErr.ProductID.String(),
			Requested: stockErr.Requested,
			Available: stockErr.Available,
		})
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrInvalidArgument):
		Problem(w, http.StatusBadRequest, "Invalid Argument", err.Error())
	case errors.Is(err, shared.ErrConcurrency):
		Problem(w, http.StatusConflict, "Concurrent Modification", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
