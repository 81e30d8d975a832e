package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jimlawless/whereami"
	jsoniter "github.com/json-iterator/go"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сопоставляет ошибку со статусом и текстом ответа.
func ToHTTPResponse(err error) (int, string) {
	badRequest := []error{
		e.ErrInvalidJSON,
		e.ErrMissingFields,
		e.ErrValidation,
		e.ErrInvalidPrice,
		e.ErrPricePrecision,
		e.ErrProductNameRequired,
		e.ErrNoDimensions,
		e.ErrStatusBadRequest,
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}

	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrCategoryNotFound):
		return http.StatusNotFound, e.ErrCategoryNotFound.Error()
	case errors.Is(err, e.ErrMessageNotFound):
		return http.StatusNotFound, e.ErrMessageNotFound.Error()
	case errors.Is(err, e.ErrSlugTaken):
		return http.StatusConflict, e.ErrSlugTaken.Error()
	case errors.Is(err, e.ErrCategoryExists):
		return http.StatusConflict, e.ErrCategoryExists.Error()
	case errors.Is(err, e.ErrArchiveDisabled):
		return http.StatusServiceUnavailable, e.ErrArchiveDisabled.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля и второй объект в теле отклоняются.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), errors.Join(e.ErrInvalidJSON, err))
	}
	if dec.More() {
		return e.Wrap(whereami.WhereAmI(), e.ErrInvalidJSON)
	}

	return nil
}

// parsePrice разбирает цену из строки запроса: неотрицательная, не больше двух знаков после запятой.
func parsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, e.ErrInvalidPrice
	}

	if d.IsNegative() {
		return nil, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return nil, e.ErrPricePrecision
	}

	return &d, nil
}
