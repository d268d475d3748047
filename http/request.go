package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"attendees/checkout"
	"attendees/entities"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s failed on %s", fieldErr.Namespace(), fieldErr.Tag()))
	}

	return echo.NewHTTPError(http.StatusBadRequest, strings.Join(problems, "; "))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

type StepsRequest struct {
	Steps     []checkout.Step     `json:"steps" validate:"dive"`
	LineItems []entities.LineItem `json:"line_items" validate:"dive"`
}

type StepsResponse struct {
	Steps []checkout.Step `json:"steps"`
}

type TicketFieldsRequest struct {
	LineItems []entities.LineItem `json:"line_items" validate:"dive"`
}

type TicketField struct {
	ID     string             `json:"id"`
	Kind   entities.FieldKind `json:"kind"`
	Ticket int                `json:"ticket"`
	Label  string             `json:"label"`
	Title  string             `json:"title"`
	Value  string             `json:"value"`
}

type TicketFieldsResponse struct {
	TicketCount int           `json:"ticket_count"`
	Fields      []TicketField `json:"fields"`
}

type PutTicketFieldRequest struct {
	Value string `json:"value"`
}

type TicketValuesRequest struct {
	LineItems []entities.LineItem `json:"line_items" validate:"dive"`
	// Values are keyed by field id, e.g. billing_cpf_1.
	Values map[string]string `json:"values"`
}

type TicketStepResponse struct {
	State  string                    `json:"state"`
	Result entities.ValidationResult `json:"result"`
}

type AdminAttendee struct {
	Ticket   int    `json:"ticket"`
	Title    string `json:"title"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email"`
}

type AdminOrderAttendeesResponse struct {
	OrderID      string          `json:"order_id"`
	TicketCount  int             `json:"ticket_count"`
	RegisteredAt string          `json:"registered_at"`
	Attendees    []AdminAttendee `json:"attendees"`
}

// parseValues splits submitted values into field values and international
// phones. Unknown ids are rejected.
func parseValues(raw map[string]string) (map[entities.FieldKey]string, map[entities.FieldKey]string, error) {
	values := make(map[entities.FieldKey]string, len(raw))
	internationalPhones := map[entities.FieldKey]string{}

	for id, value := range raw {
		if key, ok := entities.ParseInternationalPhoneID(id); ok {
			internationalPhones[key] = value
			continue
		}

		key, err := entities.ParseFieldKey(id)
		if err != nil {
			return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		values[key] = value
	}

	return values, internationalPhones, nil
}
