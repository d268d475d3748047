package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"attendees/cache"
	"attendees/checkout"
	"attendees/clock"
	"attendees/entities"
	"attendees/fields"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attendeeRepositoryMock struct {
	lock   sync.Mutex
	orders map[string]entities.OrderAttendees
}

func (r *attendeeRepositoryMock) Register(ctx context.Context, registration entities.AttendeeRegistration) (entities.OrderAttendees, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.orders[registration.OrderID]; ok {
		return entities.OrderAttendees{}, entities.ErrAttendeesAlreadyRegistered
	}

	order := entities.OrderAttendees{
		OrderID:      registration.OrderID,
		TicketCount:  registration.TicketCount,
		Attendees:    registration.Attendees(),
		RegisteredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	r.orders[registration.OrderID] = order

	return order, nil
}

func (r *attendeeRepositoryMock) Get(ctx context.Context, orderID string) (entities.OrderAttendees, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return entities.OrderAttendees{}, entities.ErrOrderAttendeesNotFound
	}
	return order, nil
}

type emptyReadModel struct{}

func (emptyReadModel) GetByOrderID(ctx context.Context, orderID string) (entities.OrderAttendees, error) {
	return entities.OrderAttendees{}, entities.ErrOrderAttendeesNotFound
}

type testServer struct {
	e        *echo.Echo
	repo     *attendeeRepositoryMock
	sessions map[string]*cache.MemoryStore
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	clk := clock.NewManual(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	sessions := map[string]*cache.MemoryStore{}
	var lock sync.Mutex

	provider := func(c echo.Context, sessionID string) cache.ValueStore {
		lock.Lock()
		defer lock.Unlock()

		store, ok := sessions[sessionID]
		if !ok {
			store = cache.NewMemoryStore(clk)
			sessions[sessionID] = store
		}
		return store
	}

	repo := &attendeeRepositoryMock{orders: map[string]entities.OrderAttendees{}}

	return testServer{
		e:        NewHttpRouter(fields.NewValidator(fields.DefaultMessages()), provider, repo, emptyReadModel{}, cache.DefaultTTLDays),
		repo:     repo,
		sessions: sessions,
	}
}

func (s testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	s.e.ServeHTTP(rec, req)
	return rec
}

const oneTicketCart = `[{"product_id":"p1","quantity":1,"ticket_flag":"yes"},{"product_id":"p2","quantity":3}]`

func completeTicket(n string, cpf string) string {
	return `"billing_first_name_` + n + `":"Ana","billing_last_name_` + n + `":"Souza",` +
		`"billing_cpf_` + n + `":"` + cpf + `","billing_phone_` + n + `":"1199999000` + n + `",` +
		`"billing_email_` + n + `":"ana` + n + `@example.com"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPostCheckoutSteps(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/checkout/steps", `{
		"steps":[{"slug":"contact","title":"Contato"},{"slug":"payment","title":"Pagamento"}],
		"line_items":`+oneTicketCart+`
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StepsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Steps, 3)
	assert.Equal(t, "ticket", resp.Steps[1].Slug)
	assert.Equal(t, "Ingressos", resp.Steps[1].Title)
}

func TestPostCheckoutSteps_InvalidRequest(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/checkout/steps", `{"steps":[{"title":"no slug"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketFields_RestoresCachedValues(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/checkout/s1/ticket-fields/billing_cpf_1", `{"value":"111.444.777-35"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/checkout/s1/ticket-fields", `{"line_items":`+oneTicketCart+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TicketFieldsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.TicketCount)
	require.Len(t, resp.Fields, 5)
	assert.Equal(t, "billing_first_name_1", resp.Fields[0].ID)
	assert.Equal(t, "Nome", resp.Fields[0].Label)
	assert.Equal(t, "Ingresso 1", resp.Fields[0].Title)
	assert.Empty(t, resp.Fields[0].Value)
	assert.Equal(t, "billing_cpf_1", resp.Fields[2].ID)
	assert.Equal(t, "111.444.777-35", resp.Fields[2].Value)

	// other session sees nothing
	rec = s.do(t, http.MethodPost, "/checkout/s2/ticket-fields", `{"line_items":`+oneTicketCart+`}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Fields[2].Value)
}

func TestPutTicketField_UnknownField(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/checkout/s1/ticket-fields/billing_company_1", `{"value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostTicketStep(t *testing.T) {
	t.Run("blocked", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/checkout/s1/ticket-step", `{
			"line_items":[{"product_id":"p1","quantity":2,"ticket_flag":"yes"}],
			"values":{`+completeTicket("1", "11144477735")+`,`+completeTicket("2", "111.444.777-35")+`}
		}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp TicketStepResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "blocked", resp.State)
		assert.False(t, resp.Result.IsValid)
		assert.Len(t, resp.Result.GlobalMessages, 1)
		assert.Len(t, resp.Result.FieldMessages, 2)
		assert.Contains(t, resp.Result.FieldMessages, entities.NewFieldKey(entities.FieldDocument, 1))
		assert.Contains(t, resp.Result.FieldMessages, entities.NewFieldKey(entities.FieldDocument, 2))
	})

	t.Run("missing values are restored from the cache", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPut, "/checkout/s1/ticket-fields/billing_email_1", `{"value":"ana@example.com"}`)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodPost, "/checkout/s1/ticket-step", `{
			"line_items":`+oneTicketCart+`,
			"values":{"billing_first_name_1":"Ana","billing_last_name_1":"Souza","billing_cpf_1":"11144477735","billing_phone_1":"11999990000"}
		}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp TicketStepResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "passed", resp.State)
		assert.True(t, resp.Result.IsValid)

		// submitted values were cached too
		value, ok := s.sessions["s1"].Get(context.Background(), entities.NewFieldKey(entities.FieldDocument, 1))
		assert.True(t, ok)
		assert.Equal(t, "11144477735", value)
	})

	t.Run("no tickets", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/checkout/s1/ticket-step", `{"line_items":[{"product_id":"p2","quantity":1}]}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOrderAttendees(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"line_items":[{"product_id":"p1","quantity":1,"ticket_flag":"yes"}],
		"values":{` + completeTicket("1", "11144477735") + `,"billing_phone_1_full":"+55 11 99999-0001"}
	}`

	rec := s.do(t, http.MethodPost, "/orders/o1/attendees", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/orders/o1/attendees", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/orders/o1/attendees", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AdminOrderAttendeesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "o1", resp.OrderID)
	require.Len(t, resp.Attendees, 1)
	assert.Equal(t, AdminAttendee{
		Ticket:   1,
		Title:    "Ingresso 1",
		Name:     "Ana Souza",
		Document: "11144477735",
		Phone:    "+55 11 99999-0001",
		Email:    "ana1@example.com",
	}, resp.Attendees[0])

	rec = s.do(t, http.MethodGet, "/orders/unknown/attendees", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostOrderAttendees_Invalid(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/orders/o1/attendees", `{
		"line_items":[{"product_id":"p1","quantity":1,"ticket_flag":"yes"}],
		"values":{"billing_first_name_1":"<b></b>"}
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp TicketStepResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, checkout.StepBlocked.String(), resp.State)
	// sanitized to empty, so required
	assert.Len(t, resp.Result.GlobalMessages, 5)
	assert.Empty(t, s.repo.orders)
}

func TestPostOrderAttendees_SanitizesValues(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/orders/o1/attendees", `{
		"line_items":[{"product_id":"p1","quantity":1,"ticket_flag":"yes"}],
		"values":{`+completeTicket("1", "11144477735")+`,"billing_first_name_1":"  <i>Ana</i>\t Maria "}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "Ana Maria", s.repo.orders["o1"].Attendees[0].FirstName)
}

func TestPostTicketStep_MarkupOnlyValueIsRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/checkout/s1/ticket-step", `{
		"line_items":`+oneTicketCart+`,
		"values":{`+completeTicket("1", "11144477735")+`,"billing_first_name_1":"<b></b>"}
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp TicketStepResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, checkout.StepBlocked.String(), resp.State)
	assert.Len(t, resp.Result.GlobalMessages, 1)
	assert.Contains(t, resp.Result.FieldMessages, entities.NewFieldKey(entities.FieldFirstName, 1))
}
