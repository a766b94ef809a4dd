package booking

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func postCheckout(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	return rr
}

func TestCreateHandlerReportsOffendingDateField(t *testing.T) {
	svc, _, items := newService()
	id := seedItem(items, "Vampire Cape", 500)
	h := NewHandler(svc)

	cases := []struct {
		name       string
		start, end string
		wantField  string
	}{
		{"bad start", "next tuesday", "2026-09-13", "start_date"},
		{"bad end", "2026-09-10", "soon", "end_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := fmt.Sprintf(`{
				"customer_name": "Aigerim Satpayeva",
				"customer_email": "aigerim@example.com",
				"start_date": %q,
				"end_date": %q,
				"items": [{"item_id": %q, "quantity": 1}]
			}`, tc.start, tc.end, id.String())

			rr := postCheckout(t, h, body)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rr.Code)
			}

			var env errorEnvelope
			if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if _, ok := env.Error.Details[tc.wantField]; !ok {
				t.Errorf("expected details keyed by %q, got %v", tc.wantField, env.Error.Details)
			}
		})
	}
}
