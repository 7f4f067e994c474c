// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/kennelwise/kennelwise/internal/auth"
	"github.com/kennelwise/kennelwise/internal/config"
	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
	"github.com/kennelwise/kennelwise/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "console",
		Output: io.Discard,
	})
}

const testSuperAdminKey = "super-admin-key-for-api-tests"

// fixture is an end-to-end test harness: a real in-memory database behind
// the full router, plus tokens for each role.
type fixture struct {
	server *httptest.Server
	db     *database.DB
	tenant *models.Tenant

	adminToken   string
	managerToken string
	staffToken   string
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8480,
			BaseDomain:  "kennelwise.test",
			Environment: "development",
		},
		Database: config.DatabaseConfig{
			Path:      ":memory:",
			MaxMemory: "256MB",
			Threads:   2,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "api-test-secret-at-least-32-chars!!",
			SessionTimeout:    time.Hour,
			SuperAdminAPIKey:  testSuperAdminKey,
			BcryptCost:        10,
			RateLimitDisabled: true,
		},
		API: config.APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     200,
		},
		Billing: config.BillingConfig{
			DriftToleranceCents: 100,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("auth.NewJWTManager: %v", err)
	}

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(hubDone)
	}()
	t.Cleanup(func() {
		cancel()
		<-hubDone
	})

	handler := NewHandler(db, cfg, jwtManager, hub)
	router := NewRouter(
		handler,
		NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true}),
		tenant.NewMiddleware(db, cfg.Server.BaseDomain),
		auth.NewMiddleware(jwtManager, cfg.Security.SuperAdminAPIKey),
	)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)

	f := &fixture{server: server, db: db}

	f.tenant = &models.Tenant{Name: "Pawsitive Stays", Subdomain: "pawsitive"}
	if err := db.CreateTenant(context.Background(), f.tenant); err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}

	f.adminToken = f.createStaff(t, jwtManager, "admin@pawsitive.test", models.RoleAdmin)
	f.managerToken = f.createStaff(t, jwtManager, "manager@pawsitive.test", models.RoleManager)
	f.staffToken = f.createStaff(t, jwtManager, "desk@pawsitive.test", models.RoleStaff)

	return f
}

func (f *fixture) createStaff(t *testing.T, jwtManager *auth.JWTManager, email, role string) string {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse-battery", 10)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	s := &models.StaffMember{
		TenantID:     f.tenant.ID,
		FirstName:    "Test",
		LastName:     role,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		Active:       true,
	}
	if err := f.db.CreateStaff(context.Background(), s); err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	token, _, err := jwtManager.GenerateToken(s.ID, s.Email, s.Role, f.tenant.ID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

// request performs an HTTP request against the fixture server, attaching
// the tenant header and the given bearer token.
func (f *fixture) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, *models.APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set(tenant.HeaderTenantID, f.tenant.ID.String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response %s %s: %v", method, path, err)
	}
	return resp, &envelope
}

// decodeData re-marshals the envelope's data field into a typed struct.
func decodeData(t *testing.T, envelope *models.APIResponse, dst interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	resp, envelope := f.request(t, http.MethodGet, "/api/v1/health/live", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("live status = %d", resp.StatusCode)
	}
	if envelope.Status != "success" {
		t.Errorf("live envelope status = %s", envelope.Status)
	}

	resp, _ = f.request(t, http.MethodGet, "/api/v1/health/ready", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ready status = %d", resp.StatusCode)
	}

	resp, envelope = f.request(t, http.MethodGet, "/api/v1/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d", resp.StatusCode)
	}
	var summary map[string]interface{}
	decodeData(t, envelope, &summary)
	if summary["status"] != "healthy" || summary["database"] != "up" {
		t.Errorf("summary = %v", summary)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	resp, envelope := f.request(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "manager@pawsitive.test",
		Password: "correct-horse-battery",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var login models.LoginResponse
	decodeData(t, envelope, &login)
	if login.Token == "" {
		t.Error("empty token")
	}
	if login.Role != models.RoleManager {
		t.Errorf("role = %s", login.Role)
	}

	resp, envelope = f.request(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "manager@pawsitive.test",
		Password: "wrong-password!",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "AUTH_REQUIRED" {
		t.Errorf("error = %+v", envelope.Error)
	}

	// Unknown email must be indistinguishable from a wrong password.
	resp, _ = f.request(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "nobody@pawsitive.test",
		Password: "correct-horse-battery",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown email status = %d", resp.StatusCode)
	}
}

func TestTenantEndpointsRequireSuperAdmin(t *testing.T) {
	f := newFixture(t)

	// Staff JWT, even an admin's, must not reach platform operations.
	req, _ := http.NewRequest(http.MethodGet, f.server.URL+"/api/v1/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+f.adminToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("admin JWT on tenants = %d", resp.StatusCode)
	}

	// The super-admin key provisions a tenant.
	body, _ := json.Marshal(models.CreateTenantRequest{Name: "Happy Tails", Subdomain: "happytails"})
	req, _ = http.NewRequest(http.MethodPost, f.server.URL+"/api/v1/tenants", bytes.NewReader(body))
	req.Header.Set(auth.HeaderAPIKey, testSuperAdminKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("create tenant = %d: %s", resp.StatusCode, raw)
	}
}

func TestCustomerRoleEnforcement(t *testing.T) {
	f := newFixture(t)

	payload := models.CreateCustomerRequest{
		FirstName: "Jordan",
		LastName:  "Lee",
		Email:     "jordan@example.com",
	}

	// Front-desk staff can read but not write customers.
	resp, _ := f.request(t, http.MethodPost, "/api/v1/customers", f.staffToken, payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff create customer = %d", resp.StatusCode)
	}

	resp, envelope := f.request(t, http.MethodPost, "/api/v1/customers", f.managerToken, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("manager create customer = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var created models.Customer
	decodeData(t, envelope, &created)

	resp, _ = f.request(t, http.MethodGet, "/api/v1/customers/"+created.ID.String(), f.staffToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("staff read customer = %d", resp.StatusCode)
	}

	// Missing token entirely.
	req, _ := http.NewRequest(http.MethodGet, f.server.URL+"/api/v1/customers", nil)
	req.Header.Set(tenant.HeaderTenantID, f.tenant.ID.String())
	raw, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = raw.Body.Close()
	if raw.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list = %d", raw.StatusCode)
	}
}

// bookingFixture seeds a customer, pet, boarding service, and single kennel.
type bookingFixture struct {
	*fixture
	customer models.Customer
	pet      models.Pet
	service  models.Service
	resource models.Resource
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := newFixture(t)
	b := &bookingFixture{fixture: f}

	_, envelope := f.request(t, http.MethodPost, "/api/v1/customers", f.managerToken, models.CreateCustomerRequest{
		FirstName: "Morgan", LastName: "Reyes", Email: "morgan@example.com",
	})
	decodeData(t, envelope, &b.customer)

	_, envelope = f.request(t, http.MethodPost, "/api/v1/pets", f.managerToken, models.CreatePetRequest{
		CustomerID:        b.customer.ID.String(),
		Name:              "Biscuit",
		Species:           "DOG",
		VaccinationExpiry: "2030-01-01",
	})
	decodeData(t, envelope, &b.pet)

	_, envelope = f.request(t, http.MethodPost, "/api/v1/services", f.managerToken, models.CreateServiceRequest{
		Name: "Overnight Boarding", Category: models.ServiceCategoryBoarding, RateCents: 5000,
	})
	decodeData(t, envelope, &b.service)

	_, envelope = f.request(t, http.MethodPost, "/api/v1/resources", f.managerToken, models.CreateResourceRequest{
		Name: "Kennel 1", ResourceType: "KENNEL", Capacity: 1,
	})
	decodeData(t, envelope, &b.resource)

	return b
}

func (b *bookingFixture) book(t *testing.T, start, end string) (*http.Response, *models.APIResponse) {
	t.Helper()
	return b.request(t, http.MethodPost, "/api/v1/reservations", b.staffToken, models.CreateReservationRequest{
		CustomerID: b.customer.ID.String(),
		PetID:      b.pet.ID.String(),
		ResourceID: b.resource.ID.String(),
		ServiceID:  b.service.ID.String(),
		StartDate:  start,
		EndDate:    end,
	})
}

func TestReservationConflicts(t *testing.T) {
	b := newBookingFixture(t)

	resp, envelope := b.book(t, "2026-09-01", "2026-09-05")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first booking = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var first reservationResponse
	decodeData(t, envelope, &first)
	if first.Reservation.TotalCents != 4*5000 {
		t.Errorf("quoted total = %d, want 20000", first.Reservation.TotalCents)
	}

	// Overlapping stay on a capacity-1 kennel conflicts.
	resp, envelope = b.book(t, "2026-09-03", "2026-09-07")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("overlap booking = %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "CONFLICT" {
		t.Fatalf("error = %+v", envelope.Error)
	}
	ids, _ := envelope.Error.Details["conflicting_reservation_ids"].([]interface{})
	if len(ids) != 1 || ids[0] != first.Reservation.ID.String() {
		t.Errorf("conflicting ids = %v", ids)
	}

	// Dates are inclusive: a stay starting on the existing end day still
	// overlaps, while the day after is free.
	resp, _ = b.book(t, "2026-09-05", "2026-09-06")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("touching end day = %d, want conflict", resp.StatusCode)
	}
	resp, _ = b.book(t, "2026-09-06", "2026-09-08")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("day after end = %d, want created", resp.StatusCode)
	}
}

func TestReservationVaccinationWarning(t *testing.T) {
	b := newBookingFixture(t)

	// A pet with an expired vaccination record books fine, but the
	// response carries a warning.
	_, envelope := b.request(t, http.MethodPost, "/api/v1/pets", b.managerToken, models.CreatePetRequest{
		CustomerID:        b.customer.ID.String(),
		Name:              "Mochi",
		Species:           "CAT",
		VaccinationExpiry: "2025-01-01",
	})
	var expired models.Pet
	decodeData(t, envelope, &expired)

	resp, envelope := b.request(t, http.MethodPost, "/api/v1/reservations", b.staffToken, models.CreateReservationRequest{
		CustomerID: b.customer.ID.String(),
		PetID:      expired.ID.String(),
		ResourceID: b.resource.ID.String(),
		ServiceID:  b.service.ID.String(),
		StartDate:  "2026-10-01",
		EndDate:    "2026-10-03",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("booking = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var created reservationResponse
	decodeData(t, envelope, &created)
	if len(created.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one vaccination warning", created.Warnings)
	}
}

func TestReservationServiceCategoryMismatch(t *testing.T) {
	b := newBookingFixture(t)

	_, envelope := b.request(t, http.MethodPost, "/api/v1/services", b.managerToken, models.CreateServiceRequest{
		Name: "Full Groom", Category: models.ServiceCategoryGrooming, RateCents: 8000,
	})
	var groom models.Service
	decodeData(t, envelope, &groom)

	// A grooming service cannot occupy a kennel.
	resp, envelope := b.request(t, http.MethodPost, "/api/v1/reservations", b.staffToken, models.CreateReservationRequest{
		CustomerID: b.customer.ID.String(),
		PetID:      b.pet.ID.String(),
		ResourceID: b.resource.ID.String(),
		ServiceID:  groom.ID.String(),
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-01",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("mismatched category = %d (%v)", resp.StatusCode, envelope.Error)
	}
}

func TestReservationStatusLifecycle(t *testing.T) {
	b := newBookingFixture(t)

	_, envelope := b.book(t, "2026-09-01", "2026-09-03")
	var created reservationResponse
	decodeData(t, envelope, &created)
	id := created.Reservation.ID.String()

	for _, status := range []string{
		models.ReservationStatusConfirmed,
		models.ReservationStatusCheckedIn,
		models.ReservationStatusCheckedOut,
	} {
		resp, envelope := b.request(t, http.MethodPut, "/api/v1/reservations/"+id+"/status", b.staffToken,
			models.UpdateReservationStatusRequest{Status: status})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("transition to %s = %d (%v)", status, resp.StatusCode, envelope.Error)
		}
	}

	var final models.Reservation
	_, envelope = b.request(t, http.MethodGet, "/api/v1/reservations/"+id, b.staffToken, nil)
	decodeData(t, envelope, &final)
	if final.CheckedInAt == nil || final.CheckedOutAt == nil {
		t.Error("check-in/check-out timestamps not stamped")
	}

	// Terminal statuses are immutable.
	resp, _ := b.request(t, http.MethodPut, "/api/v1/reservations/"+id+"/status", b.staffToken,
		models.UpdateReservationStatusRequest{Status: models.ReservationStatusConfirmed})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("transition from CHECKED_OUT = %d, want conflict", resp.StatusCode)
	}

	// Checked-out stays release the resource.
	resp, _ = b.book(t, "2026-09-02", "2026-09-04")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("rebooking after checkout = %d", resp.StatusCode)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	b := newBookingFixture(t)

	if resp, _ := b.book(t, "2026-09-01", "2026-09-05"); resp.StatusCode != http.StatusCreated {
		t.Fatal("seed booking failed")
	}

	// The kennel is busy; aliases resolve, so querying "cage" finds it.
	resp, envelope := b.request(t, http.MethodGet,
		"/api/v1/availability?start_date=2026-09-02&end_date=2026-09-04&resource_type=cage", b.staffToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var avail models.AvailabilityResponse
	decodeData(t, envelope, &avail)
	if avail.FreeCount != 0 {
		t.Errorf("free count = %d, want 0", avail.FreeCount)
	}
	if len(avail.Resources) != 1 || avail.Resources[0].Available {
		t.Errorf("resources = %+v", avail.Resources)
	}
	if len(avail.Suggestions) == 0 {
		t.Error("expected alternative date suggestions when nothing is free")
	}

	// After the stay ends the kennel is free again.
	resp, envelope = b.request(t, http.MethodGet,
		"/api/v1/availability?start_date=2026-09-06&end_date=2026-09-08", b.staffToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability = %d", resp.StatusCode)
	}
	decodeData(t, envelope, &avail)
	if avail.FreeCount != 1 {
		t.Errorf("free count = %d, want 1", avail.FreeCount)
	}
}

func TestBillingFlow(t *testing.T) {
	b := newBookingFixture(t)

	_, envelope := b.book(t, "2026-09-01", "2026-09-05")
	var booked reservationResponse
	decodeData(t, envelope, &booked)

	resp, envelope := b.request(t, http.MethodPost, "/api/v1/invoices", b.managerToken, models.CreateInvoiceRequest{
		CustomerID:    b.customer.ID.String(),
		ReservationID: booked.Reservation.ID.String(),
		SubtotalCents: booked.Reservation.TotalCents,
		TaxCents:      0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create invoice = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var inv models.Invoice
	decodeData(t, envelope, &inv)
	if inv.Status != models.InvoiceStatusDraft {
		t.Errorf("new invoice status = %s", inv.Status)
	}

	resp, _ = b.request(t, http.MethodPut, "/api/v1/invoices/"+inv.ID.String()+"/status", b.managerToken,
		invoiceStatusRequest{Status: models.InvoiceStatusIssued})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("issue invoice = %d", resp.StatusCode)
	}

	// Card payment goes through the record-only gateway (no URL configured)
	// and is approved with a synthetic reference.
	resp, envelope = b.request(t, http.MethodPost, "/api/v1/payments", b.staffToken, models.CreatePaymentRequest{
		InvoiceID:   inv.ID.String(),
		AmountCents: inv.TotalCents,
		Method:      models.PaymentMethodCard,
		CardToken:   "tok_test",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("payment = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var payment models.Payment
	decodeData(t, envelope, &payment)
	if payment.GatewayRef == "" {
		t.Error("card payment missing gateway reference")
	}

	// Full payment flips the invoice to PAID.
	_, envelope = b.request(t, http.MethodGet, "/api/v1/invoices/"+inv.ID.String(), b.staffToken, nil)
	decodeData(t, envelope, &inv)
	if inv.Status != models.InvoiceStatusPaid {
		t.Errorf("invoice status after full payment = %s", inv.Status)
	}
}

func TestRevenueReportEndpoint(t *testing.T) {
	b := newBookingFixture(t)

	// Invoices and payments are bucketed by when they were raised, so the
	// report period and the stay both anchor on the current date.
	now := time.Now().UTC()
	stayStart := now.AddDate(0, 0, 2)
	stayEnd := stayStart.AddDate(0, 0, 4)
	periodFrom := now.AddDate(0, 0, -1).Format("2006-01-02")
	periodTo := now.AddDate(0, 0, 30).Format("2006-01-02")

	_, envelope := b.book(t, stayStart.Format("2006-01-02"), stayEnd.Format("2006-01-02"))
	var booked reservationResponse
	decodeData(t, envelope, &booked)

	_, envelope = b.request(t, http.MethodPost, "/api/v1/invoices", b.managerToken, models.CreateInvoiceRequest{
		CustomerID:    b.customer.ID.String(),
		SubtotalCents: booked.Reservation.TotalCents,
	})
	var inv models.Invoice
	decodeData(t, envelope, &inv)
	b.request(t, http.MethodPut, "/api/v1/invoices/"+inv.ID.String()+"/status", b.managerToken,
		invoiceStatusRequest{Status: models.InvoiceStatusIssued})
	b.request(t, http.MethodPost, "/api/v1/payments", b.staffToken, models.CreatePaymentRequest{
		InvoiceID:   inv.ID.String(),
		AmountCents: inv.TotalCents,
		Method:      models.PaymentMethodCash,
	})

	reportPath := fmt.Sprintf("/api/v1/reports/revenue?from=%s&to=%s", periodFrom, periodTo)

	// Reports are a manager surface.
	resp, _ := b.request(t, http.MethodGet, reportPath, b.staffToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff revenue report = %d", resp.StatusCode)
	}

	resp, envelope = b.request(t, http.MethodGet, reportPath, b.managerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("revenue report = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var summary models.RevenueSummary
	decodeData(t, envelope, &summary)
	if summary.InvoicedCents != booked.Reservation.TotalCents {
		t.Errorf("invoiced = %d, want %d", summary.InvoicedCents, booked.Reservation.TotalCents)
	}
	if summary.CollectedCents != booked.Reservation.TotalCents {
		t.Errorf("collected = %d", summary.CollectedCents)
	}
	if summary.BookedCents != booked.Reservation.TotalCents {
		t.Errorf("booked = %d", summary.BookedCents)
	}
	if summary.DriftDetected {
		t.Error("converged revenue flagged drift")
	}
}

func TestDoubleBookingAudit(t *testing.T) {
	b := newBookingFixture(t)

	// Book the kennel, then force a second overlapping active reservation
	// directly through the database, bypassing the API conflict check.
	if resp, _ := b.book(t, "2026-09-01", "2026-09-05"); resp.StatusCode != http.StatusCreated {
		t.Fatal("seed booking failed")
	}
	rogue := &models.Reservation{
		TenantID:   b.tenant.ID,
		CustomerID: b.customer.ID,
		PetID:      b.pet.ID,
		ResourceID: b.resource.ID,
		ServiceID:  b.service.ID,
		Status:     models.ReservationStatusConfirmed,
		StartDate:  time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
		TotalCents: 15000,
	}
	if err := b.db.CreateReservation(context.Background(), rogue); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	resp, envelope := b.request(t, http.MethodGet, "/api/v1/audit/double-bookings", b.managerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit = %d (%v)", resp.StatusCode, envelope.Error)
	}

	var result struct {
		DoubleBookings []models.DoubleBooking `json:"double_bookings"`
		Count          int                    `json:"count"`
	}
	decodeData(t, envelope, &result)
	if result.Count != 1 {
		t.Fatalf("count = %d, want 1", result.Count)
	}
	db := result.DoubleBookings[0]
	if db.ExcessBookings != 1 {
		t.Errorf("excess = %d", db.ExcessBookings)
	}
	if len(db.Reservations) != 2 {
		t.Errorf("implicated reservations = %d", len(db.Reservations))
	}
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t)

	// A second tenant with its own customer.
	other := &models.Tenant{Name: "Other Resort", Subdomain: "other"}
	if err := f.db.CreateTenant(context.Background(), other); err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}
	foreign := &models.Customer{TenantID: other.ID, FirstName: "Casey", LastName: "Park", Email: "casey@other.test"}
	if err := f.db.CreateCustomer(context.Background(), foreign); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	// Reading the foreign customer through this tenant's context 404s.
	resp, _ := f.request(t, http.MethodGet, "/api/v1/customers/"+foreign.ID.String(), f.managerToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("cross-tenant read = %d, want 404", resp.StatusCode)
	}

	// A token minted for this tenant cannot ride a foreign tenant header.
	req, _ := http.NewRequest(http.MethodGet, f.server.URL+"/api/v1/customers", nil)
	req.Header.Set(tenant.HeaderTenantID, other.ID.String())
	req.Header.Set("Authorization", "Bearer "+f.managerToken)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp2.Body.Close()
	if resp2.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-tenant token = %d, want 403", resp2.StatusCode)
	}
}

func TestOccupancyReportEndpoint(t *testing.T) {
	b := newBookingFixture(t)

	if resp, _ := b.book(t, "2026-09-01", "2026-09-05"); resp.StatusCode != http.StatusCreated {
		t.Fatal("seed booking failed")
	}

	path := fmt.Sprintf("/api/v1/reports/occupancy?from=%s&to=%s", "2026-09-01", "2026-09-10")
	resp, envelope := b.request(t, http.MethodGet, path, b.managerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("occupancy = %d (%v)", resp.StatusCode, envelope.Error)
	}
	var report models.OccupancyReport
	decodeData(t, envelope, &report)
	if len(report.ByType) != 1 {
		t.Fatalf("rows = %d", len(report.ByType))
	}
	row := report.ByType[0]
	if row.ResourceType != models.ResourceTypeKennel {
		t.Errorf("resource type = %s", row.ResourceType)
	}
	// 10-day period, capacity 1: 10 capacity-days, 5 reserved (Sep 1-5).
	if row.CapacityDays != 10 || row.ReservedDays != 5 {
		t.Errorf("capacity/reserved = %d/%d", row.CapacityDays, row.ReservedDays)
	}
}
