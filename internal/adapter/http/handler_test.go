package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"microloan-ledger/internal/adapter/repository/mysql"
	"microloan-ledger/internal/domain/event"
	"microloan-ledger/internal/testutil/testdb"
	"microloan-ledger/internal/usecase/admin"
	"microloan-ledger/internal/usecase/query"
	"microloan-ledger/internal/usecase/registration"
	"microloan-ledger/internal/usecase/repayment"
	"microloan-ledger/pkg/clock"

	"github.com/labstack/echo/v4"
)

var (
	adminID      = strings.Repeat("0", 32)
	originatorID = strings.Repeat("1", 32)
	borrowerID   = strings.Repeat("b", 32)
	lenderID     = strings.Repeat("c", 32)
)

type fixture struct {
	e     *echo.Echo
	loans *LoanHandler
	reps  *RepaymentHandler
	adm   *AdminHandler
	clk   *clock.Manual
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	testdb.Seed(t, db, adminID, originatorID)
	clk := clock.NewManual(1000)
	u := mysql.NewGormUoW(db)

	regUC := registration.NewUsecase(u, clk, event.Nop{})
	repUC := repayment.NewUsecase(u, clk, event.Nop{})
	admUC := admin.NewUsecase(u)
	qryUC := query.NewUsecase(
		mysql.NewLedgerRepository(db),
		mysql.NewLoanRepository(db),
		mysql.NewInstallmentRepository(db),
		mysql.NewPaymentRepository(db),
		clk,
	)

	e := echo.New()
	e.Validator = NewValidator()
	return &fixture{
		e:     e,
		loans: NewLoanHandler(regUC, qryUC),
		reps:  NewRepaymentHandler(repUC, qryUC),
		adm:   NewAdminHandler(admUC, qryUC),
		clk:   clk,
	}
}

// do runs a handler against a synthetic request and returns the recorder.
func (f *fixture) do(t *testing.T, method, target, caller, body string, h echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != "" {
		req.Header.Set(CallerHeader, caller)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if len(params) >= 2 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned %v", err)
	}
	return rec
}

func (f *fixture) registerLoan(t *testing.T, loanID string) {
	t.Helper()
	body := `{"loan_id":"` + loanID + `","borrower":"` + borrowerID + `","lender":"` + lenderID +
		`","principal":10000,"interest_rate_bps":500,"duration":100}`
	rec := f.do(t, http.MethodPost, "/loans", originatorID, body, f.loans.RegisterLoan)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register loan: %d %s", rec.Code, rec.Body.String())
	}
}

func (f *fixture) addInstallment(t *testing.T, loanID string, instID uint64, dueHeight, dueAmount int64) {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"installment_id": instID, "due_height": dueHeight, "due_amount": dueAmount,
	})
	rec := f.do(t, http.MethodPost, "/loans/"+loanID+"/installments", originatorID, string(body),
		f.loans.AddInstallment, "loan_id", loanID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add installment: %d %s", rec.Code, rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRegisterLoan_Handler(t *testing.T) {
	f := newFixture(t)
	f.registerLoan(t, "L1")

	rec := f.do(t, http.MethodGet, "/loans/L1", "", "", f.loans.GetLoan, "loan_id", "L1")
	if rec.Code != http.StatusOK {
		t.Fatalf("get loan: %d %s", rec.Code, rec.Body.String())
	}
	got := decode(t, rec)
	if got["loan_id"] != "L1" || got["status"] != "active" {
		t.Fatalf("body = %v", got)
	}
}

func TestRegisterLoan_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	// borrower is not 32-char hex
	body := `{"loan_id":"L1","borrower":"xyz","lender":"` + lenderID + `","principal":10000}`
	rec := f.do(t, http.MethodPost, "/loans", originatorID, body, f.loans.RegisterLoan)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, want 422", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Details) == 0 || resp.Details[0].Field != "Borrower" {
		t.Fatalf("details = %+v", resp.Details)
	}
}

func TestRegisterLoan_DomainErrorCodes(t *testing.T) {
	f := newFixture(t)
	f.registerLoan(t, "L1")

	body := `{"loan_id":"L1","borrower":"` + borrowerID + `","lender":"` + lenderID + `","principal":10000}`

	// wrong caller: 403
	rec := f.do(t, http.MethodPost, "/loans", borrowerID, body, f.loans.RegisterLoan)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
	// duplicate id: 409
	rec = f.do(t, http.MethodPost, "/loans", originatorID, body, f.loans.RegisterLoan)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", rec.Code)
	}
	// non-positive principal: 400
	bad := `{"loan_id":"L2","borrower":"` + borrowerID + `","lender":"` + lenderID + `","principal":0}`
	rec = f.do(t, http.MethodPost, "/loans", originatorID, bad, f.loans.RegisterLoan)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestSubmitRepayment_Handler(t *testing.T) {
	f := newFixture(t)
	f.registerLoan(t, "L1")
	f.addInstallment(t, "L1", 1, 1100, 5000)
	f.clk.Set(1050)

	rec := f.do(t, http.MethodPost, "/loans/L1/installments/1/repayments", borrowerID,
		`{"amount":5000}`, f.reps.SubmitRepayment, "loan_id", "L1", "installment_id", "1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	got := decode(t, rec)
	if got["history_id"].(float64) != 1 || got["is_late"].(bool) {
		t.Fatalf("body = %v", got)
	}

	// loan closed by its only installment
	rec = f.do(t, http.MethodGet, "/loans/L1", "", "", f.loans.GetLoan, "loan_id", "L1")
	if got := decode(t, rec); got["status"] != "closed" {
		t.Fatalf("status = %v, want closed", got["status"])
	}

	// record readable by history id
	rec = f.do(t, http.MethodGet, "/payments/1", "", "", f.reps.GetPaymentRecord, "history_id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("get record: %d %s", rec.Code, rec.Body.String())
	}

	// and listed under the loan
	rec = f.do(t, http.MethodGet, "/loans/L1/payments", "", "", f.loans.ListPayments, "loan_id", "L1")
	var recs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %v", recs)
	}
}

func TestSubmitRepayment_ErrorCodes(t *testing.T) {
	f := newFixture(t)
	f.registerLoan(t, "L1")
	f.addInstallment(t, "L1", 1, 1100, 5000)
	f.clk.Set(1050)

	// not the borrower: 403
	rec := f.do(t, http.MethodPost, "/loans/L1/installments/1/repayments", lenderID,
		`{"amount":5000}`, f.reps.SubmitRepayment, "loan_id", "L1", "installment_id", "1")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
	// short amount: 400
	rec = f.do(t, http.MethodPost, "/loans/L1/installments/1/repayments", borrowerID,
		`{"amount":4999}`, f.reps.SubmitRepayment, "loan_id", "L1", "installment_id", "1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	// unknown loan: 404
	rec = f.do(t, http.MethodPost, "/loans/nope/installments/1/repayments", borrowerID,
		`{"amount":5000}`, f.reps.SubmitRepayment, "loan_id", "nope", "installment_id", "1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	// malformed installment id in the path: 400
	rec = f.do(t, http.MethodPost, "/loans/L1/installments/x/repayments", borrowerID,
		`{"amount":5000}`, f.reps.SubmitRepayment, "loan_id", "L1", "installment_id", "x")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}

	// pay it, then pay again: 409
	rec = f.do(t, http.MethodPost, "/loans/L1/installments/1/repayments", borrowerID,
		`{"amount":5000}`, f.reps.SubmitRepayment, "loan_id", "L1", "installment_id", "1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodPost, "/loans/L1/installments/1/repayments", borrowerID,
		`{"amount":5000}`, f.reps.SubmitRepayment, "loan_id", "L1", "installment_id", "1")
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", rec.Code)
	}
}

func TestMarkDefaulted_Handler(t *testing.T) {
	f := newFixture(t)
	f.registerLoan(t, "L1")

	// only the lender may declare default
	rec := f.do(t, http.MethodPost, "/loans/L1/default", borrowerID, "", f.reps.MarkDefaulted, "loan_id", "L1")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/loans/L1/default", lenderID, "", f.reps.MarkDefaulted, "loan_id", "L1")
	if rec.Code != http.StatusOK {
		t.Fatalf("default: %d %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec); got["status"] != "defaulted" {
		t.Fatalf("body = %v", got)
	}
	// terminal loans reject a second declaration
	rec = f.do(t, http.MethodPost, "/loans/L1/default", lenderID, "", f.reps.MarkDefaulted, "loan_id", "L1")
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", rec.Code)
	}
}

func TestRefreshStatus_Handler(t *testing.T) {
	f := newFixture(t)
	f.registerLoan(t, "L1")
	f.addInstallment(t, "L1", 1, 1100, 5000)

	f.clk.Set(1101)
	rec := f.do(t, http.MethodPost, "/loans/L1/refresh-status", "", "", f.reps.RefreshStatus, "loan_id", "L1")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec); got["status"] != "overdue" {
		t.Fatalf("body = %v", got)
	}
}

func TestOverdueAndBalance_Handlers(t *testing.T) {
	f := newFixture(t)
	f.registerLoan(t, "L1")
	f.addInstallment(t, "L1", 1, 1100, 5000)

	f.clk.Set(1050)
	rec := f.do(t, http.MethodGet, "/loans/L1/overdue", "", "", f.loans.IsOverdue, "loan_id", "L1")
	if got := decode(t, rec); got["is_overdue"].(bool) {
		t.Fatalf("body = %v", got)
	}
	rec = f.do(t, http.MethodGet, "/loans/L1/balance", "", "", f.loans.GetOutstandingBalance, "loan_id", "L1")
	if got := decode(t, rec); got["outstanding_balance"].(float64) != 5000 {
		t.Fatalf("body = %v", got)
	}

	// 150 units late: 5000 + floor(5000*150/100)
	f.clk.Set(1250)
	rec = f.do(t, http.MethodGet, "/loans/L1/overdue", "", "", f.loans.IsOverdue, "loan_id", "L1")
	if got := decode(t, rec); !got["is_overdue"].(bool) {
		t.Fatalf("body = %v", got)
	}
	rec = f.do(t, http.MethodGet, "/loans/L1/balance", "", "", f.loans.GetOutstandingBalance, "loan_id", "L1")
	if got := decode(t, rec); got["outstanding_balance"].(float64) != 12500 {
		t.Fatalf("body = %v", got)
	}
	rec = f.do(t, http.MethodGet, "/loans/L1/total-repaid", "", "", f.loans.GetTotalRepaid, "loan_id", "L1")
	if got := decode(t, rec); got["total_repaid"].(float64) != 0 {
		t.Fatalf("body = %v", got)
	}

	// settle the late installment (due + penalty): the balance drops to zero,
	// never below it
	rec = f.do(t, http.MethodPost, "/loans/L1/installments/1/repayments", borrowerID,
		`{"amount":12500}`, f.reps.SubmitRepayment, "loan_id", "L1", "installment_id", "1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodGet, "/loans/L1/balance", "", "", f.loans.GetOutstandingBalance, "loan_id", "L1")
	if got := decode(t, rec); got["outstanding_balance"].(float64) != 0 {
		t.Fatalf("body = %v", got)
	}
}

func TestAdmin_Handlers(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/admin/pause", adminID, "", f.adm.Pause)
	if rec.Code != http.StatusOK {
		t.Fatalf("pause: %d %s", rec.Code, rec.Body.String())
	}

	// paused ledger rejects registration with 409
	body := `{"loan_id":"L1","borrower":"` + borrowerID + `","lender":"` + lenderID + `","principal":10000}`
	rec = f.do(t, http.MethodPost, "/loans", originatorID, body, f.loans.RegisterLoan)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", rec.Code)
	}

	// stats reflect the pause flag
	rec = f.do(t, http.MethodGet, "/stats", "", "", f.adm.GetStats)
	if got := decode(t, rec); !got["paused"].(bool) {
		t.Fatalf("body = %v", got)
	}

	rec = f.do(t, http.MethodPost, "/admin/unpause", adminID, "", f.adm.Unpause)
	if rec.Code != http.StatusOK {
		t.Fatalf("unpause: %d %s", rec.Code, rec.Body.String())
	}

	// non-admin callers get 403
	rec = f.do(t, http.MethodPost, "/admin/pause", borrowerID, "", f.adm.Pause)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
}

func TestTransferAdmin_Handler(t *testing.T) {
	f := newFixture(t)
	newAdmin := strings.Repeat("e", 32)

	rec := f.do(t, http.MethodPost, "/admin/transfer", adminID,
		`{"new_admin":"not-hex"}`, f.adm.TransferAdmin)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, want 422", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/admin/transfer", adminID,
		`{"new_admin":"`+newAdmin+`"}`, f.adm.TransferAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer: %d %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec); got["admin"] != newAdmin {
		t.Fatalf("body = %v", got)
	}

	// previous admin is locked out
	rec = f.do(t, http.MethodPost, "/admin/pause", adminID, "", f.adm.Pause)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
}

func TestGetInstallment_Handler(t *testing.T) {
	f := newFixture(t)
	f.registerLoan(t, "L1")
	f.addInstallment(t, "L1", 1, 1100, 5000)

	rec := f.do(t, http.MethodGet, "/loans/L1/installments/1", "", "", f.loans.GetInstallment,
		"loan_id", "L1", "installment_id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("get installment: %d %s", rec.Code, rec.Body.String())
	}
	got := decode(t, rec)
	if got["due_amount"].(float64) != 5000 || got["is_paid"].(bool) {
		t.Fatalf("body = %v", got)
	}

	rec = f.do(t, http.MethodGet, "/loans/L1/installments/9", "", "", f.loans.GetInstallment,
		"loan_id", "L1", "installment_id", "9")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
}
