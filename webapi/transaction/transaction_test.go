package transaction_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fintrackr/fintrackr/pkg/config"
	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	domaintx "github.com/fintrackr/fintrackr/pkg/domain/transaction"
	domainuser "github.com/fintrackr/fintrackr/pkg/domain/user"
	"github.com/fintrackr/fintrackr/pkg/dto"
	txsvc "github.com/fintrackr/fintrackr/pkg/service/transaction"
	"github.com/fintrackr/fintrackr/webapi/common"
	"github.com/fintrackr/fintrackr/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxRepo struct {
	rows []*domaintx.Transaction
}

func (r *fakeTxRepo) Create(_ context.Context, tx *domaintx.Transaction) error {
	r.rows = append(r.rows, tx)
	return nil
}
func (r *fakeTxRepo) List(_ context.Context, userID uuid.UUID, _ dto.ListFilter, _ dto.Page) ([]*domaintx.Transaction, int64, error) {
	var owned []*domaintx.Transaction
	for _, tx := range r.rows {
		if tx.UserID == userID {
			owned = append(owned, tx)
		}
	}
	return owned, int64(len(owned)), nil
}
func (r *fakeTxRepo) ListAll(_ context.Context, userID uuid.UUID) ([]*domaintx.Transaction, error) {
	owned, _, _ := r.List(context.Background(), userID, dto.ListFilter{}, dto.Page{})
	return owned, nil
}
func (r *fakeTxRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	for i, tx := range r.rows {
		if tx.ID == id && tx.UserID == userID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
func (r *fakeTxRepo) SumSigned(_ context.Context, userID uuid.UUID, date string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range r.rows {
		if tx.UserID != userID || (date != "" && tx.Date != date) {
			continue
		}
		sum = sum.Add(tx.Signed())
	}
	return sum, nil
}
func (r *fakeTxRepo) UpdateNormalizedAmount(context.Context, uuid.UUID, decimal.Decimal) error {
	return nil
}

type fakeUserRepo struct {
	user *domainuser.User
}

func (r *fakeUserRepo) Create(context.Context, *domainuser.User) error { return nil }
func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*domainuser.User, error) {
	if r.user == nil || r.user.ID != id {
		return nil, domain.ErrNotFound
	}
	return r.user, nil
}
func (r *fakeUserRepo) GetByEmail(context.Context, string) (*domainuser.User, error) {
	return nil, domain.ErrNotFound
}
func (r *fakeUserRepo) GetByEmailOrPending(context.Context, string) (*domainuser.User, error) {
	return nil, domain.ErrNotFound
}
func (r *fakeUserRepo) GetByRefreshToken(context.Context, string) (*domainuser.User, error) {
	return nil, domain.ErrNotFound
}
func (r *fakeUserRepo) ExistsByEmail(context.Context, string, uuid.UUID) (bool, error) {
	return false, nil
}
func (r *fakeUserRepo) Update(context.Context, uuid.UUID, *dto.UserPatch) error { return nil }

type fakeRates struct{}

func (fakeRates) GetRates(context.Context, currency.Code) currency.RateTable {
	return currency.FallbackRates()
}

var testCfg = &config.App{
	Jwt: &config.Jwt{Secret: "test-secret", Expiry: 15 * time.Minute},
}

func newTestApp(repo *fakeTxRepo, owner *domainuser.User) *fiber.App {
	svc := txsvc.New(repo, &fakeUserRepo{user: owner}, fakeRates{}, slog.Default())
	app := fiber.New()
	transaction.Routes(app, svc, testCfg)
	return app
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID.String()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	signed, err := token.SignedString([]byte(testCfg.Jwt.Secret))
	require.NoError(t, err)
	return signed
}

func makeRequest(t *testing.T, app *fiber.App, method, target, body, token string) *common.Response {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	var parsed common.Response
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	parsed.Status = resp.StatusCode
	return &parsed
}

func testOwner() *domainuser.User {
	return &domainuser.User{ID: uuid.New(), PreferredCurrency: currency.USD, IsVerified: true}
}

func TestCreateTransactionRoute(t *testing.T) {
	owner := testOwner()
	repo := &fakeTxRepo{}
	app := newTestApp(repo, owner)
	token := bearerToken(t, owner.ID)

	resp := makeRequest(t, app, "POST", "/transactions",
		`{"amount":"100","type":"income","category":"salary","date":"2026-08-28","currency":"USD"}`, token)

	assert.Equal(t, fiber.StatusCreated, resp.Status)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, owner.ID, repo.rows[0].UserID)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "salary", data["category"])
	assert.Equal(t, "100", data["amount"])
}

func TestCreateTransactionRouteRejectsBadBody(t *testing.T) {
	owner := testOwner()
	app := newTestApp(&fakeTxRepo{}, owner)
	token := bearerToken(t, owner.ID)

	resp := makeRequest(t, app, "POST", "/transactions",
		`{"amount":"100","type":"loan","category":"x","date":"2026-08-28","currency":"USD"}`, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}

func TestTransactionRoutesRequireAuth(t *testing.T) {
	app := newTestApp(&fakeTxRepo{}, testOwner())

	for _, target := range []struct{ method, path string }{
		{"POST", "/transactions"},
		{"GET", "/transactions"},
		{"GET", "/transactions/balance"},
		{"DELETE", "/transactions/" + uuid.NewString()},
	} {
		resp := makeRequest(t, app, target.method, target.path, "", "")
		assert.NotEqual(t, fiber.StatusOK, resp.Status, "%s %s must reject anonymous calls", target.method, target.path)
	}
}

func TestListTransactionsRoute(t *testing.T) {
	owner := testOwner()
	repo := &fakeTxRepo{}
	app := newTestApp(repo, owner)
	token := bearerToken(t, owner.ID)

	makeRequest(t, app, "POST", "/transactions",
		`{"amount":"100","type":"income","category":"salary","date":"2026-08-28","currency":"USD"}`, token)

	resp := makeRequest(t, app, "GET", "/transactions?page=1&limit=10", "", token)
	require.Equal(t, fiber.StatusOK, resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["page"])
	assert.Equal(t, float64(1), data["totalPages"])
	assert.Len(t, data["transactions"], 1)
}

func TestListTransactionsRouteBadPage(t *testing.T) {
	owner := testOwner()
	app := newTestApp(&fakeTxRepo{}, owner)
	resp := makeRequest(t, app, "GET", "/transactions?page=abc", "", bearerToken(t, owner.ID))
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}

func TestBalanceRoute(t *testing.T) {
	owner := testOwner()
	repo := &fakeTxRepo{}
	app := newTestApp(repo, owner)
	token := bearerToken(t, owner.ID)

	makeRequest(t, app, "POST", "/transactions",
		`{"amount":"100","type":"income","category":"salary","date":"2026-08-28","currency":"USD"}`, token)
	makeRequest(t, app, "POST", "/transactions",
		`{"amount":"40","type":"expense","category":"food","date":"2026-08-28","currency":"USD"}`, token)

	resp := makeRequest(t, app, "GET", "/transactions/balance", "", token)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "60", resp.Data.(map[string]any)["balance"])
}

func TestDeleteTransactionRoute(t *testing.T) {
	owner := testOwner()
	repo := &fakeTxRepo{}
	app := newTestApp(repo, owner)
	token := bearerToken(t, owner.ID)

	makeRequest(t, app, "POST", "/transactions",
		`{"amount":"100","type":"income","category":"salary","date":"2026-08-28","currency":"USD"}`, token)
	id := repo.rows[0].ID

	resp := makeRequest(t, app, "DELETE", "/transactions/"+id.String(), "", token)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Empty(t, repo.rows)

	resp = makeRequest(t, app, "DELETE", "/transactions/"+id.String(), "", token)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	resp = makeRequest(t, app, "DELETE", "/transactions/not-a-uuid", "", token)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}
