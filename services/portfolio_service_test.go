package services

import (
	"context"
	"testing"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	session *models.Session
}

func (f fakeSessions) Current() (models.Session, bool) {
	if f.session == nil {
		return models.Session{}, false
	}
	return *f.session, true
}

type fakePortfolioBackend struct {
	portfolio *models.Portfolio
	ack       *models.Ack
	submitted []models.PortfolioTransactionRequest
	userIDs   []string
}

func (f *fakePortfolioBackend) GetPortfolio(_ context.Context, userID string) (*models.Portfolio, error) {
	f.userIDs = append(f.userIDs, userID)
	return f.portfolio, nil
}

func (f *fakePortfolioBackend) AddPortfolioTransaction(_ context.Context, request models.PortfolioTransactionRequest) (*models.Ack, error) {
	f.submitted = append(f.submitted, request)
	return f.ack, nil
}

func signedIn(userID string) fakeSessions {
	return fakeSessions{session: &models.Session{UserID: userID, Token: "tok"}}
}

func validRequest() models.PortfolioTransactionRequest {
	return models.PortfolioTransactionRequest{
		IPOName:        " Acme Ltd ",
		InvestedAmount: 14250,
		Quantity:       150,
		Status:         "applied",
	}
}

func TestPortfolioService_RequiresSession(t *testing.T) {
	backend := &fakePortfolioBackend{}
	portfolio := NewPortfolioService(backend, fakeSessions{}, nil)

	_, err := portfolio.Get(context.Background())
	assertServiceError(t, err, shared.ErrorCategoryAuthentication, "NOT_SIGNED_IN")

	_, err = portfolio.Add(context.Background(), validRequest())
	assertServiceError(t, err, shared.ErrorCategoryAuthentication, "NOT_SIGNED_IN")

	assert.Empty(t, backend.userIDs)
	assert.Empty(t, backend.submitted)
}

func TestPortfolioService_GetUsesSessionUser(t *testing.T) {
	backend := &fakePortfolioBackend{portfolio: &models.Portfolio{}}
	portfolio := NewPortfolioService(backend, signedIn("42"), nil)

	_, err := portfolio.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, backend.userIDs)
}

func TestPortfolioService_AddNormalizesRequest(t *testing.T) {
	backend := &fakePortfolioBackend{ack: &models.Ack{Success: true, ID: "9"}}
	portfolio := NewPortfolioService(backend, signedIn("42"), nil)

	request := validRequest()
	request.UserID = "someone-else"
	sell := 20000.0
	request.SellAmount = &sell

	ack, err := portfolio.Add(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "9", ack.ID.String())

	require.Len(t, backend.submitted, 1)
	submitted := backend.submitted[0]
	assert.Equal(t, "42", submitted.UserID)
	assert.Equal(t, "Acme Ltd", submitted.IPOName)
	assert.Equal(t, "APPLIED", submitted.Status)
	assert.Nil(t, submitted.SellAmount, "only SOLD entries carry a sell amount")
	_, err = uuid.Parse(submitted.ClientRef)
	assert.NoError(t, err)
}

func TestPortfolioService_SoldRequiresSellAmount(t *testing.T) {
	backend := &fakePortfolioBackend{ack: &models.Ack{Success: true}}
	portfolio := NewPortfolioService(backend, signedIn("42"), nil)

	request := validRequest()
	request.Status = "SOLD"
	_, err := portfolio.Add(context.Background(), request)
	serviceErr := assertServiceError(t, err, shared.ErrorCategoryValidation, "INVALID_REQUEST")
	assert.Equal(t, "sell_amount is required when status is SOLD", serviceErr.Message)

	sell := 16000.0
	request.SellAmount = &sell
	_, err = portfolio.Add(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, backend.submitted, 1)
	assert.Equal(t, 16000.0, *backend.submitted[0].SellAmount)
}

func TestPortfolioService_ValidationViolations(t *testing.T) {
	backend := &fakePortfolioBackend{ack: &models.Ack{Success: true}}
	portfolio := NewPortfolioService(backend, signedIn("42"), nil)

	tests := []struct {
		name    string
		mutate  func(*models.PortfolioTransactionRequest)
		message string
	}{
		{"missing name", func(r *models.PortfolioTransactionRequest) { r.IPOName = "  " }, "ipo_name is required"},
		{"zero amount", func(r *models.PortfolioTransactionRequest) { r.InvestedAmount = 0 }, "invested_amount must be greater than 0"},
		{"zero quantity", func(r *models.PortfolioTransactionRequest) { r.Quantity = 0 }, "quantity must be greater than 0"},
		{"unknown status", func(r *models.PortfolioTransactionRequest) { r.Status = "pending" }, "status must be one of: APPLIED, ALLOTTED, SOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validRequest()
			tt.mutate(&request)
			_, err := portfolio.Add(context.Background(), request)
			serviceErr := assertServiceError(t, err, shared.ErrorCategoryValidation, "INVALID_REQUEST")
			assert.Equal(t, tt.message, serviceErr.Message)
		})
	}
	assert.Empty(t, backend.submitted)
}

func TestPortfolioService_RejectedAck(t *testing.T) {
	backend := &fakePortfolioBackend{ack: &models.Ack{Success: false, Message: "Duplicate entry"}}
	portfolio := NewPortfolioService(backend, signedIn("42"), nil)

	_, err := portfolio.Add(context.Background(), validRequest())
	serviceErr := assertServiceError(t, err, shared.ErrorCategoryUpstream, "TRANSACTION_REJECTED")
	assert.Equal(t, "Duplicate entry", serviceErr.Message)
}
