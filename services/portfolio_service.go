package services

import (
	"context"
	"strings"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const portfolioServiceName = "PortfolioService"

// PortfolioBackend is the part of the market API the ledger needs
type PortfolioBackend interface {
	GetPortfolio(ctx context.Context, userID string) (*models.Portfolio, error)
	AddPortfolioTransaction(ctx context.Context, request models.PortfolioTransactionRequest) (*models.Ack, error)
}

// SessionReader exposes the signed-in user
type SessionReader interface {
	Current() (models.Session, bool)
}

// PortfolioService reads and appends to the signed-in user's ledger. Entries are
// never deleted.
type PortfolioService struct {
	backend   PortfolioBackend
	sessions  SessionReader
	validator *RequestValidator
	logger    *logrus.Entry
}

// NewPortfolioService creates a ledger service
func NewPortfolioService(backend PortfolioBackend, sessions SessionReader, requestValidator *RequestValidator) *PortfolioService {
	if requestValidator == nil {
		requestValidator = NewRequestValidator()
	}
	return &PortfolioService{
		backend:   backend,
		sessions:  sessions,
		validator: requestValidator,
		logger:    logrus.WithField("component", portfolioServiceName),
	}
}

// Get returns the signed-in user's portfolio
func (p *PortfolioService) Get(ctx context.Context) (*models.Portfolio, error) {
	session, err := p.requireSession("Get")
	if err != nil {
		return nil, err
	}
	return p.backend.GetPortfolio(ctx, session.UserID)
}

// Add validates and submits a ledger entry for the signed-in user
func (p *PortfolioService) Add(ctx context.Context, request models.PortfolioTransactionRequest) (*models.Ack, error) {
	session, err := p.requireSession("Add")
	if err != nil {
		return nil, err
	}

	request.UserID = session.UserID
	request.IPOName = strings.TrimSpace(request.IPOName)
	request.Status = strings.ToUpper(strings.TrimSpace(request.Status))
	if request.ClientRef == "" {
		request.ClientRef = uuid.NewString()
	}
	if request.Status != string(models.PortfolioStatusSold) {
		request.SellAmount = nil
	}

	if err := p.validator.Validate(portfolioServiceName, "Add", request); err != nil {
		return nil, err
	}
	if request.Status == string(models.PortfolioStatusSold) && request.SellAmount == nil {
		return nil, NewValidationError(portfolioServiceName, "Add", FieldViolation{
			Field:   "sell_amount",
			Message: "sell_amount is required when status is SOLD",
		})
	}

	ack, err := p.backend.AddPortfolioTransaction(ctx, request)
	if err != nil {
		return nil, err
	}
	if !ack.Success {
		return nil, shared.NewServiceError(shared.ErrorCategoryUpstream, "TRANSACTION_REJECTED",
			ack.Message.Or("Could not save the transaction."), portfolioServiceName, "Add", false, nil)
	}

	p.logger.WithFields(logrus.Fields{
		"user_id":    request.UserID,
		"client_ref": request.ClientRef,
		"status":     request.Status,
	}).Info("Portfolio transaction added")

	return ack, nil
}

func (p *PortfolioService) requireSession(operation string) (models.Session, error) {
	session, ok := p.sessions.Current()
	if !ok || session.UserID == "" {
		return models.Session{}, shared.NewServiceError(shared.ErrorCategoryAuthentication, "NOT_SIGNED_IN",
			"sign in to use the portfolio", portfolioServiceName, operation, false, nil)
	}
	return session, nil
}
