package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/entity"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/pkg/logger"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/oklog/ulid/v2"
)

const ReferencePrefix = "CS-"

// SnapClient is the part of the Midtrans Snap client checkout needs.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient builds a Snap client for the sandbox or production gateway.
func NewSnapClient(serverKey string, production bool) SnapClient {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var client snap.Client
	client.New(serverKey, env)
	return &client
}

type PaymentSettings struct {
	ServerKey    string
	PremiumPrice int64
	PremiumDays  int
	ClientURL    string
}

type IPaymentService interface {
	Checkout(ctx context.Context, userId uuid.UUID) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransNotification, raw []byte) error
	Status(ctx context.Context, userId uuid.UUID) (*dto.PaymentStatusResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	snap       SnapClient
	settings   PaymentSettings
	logger     logger.ILogger
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, snapClient SnapClient, settings PaymentSettings, log logger.ILogger) IPaymentService {
	if settings.PremiumDays <= 0 {
		settings.PremiumDays = 30
	}
	return &paymentService{
		uowFactory: uowFactory,
		snap:       snapClient,
		settings:   settings,
		logger:     log,
	}
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found.")
	}

	profile, err := userRepo.FindProfile(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile.PremiumActive(time.Now()) {
		return nil, apperror.Conflict("Premium is already active.")
	}

	payment := &entity.UserPayment{
		UserId:    userId,
		Reference: ReferencePrefix + ulid.Make().String(),
		Amount:    s.settings.PremiumPrice,
		Status:    entity.PaymentStatusPending,
	}
	paymentRepo := uow.PaymentRepository()
	if err := paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	// Gateway call happens outside any transaction.
	snapResp, midErr := s.snap.CreateTransaction(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  payment.Reference,
			GrossAmt: payment.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/chat?payment=finish", s.settings.ClientURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.Username,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "premium",
				Price: payment.Amount,
				Qty:   1,
				Name:  "Premium",
			},
		},
	})
	if midErr != nil {
		payment.Status = entity.PaymentStatusFailed
		if err := paymentRepo.Update(ctx, payment); err != nil {
			s.logger.Error("PaymentService", "Failed to mark payment as failed", map[string]interface{}{
				"reference": payment.Reference,
				"error":     err.Error(),
			})
		}
		return nil, apperror.Upstream("Payment gateway error.", fmt.Errorf("midtrans error: %s", midErr.GetMessage()))
	}

	payment.SnapToken = snapResp.Token
	payment.RedirectURL = snapResp.RedirectURL
	if err := paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		Reference:   payment.Reference,
		SnapToken:   payment.SnapToken,
		RedirectURL: payment.RedirectURL,
	}, nil
}

// Signature computes the Midtrans notification signature:
// SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func Signature(orderId, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderId + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransNotification, raw []byte) error {
	if s.settings.ServerKey == "" {
		return fmt.Errorf("midtrans server key is not configured")
	}
	expected := Signature(req.OrderId, req.StatusCode, req.GrossAmount, s.settings.ServerKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(req.SignatureKey)) != 1 {
		s.logger.Warn("PaymentService", "Webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return apperror.Forbidden("Invalid signature.")
	}

	var status entity.PaymentStatus
	switch req.TransactionStatus {
	case "capture":
		if req.FraudStatus == "challenge" {
			return nil
		}
		status = entity.PaymentStatusSuccess
	case "settlement":
		status = entity.PaymentStatusSuccess
	case "deny", "cancel", "expire", "failure":
		status = entity.PaymentStatusFailed
	default:
		return nil
	}

	if len(raw) == 0 || !json.Valid(raw) {
		raw = nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByReference{Reference: req.OrderId})
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NotFound("Payment not found.")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	changed, err := uow.PaymentRepository().Transition(ctx, payment.Reference, status, raw)
	if err != nil {
		return err
	}
	// A repeated notification for a settled payment lands here.
	if !changed {
		s.logger.Info("PaymentService", "Notification ignored for settled payment", map[string]interface{}{
			"reference": payment.Reference,
			"status":    req.TransactionStatus,
		})
		return nil
	}

	if status == entity.PaymentStatusSuccess {
		if err := s.grantPremium(ctx, uow, payment.UserId); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	s.logger.Info("PaymentService", "Payment updated", map[string]interface{}{
		"reference": payment.Reference,
		"status":    string(status),
	})
	return nil
}

// grantPremium extends premium from the later of now and the current expiry.
func (s *paymentService) grantPremium(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	userRepo := uow.UserRepository()
	profile, err := userRepo.FindProfile(ctx, userId)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &entity.UserProfile{UserId: userId}
	}

	start := time.Now()
	if profile.PremiumActive(start) && profile.PremiumExpiry != nil {
		start = *profile.PremiumExpiry
	}
	expiry := start.AddDate(0, 0, s.settings.PremiumDays)

	profile.IsPremium = true
	profile.PremiumExpiry = &expiry
	return userRepo.SaveProfile(ctx, profile)
}

func (s *paymentService) Status(ctx context.Context, userId uuid.UUID) (*dto.PaymentStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.UserRepository().FindProfile(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &dto.PaymentStatusResponse{}, nil
	}
	return &dto.PaymentStatusResponse{
		IsPremium:        profile.PremiumActive(time.Now()),
		PremiumExpiry:    profile.PremiumExpiry,
		AudioMinutesUsed: profile.AudioMinutesUsed,
	}, nil
}
