package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/entity"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/repository/contract"
	"chatshare-be/internal/repository/implementation"
	"chatshare-be/internal/repository/specification"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test"

type fakeSnap struct {
	err      *midtrans.Error
	requests []*snap.Request
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{
		Token:       "snap-token",
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token",
	}, nil
}

func newPaymentFixture(t *testing.T, client *fakeSnap) (*entity.User, IPaymentService, contract.PaymentRepository, contract.UserRepository) {
	db, factory := newTestFactory(t)
	user := seedUser(t, db, "buyer")
	svc := NewPaymentService(factory, client, PaymentSettings{
		ServerKey:    testServerKey,
		PremiumPrice: 50000,
		PremiumDays:  30,
		ClientURL:    "http://localhost:3000",
	}, nopLogger())
	payments := implementation.NewPaymentRepository(db)
	users := implementation.NewUserRepository(db)
	return user, svc, payments, users
}

func notification(reference, status string) *dto.MidtransNotification {
	n := &dto.MidtransNotification{
		OrderId:           reference,
		StatusCode:        "200",
		GrossAmount:       "50000.00",
		TransactionStatus: status,
		FraudStatus:       "accept",
	}
	n.SignatureKey = Signature(n.OrderId, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

func TestSignature(t *testing.T) {
	sig := Signature("CS-1", "200", "50000.00", testServerKey)
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, Signature("CS-1", "200", "50000.00", testServerKey))
	assert.NotEqual(t, sig, Signature("CS-1", "200", "50000.00", "other-key"))
	assert.NotEqual(t, sig, Signature("CS-2", "200", "50000.00", testServerKey))
}

func TestPayment_Checkout(t *testing.T) {
	client := &fakeSnap{}
	user, svc, payments, _ := newPaymentFixture(t, client)
	ctx := context.Background()

	res, err := svc.Checkout(ctx, user.Id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Reference, ReferencePrefix))
	assert.Equal(t, "snap-token", res.SnapToken)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, res.Reference, req.TransactionDetails.OrderID)
	assert.Equal(t, int64(50000), req.TransactionDetails.GrossAmt)
	assert.Equal(t, user.Email, req.CustomerDetail.Email)

	stored, err := payments.FindOne(ctx, specification.ByReference{Reference: res.Reference})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.PaymentStatusPending, stored.Status)
	assert.Equal(t, "snap-token", stored.SnapToken)
}

func TestPayment_CheckoutGatewayFailure(t *testing.T) {
	client := &fakeSnap{err: &midtrans.Error{Message: "gateway down", StatusCode: 500}}
	user, svc, _, _ := newPaymentFixture(t, client)

	_, err := svc.Checkout(context.Background(), user.Id)
	assertKind(t, err, apperror.KindUpstream, "Payment gateway error.")
}

func TestPayment_CheckoutWhilePremium(t *testing.T) {
	client := &fakeSnap{}
	user, svc, _, users := newPaymentFixture(t, client)
	ctx := context.Background()

	require.NoError(t, users.SaveProfile(ctx, &entity.UserProfile{
		UserId:        user.Id,
		IsPremium:     true,
		PremiumExpiry: ptrTime(time.Now().Add(time.Hour)),
	}))

	_, err := svc.Checkout(ctx, user.Id)
	assertKind(t, err, apperror.KindConflict, "")
	assert.Empty(t, client.requests)
}

func TestPayment_SettlementGrantsPremium(t *testing.T) {
	user, svc, payments, users := newPaymentFixture(t, &fakeSnap{})
	ctx := context.Background()

	res, err := svc.Checkout(ctx, user.Id)
	require.NoError(t, err)

	raw := []byte(`{"order_id":"` + res.Reference + `","transaction_status":"settlement"}`)
	require.NoError(t, svc.HandleNotification(ctx, notification(res.Reference, "settlement"), raw))

	stored, err := payments.FindOne(ctx, specification.ByReference{Reference: res.Reference})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSuccess, stored.Status)

	profile, err := users.FindProfile(ctx, user.Id)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.PremiumActive(time.Now()))
	require.NotNil(t, profile.PremiumExpiry)
	firstExpiry := *profile.PremiumExpiry
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), firstExpiry, time.Minute)

	// A replayed notification does not extend premium again.
	require.NoError(t, svc.HandleNotification(ctx, notification(res.Reference, "settlement"), raw))
	profile, err = users.FindProfile(ctx, user.Id)
	require.NoError(t, err)
	assert.WithinDuration(t, firstExpiry, *profile.PremiumExpiry, time.Second)

	status, err := svc.Status(ctx, user.Id)
	require.NoError(t, err)
	assert.True(t, status.IsPremium)
}

func TestPayment_NotificationOutcomes(t *testing.T) {
	user, svc, payments, users := newPaymentFixture(t, &fakeSnap{})
	ctx := context.Background()

	res, err := svc.Checkout(ctx, user.Id)
	require.NoError(t, err)

	forged := notification(res.Reference, "settlement")
	forged.SignatureKey = strings.Repeat("0", 128)
	err = svc.HandleNotification(ctx, forged, nil)
	assertKind(t, err, apperror.KindForbidden, "Invalid signature.")

	err = svc.HandleNotification(ctx, notification("CS-UNKNOWN", "settlement"), nil)
	assertKind(t, err, apperror.KindNotFound, "")

	// Pending and challenged captures leave the payment untouched.
	require.NoError(t, svc.HandleNotification(ctx, notification(res.Reference, "pending"), nil))
	challenged := notification(res.Reference, "capture")
	challenged.FraudStatus = "challenge"
	require.NoError(t, svc.HandleNotification(ctx, challenged, nil))

	stored, err := payments.FindOne(ctx, specification.ByReference{Reference: res.Reference})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, stored.Status)

	require.NoError(t, svc.HandleNotification(ctx, notification(res.Reference, "expire"), nil))
	stored, err = payments.FindOne(ctx, specification.ByReference{Reference: res.Reference})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, stored.Status)

	profile, err := users.FindProfile(ctx, user.Id)
	require.NoError(t, err)
	assert.False(t, profile.PremiumActive(time.Now()))
}
