package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/middleware"
	"github.com/kendall-kelly/campus-eats-api/services"
	"github.com/sirupsen/logrus"
)

const (
	paymentPath     = "/payment"
	cartPath        = "/cart"
	createOrderPath = "/orders/create"
)

// PaymentController serves the checkout pages; delivery slots are judged against now
type PaymentController struct {
	now func() time.Time
}

// NewPaymentController creates a payment controller reading the time from now
func NewPaymentController(now func() time.Time) *PaymentController {
	return &PaymentController{now: now}
}

// ShowPayment handles GET /payment - renders the payment form with any pending flash messages
func (pc *PaymentController) ShowPayment(c *gin.Context) {
	customerID, err := middleware.GetCustomerID(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	ctx := c.Request.Context()
	store := services.GetSessionStore()

	errMsg, err := store.PopFlash(ctx, customerID, services.FlashError)
	if err != nil {
		logrus.WithError(err).Warn("failed to read error flash")
	}
	successMsg, err := store.PopFlash(ctx, customerID, services.FlashSuccess)
	if err != nil {
		logrus.WithError(err).Warn("failed to read success flash")
	}

	c.HTML(http.StatusOK, "payment.tmpl", pageData{
		Title:       "Payment",
		Error:       errMsg,
		Success:     successMsg,
		LeadMinutes: int(config.GetConfig().DeliveryLeadTime.Minutes()),
	})
}

// VerifyTransactionRedirect handles GET /payment/verify - only form posts are verified
func (pc *PaymentController) VerifyTransactionRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, paymentPath)
}

// VerifyTransaction handles POST /payment/verify - records the payment and hands the order on
func (pc *PaymentController) VerifyTransaction(c *gin.Context) {
	customerID, err := middleware.GetCustomerID(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	ctx := c.Request.Context()
	store := services.GetSessionStore()

	fail := func(target string, kind services.FlashKind, message string) {
		if err := store.SetFlash(ctx, customerID, kind, message); err != nil {
			logrus.WithError(err).WithField("customer_id", customerID).Warn("failed to set error flash")
		}
		c.Redirect(http.StatusFound, target)
	}

	var form services.PaymentForm
	if err := c.ShouldBind(&form); err != nil {
		fail(paymentPath, services.FlashError, "Could not read the payment form.")
		return
	}

	transactionService := pc.newTransactionService(store)
	result, err := transactionService.Verify(ctx, customerID, form)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			fail(paymentPath, services.FlashError, validationErr.Message)
		case errors.Is(err, services.ErrCartEmpty):
			fail(cartPath, services.FlashCart, "Your cart is empty")
		case errors.Is(err, services.ErrMultiShopCart):
			fail(cartPath, services.FlashCart, "Your cart has items from more than one shop. Please order from one shop at a time.")
		default:
			fail(paymentPath, services.FlashError, "Failed to process transaction. Please try again.")
		}
		return
	}

	if err := store.SetFlash(ctx, customerID, services.FlashSuccess, "Transaction verified successfully! Redirecting to add order..."); err != nil {
		logrus.WithError(err).WithField("customer_id", customerID).Warn("failed to set success flash")
	}

	c.Redirect(http.StatusFound, createOrderPath+"?"+url.Values{"token": {result.PendingOrder.Token}}.Encode())
}

func (pc *PaymentController) newTransactionService(sink services.PendingOrderSink) *services.TransactionService {
	cfg := config.GetConfig()

	loc, err := cfg.Location()
	if err != nil {
		logrus.WithError(err).Warn("invalid timezone, using local time")
		loc = time.Local
	}

	return services.NewTransactionService(config.GetDB(), sink,
		services.WithClock(pc.now),
		services.WithLocation(loc),
		services.WithLeadTime(cfg.DeliveryLeadTime),
		services.WithPendingOrderTTL(cfg.PendingOrderTTL),
	)
}
