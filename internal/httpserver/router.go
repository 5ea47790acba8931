package httpserver

import (
	"context"
	"log"
	"net/http"

	"communityshop/internal/domain"
	cartsvc "communityshop/internal/service/cart"
	donationsvc "communityshop/internal/service/donation"
	ordersvc "communityshop/internal/service/order"
	paymentsvc "communityshop/internal/service/payment"
	"communityshop/internal/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps groups the services the router hands requests to.
type Deps struct {
	CatalogSvc   catalogService
	CartSvc      cartService
	OrderSvc     orderService
	PaymentSvc   paymentService
	DonationSvc  donationService
	AnonymousSvc anonymousService
}

type catalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
}

type cartService interface {
	Add(ctx context.Context, ownerKey string, in cartsvc.LineInput) (*domain.CartLine, error)
	SetQuantity(ctx context.Context, ownerKey string, in cartsvc.LineInput) (*domain.CartLine, error)
	Remove(ctx context.Context, ownerKey string, in cartsvc.LineInput) error
	Get(ctx context.Context, ownerKey string) (*domain.Cart, error)
}

type orderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type paymentService interface {
	VerifySession(ctx context.Context, ownerID, sessionRef string) (*domain.Order, error)
	Capture(ctx context.Context, ownerID string, in paymentsvc.CaptureInput) (*domain.Order, error)
}

type donationService interface {
	Record(ctx context.Context, campaignID string, in donationsvc.RecordInput) (*domain.Donation, error)
	Update(ctx context.Context, id string, in donationsvc.UpdateInput) (*domain.Donation, error)
	Delete(ctx context.Context, id string) error
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error)
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
}

type anonymousService interface {
	Issue(ctx context.Context) (token, anonymousID string, err error)
	TTLSeconds() int
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-User-ID")
	router.Use(cors.New(corsCfg))

	v := validation.New()

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/anonymous/token", anonymousTokenHandler(deps.AnonymousSvc))

	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))

	router.GET("/campaigns", listCampaignsHandler(deps.DonationSvc))
	router.GET("/campaigns/:id", getCampaignHandler(deps.DonationSvc))
	router.POST("/campaigns/:id/donations", recordDonationHandler(deps.DonationSvc))

	me := router.Group("/me", requireOwner())
	{
		me.GET("/cart", getCartHandler(deps.CartSvc))
		me.POST("/cart/lines", addCartLineHandler(deps.CartSvc))
		me.PATCH("/cart/lines", setCartLineHandler(deps.CartSvc))
		me.DELETE("/cart/lines", removeCartLineHandler(deps.CartSvc))
		me.GET("/orders", listOrdersHandler(deps.OrderSvc))
		me.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
	}

	checkout := router.Group("/checkout", requireOwner())
	{
		checkout.POST("", checkoutHandler(deps.OrderSvc, v))
		checkout.POST("/card/verify", verifySessionHandler(deps.PaymentSvc, v))
		checkout.POST("/altpay/capture", captureHandler(deps.PaymentSvc, v))
	}

	admin := router.Group("/admin")
	{
		admin.GET("/campaigns/:id/donations", listDonationsHandler(deps.DonationSvc))
		admin.PATCH("/donations/:id", updateDonationHandler(deps.DonationSvc))
		admin.DELETE("/donations/:id", deleteDonationHandler(deps.DonationSvc))
		admin.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
	}

	return router, nil
}

const ownerHeader = "X-User-ID"

// requireOwner binds the acting identity supplied by the upstream identity
// provider. The core trusts it fully; gateways authenticate.
func requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.GetHeader(ownerHeader)
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + ownerHeader + " header"})
			return
		}
		c.Set("owner", owner)
		c.Next()
	}
}

func ownerFrom(c *gin.Context) string {
	return c.GetString("owner")
}
