package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rc-foods/courier-client/internal/domain"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type account struct {
	user         domain.User
	passwordHash []byte
}

type backend struct {
	secret []byte
	logger *zap.Logger

	mu       sync.Mutex
	accounts map[string]*account
	areas    []domain.Area
	orders   []map[string]any
}

func newBackend(secret string, logger *zap.Logger) (*backend, error) {
	b := &backend{
		secret:   []byte(secret),
		logger:   logger,
		accounts: make(map[string]*account),
	}
	if err := b.seed(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *backend) registerRoutes(app *fiber.App) {
	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/login", b.handleLogin)
	users.Post("/signup", b.handleSignup)
	users.Post("/refresh-token", b.handleRefreshToken)
	users.Post("/logout", b.requireAuth, b.handleLogout)
	users.Get("/profile", b.requireAuth, b.handleProfile)
	users.Put("/profile", b.requireAuth, b.handleUpdateProfile)
	users.Put("/fcm-token", b.requireAuth, b.handleFCMToken)
	users.Delete("/account", b.requireAuth, b.handleDeleteAccount)

	api.Get("/areas", b.handleAreas)
	api.Get("/areas/:id", b.handleAreaByID)

	delivery := api.Group("/delivery", b.requireAuth)
	delivery.Get("/orders/area", b.handleAreaOrders)
	delivery.Get("/orders/my-area", b.handleMyAreaOrders)
	delivery.Put("/orders/:id/payment", b.handlePaymentUpdate)
}

// requireAuth validates the bearer token against the signing secret.
func (b *backend) requireAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing bearer token"})
	}
	email, err := b.parseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
	}
	c.Locals("email", email)
	return c.Next()
}

func (b *backend) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "invalid request body"})
	}

	b.mu.Lock()
	acct, ok := b.accounts[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}

	access, refresh, err := b.mintTokens(acct.user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "token minting failed"})
	}

	// Role and approval gating is the client's concern here; the stub
	// hands the record back as a real permissive backend would.
	return c.JSON(fiber.Map{
		"message":       "login successful",
		"access_token":  access,
		"refresh_token": refresh,
		"user":          acct.user,
	})
}

func (b *backend) handleSignup(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "email and password are required"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	key := strings.ToLower(req.Email)
	if _, exists := b.accounts[key]; exists {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "email already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "hash failed"})
	}
	user := domain.User{
		ID:       fmt.Sprintf("u-%d", len(b.accounts)+1),
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     domain.Role(req.Role),
		Approved: false,
		Status:   domain.AccountStatusActive,
	}
	b.accounts[key] = &account{user: user, passwordHash: hash}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "signup successful, account pending approval",
		"user":    user,
	})
}

func (b *backend) handleRefreshToken(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "refresh_token is required"})
	}

	email, err := b.parseToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired refresh token"})
	}

	b.mu.Lock()
	acct, ok := b.accounts[email]
	b.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unknown account"})
	}

	access, err := b.mintToken(acct.user, accessTokenTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "token minting failed"})
	}
	return c.JSON(fiber.Map{"access_token": access})
}

func (b *backend) handleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (b *backend) handleProfile(c *fiber.Ctx) error {
	acct := b.currentAccount(c)
	if acct == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unknown account"})
	}
	return c.JSON(acct.user)
}

func (b *backend) handleUpdateProfile(c *fiber.Ctx) error {
	acct := b.currentAccount(c)
	if acct == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unknown account"})
	}
	var changes struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "invalid request body"})
	}

	b.mu.Lock()
	if changes.FullName != "" {
		acct.user.FullName = changes.FullName
	}
	if changes.Phone != "" {
		acct.user.Phone = changes.Phone
	}
	if changes.Address != "" {
		acct.user.Address = changes.Address
	}
	user := acct.user
	b.mu.Unlock()

	return c.JSON(user)
}

func (b *backend) handleFCMToken(c *fiber.Ctx) error {
	acct := b.currentAccount(c)
	if acct == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unknown account"})
	}
	var req struct {
		FCMToken string `json:"fcm_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "invalid request body"})
	}
	b.mu.Lock()
	acct.user.FCMToken = req.FCMToken
	b.mu.Unlock()
	return c.JSON(fiber.Map{"message": "fcm token updated"})
}

func (b *backend) handleDeleteAccount(c *fiber.Ctx) error {
	acct := b.currentAccount(c)
	if acct == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unknown account"})
	}
	b.mu.Lock()
	acct.user.Status = domain.AccountStatusDeleted
	b.mu.Unlock()
	return c.JSON(fiber.Map{"message": "account deleted"})
}

func (b *backend) handleAreas(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(b.areas)
}

func (b *backend) handleAreaByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "invalid area id"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, area := range b.areas {
		if area.AreaID == id {
			return c.JSON(area)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "area not found"})
}

func (b *backend) handleAreaOrders(c *fiber.Ctx) error {
	areaID := c.QueryInt("area_id")
	mealTime := c.Query("meal_time")
	paymentStatus := c.Query("payment_status")

	b.mu.Lock()
	matched := make([]map[string]any, 0)
	for _, order := range b.orders {
		if areaID != 0 && orderInt(order, "area_id") != areaID {
			continue
		}
		if mealTime != "" && orderString(order, "meal_time", "meal_type") != mealTime {
			continue
		}
		if paymentStatus != "" && orderString(order, "payment_status", "paymentStatus") != paymentStatus {
			continue
		}
		matched = append(matched, order)
	}
	b.mu.Unlock()

	return c.JSON(fiber.Map{
		"message":        "orders retrieved successfully",
		"area_id":        areaID,
		"meal_time":      mealTime,
		"date":           c.Query("date"),
		"payment_status": paymentStatus,
		"orders":         matched,
		"total":          len(matched),
	})
}

func (b *backend) handleMyAreaOrders(c *fiber.Ctx) error {
	acct := b.currentAccount(c)
	if acct == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unknown account"})
	}

	b.mu.Lock()
	matched := make([]map[string]any, 0)
	for _, order := range b.orders {
		if orderInt(order, "area_id") == acct.user.AreaID {
			matched = append(matched, order)
		}
	}
	b.mu.Unlock()

	return c.JSON(fiber.Map{
		"message": "orders retrieved successfully",
		"area_id": acct.user.AreaID,
		"orders":  matched,
		"total":   len(matched),
	})
}

func (b *backend) handlePaymentUpdate(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := c.BodyParser(&req); err != nil || req.PaymentStatus == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "payment_status is required"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, order := range b.orders {
		if orderString(order, "order_id", "id") != orderID {
			continue
		}
		if _, aliased := order["paymentStatus"]; aliased {
			order["paymentStatus"] = req.PaymentStatus
		} else {
			order["payment_status"] = req.PaymentStatus
		}
		return c.JSON(fiber.Map{
			"message":        "payment status updated",
			"order_id":       orderID,
			"payment_status": req.PaymentStatus,
			"result":         order,
		})
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
}

func (b *backend) currentAccount(c *fiber.Ctx) *account {
	email, _ := c.Locals("email").(string)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts[email]
}

func (b *backend) mintTokens(user domain.User) (access, refresh string, err error) {
	access, err = b.mintToken(user, accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = b.mintToken(user, refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (b *backend) mintToken(user domain.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strings.ToLower(user.Email),
		"role": string(user.Role),
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func (b *backend) parseToken(tokenStr string) (string, error) {
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return b.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", errors.New("missing subject")
	}
	return email, nil
}

func orderString(order map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := order[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func orderInt(order map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := order[key].(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
	}
	return 0
}
