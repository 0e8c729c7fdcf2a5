package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-marketplace-api/handlers"
	"food-marketplace-api/lifecycle"
	"food-marketplace-api/models"
	"food-marketplace-api/routes"
	"food-marketplace-api/store"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.Driver{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	st := store.New(db)
	handlers.Init(st, lifecycle.New(st, log), log)

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func register(t *testing.T, r *gin.Engine, name string, role models.UserRole) (token, userID string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", name, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, w, &resp)
	return resp.Token, resp.User.ID
}

type orderResponse struct {
	Order struct {
		ID          string             `json:"id"`
		Status      models.OrderStatus `json:"status"`
		DriverID    *string            `json:"driver_id"`
		Subtotal    decimal.Decimal    `json:"subtotal"`
		DeliveryFee decimal.Decimal    `json:"delivery_fee"`
		Total       decimal.Decimal    `json:"total"`
	} `json:"order"`
}

func TestMarketplaceFlow(t *testing.T) {
	r := setupServer(t)

	// Vendor sets up shop
	vendorToken, _ := register(t, r, "tony", models.RoleVendor)
	w := doJSON(t, r, http.MethodPost, "/api/vendors", vendorToken, gin.H{
		"name":         "Tony's",
		"cuisine":      "italian",
		"address":      "1 Dough Way",
		"delivery_fee": "2.99",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create vendor: %d %s", w.Code, w.Body.String())
	}
	var vendorResp struct {
		Vendor struct {
			ID string `json:"id"`
		} `json:"vendor"`
	}
	decode(t, w, &vendorResp)
	vendorID := vendorResp.Vendor.ID

	// Second profile for the same user is a conflict
	w = doJSON(t, r, http.MethodPost, "/api/vendors", vendorToken, gin.H{
		"name": "Tony's II", "address": "2 Dough Way",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate vendor profile: expected 409, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/menu-items", vendorToken, gin.H{
		"name":     "Margherita",
		"price":    "12.00",
		"category": "pizza",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create menu item: %d %s", w.Code, w.Body.String())
	}
	var itemResp struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	}
	decode(t, w, &itemResp)

	// Menu is publicly visible
	w = doJSON(t, r, http.MethodGet, "/api/menu-items/"+vendorID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list menu: %d %s", w.Code, w.Body.String())
	}

	// Customer checks out two pizzas
	customerToken, _ := register(t, r, "cara", models.RoleCustomer)
	w = doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"vendor_id":        vendorID,
		"delivery_address": "9 Hungry St",
		"customer_phone":   "555-0101",
		"items": []gin.H{
			{"menu_item_id": itemResp.Item.ID, "quantity": 2},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: %d %s", w.Code, w.Body.String())
	}
	var created orderResponse
	decode(t, w, &created)
	if created.Order.Status != models.StatusPending {
		t.Errorf("expected pending, got %s", created.Order.Status)
	}
	if !created.Order.Subtotal.Equal(decimal.New(2400, -2)) || !created.Order.Total.Equal(decimal.New(2699, -2)) {
		t.Errorf("expected 24.00/26.99, got %s/%s", created.Order.Subtotal, created.Order.Total)
	}
	orderID := created.Order.ID

	// Vendor walks the order to ready
	for _, status := range []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusReady} {
		w = doJSON(t, r, http.MethodPut, "/api/orders/"+orderID+"/status", vendorToken, gin.H{"status": status})
		if w.Code != http.StatusOK {
			t.Fatalf("transition to %s: %d %s", status, w.Code, w.Body.String())
		}
	}

	// Drivers get profiles; the order shows in the unassigned pool
	driver1Token, driver1ID := register(t, r, "dana", models.RoleDriver)
	driver2Token, _ := register(t, r, "dave", models.RoleDriver)
	for _, token := range []string{driver1Token, driver2Token} {
		w = doJSON(t, r, http.MethodPost, "/api/drivers", token, gin.H{
			"vehicle_type": "bike", "license_number": "B-123",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create driver: %d %s", w.Code, w.Body.String())
		}
	}
	w = doJSON(t, r, http.MethodGet, "/api/orders/unassigned", driver1Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unassigned pool: %d %s", w.Code, w.Body.String())
	}
	var pool struct {
		Count int `json:"count"`
	}
	decode(t, w, &pool)
	if pool.Count != 1 {
		t.Fatalf("expected 1 order in the pool, got %d", pool.Count)
	}

	// First accept wins, second conflicts
	w = doJSON(t, r, http.MethodPut, "/api/orders/"+orderID+"/status", driver1Token, gin.H{"status": models.StatusPickedUp})
	if w.Code != http.StatusOK {
		t.Fatalf("driver accept: %d %s", w.Code, w.Body.String())
	}
	var picked orderResponse
	decode(t, w, &picked)
	if picked.Order.DriverID == nil || *picked.Order.DriverID != driver1ID {
		t.Fatalf("expected driver1 bound, got %v", picked.Order.DriverID)
	}
	w = doJSON(t, r, http.MethodPut, "/api/orders/"+orderID+"/status", driver2Token, gin.H{"status": models.StatusPickedUp})
	if w.Code != http.StatusConflict {
		t.Fatalf("second accept: expected 409, got %d %s", w.Code, w.Body.String())
	}

	// Delivery, then the order is terminal
	w = doJSON(t, r, http.MethodPut, "/api/orders/"+orderID+"/status", driver1Token, gin.H{"status": models.StatusDelivered})
	if w.Code != http.StatusOK {
		t.Fatalf("deliver: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPut, "/api/orders/"+orderID+"/status", vendorToken, gin.H{"status": models.StatusCancelled})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("cancel of delivered order: expected 422, got %d %s", w.Code, w.Body.String())
	}

	// Histories and per-actor views
	w = doJSON(t, r, http.MethodGet, "/api/orders/"+orderID+"/history", customerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/orders/customer", customerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("customer orders: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/orders/driver", driver1Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("driver orders: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/orders/vendor/"+vendorID, vendorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("vendor orders: %d", w.Code)
	}
}

func TestVendorOrdersOwnershipGate(t *testing.T) {
	r := setupServer(t)
	vendorToken, _ := register(t, r, "owner", models.RoleVendor)
	w := doJSON(t, r, http.MethodPost, "/api/vendors", vendorToken, gin.H{
		"name": "Gated", "address": "1 St",
	})
	var vendorResp struct {
		Vendor struct {
			ID string `json:"id"`
		} `json:"vendor"`
	}
	decode(t, w, &vendorResp)

	strangerToken, _ := register(t, r, "stranger", models.RoleCustomer)
	w = doJSON(t, r, http.MethodGet, "/api/orders/vendor/"+vendorResp.Vendor.ID, strangerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", w.Code)
	}

	adminToken, _ := register(t, r, "boss", models.RoleAdmin)
	w = doJSON(t, r, http.MethodGet, "/api/orders/vendor/"+vendorResp.Vendor.ID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestAuthAndAdminGates(t *testing.T) {
	r := setupServer(t)

	// No token
	w := doJSON(t, r, http.MethodGet, "/api/orders/customer", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// Analytics requires admin
	customerToken, _ := register(t, r, "plain", models.RoleCustomer)
	w = doJSON(t, r, http.MethodGet, "/api/analytics/stats", customerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}
	adminToken, _ := register(t, r, "root", models.RoleAdmin)
	w = doJSON(t, r, http.MethodGet, "/api/analytics/stats", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d %s", w.Code, w.Body.String())
	}

	// Login round-trip
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "plain@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "plain@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", w.Code)
	}
}

func TestMenuItemOwnership(t *testing.T) {
	r := setupServer(t)
	ownerToken, _ := register(t, r, "cook", models.RoleVendor)
	doJSON(t, r, http.MethodPost, "/api/vendors", ownerToken, gin.H{"name": "Cook's", "address": "1 St"})
	w := doJSON(t, r, http.MethodPost, "/api/menu-items", ownerToken, gin.H{"name": "Stew", "price": "8.50"})
	var itemResp struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	}
	decode(t, w, &itemResp)

	// Another vendor cannot edit or delete it
	rivalToken, _ := register(t, r, "rival", models.RoleVendor)
	doJSON(t, r, http.MethodPost, "/api/vendors", rivalToken, gin.H{"name": "Rival's", "address": "2 St"})
	w = doJSON(t, r, http.MethodPut, "/api/menu-items/"+itemResp.Item.ID, rivalToken, gin.H{"price": "0.01"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign edit, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/api/menu-items/"+itemResp.Item.ID, rivalToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign delete, got %d", w.Code)
	}

	// Owner soft-disables; the item leaves the public listing
	w = doJSON(t, r, http.MethodDelete, "/api/menu-items/"+itemResp.Item.ID, ownerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete: %d %s", w.Code, w.Body.String())
	}
}
