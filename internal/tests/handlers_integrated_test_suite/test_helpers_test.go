package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
	"github.com/rogerio-castellano/frame-storefront/internal/cache"
	"github.com/rogerio-castellano/frame-storefront/internal/catalog"
	"github.com/rogerio-castellano/frame-storefront/internal/db"
	handler "github.com/rogerio-castellano/frame-storefront/internal/http/handlers"
	"github.com/rogerio-castellano/frame-storefront/internal/http/router"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/redissvc"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
)

const (
	kvTable    = "kv_store_integration"
	testSecret = "integration-secret"
)

var (
	database   *sql.DB
	store      cache.Store
	verifier   = auth.NewVerifier(testSecret)
	adminToken string
)

// TestMain needs DATABASE_URL; REDIS_ADDR is optional and switches the
// catalog cache to Redis.
func TestMain(m *testing.M) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Println("DATABASE_URL not set, skipping integration tests")
		os.Exit(0)
	}

	ctx := context.Background()
	var err error
	database, err = db.Connect(ctx, dbURL)
	if err != nil {
		fmt.Println("❌ Could not connect to database:", err)
		os.Exit(1)
	}

	store = cache.NewMemoryStore(time.Minute)
	var rs *redissvc.RedisService
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rs, err = redissvc.Connect(ctx, addr)
		if err != nil {
			fmt.Println("❌ Could not connect to Redis:", err)
			os.Exit(1)
		}
		store = cache.NewRedisStore(rs.Rdb(), time.Minute)
	}

	if err := createTable(ctx); err != nil {
		fmt.Println("❌ Could not create kv table:", err)
		os.Exit(1)
	}
	adminToken, err = verifier.GenerateToken(auth.Identity{UserID: "admin-1", Admin: true}, time.Hour)
	if err != nil {
		fmt.Println("error generating token:", err)
		os.Exit(1)
	}

	code := m.Run()

	_, _ = database.ExecContext(ctx, "DROP TABLE IF EXISTS "+kvTable)
	_ = database.Close()
	if rs != nil {
		_ = rs.Close()
	}
	os.Exit(code)
}

func createTable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := database.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+kvTable+` (key TEXT PRIMARY KEY, value JSONB NOT NULL)`)
	return err
}

func clearAllProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := database.ExecContext(ctx, "DELETE FROM "+kvTable); err != nil {
		fmt.Println(fmt.Errorf("failed to clear kv table: %w", err))
	}
	if err := store.Delete(ctx); err != nil {
		fmt.Println(fmt.Errorf("failed to clear catalog cache: %w", err))
	}
}

func insertProduct(t *testing.T, p models.Product) {
	t.Helper()
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("failed to encode product: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	query := `INSERT INTO ` + kvTable + ` (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := database.ExecContext(ctx, query, "product:"+p.ID, string(raw)); err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}
}

// newRouter serves the catalog straight from the kv table, behind the cache.
func newRouter(t *testing.T) http.Handler {
	t.Helper()
	products, err := repo.NewPostgresProductRepository(database, kvTable)
	if err != nil {
		t.Fatalf("failed to build repository: %v", err)
	}
	cached := cache.NewCachedProductRepository(products, store, zap.NewNop())
	gallery := repo.NewInMemoryGalleryRepository()

	s := &handler.Server{
		Catalog: catalog.NewService(cached, zap.NewNop()),
		Gallery: gallery,
		Metrics: repo.NewCatalogMetricsRepository(cached, gallery),
		Health:  map[string]handler.HealthCheck{"postgres": database.PingContext},
		Log:     zap.NewNop(),
	}
	return router.NewRouter(s, router.Options{Tokens: verifier, Log: zap.NewNop()})
}

func doRequest(r http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
