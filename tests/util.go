package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aalimaslam/ace-brainiac-admin/apps/api/echo"
	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/services/auth"
	"github.com/aalimaslam/ace-brainiac-admin/storage/inmem"
)

const SecretKey = "t3st-s3cr3t"

var (
	Admin  = core.Identity{ID: "1", Username: "admin", Email: "admin@acebrainiac.test"}
	Member = core.Identity{ID: "2", Username: "wima", Email: "wima@wima.test"}
)

// NewDB returns a store seeded with the demo data.
func NewDB() *inmemdb.DB {
	db := inmemdb.NewDB()
	inmemdb.Seed(db)
	return db
}

// NewAPI returns the development API serving db, authenticated with SecretKey.
func NewAPI(db *inmemdb.DB) echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		SecretKey:      SecretKey,
		DB:             db,
	})
}

// NewServer starts the development API over a seeded store.
// It is closed when the test ends.
func NewServer(t *testing.T) (*httptest.Server, *inmemdb.DB) {
	t.Helper()
	db := NewDB()
	srv := httptest.NewServer(NewAPI(db))
	t.Cleanup(srv.Close)
	return srv, db
}

// Token returns a bearer token for id, signed with SecretKey.
func Token(t *testing.T, id core.Identity, isAdmin bool) string {
	t.Helper()
	claims := authsvc.NewClaims(id, isAdmin, "Ace Brainiac Admin", time.Hour, time.Now())
	token, err := authsvc.GenerateToken(claims, []byte(SecretKey))
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}
