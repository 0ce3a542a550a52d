package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"balloonshop/identity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func adminEngine(resolver identity.Resolver) *gin.Engine {
	r := gin.New()
	r.Use(Identity(resolver))
	r.GET("/admin", AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": Session(c).UserID})
	})
	return r
}

func TestAdminOnly(t *testing.T) {
	cases := []struct {
		name     string
		resolver identity.Resolver
		header   string
		want     int
	}{
		{"anonymous", identity.Static{}, "", http.StatusUnauthorized},
		{"customer", identity.Static{UserID: "u1", Role: "customer"}, "Bearer x", http.StatusForbidden},
		{"admin", identity.Static{UserID: "u1", Role: identity.RoleAdmin}, "Bearer x", http.StatusOK},
		{"bad token", identity.NewVerifier("k"), "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			adminEngine(tc.resolver).ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestCartSession(t *testing.T) {
	r := gin.New()
	r.Use(CartSession())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, CartSessionID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	minted := w.Body.String()
	assert.Len(t, minted, 36)
	assert.Equal(t, minted, w.Header().Get(CartHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CartCookie, Value: minted})
	r.ServeHTTP(w, req)
	assert.Equal(t, minted, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartHeader, "../../etc")
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "../../etc", w.Body.String())
	assert.Len(t, w.Body.String(), 36)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartHeader, "shopper-0001")
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "shopper-0001", w.Body.String(), "ids that are not uuids are replaced")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartHeader, "urn:uuid:"+minted)
	r.ServeHTTP(w, req)
	assert.Equal(t, minted, w.Body.String(), "canonical form")
}
