package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/ardanpr/expense-report-portal/internal/auth"
)

var _ = Describe("AuthHandler", func() {
	var (
		handler *auth.Handler
	)

	BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		service := auth.NewService(testUsername, string(hash), auth.NewJWTTokenGenerator(testSecret, time.Hour))
		handler = auth.NewHandler(service)
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	issueToken := func() string {
		rec := login(`{"username":"` + testUsername + `","password":"` + testPassword + `"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var tokens auth.TokenResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(Succeed())
		return tokens.AccessToken
	}

	Describe("Login", func() {
		It("should return a token for valid credentials", func() {
			Expect(issueToken()).NotTo(BeEmpty())
		})

		It("should return 400 for a malformed body", func() {
			rec := login(`{"username":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 when a field is missing", func() {
			rec := login(`{"username":"admin"}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return the same 401 for wrong username and wrong password", func() {
			wrongUser := login(`{"username":"intruder","password":"` + testPassword + `"}`)
			wrongPass := login(`{"username":"` + testUsername + `","password":"nope"}`)

			Expect(wrongUser.Code).To(Equal(http.StatusUnauthorized))
			Expect(wrongPass.Code).To(Equal(http.StatusUnauthorized))
			Expect(wrongUser.Body.String()).To(Equal(wrongPass.Body.String()))
		})
	})

	Describe("AuthMiddleware", func() {
		var (
			nextCalled bool
			protected  http.Handler
		)

		BeforeEach(func() {
			nextCalled = false
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, ok := auth.ClaimsFromContext(r.Context())
				Expect(ok).To(BeTrue())
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}))
		})

		get := func(authHeader string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports", nil)
			if authHeader != "" {
				req.Header.Set("Authorization", authHeader)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			return rec
		}

		It("should reject a missing Authorization header", func() {
			Expect(get("").Code).To(Equal(http.StatusUnauthorized))
			Expect(nextCalled).To(BeFalse())
		})

		It("should reject a non-bearer header", func() {
			Expect(get("Basic dXNlcjpwYXNz").Code).To(Equal(http.StatusUnauthorized))
			Expect(nextCalled).To(BeFalse())
		})

		It("should reject a garbage token", func() {
			Expect(get("Bearer not.a.jwt").Code).To(Equal(http.StatusUnauthorized))
			Expect(nextCalled).To(BeFalse())
		})

		It("should pass a valid token through with claims in context", func() {
			rec := get("Bearer " + issueToken())
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(nextCalled).To(BeTrue())
		})
	})

	Describe("Verify", func() {
		It("should report the token subject", func() {
			claims := &auth.Claims{}
			claims.Subject = testUsername

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/verify", nil)
			req = req.WithContext(auth.WithClaims(req.Context(), claims))
			rec := httptest.NewRecorder()

			handler.Verify(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var body map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["message"]).To(Equal("Token valid"))
			Expect(body["user"]).To(Equal(testUsername))
		})
	})
})
