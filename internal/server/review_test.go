package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/revloop/revloop/internal/quota"
	reviewdomain "github.com/revloop/revloop/internal/review/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewService struct {
	submitCalls int
	lastSubmit  reviewdomain.SubmitReviewRequest
	submitErr   error
	updateErr   error
}

func (f *fakeReviewService) Submit(ctx context.Context, req reviewdomain.SubmitReviewRequest) (*reviewdomain.Review, reviewdomain.DispatchResult, error) {
	f.submitCalls++
	f.lastSubmit = req
	if f.submitErr != nil {
		return nil, reviewdomain.DispatchSkipped, f.submitErr
	}
	return &reviewdomain.Review{
		ID:     snowflake.ID(100),
		Email:  req.Email,
		Status: reviewdomain.StatusPending,
	}, reviewdomain.DispatchSkipped, nil
}

func (f *fakeReviewService) UpdateStatus(ctx context.Context, req reviewdomain.UpdateStatusRequest) (*reviewdomain.Review, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &reviewdomain.Review{ID: req.ID, Status: req.Status}, nil
}

func (f *fakeReviewService) ListByCompany(ctx context.Context, req reviewdomain.ListReviewRequest) (*reviewdomain.ListReviewResponse, error) {
	return &reviewdomain.ListReviewResponse{}, nil
}

func newReviewRouter(svc reviewdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{reviewSvc: svc}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/v1/public/reviews", srv.SubmitPublicReview)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSubmitPublicReview(t *testing.T) {
	svc := &fakeReviewService{}
	router := newReviewRouter(svc)

	resp := postJSON(router, "/v1/public/reviews", `{
		"email": "jane@example.com",
		"name": "Jane",
		"asin": "B0TESTASIN",
		"rating": 5,
		"feedback": "Arrived quickly and works exactly as described.",
		"marketplace": "amazon.com"
	}`)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, 1, svc.submitCalls)
	assert.Equal(t, "jane@example.com", svc.lastSubmit.Email)
	require.NotNil(t, svc.lastSubmit.ASIN)
	assert.Equal(t, "B0TESTASIN", *svc.lastSubmit.ASIN)

	var payload struct {
		Data reviewdomain.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, reviewdomain.StatusPending, payload.Data.Status)
}

func TestSubmitPublicReviewParsesIDs(t *testing.T) {
	svc := &fakeReviewService{}
	router := newReviewRouter(svc)

	resp := postJSON(router, "/v1/public/reviews", `{
		"email": "jane@example.com",
		"name": "Jane",
		"rating": 5,
		"feedback": "Arrived quickly and works exactly as described.",
		"campaign_id": "12345",
		"company_id": "not-a-number"
	}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, svc.submitCalls)
}

func TestSubmitPublicReviewErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid rating", reviewdomain.ErrInvalidRating, http.StatusBadRequest},
		{"product not in campaign", reviewdomain.ErrProductNotInCampaign, http.StatusBadRequest},
		{"not found", reviewdomain.ErrNotFound, http.StatusNotFound},
		{"quota exceeded", &quota.ExceededError{Resource: quota.ResourcePromotions, Limit: 1}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newReviewRouter(&fakeReviewService{submitErr: tc.err})

			resp := postJSON(router, "/v1/public/reviews", `{
				"email": "jane@example.com",
				"name": "Jane",
				"rating": 5,
				"feedback": "Arrived quickly and works exactly as described."
			}`)
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestSubmitPublicReviewMalformedBody(t *testing.T) {
	router := newReviewRouter(&fakeReviewService{})

	resp := postJSON(router, "/v1/public/reviews", `{"email": `)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
