package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appsvc "nytinsight/internal/app"
	"nytinsight/internal/model"
	"nytinsight/internal/pkg/jcsdigest"
	"nytinsight/internal/transport/http/middleware"
	"nytinsight/internal/transport/http/response"
)

type AskService interface {
	Ask(ctx context.Context, input appsvc.AskInput) (*model.AskResult, error)
}

type AskHandler struct {
	askService AskService
}

type AskRequest struct {
	Question string `json:"question" form:"question" binding:"required"`
}

func NewAskHandler(askService AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

// Ask answers GET /api/ask?question=... and POST /api/ask with a JSON body.
// A matching If-None-Match yields 304 on GET and 412 on POST.
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := bindAskRequest(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "question is required")
		return
	}

	result, err := h.askService.Ask(c.Request.Context(), appsvc.AskInput{Question: req.Question})
	if err != nil {
		if errors.Is(err, appsvc.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		requestID, _ := c.Get(middleware.RequestIDKey)
		log.Printf("[%v] ask failed: %v", requestID, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ask failed")
		return
	}

	digest, err := jcsdigest.DigestValue(result)
	if err != nil {
		log.Printf("digest ask result failed: %v", err)
		response.OK(c, result)
		return
	}
	etag := `"` + digest + `"`
	c.Header("ETag", etag)
	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		if isSafeMethod(c.Request.Method) {
			c.AbortWithStatus(http.StatusNotModified)
			return
		}
		response.Error(c, http.StatusPreconditionFailed, response.CodePreconditionFailed, "result unchanged")
		return
	}
	response.OK(c, result)
}

func bindAskRequest(c *gin.Context, req *AskRequest) error {
	if isSafeMethod(c.Request.Method) {
		return c.ShouldBindQuery(req)
	}
	return c.ShouldBindJSON(req)
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
