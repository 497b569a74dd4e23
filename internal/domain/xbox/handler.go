package xbox

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidpech/xbox_link_demo/pkg/response"
)

// MaxBodyBytes caps request bodies read by the HTTP handler.
const MaxBodyBytes = 1 << 20

// Handler exposes the Dispatcher over gin.
type Handler struct {
	dispatcher *Dispatcher
}

// NewHandler returns a Handler.
func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// RegisterRoutes mounts the gateway route for every HTTP method.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Any("/xbox-auth", h.serve)
}

func (h *Handler) serve(c *gin.Context) {
	req, err := requestFromHTTP(c.Request, c.Writer)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, response.ErrorResponse{Error: "payload_too_large", Message: "request body too large"})
			return
		}
		response.InternalServerError(c, err)
		return
	}
	writeResponse(c, h.dispatcher.Handle(req))
}

func requestFromHTTP(r *http.Request, w http.ResponseWriter) (Request, error) {
	req := Request{Method: r.Method, Headers: make(map[string]string, len(r.Header))}
	for key := range r.Header {
		req.Headers[key] = r.Header.Get(key)
	}
	if r.Body == nil {
		return req, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return Request{}, err
	}
	req.Body = string(body)
	return req, nil
}

func writeResponse(c *gin.Context, resp Response) {
	for key, val := range resp.Headers {
		c.Header(key, val)
	}
	c.Status(resp.StatusCode)
	if resp.Body != "" {
		_, _ = c.Writer.WriteString(resp.Body)
	}
}
