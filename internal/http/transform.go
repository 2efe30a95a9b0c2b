package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fastreed/internal/transform"
)

var (
	errMissingText  = errors.New("text is required")
	errInvalidSpeed = errors.New("speed must be an integer")
	errInvalidBody  = errors.New("invalid JSON body")
)

// TransformRequest is accepted as a JSON body. The same fields may be sent
// as query or form parameters instead.
type TransformRequest struct {
	Text  *string `json:"text"`
	Speed *int    `json:"speed,omitempty"`
}

type BionicResponse struct {
	BionicText string `json:"bionic_text"`
}

type TransformController struct {
	defaultSpeed int
}

// NewTransformController creates a controller. A non-positive defaultSpeed
// falls back to transform.DefaultSpeed.
func NewTransformController(defaultSpeed int) *TransformController {
	if defaultSpeed <= 0 {
		defaultSpeed = transform.DefaultSpeed
	}
	return &TransformController{defaultSpeed: defaultSpeed}
}

// Bionic returns bionic-reading markup for the given text.
// POST /bionic
func (tc *TransformController) Bionic(c *gin.Context) {
	req, ok := tc.bind(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, BionicResponse{BionicText: transform.Bionic(*req.Text)})
}

// RSVP splits the given text into words for serial presentation.
// POST /rsvp
func (tc *TransformController) RSVP(c *gin.Context) {
	req, ok := tc.bind(c)
	if !ok {
		return
	}

	speed := req.Speed
	if speed == nil {
		speed = &tc.defaultSpeed
	}

	c.JSON(http.StatusOK, transform.RSVP(*req.Text, speed))
}

func (tc *TransformController) bind(c *gin.Context) (TransformRequest, bool) {
	req, err := bindTransformRequest(c)
	switch {
	case errors.Is(err, errMissingText):
		respondBadRequest(c, "missing_text", err.Error())
		return req, false
	case errors.Is(err, errInvalidSpeed):
		respondBadRequest(c, "invalid_speed", err.Error())
		return req, false
	case err != nil:
		respondBadRequest(c, "invalid_request", err.Error())
		return req, false
	}
	return req, true
}

// bindTransformRequest reads a JSON body first, then fills missing fields
// from query parameters and finally from form values.
func bindTransformRequest(c *gin.Context) (TransformRequest, error) {
	var req TransformRequest

	if c.ContentType() == gin.MIMEJSON && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, errInvalidBody
		}
	}

	if req.Text == nil {
		if v, ok := lookupParam(c, "text"); ok {
			req.Text = &v
		}
	}
	if req.Text == nil {
		return req, errMissingText
	}

	if req.Speed == nil {
		if raw, ok := lookupParam(c, "speed"); ok {
			speed, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return req, errInvalidSpeed
			}
			req.Speed = &speed
		}
	}

	return req, nil
}

func lookupParam(c *gin.Context, key string) (string, bool) {
	if v, ok := c.GetQuery(key); ok {
		return v, true
	}
	if c.ContentType() == gin.MIMEJSON {
		return "", false
	}
	return c.GetPostForm(key)
}
