package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/fastreed/internal/transform"
)

func transformRouter(defaultSpeed int) *gin.Engine {
	controller := NewTransformController(defaultSpeed)
	router := gin.New()
	router.POST("/bionic", controller.Bionic)
	router.POST("/rsvp", controller.RSVP)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postQuery(router *gin.Engine, path string, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path+"?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, path string, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(params.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTransformController_Bionic(t *testing.T) {
	router := transformRouter(0)

	t.Run("json body", func(t *testing.T) {
		w := postJSON(router, "/bionic", `{"text":"reading is fun"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"bionic_text":"<b>rea</b>ding is fun"}`, w.Body.String())
	})

	t.Run("query parameter", func(t *testing.T) {
		w := postQuery(router, "/bionic", url.Values{"text": {"reading is fun"}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"bionic_text":"<b>rea</b>ding is fun"}`, w.Body.String())
	})

	t.Run("form value", func(t *testing.T) {
		w := postForm(router, "/bionic", url.Values{"text": {"word"}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"bionic_text":"<b>wo</b>rd"}`, w.Body.String())
	})

	t.Run("empty text is allowed", func(t *testing.T) {
		w := postJSON(router, "/bionic", `{"text":""}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"bionic_text":""}`, w.Body.String())
	})

	t.Run("missing text", func(t *testing.T) {
		w := postJSON(router, "/bionic", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "missing_text", decodeError(t, w).Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(router, "/bionic", `{"text":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", decodeError(t, w).Code)
	})
}

func TestTransformController_RSVP(t *testing.T) {
	router := transformRouter(0)

	decode := func(t *testing.T, w *httptest.ResponseRecorder) transform.RSVPResult {
		t.Helper()
		var result transform.RSVPResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		return result
	}

	t.Run("default speed", func(t *testing.T) {
		w := postQuery(router, "/rsvp", url.Values{"text": {"one two three"}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"words":["one","two","three"],"speed":300}`, w.Body.String())
	})

	t.Run("explicit speed in json", func(t *testing.T) {
		w := postJSON(router, "/rsvp", `{"text":"  one   two ","speed":450}`)

		assert.Equal(t, http.StatusOK, w.Code)
		result := decode(t, w)
		assert.Equal(t, []string{"one", "two"}, result.Words)
		assert.Equal(t, 450, result.Speed)
	})

	t.Run("speed is passed through unvalidated", func(t *testing.T) {
		for _, speed := range []int{0, -25} {
			w := postQuery(router, "/rsvp", url.Values{"text": {"go"}, "speed": {strconv.Itoa(speed)}})

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, speed, decode(t, w).Speed)
		}
	})

	t.Run("non-integer speed", func(t *testing.T) {
		w := postQuery(router, "/rsvp", url.Values{"text": {"go"}, "speed": {"fast"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_speed", decodeError(t, w).Code)
	})

	t.Run("non-integer speed in json", func(t *testing.T) {
		w := postJSON(router, "/rsvp", `{"text":"go","speed":2.5}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty text yields empty word list", func(t *testing.T) {
		w := postJSON(router, "/rsvp", `{"text":"   "}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"words":[],"speed":300}`, w.Body.String())
	})

	t.Run("configured default speed", func(t *testing.T) {
		w := postQuery(transformRouter(500), "/rsvp", url.Values{"text": {"go"}})

		assert.Equal(t, 500, decode(t, w).Speed)
	})
}
