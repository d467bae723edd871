package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteJSON(t *testing.T) {
	Convey("Given a value that cannot be encoded", t, func() {
		w := httptest.NewRecorder()
		writeJSON(w, http.StatusOK, map[string]float64{"x": math.NaN()})

		Convey("Then the response is a 500 with an error body", func() {
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			var resp errorResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, "internal_error")
		})
	})

	Convey("Given a plain value", t, func() {
		w := httptest.NewRecorder()
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", JobID: "j"})

		So(w.Code, ShouldEqual, http.StatusAccepted)
		So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
		So(w.Body.String(), ShouldContainSubstring, `"job_id":"j"`)
	})
}
