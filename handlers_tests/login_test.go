package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staffing-portal/model"
)

type Test struct {
	description  string
	route        string
	bodyinput    []byte
	expectedCode int
	expectedBody string
}

func TestLogin(t *testing.T) {
	tests := []Test{
		{
			description:  "correct credentials",
			route:        "/login",
			bodyinput:    []byte("{\"login\":\"client_user\",\"password\":\"secret\"}"),
			expectedCode: 200,
			expectedBody: "Success login",
		},
		{
			description:  "wrong password",
			route:        "/login",
			bodyinput:    []byte("{\"login\":\"client_user\",\"password\":\"wrong\"}"),
			expectedCode: 401,
			expectedBody: "Invalid password",
		},
		{
			description:  "unknown login",
			route:        "/login",
			bodyinput:    []byte("{\"login\":\"nobody\",\"password\":\"secret\"}"),
			expectedCode: 401,
			expectedBody: "Invalid password",
		},
		{
			description:  "malformed body",
			route:        "/login",
			bodyinput:    []byte("not json at all"),
			expectedCode: 400,
			expectedBody: "cannot parse credentials",
		}}

	e := newTestApp()
	e.users.byLogin["client_user"] = model.UserData{
		Id:             primitive.NewObjectID(),
		Login:          "client_user",
		HashedPassword: hashPassword("secret"),
		Role:           model.RoleClient,
		EntityId:       primitive.NewObjectID(),
	}

	for _, test := range tests {
		req, _ := http.NewRequest(
			"POST",
			test.route,
			bytes.NewBuffer(test.bodyinput))
		req.Header.Set("Content-Type", "application/json")

		res, _ := e.app.Test(req, -1)

		body := new(strings.Builder)
		_, err := io.Copy(body, res.Body)
		if err != nil {
			assert.Fail(t, "Invalid test, error occured while body parsing")
		}

		assert.Equalf(t, test.expectedCode, res.StatusCode, test.description)
		assert.Containsf(t, body.String(), test.expectedBody, test.description)
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	e := newTestApp()

	req, _ := http.NewRequest("GET", "/booking", nil)
	res, _ := e.app.Test(req, -1)

	assert.Equal(t, 400, res.StatusCode)
}

func TestProtectedRouteWithGarbageToken(t *testing.T) {
	e := newTestApp()

	req, _ := http.NewRequest("GET", "/booking", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res, _ := e.app.Test(req, -1)

	assert.Equal(t, 401, res.StatusCode)
}
