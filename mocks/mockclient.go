package mocks

import (
	"io"
	"net/http"
	"strings"
)

// mocks the parts of http.Client that I use
type MockClient struct {
	Contents   string // file contents to send back
	Url        string // Url to validate
	Err        error  // Error to return on call
	StatusCode int    // Status code to return

	Sent   string // body of the last request passed to Do
	Method string // method of the last request passed to Do
}

func (mc *MockClient) Get(url string) (*http.Response, error) {
	// am I expected to error?
	if mc.Err != nil {
		return nil, mc.Err
	}

	// Do I need to validate the Url?
	if len(mc.Url) != 0 && mc.Url != url {
		return mc.respond(http.StatusNotFound, ""), nil
	}

	return mc.respond(mc.status(), mc.Contents), nil
}

func (mc *MockClient) Do(req *http.Request) (*http.Response, error) {
	if mc.Err != nil {
		return nil, mc.Err
	}

	mc.Method = req.Method
	if req.Body != nil {
		bt, _ := io.ReadAll(req.Body)
		mc.Sent = string(bt)
	}

	if len(mc.Url) != 0 && mc.Url != req.URL.String() {
		return mc.respond(http.StatusNotFound, ""), nil
	}

	return mc.respond(mc.status(), ""), nil
}

func (mc *MockClient) status() int {
	if mc.StatusCode == 0 {
		return http.StatusOK
	}
	return mc.StatusCode
}

func (mc *MockClient) respond(code int, body string) *http.Response {
	return &http.Response{
		Status:     http.StatusText(code),
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
