package dto

// Response is the envelope every route returns: a machine-readable success
// flag plus a human-readable message. Business-rule rejections come back as
// condition=false with HTTP 200.
type Response struct {
	Condition bool   `json:"condition"`
	Message   string `json:"message"`
}

func OK(msg string) Response   { return Response{Condition: true, Message: msg} }
func Fail(msg string) Response { return Response{Condition: false, Message: msg} }
