package response

const (
	CodeOK                 = 0
	CodeBadRequest         = 400
	CodeUnauthorized       = 401
	CodeForbidden          = 403
	CodeNotFound           = 404
	CodeConflict           = 409
	CodeGone               = 410
	CodeUnprocessable      = 422
	CodeTooManyRequests    = 429
	CodeInternal           = 500
	CodeBadGateway         = 502
	CodeServiceUnavailable = 503
	CodeGatewayTimeout     = 504
)
