package response

// AppError 接口错误：业务码、消息键与本地化后的消息
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Key + ": " + e.Message
	}
	return e.Key + ": " + e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误，key 为 i18n 消息键
func WrapError(code int, key, message string, err error) *AppError {
	if message == "" {
		message = key
	}
	return &AppError{
		Code:    code,
		Key:     key,
		Message: message,
		Err:     err,
	}
}
