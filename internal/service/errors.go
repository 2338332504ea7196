package service

import "errors"

var (
	ErrViewNotFound      = errors.New("cart view not found")
	ErrViewTokenInvalid  = errors.New("cart view token invalid")
	ErrViewTokenMismatch = errors.New("cart view token does not match view")
	ErrOrderIDRequired   = errors.New("order id required")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderCancelFailed = errors.New("order cancel failed")
	ErrOrderWaitTimeout  = errors.New("order status wait timeout")
	ErrQueueUnavailable  = errors.New("task queue unavailable")
	ErrPromoCodeRequired = errors.New("promo code required")
	ErrPromoRejected     = errors.New("promo code rejected")
)
