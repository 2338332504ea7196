package public

import (
	"errors"

	"github.com/lightbike-next/internal/cartview"
	"github.com/lightbike-next/internal/checkout"
	"github.com/lightbike-next/internal/http/response"
	"github.com/lightbike-next/internal/service"
	"github.com/lightbike-next/internal/storefront"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var viewCommonErrorRules = []mappedHandlerError{
	{target: service.ErrViewNotFound, code: response.CodeGone, key: "error.view_not_found"},
	{target: cartview.ErrViewClosed, code: response.CodeGone, key: "error.view_not_found"},
}

var upstreamErrorRules = []mappedHandlerError{
	{target: storefront.ErrUpstreamUnavailable, code: response.CodeBadGateway, key: "error.network_failed"},
	{target: storefront.ErrResponseInvalid, code: response.CodeBadGateway, key: "error.upstream_invalid"},
	{target: storefront.ErrNotFound, code: response.CodeBadGateway, key: "error.upstream_invalid"},
}

var mutationErrorRules = []mappedHandlerError{
	{target: cartview.ErrInvalidAction, code: response.CodeBadRequest, key: "error.cart_action_invalid"},
	{target: cartview.ErrInvalidVariant, code: response.CodeBadRequest, key: "error.variant_invalid"},
	{target: cartview.ErrMutationRejected, code: response.CodeUnprocessable, key: "error.mutation_rejected"},
}

var deliveryErrorRules = []mappedHandlerError{
	{target: checkout.ErrUnknownGroup, code: response.CodeBadRequest, key: "error.delivery_group_invalid"},
	{target: checkout.ErrGroupRequired, code: response.CodeUnprocessable, key: "error.delivery_group_required"},
	{target: checkout.ErrPointRequired, code: response.CodeUnprocessable, key: "error.pickup_point_required"},
	{target: checkout.ErrAddressRequired, code: response.CodeUnprocessable, key: "error.delivery_address_required"},
	{target: checkout.ErrPointNotExpected, code: response.CodeConflict, key: "error.pickup_point_unexpected"},
}

var promoErrorRules = []mappedHandlerError{
	{target: service.ErrPromoCodeRequired, code: response.CodeBadRequest, key: "error.promo_code_required"},
	{target: service.ErrPromoRejected, code: response.CodeUnprocessable, key: "error.promo_rejected"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderIDRequired, code: response.CodeBadRequest, key: "error.order_id_invalid"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderCancelFailed, code: response.CodeBadGateway, key: "error.order_cancel_failed"},
	{target: service.ErrOrderWaitTimeout, code: response.CodeGatewayTimeout, key: "error.order_wait_timeout"},
}

func respondViewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(viewCommonErrorRules, upstreamErrorRules), response.CodeInternal, "error.internal")
}

func respondMutationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(viewCommonErrorRules, mutationErrorRules, upstreamErrorRules), response.CodeInternal, "error.internal")
}

func respondDeliveryError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(viewCommonErrorRules, deliveryErrorRules, upstreamErrorRules), response.CodeInternal, "error.internal")
}

func respondPromoError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(viewCommonErrorRules, promoErrorRules, upstreamErrorRules), response.CodeInternal, "error.internal")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderErrorRules, upstreamErrorRules), response.CodeInternal, "error.internal")
}
