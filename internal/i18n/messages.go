package i18n

var catalog = map[string]map[string]string{
	LocaleRU: {
		"error.bad_request":               "Некорректный запрос",
		"error.unauthorized":              "Требуется авторизация",
		"error.forbidden":                 "Доступ запрещён",
		"error.not_found":                 "Не найдено",
		"error.internal":                  "Внутренняя ошибка сервера",
		"error.rate_limited":              "Слишком много запросов, попробуйте позже",
		"error.rate_limited_wait":         "Слишком много запросов, повторите через %d с",
		"error.rate_limit_unavailable":    "Ограничение запросов временно недоступно",
		"error.network_failed":            "Ошибка сети. Попробуйте ещё раз.",
		"error.upstream_invalid":          "Магазин вернул некорректный ответ",
		"error.view_not_found":            "Корзина устарела, обновите страницу",
		"error.view_token_invalid":        "Недействительный токен корзины",
		"error.cart_action_invalid":       "Неизвестное действие с товаром",
		"error.variant_invalid":           "Не указан товар",
		"error.mutation_rejected":         "Магазин отклонил изменение корзины",
		"error.delivery_group_invalid":    "Неизвестный способ доставки",
		"error.delivery_group_required":   "Выберите способ доставки",
		"error.pickup_point_required":     "Выберите пункт выдачи",
		"error.delivery_address_required": "Укажите адрес доставки",
		"error.pickup_point_unexpected":   "Пункт выдачи доступен только для самовывоза",
		"error.order_id_invalid":          "Не указан номер заказа",
		"error.order_not_found":           "Заказ не найден.",
		"error.order_cancel_failed":       "Не удалось отменить заказ. Попробуйте позже.",
		"error.order_wait_timeout":        "Статус заказа не изменился",
		"error.queue_unavailable":         "Очередь задач недоступна",
		"error.promo_code_required":       "Введите промокод.",
		"error.promo_rejected":            "Промокод не найден или неприменим.",
		"notice.out_of_stock":             "Больше нет в наличии",
		"notice.out_of_stock_with_stock":  "Доступно только %d шт.",
		"notice.summary_stale":            "Итог корзины может быть неактуален",
		"notice.order_canceled":           "Заказ успешно отменён.",
	},
	LocaleEN: {
		"error.bad_request":               "Bad request",
		"error.unauthorized":              "Unauthorized",
		"error.forbidden":                 "Forbidden",
		"error.not_found":                 "Not found",
		"error.internal":                  "Internal server error",
		"error.rate_limited":              "Too many requests, please try again later",
		"error.rate_limited_wait":         "Too many requests, retry in %d s",
		"error.rate_limit_unavailable":    "Rate limiting is temporarily unavailable",
		"error.network_failed":            "Network error. Please try again.",
		"error.upstream_invalid":          "The shop returned an invalid response",
		"error.view_not_found":            "Cart view expired, please reload the page",
		"error.view_token_invalid":        "Invalid cart view token",
		"error.cart_action_invalid":       "Unknown cart line action",
		"error.variant_invalid":           "Variant is required",
		"error.mutation_rejected":         "The shop rejected the cart change",
		"error.delivery_group_invalid":    "Unknown delivery method",
		"error.delivery_group_required":   "Choose a delivery method",
		"error.pickup_point_required":     "Choose a pickup point",
		"error.delivery_address_required": "Enter a delivery address",
		"error.pickup_point_unexpected":   "Pickup points are only available for pickup delivery",
		"error.order_id_invalid":          "Order number is required",
		"error.order_not_found":           "Order not found.",
		"error.order_cancel_failed":       "Could not cancel the order. Please try again later.",
		"error.order_wait_timeout":        "Order status did not change",
		"error.queue_unavailable":         "Task queue unavailable",
		"error.promo_code_required":       "Enter a promo code.",
		"error.promo_rejected":            "Promo code not found or not applicable.",
		"notice.out_of_stock":             "No more items in stock",
		"notice.out_of_stock_with_stock":  "Only %d left in stock",
		"notice.summary_stale":            "Cart totals may be out of date",
		"notice.order_canceled":           "Order canceled.",
	},
}
