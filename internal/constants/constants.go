package constants

// 购物车行操作（BFF 侧）
const (
	CartActionIncrement  = "increment"
	CartActionDecrement  = "decrement"
	CartActionRemoveLine = "remove"
)

// 上游变体接口的 action 参数
const (
	UpstreamActionAdd       = "add"
	UpstreamActionRemove    = "remove"
	UpstreamActionRemoveAll = "remove_all"
)

// 上游业务拒绝原因
const (
	UpstreamErrorOutOfStock = "out_of_stock"
	UpstreamErrorBadRequest = "bad_request"
)

// 配送状态
const (
	DeliveryStateUnselected  = "unselected"
	DeliveryStatePickupStore = "pickup_store"
	DeliveryStatePickupPoint = "pickup_point"
	DeliveryStateCourier     = "courier"
)

// 上游提交的配送方式字段值
const (
	DeliveryMethodPickup  = "pvz"
	DeliveryMethodCourier = "courier"
)

// 自提点提供方
const (
	PickupProviderShop    = "shop"
	PickupProviderCarrier = "cdek"
)

// 订单状态
const (
	OrderStatusCreated  = "created"
	OrderStatusPaid     = "paid"
	OrderStatusCanceled = "canceled"
)

// 突变审计结果
const (
	MutationOutcomeApplied  = "applied"
	MutationOutcomeRejected = "rejected"
	MutationOutcomeFailed   = "failed"
)

// 队列名称
const (
	QueueDefault = "default"
)

// 任务类型
const (
	TaskCartMutationAudit = "cart:mutation_audit"
)
