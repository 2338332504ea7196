package cartview

// StockVerdict 单行库存判定
type StockVerdict struct {
	HasError         bool `json:"has_error"`
	IncrementAllowed bool `json:"increment_allowed"`
}

// Evaluate 数量超过已知库存即为错误；库存未知时既不报错也不限制增加
func Evaluate(line CartLine) StockVerdict {
	if line.Stock == nil {
		return StockVerdict{IncrementAllowed: true}
	}
	stock := *line.Stock
	return StockVerdict{
		HasError:         line.Quantity > stock,
		IncrementAllowed: line.Quantity < stock,
	}
}

func (l *CartLine) applyVerdict(v StockVerdict) {
	l.HasError = v.HasError
	l.IncrementAllowed = v.IncrementAllowed
}
